package render

import (
	"strings"

	"github.com/arthur-debert/q2usage/pkg/usage"
)

// Renderer records the command-line form of a replayed usage example
type Renderer struct {
	opts Options

	recorder []string

	// refs keeps registration order of dataRefs
	refs     []string
	dataRefs map[string]usage.Factory
}

var _ usage.Usage = (*Renderer)(nil)

// New creates an empty Renderer
func New(opts ...Option) *Renderer {
	return &Renderer{
		opts:     NewOptions(opts...),
		dataRefs: make(map[string]usage.Factory),
	}
}

func (r *Renderer) register(ref string, factory usage.Factory) {
	if _, exists := r.dataRefs[ref]; !exists {
		r.refs = append(r.refs, ref)
	}
	r.dataRefs[ref] = factory
}

// InitData registers factory under ref and hands ref back unchanged
func (r *Renderer) InitData(ref string, factory usage.Factory) usage.Value {
	r.register(ref, factory)
	return usage.String(ref)
}

// InitMetadata registers factory under ref and hands ref back unchanged
func (r *Renderer) InitMetadata(ref string, factory usage.Factory) usage.Value {
	r.register(ref, factory)
	return usage.String(ref)
}

// InitDataCollection returns the records' references in sorted order
func (r *Renderer) InitDataCollection(ref string, kind usage.CollectionKind, records ...usage.Record) usage.Value {
	return usage.SortedRefs(records...)
}

// MergeMetadata returns the records' references in sorted order
func (r *Renderer) MergeMetadata(ref string, records ...usage.Record) usage.Value {
	return usage.SortedRefs(records...)
}

// GetMetadataColumn pairs the record's reference with the column name
func (r *Renderer) GetMetadataColumn(column string, record usage.Record) usage.Value {
	return usage.ColumnRef{Ref: usage.String(record.Ref), Column: column}
}

// Comment adds a "# text" line to the transcript
func (r *Renderer) Comment(text string) {
	r.recorder = append(r.recorder, "# "+text)
}

// Action renders one command for the action and returns outputs unchanged
func (r *Renderer) Action(action usage.ActionDescriptor, inputs usage.Bindings, outputs usage.Bindings) (usage.Bindings, error) {
	t, err := r.templateAction(action, inputs, outputs)
	if err != nil {
		return nil, err
	}
	r.recorder = append(r.recorder, t)
	return outputs, nil
}

// AssertHasLineMatching has no command-line form
func (r *Renderer) AssertHasLineMatching(ref, label, path, expression string) {
	r.opts.Logger.Debug().
		Str("ref", ref).
		Str("label", label).
		Msg("Ignoring assertion, nothing to render")
}

// Render returns the transcript so far, one entry per line
func (r *Renderer) Render() string {
	return strings.Join(r.recorder, "\n")
}

// DataRefs lists the registered example data references in registration order
func (r *Renderer) DataRefs() []string {
	out := make([]string, len(r.refs))
	copy(out, r.refs)
	return out
}

// GetExampleData materializes every registered factory
func (r *Renderer) GetExampleData() (map[string]any, error) {
	data := make(map[string]any, len(r.refs))
	for _, ref := range r.refs {
		v, err := r.dataRefs[ref]()
		if err != nil {
			return nil, err
		}
		data[ref] = v
	}
	return data, nil
}
