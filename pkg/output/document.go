package output

import (
	"encoding/json"
	stderrors "errors"
	"io"

	"github.com/arthur-debert/q2usage/pkg/errors"
	"github.com/arthur-debert/q2usage/pkg/plugin"
	"github.com/arthur-debert/q2usage/pkg/render"
	"github.com/arthur-debert/q2usage/pkg/usage"
	"gopkg.in/yaml.v3"
)

// Document is the rendered result for a set of actions
type Document struct {
	Program string      `json:"program" yaml:"program"`
	Actions []ActionDoc `json:"actions" yaml:"actions"`
}

// ActionDoc holds one action's signature and rendered examples
type ActionDoc struct {
	Plugin      string       `json:"plugin" yaml:"plugin"`
	Action      string       `json:"action" yaml:"action"`
	Command     string       `json:"command" yaml:"command"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Inputs      []SlotDoc    `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Parameters  []SlotDoc    `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Outputs     []SlotDoc    `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Examples    []ExampleDoc `json:"examples" yaml:"examples"`
}

// SlotDoc describes one slot of an action signature
type SlotDoc struct {
	Name   string `json:"name" yaml:"name"`
	Option string `json:"option" yaml:"option"`
	Type   string `json:"type" yaml:"type"`
}

// ExampleDoc is one rendered example
type ExampleDoc struct {
	Name   string `json:"name" yaml:"name"`
	Header string `json:"header" yaml:"header"`
	Text   string `json:"text" yaml:"text"`
}

// Build renders every example of actions into a Document. A failing example
// aborts the build.
func Build(actions []*plugin.Action, ropts ...render.Option) (*Document, error) {
	opts := render.NewOptions(ropts...)
	doc := &Document{Program: opts.Program, Actions: make([]ActionDoc, 0, len(actions))}

	for _, a := range actions {
		ad := ActionDoc{
			Plugin:      a.PluginID,
			Action:      a.ID,
			Command:     opts.Normalize(opts.Program + " " + a.PluginID + " " + a.ID),
			Description: a.Description,
			Inputs:      slotDocs("i", a.Signature.Inputs, opts),
			Parameters:  slotDocs("p", a.Signature.Parameters, opts),
			Outputs:     slotDocs("o", a.Signature.Outputs, opts),
			Examples:    []ExampleDoc{},
		}
		blocks, err := render.RenderSet(a, ropts...)
		if err != nil {
			wrapped := errors.Wrapf(err, errors.GetErrorCode(err), "action %s", a.FullName()).
				WithDetail("action", a.FullName())
			var exErr *render.ExampleError
			if stderrors.As(err, &exErr) {
				wrapped = wrapped.WithDetail("example", exErr.Name)
			}
			return nil, wrapped
		}
		for _, b := range blocks {
			ad.Examples = append(ad.Examples, ExampleDoc(b))
		}
		doc.Actions = append(doc.Actions, ad)
	}
	return doc, nil
}

func slotDocs(prefix string, slots []usage.Slot, opts render.Options) []SlotDoc {
	out := make([]SlotDoc, 0, len(slots))
	for _, s := range slots {
		option := opts.Flag(prefix, s.Name)
		if prefix == "p" && opts.IsMetadata(s.Type) {
			option = opts.Flag("m", s.Name) + "-file"
		}
		out = append(out, SlotDoc{Name: s.Name, Option: option, Type: s.Type.String()})
	}
	return out
}

// Text lays out every example of every action the way render.Examples lays
// out a single action.
func (d *Document) Text() string {
	var blocks []render.Block
	for _, a := range d.Actions {
		for _, ex := range a.Examples {
			blocks = append(blocks, render.Block(ex))
		}
	}
	return render.Join(blocks)
}

// WriteJSON writes the document as indented JSON
func (d *Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return errors.Wrap(err, errors.ErrOutputFormat, "failed to encode JSON")
	}
	return nil
}

// WriteYAML writes the document as YAML
func (d *Document) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return errors.Wrap(err, errors.ErrOutputFormat, "failed to encode YAML")
	}
	return enc.Close()
}
