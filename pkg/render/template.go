package render

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/q2usage/pkg/usage"
)

// continuation joins the lines of a command
const continuation = " \\\n"

// signature is an action signature split by how each slot is rendered
type signature struct {
	inputs  []usage.Slot
	params  []usage.Slot
	mds     []usage.Slot
	outputs []usage.Slot
}

// option is a binding matched to the slot it fills
type option struct {
	name  string
	value usage.Value
	slot  usage.Slot
}

// options holds bindings split the same way as signature
type options struct {
	inputs  []option
	params  []option
	mds     []option
	outputs []option
}

func (r *Renderer) destructureSignature(sig usage.Signature) signature {
	s := signature{
		inputs:  append([]usage.Slot(nil), sig.Inputs...),
		outputs: append([]usage.Slot(nil), sig.Outputs...),
	}
	for _, p := range sig.Parameters {
		if r.opts.IsMetadata(p.Type) {
			s.mds = append(s.mds, p)
		} else {
			s.params = append(s.params, p)
		}
	}
	return s
}

func find(slots []usage.Slot, name string) (usage.Slot, bool) {
	for _, s := range slots {
		if s.Name == name {
			return s, true
		}
	}
	return usage.Slot{}, false
}

func (r *Renderer) destructureOptions(sig signature, inputs, outputs usage.Bindings) options {
	var o options
	for _, b := range inputs {
		if slot, ok := find(sig.inputs, b.Name); ok {
			o.inputs = append(o.inputs, option{b.Name, b.Value, slot})
		} else if slot, ok := find(sig.params, b.Name); ok {
			o.params = append(o.params, option{b.Name, b.Value, slot})
		} else if slot, ok := find(sig.mds, b.Name); ok {
			o.mds = append(o.mds, option{b.Name, b.Value, slot})
		} else {
			r.opts.Logger.Warn().Str("option", b.Name).Msg("Dropping input binding not in action signature")
		}
	}
	for _, b := range outputs {
		if slot, ok := find(sig.outputs, b.Name); ok {
			o.outputs = append(o.outputs, option{b.Name, b.Value, slot})
		} else {
			r.opts.Logger.Warn().Str("option", b.Name).Msg("Dropping output binding not in action signature")
		}
	}
	return o
}

func (r *Renderer) templateAction(action usage.ActionDescriptor, inputs, outputs usage.Bindings) (string, error) {
	info, actionSig, err := action.GetAction()
	if err != nil {
		return "", err
	}

	sig := r.destructureSignature(actionSig)
	opts := r.destructureOptions(sig, inputs, outputs)

	var templates []string
	templates = append(templates, r.templateInputs(opts.inputs)...)
	templates = append(templates, r.templateParameters(opts.params)...)
	templates = append(templates, r.templateMetadata(opts.mds)...)
	templates = append(templates, r.templateOutputs(opts.outputs)...)

	baseCmd := r.opts.Normalize(fmt.Sprintf("%s %s %s", r.opts.Program, info.PluginID, info.ID))

	r.opts.Logger.Debug().
		Str("plugin", info.PluginID).
		Str("action", info.ID).
		Int("options", len(templates)).
		Msg("Rendered action")

	return r.formatTemplates(baseCmd, templates), nil
}

func (r *Renderer) formatTemplates(command string, templates []string) string {
	indent := strings.Repeat(" ", r.opts.Indent)
	lines := make([]string, 0, len(templates)+1)
	lines = append(lines, command)
	for _, t := range templates {
		lines = append(lines, fill(t, indent, r.opts.Width))
	}
	return strings.Join(lines, continuation)
}

func (r *Renderer) templateInputs(opts []option) []string {
	var out []string
	for _, o := range opts {
		for _, ref := range usage.Values(o.value) {
			out = append(out, fmt.Sprintf("%s %s.qza", r.opts.Flag("i", o.name), ref.Token()))
		}
	}
	return out
}

func (r *Renderer) templateParameters(opts []option) []string {
	var out []string
	for _, o := range opts {
		for _, v := range usage.Sorted(usage.Values(o.value)) {
			out = append(out, fmt.Sprintf("%s %s", r.opts.Flag("p", o.name), v.Token()))
		}
	}
	return out
}

func (r *Renderer) templateMetadata(opts []option) []string {
	var out []string
	for _, o := range opts {
		name := r.opts.Flag("m", o.name)
		for _, ref := range usage.Values(o.value) {
			out = append(out, fmt.Sprintf("%s-file %s.tsv", name, ref.Token()))
			if col, ok := ref.(usage.ColumnRef); ok && col.HasColumn() {
				out = append(out, fmt.Sprintf("%s-column '%s'", name, col.Column))
			}
		}
	}
	return out
}

func (r *Renderer) templateOutputs(opts []option) []string {
	var out []string
	for _, o := range opts {
		if o.value == nil {
			continue
		}
		ext := "qza"
		if r.opts.IsVisualization(o.slot.Type) {
			ext = "qzv"
		}
		out = append(out, fmt.Sprintf("%s %s.%s", r.opts.Flag("o", o.name), o.value.Token(), ext))
	}
	return out
}
