package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/q2usage/pkg/errors"
	"github.com/arthur-debert/q2usage/pkg/usage"
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Step block types, named after the usage hooks they drive
const (
	stepInitData           = "init_data"
	stepInitMetadata       = "init_metadata"
	stepInitDataCollection = "init_data_collection"
	stepMergeMetadata      = "merge_metadata"
	stepGetMetadataColumn  = "get_metadata_column"
	stepComment            = "comment"
	stepUseAction          = "use_action"
	stepAssert             = "assert_has_line_matching"
)

var exampleSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: stepInitData, LabelNames: []string{"ref"}},
		{Type: stepInitMetadata, LabelNames: []string{"ref"}},
		{Type: stepInitDataCollection, LabelNames: []string{"ref"}},
		{Type: stepMergeMetadata, LabelNames: []string{"ref"}},
		{Type: stepGetMetadataColumn, LabelNames: []string{"ref"}},
		{Type: stepComment},
		{Type: stepUseAction, LabelNames: []string{"plugin", "action"}},
		{Type: stepAssert},
	},
}

var stepSchemas = map[string]*hcl.BodySchema{
	stepInitData: {Attributes: []hcl.AttributeSchema{
		{Name: "content"},
		{Name: "source"},
	}},
	stepInitMetadata: {Attributes: []hcl.AttributeSchema{
		{Name: "content"},
		{Name: "source"},
	}},
	stepInitDataCollection: {Attributes: []hcl.AttributeSchema{
		{Name: "kind"},
		{Name: "records", Required: true},
	}},
	stepMergeMetadata: {Attributes: []hcl.AttributeSchema{
		{Name: "records", Required: true},
	}},
	stepGetMetadataColumn: {Attributes: []hcl.AttributeSchema{
		{Name: "column", Required: true},
		{Name: "record", Required: true},
	}},
	stepComment: {Attributes: []hcl.AttributeSchema{
		{Name: "text", Required: true},
	}},
	stepUseAction: {Blocks: []hcl.BlockHeaderSchema{
		{Type: "inputs"},
		{Type: "outputs"},
	}},
	stepAssert: {Attributes: []hcl.AttributeSchema{
		{Name: "ref", Required: true},
		{Name: "label"},
		{Name: "path"},
		{Name: "expression", Required: true},
	}},
}

// step is one parsed block of an example body
type step struct {
	kind   string
	labels []string
	attrs  hcl.Attributes
	rng    hcl.Range

	// use_action only, in source order
	inputs  []*hcl.Attribute
	outputs []*hcl.Attribute
}

func (s *step) ref() string {
	if len(s.labels) == 0 {
		return ""
	}
	return s.labels[0]
}

// example is a recorded scenario, replayed lazily
type example struct {
	name     string
	steps    []*step
	registry *Registry
	baseDir  string
}

// parseSteps validates an example body and keeps its blocks in source order
func parseSteps(body hcl.Body) ([]*step, hcl.Diagnostics) {
	content, diags := body.Content(exampleSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	steps := make([]*step, 0, len(content.Blocks))
	for _, block := range content.Blocks {
		st := &step{kind: block.Type, labels: block.Labels, rng: block.DefRange}

		inner, innerDiags := block.Body.Content(stepSchemas[block.Type])
		diags = append(diags, innerDiags...)
		if innerDiags.HasErrors() {
			continue
		}
		st.attrs = inner.Attributes

		if block.Type == stepUseAction {
			for _, b := range inner.Blocks {
				attrs, attrDiags := orderedAttributes(b.Body)
				diags = append(diags, attrDiags...)
				if b.Type == "inputs" {
					st.inputs = append(st.inputs, attrs...)
				} else {
					st.outputs = append(st.outputs, attrs...)
				}
			}
		}
		steps = append(steps, st)
	}
	return steps, diags
}

// orderedAttributes returns a block's attributes in the order they were written
func orderedAttributes(body hcl.Body) ([]*hcl.Attribute, hcl.Diagnostics) {
	attrs, diags := body.JustAttributes()
	out := make([]*hcl.Attribute, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Range.Start.Byte < out[j].Range.Start.Byte
	})
	return out, diags
}

// scope tracks the records an example has created so far
type scope struct {
	example *example
	records map[string]usage.Record
	vars    map[string]cty.Value
}

func (e *example) replay(use usage.Usage) error {
	s := &scope{
		example: e,
		records: make(map[string]usage.Record),
		vars:    make(map[string]cty.Value),
	}
	for _, st := range e.steps {
		if err := s.apply(use, st); err != nil {
			return err
		}
	}
	return nil
}

func (s *scope) evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{Variables: s.vars}
}

func (s *scope) define(ref string, v usage.Value) error {
	cv, err := toCty(v)
	if err != nil {
		return err
	}
	s.records[ref] = usage.Record{Ref: ref, Value: v}
	s.vars[ref] = cv
	return nil
}

func (s *scope) apply(use usage.Usage, st *step) error {
	switch st.kind {
	case stepInitData, stepInitMetadata:
		kind := KindData
		if st.kind == stepInitMetadata {
			kind = KindMetadata
		}
		factory, err := s.factory(st, kind)
		if err != nil {
			return err
		}
		var v usage.Value
		if kind == KindMetadata {
			v = use.InitMetadata(st.ref(), factory)
		} else {
			v = use.InitData(st.ref(), factory)
		}
		return s.define(st.ref(), v)

	case stepInitDataCollection:
		kind := usage.CollectionList
		if attr, ok := st.attrs["kind"]; ok {
			k, err := s.evalString(attr)
			if err != nil {
				return err
			}
			kind = usage.CollectionKind(k)
		}
		records, err := s.recordList(st.attrs["records"])
		if err != nil {
			return err
		}
		return s.define(st.ref(), use.InitDataCollection(st.ref(), kind, records...))

	case stepMergeMetadata:
		records, err := s.recordList(st.attrs["records"])
		if err != nil {
			return err
		}
		return s.define(st.ref(), use.MergeMetadata(st.ref(), records...))

	case stepGetMetadataColumn:
		column, err := s.evalString(st.attrs["column"])
		if err != nil {
			return err
		}
		record, err := s.record(st.attrs["record"].Expr)
		if err != nil {
			return err
		}
		return s.define(st.ref(), use.GetMetadataColumn(column, record))

	case stepComment:
		text, err := s.evalString(st.attrs["text"])
		if err != nil {
			return err
		}
		use.Comment(text)
		return nil

	case stepUseAction:
		return s.useAction(use, st)

	case stepAssert:
		values := make(map[string]string, 4)
		for _, name := range []string{"ref", "label", "path", "expression"} {
			if attr, ok := st.attrs[name]; ok {
				v, err := s.evalString(attr)
				if err != nil {
					return err
				}
				values[name] = v
			}
		}
		use.AssertHasLineMatching(values["ref"], values["label"], values["path"], values["expression"])
		return nil
	}
	return s.fail(st.rng, fmt.Errorf("unsupported step %q", st.kind))
}

func (s *scope) useAction(use usage.Usage, st *step) error {
	action := ActionRef{Registry: s.example.registry, PluginID: st.labels[0], ActionID: st.labels[1]}

	var inputs usage.Bindings
	for _, attr := range st.inputs {
		v, err := s.evalValue(attr)
		if err != nil {
			return err
		}
		inputs = append(inputs, usage.Binding{Name: attr.Name, Value: v})
	}

	var outputs usage.Bindings
	for _, attr := range st.outputs {
		ref, err := s.evalString(attr)
		if err != nil {
			return err
		}
		outputs = append(outputs, usage.Binding{Name: attr.Name, Value: usage.String(ref)})
	}

	results, err := use.Action(action, inputs, outputs)
	if err != nil {
		return err
	}
	for _, b := range results {
		ref := b.Value.Token()
		if err := s.define(ref, b.Value); err != nil {
			return err
		}
	}
	return nil
}

// factory builds the lazy loader for an init_data/init_metadata step
func (s *scope) factory(st *step, kind DataKind) (usage.Factory, error) {
	ref := st.ref()
	if attr, ok := st.attrs["content"]; ok {
		content, err := s.evalString(attr)
		if err != nil {
			return nil, err
		}
		return func() (any, error) {
			return &Datum{Ref: ref, Kind: kind, Content: []byte(content)}, nil
		}, nil
	}

	if attr, ok := st.attrs["source"]; ok {
		source, err := s.evalString(attr)
		if err != nil {
			return nil, err
		}
		if !filepath.IsAbs(source) {
			source = filepath.Join(s.example.baseDir, source)
		}
		return func() (any, error) {
			content, err := os.ReadFile(source)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrDataMaterialize, "cannot read example data for %s", ref).
					WithDetail("path", source)
			}
			return &Datum{Ref: ref, Kind: kind, Content: content}, nil
		}, nil
	}

	return func() (any, error) {
		return &Datum{Ref: ref, Kind: kind}, nil
	}, nil
}

func (s *scope) evalValue(attr *hcl.Attribute) (usage.Value, error) {
	val, diags := attr.Expr.Value(s.evalContext())
	if diags.HasErrors() {
		return nil, s.fail(attr.Range, diags)
	}
	v, err := fromCty(val)
	if err != nil {
		return nil, s.fail(attr.Range, fmt.Errorf("%s: %w", attr.Name, err))
	}
	return v, nil
}

func (s *scope) evalString(attr *hcl.Attribute) (string, error) {
	val, diags := attr.Expr.Value(s.evalContext())
	if diags.HasErrors() {
		return "", s.fail(attr.Range, diags)
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil || str.IsNull() || !str.IsKnown() {
		return "", s.fail(attr.Range, fmt.Errorf("%s must be a string", attr.Name))
	}
	return str.AsString(), nil
}

// record resolves a bare variable reference to the record it names
func (s *scope) record(expr hcl.Expression) (usage.Record, error) {
	trav, diags := hcl.AbsTraversalForExpr(expr)
	if diags.HasErrors() {
		return usage.Record{}, s.fail(expr.Range(), diags)
	}
	name := trav.RootName()
	rec, ok := s.records[name]
	if !ok {
		return usage.Record{}, s.fail(expr.Range(), fmt.Errorf("unknown reference %q", name))
	}
	return rec, nil
}

func (s *scope) recordList(attr *hcl.Attribute) ([]usage.Record, error) {
	exprs, diags := hcl.ExprList(attr.Expr)
	if diags.HasErrors() {
		return nil, s.fail(attr.Range, diags)
	}
	records := make([]usage.Record, 0, len(exprs))
	for _, e := range exprs {
		rec, err := s.record(e)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *scope) fail(rng hcl.Range, err error) error {
	return errors.Wrapf(err, errors.ErrExampleReplay, "example %q at %s", s.example.name, rng).
		WithDetail("example", s.example.name)
}
