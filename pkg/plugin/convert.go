package plugin

import (
	"fmt"
	"math"
	"math/big"

	"github.com/arthur-debert/q2usage/pkg/usage"
	"github.com/zclconf/go-cty/cty"
)

// fromCty turns an evaluated HCL expression into a usage.Value. An object
// with a "ref" attribute (and optionally "column") becomes a ColumnRef.
func fromCty(v cty.Value) (usage.Value, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return usage.String(v.AsString()), nil

	case ty == cty.Bool:
		return usage.Bool(v.True()), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return usage.Int(i), nil
			}
		}
		f, _ := bf.Float64()
		return usage.Float(f), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		list := make(usage.List, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			item, err := fromCty(ev)
			if err != nil {
				return nil, err
			}
			if item != nil {
				list = append(list, item)
			}
		}
		return list, nil

	case ty.IsObjectType() && ty.HasAttribute("ref"):
		ref := v.GetAttr("ref")
		if ref.Type() != cty.String || ref.IsNull() {
			return nil, fmt.Errorf("ref must be a string")
		}
		col := usage.ColumnRef{Ref: usage.String(ref.AsString())}
		if ty.HasAttribute("column") {
			c := v.GetAttr("column")
			if !c.IsNull() {
				if c.Type() != cty.String {
					return nil, fmt.Errorf("column must be a string")
				}
				col.Column = c.AsString()
			}
		}
		return col, nil
	}
	return nil, fmt.Errorf("unsupported value of type %s", ty.FriendlyName())
}

// toCty exposes a record's value as an HCL variable
func toCty(v usage.Value) (cty.Value, error) {
	switch t := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case usage.String:
		return cty.StringVal(string(t)), nil
	case usage.Int:
		return cty.NumberIntVal(int64(t)), nil
	case usage.Float:
		if math.IsNaN(float64(t)) {
			return cty.NilVal, fmt.Errorf("NaN cannot be referenced")
		}
		return cty.NumberFloatVal(float64(t)), nil
	case usage.Bool:
		return cty.BoolVal(bool(t)), nil
	case usage.ColumnRef:
		attrs := map[string]cty.Value{"ref": cty.StringVal(string(t.Ref))}
		if t.HasColumn() {
			attrs["column"] = cty.StringVal(t.Column)
		}
		return cty.ObjectVal(attrs), nil
	case usage.List:
		if len(t) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, len(t))
		for i, e := range t {
			ev, err := toCty(e)
			if err != nil {
				return cty.NilVal, err
			}
			elems[i] = ev
		}
		return cty.TupleVal(elems), nil
	}
	return cty.NilVal, fmt.Errorf("unsupported value %T", v)
}
