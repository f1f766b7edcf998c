package hcl

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// GoToCty converts plain Go values, as produced by decoding JSON or YAML,
// into cty values. Maps become objects and slices become tuples so that
// elements can hold mixed types.
func GoToCty(v any) (cty.Value, error) {
	if v == nil {
		return cty.NullVal(cty.DynamicPseudoType), nil
	}

	switch val := v.(type) {
	case string:
		return cty.StringVal(val), nil
	case int:
		return cty.NumberIntVal(int64(val)), nil
	case int64:
		return cty.NumberIntVal(val), nil
	case float64:
		return cty.NumberFloatVal(val), nil
	case bool:
		return cty.BoolVal(val), nil
	case []string:
		if len(val) == 0 {
			return cty.ListValEmpty(cty.String), nil
		}
		vals := make([]cty.Value, len(val))
		for i, item := range val {
			vals[i] = cty.StringVal(item)
		}
		return cty.ListVal(vals), nil
	case []any:
		if len(val) == 0 {
			return cty.EmptyTupleVal, nil
		}
		vals := make([]cty.Value, len(val))
		for i, item := range val {
			itemVal, err := GoToCty(item)
			if err != nil {
				return cty.NilVal, err
			}
			vals[i] = itemVal
		}
		return cty.TupleVal(vals), nil
	case map[string]any:
		if len(val) == 0 {
			return cty.EmptyObjectVal, nil
		}
		vals := make(map[string]cty.Value, len(val))
		for k, item := range val {
			itemVal, err := GoToCty(item)
			if err != nil {
				return cty.NilVal, err
			}
			vals[k] = itemVal
		}
		return cty.ObjectVal(vals), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported type: %T", v)
	}
}
