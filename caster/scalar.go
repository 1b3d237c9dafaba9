package caster

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	jdto "github.com/jdto/jdto"
)

// ScalarCaster converts raw values onto bool, integer, float and string
// targets.
//
// Loose mode performs only unambiguous coercions: numeric strings become
// numbers, integral floats become ints, the documented token tables become
// bools. Anything ambiguous ("abc" to int, 12.5 to int) raises a cast error;
// permissive mode returns the zero value instead.
type ScalarCaster struct{}

func (ScalarCaster) Name() string { return "scalar" }

func (ScalarCaster) Supports(p jdto.PropertyMeta, _ any) bool {
	rt := baseType(p.Type)
	if rt == nil {
		return false
	}
	switch rt.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func (s ScalarCaster) Cast(p jdto.PropertyMeta, v any, c jdto.Context) (any, error) {
	mode := effectiveMode(p, c)
	rt := baseType(p.Type)
	out, err := castScalar(rt.Kind(), v, mode)
	if err != nil {
		if mode == jdto.CastPermissive {
			return zeroFor(rt.Kind()), nil
		}
		return nil, err
	}
	return out, nil
}

func castScalar(kind reflect.Kind, v any, mode jdto.CastMode) (any, error) {
	switch kind {
	case reflect.Bool:
		return castBool(v, mode)
	case reflect.String:
		return castString(v, mode)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return castInt(v, mode)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return castUint(v, mode)
	case reflect.Float32, reflect.Float64:
		return castFloat(v, mode)
	}
	return nil, jdto.CastError(kind.String(), v, nil)
}

var (
	looseTrue  = map[string]struct{}{"1": {}, "true": {}, "yes": {}, "on": {}}
	looseFalse = map[string]struct{}{"0": {}, "false": {}, "no": {}, "off": {}, "": {}}
)

func castBool(v any, mode jdto.CastMode) (any, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	if mode == jdto.CastStrict {
		return nil, jdto.CastError("bool", v, nil)
	}
	switch t := v.(type) {
	case string:
		key := strings.ToLower(strings.TrimSpace(t))
		if _, ok := looseTrue[key]; ok {
			return true, nil
		}
		if _, ok := looseFalse[key]; ok {
			return false, nil
		}
	default:
		if f, ok := numericValue(v); ok {
			if f == 1 {
				return true, nil
			}
			if f == 0 {
				return false, nil
			}
		}
	}
	return nil, jdto.CastError("bool", v, nil)
}

func castString(v any, mode jdto.CastMode) (any, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	if mode == jdto.CastStrict {
		return nil, jdto.CastError("string", v, nil)
	}
	switch t := v.(type) {
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	case float32, float64:
		f, _ := numericValue(v)
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(v).Int(), 10), nil
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(v).Uint(), 10), nil
	case fmt.Stringer:
		return t.String(), nil
	}
	return nil, jdto.CastError("string", v, nil)
}

func castInt(v any, mode jdto.CastMode) (any, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case uint, uint8, uint16, uint32, uint64:
		f, _ := numericValue(v)
		return int64(f), nil
	}
	if mode == jdto.CastStrict {
		return nil, jdto.CastError("int", v, nil)
	}
	switch t := v.(type) {
	case float32, float64:
		f, _ := numericValue(v)
		if f != math.Trunc(f) {
			return nil, jdto.CastError("int", v, nil)
		}
		return int64(f), nil
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, nil
		}
		return castInt(jnumFloat(t), mode)
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			return n, nil
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil && f == math.Trunc(f) {
			return int64(f), nil
		}
	}
	return nil, jdto.CastError("int", v, nil)
}

func castUint(v any, mode jdto.CastMode) (any, error) {
	n, err := castInt(v, mode)
	if err != nil {
		return nil, jdto.CastError("uint", v, nil)
	}
	i := n.(int64)
	if i < 0 {
		return nil, jdto.CastError("uint", v, nil)
	}
	return uint64(i), nil
}

func castFloat(v any, mode jdto.CastMode) (any, error) {
	switch v.(type) {
	case float32, float64:
		f, _ := numericValue(v)
		return f, nil
	}
	if mode == jdto.CastStrict {
		return nil, jdto.CastError("float", v, nil)
	}
	if f, ok := numericValue(v); ok {
		return f, nil
	}
	switch t := v.(type) {
	case json.Number:
		return jnumFloat(t), nil
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f, nil
		}
	}
	return nil, jdto.CastError("float", v, nil)
}

// numericValue unifies native numeric kinds onto float64. json.Number and
// strings are deliberately excluded; mode handling decides those.
func numericValue(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}

func jnumFloat(n json.Number) float64 {
	f, _ := n.Float64()
	return f
}

func zeroFor(kind reflect.Kind) any {
	switch kind {
	case reflect.Bool:
		return false
	case reflect.String:
		return ""
	case reflect.Float32, reflect.Float64:
		return float64(0)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uint64(0)
	default:
		return int64(0)
	}
}

func baseType(d jdto.TypeDescriptor) reflect.Type {
	rt := d.ReflectType()
	if rt == nil {
		return nil
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return rt
}
