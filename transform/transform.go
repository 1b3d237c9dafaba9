// Package transform provides the built-in output transformers applied to
// leaf values during normalization: time formatting and enum unwrapping.
package transform

import (
	"reflect"
	"time"

	jdto "github.com/jdto/jdto"
)

const (
	PriorityTime = 20
	PriorityEnum = 20
)

// RegisterDefaults wires the built-in transformers into a registry.
func RegisterDefaults(reg *jdto.TransformerRegistry) {
	reg.Register(NewTime(""), PriorityTime)
	reg.Register(Enum{}, PriorityEnum)
}

// Time formats time.Time values into strings. The zero layout normalizes to
// UTC and formats with RFC3339Nano, which trims trailing zeros.
type Time struct {
	Layout string
}

func NewTime(layout string) Time { return Time{Layout: layout} }

func (Time) Name() string { return "time" }

func (Time) Supports(p jdto.PropertyMeta, v any) bool {
	_, ok := v.(time.Time)
	return ok
}

func (t Time) Transform(_ jdto.PropertyMeta, v any, _ jdto.Context) (any, error) {
	tv := v.(time.Time)
	if t.Layout != "" {
		return tv.Format(t.Layout), nil
	}
	return tv.UTC().Format(time.RFC3339Nano), nil
}

// Enum unwraps enum-typed values onto their backing representation.
type Enum struct{}

func (Enum) Name() string { return "enum" }

func (Enum) Supports(p jdto.PropertyMeta, v any) bool {
	if v == nil {
		return false
	}
	_, ok := v.(jdto.Enum)
	if !ok {
		rv := reflect.ValueOf(v)
		if rv.CanAddr() {
			_, ok = rv.Addr().Interface().(jdto.Enum)
		}
	}
	return ok || p.Type.IsEnum
}

func (Enum) Transform(_ jdto.PropertyMeta, v any, _ jdto.Context) (any, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}
	return v, nil
}
