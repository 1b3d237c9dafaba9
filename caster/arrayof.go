package caster

import (
	"fmt"
	"reflect"

	jdto "github.com/jdto/jdto"
)

// ArrayCaster casts slice targets item-wise by delegating each element to
// the registry. Arrays of DTOs are handled by the hydrator's own recursion
// and are not supported here.
type ArrayCaster struct {
	reg *jdto.CasterRegistry
}

func NewArrayCaster(reg *jdto.CasterRegistry) ArrayCaster { return ArrayCaster{reg: reg} }

func (ArrayCaster) Name() string { return "array" }

func (ArrayCaster) Supports(p jdto.PropertyMeta, _ any) bool {
	return p.Type.IsArray && p.Type.ArrayItem != nil && !p.Type.ArrayItem.IsDTO
}

// Cast returns a []any of item-cast values; the hydrator assembles the typed
// slice.
func (a ArrayCaster) Cast(p jdto.PropertyMeta, v any, c jdto.Context) (any, error) {
	items, err := anySlice(v)
	if err != nil {
		if effectiveMode(p, c) == jdto.CastPermissive {
			return []any(nil), nil
		}
		return nil, jdto.CastError(p.Type.Name, v, err)
	}
	itemMeta := jdto.PropertyMeta{
		Name:   p.Name,
		Type:   *p.Type.ArrayItem,
		Strict: p.Strict,
	}
	out := make([]any, 0, len(items))
	for i, item := range items {
		cast, err := a.reg.Cast(itemMeta, item, c)
		if err != nil {
			if je, ok := err.(*jdto.Error); ok {
				return nil, je.PrependPath(fmt.Sprintf("%d", i))
			}
			return nil, err
		}
		out = append(out, cast)
	}
	return out, nil
}

func anySlice(v any) ([]any, error) {
	if items, ok := v.([]any); ok {
		return items, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected a slice, got %T", v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}
