package engine

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"time"

	jdto "github.com/jdto/jdto"
	"github.com/jdto/jdto/i18n"
)

type normalizer struct{ e *Engine }

// Normalize serializes a struct (or pointer to one) into a plain map, honoring
// the Context's serialization options. Wrapping applies to the top level only.
func (n normalizer) Normalize(ctx context.Context, v any, c jdto.Context) (map[string]any, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, &jdto.Error{Code: jdto.CodeInvalidType, Message: "cannot normalize a nil pointer"}
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, &jdto.Error{Code: jdto.CodeInvalidType, Message: fmt.Sprintf("cannot normalize %T, expected a struct", v)}
	}
	out, err := n.structMap(ctx, rv, c, 0)
	if err != nil {
		return nil, err
	}
	if wrap := c.Serialization().Wrap(); wrap != "" {
		return map[string]any{wrap: out}, nil
	}
	return out, nil
}

// structMap renders one struct level. At or beyond maxDepth the result is an
// empty map, never an error: depth capping truncates, it does not fail.
func (n normalizer) structMap(ctx context.Context, rv reflect.Value, c jdto.Context, depth int) (map[string]any, error) {
	opts := c.Serialization()
	out := map[string]any{}
	if depth >= opts.MaxDepth() {
		return out, nil
	}
	meta, err := n.e.factory.CreateType(rv.Type())
	if err != nil {
		return nil, err
	}
	for _, p := range meta.Properties {
		if p.Hidden || !opts.Selected(p.Name) {
			continue
		}
		key := p.MapFrom
		if key == "" {
			key = c.Naming().Convert(p.Name, jdto.ToSource)
		}
		val, err := n.value(ctx, p, rv.Field(p.Index), c, depth)
		if err != nil {
			return nil, prefixNormalizeError(p.Name, err)
		}
		out[key] = val
	}
	if err := n.lazy(ctx, rv, meta, c, out); err != nil {
		return nil, err
	}
	return out, nil
}

// value renders one property value: nested DTOs recurse one level deeper,
// slices render element-wise, everything else goes through the transformer
// registry.
func (n normalizer) value(ctx context.Context, p jdto.PropertyMeta, fv reflect.Value, c jdto.Context, depth int) (any, error) {
	for fv.Kind() == reflect.Pointer || fv.Kind() == reflect.Interface {
		if fv.IsNil() {
			return nil, nil
		}
		fv = fv.Elem()
	}
	if !p.Type.IsTime && isDTOStruct(fv.Type()) {
		return n.structMap(ctx, fv, c, depth+1)
	}
	if (fv.Kind() == reflect.Slice || fv.Kind() == reflect.Array) && fv.Type().Elem().Kind() != reflect.Uint8 {
		return n.sliceValue(ctx, p, fv, c, depth)
	}
	return n.e.transformers.Transform(p, fv.Interface(), c)
}

// sliceValue renders a slice element-wise: DTO elements recurse one level
// deeper, leaf elements pass through the transformer registry like scalar
// properties do. Errors carry the element index on the path.
func (n normalizer) sliceValue(ctx context.Context, p jdto.PropertyMeta, fv reflect.Value, c jdto.Context, depth int) ([]any, error) {
	ep := p
	if p.Type.ArrayItem != nil {
		ep.Type = *p.Type.ArrayItem
	}
	items := make([]any, fv.Len())
	for i := 0; i < fv.Len(); i++ {
		ev := fv.Index(i)
		nilElem := false
		for ev.Kind() == reflect.Pointer || ev.Kind() == reflect.Interface {
			if ev.IsNil() {
				nilElem = true
				break
			}
			ev = ev.Elem()
		}
		if nilElem {
			continue
		}
		if isDTOStruct(ev.Type()) {
			m, err := n.structMap(ctx, ev, c, depth+1)
			if err != nil {
				return nil, prefixNormalizeError(strconv.Itoa(i), err)
			}
			items[i] = m
			continue
		}
		out, err := n.e.transformers.Transform(ep, ev.Interface(), c)
		if err != nil {
			return nil, prefixNormalizeError(strconv.Itoa(i), err)
		}
		items[i] = out
	}
	return items, nil
}

// lazy merges the selected lazy properties into out. A producer func is
// invoked once, and only when its name survives both the includeLazy selector
// and the only/except filter. A lazy name colliding with a declared property
// is a fatal error, raised only when its inclusion is attempted.
func (n normalizer) lazy(ctx context.Context, rv reflect.Value, meta jdto.ClassMeta, c jdto.Context, out map[string]any) error {
	lp, ok := lazyProviderOf(rv)
	if !ok {
		return nil
	}
	opts := c.Serialization()
	for name, raw := range lp.LazyProperties() {
		if !opts.LazySelected(name) || !opts.Selected(name) {
			continue
		}
		if meta.HasProperty(name) {
			return &jdto.Error{
				Code:    jdto.CodeLazyCollision,
				Path:    name,
				Message: i18n.T("lazy_collision", map[string]string{"name": name}),
			}
		}
		val := raw
		if produce, isFunc := raw.(func() any); isFunc {
			val = produce()
		}
		key := c.Naming().Convert(name, jdto.ToSource)
		rendered, err := n.lazyValue(ctx, val, c)
		if err != nil {
			return prefixNormalizeError(name, err)
		}
		out[key] = rendered
	}
	return nil
}

// lazyValue renders a lazy result: struct values normalize like nested DTOs,
// everything else passes through untouched.
func (n normalizer) lazyValue(ctx context.Context, v any, c jdto.Context) (any, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct && isDTOStruct(rv.Type()) {
		return n.structMap(ctx, rv, c, 1)
	}
	return v, nil
}

func lazyProviderOf(rv reflect.Value) (jdto.LazyProvider, bool) {
	if lp, ok := rv.Interface().(jdto.LazyProvider); ok {
		return lp, true
	}
	if rv.CanAddr() {
		if lp, ok := rv.Addr().Interface().(jdto.LazyProvider); ok {
			return lp, true
		}
	}
	return nil, false
}

// isDTOStruct mirrors the describer's classification: structs recurse except
// time.Time.
func isDTOStruct(rt reflect.Type) bool {
	return rt.Kind() == reflect.Struct && rt != reflect.TypeOf(time.Time{})
}

func prefixNormalizeError(prefix string, err error) error {
	if e, ok := err.(*jdto.Error); ok {
		return e.PrependPath(prefix)
	}
	return fmt.Errorf("%s: %w", prefix, err)
}
