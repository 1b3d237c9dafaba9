package engine

import (
	"context"
	"fmt"
	"reflect"

	jdto "github.com/jdto/jdto"
)

// PartialBuilder hydrates a projection of T: only the allow-listed properties
// are read from the input, everything else keeps its declared default or zero
// value. Missing-key and validation failures apply to the allow-list only.
type PartialBuilder[T any] struct {
	e       *Engine
	allowed map[string]struct{}
}

// Partial starts a partial hydration of T restricted to the named properties.
func Partial[T any](e *Engine, properties ...string) PartialBuilder[T] {
	allowed := make(map[string]struct{}, len(properties))
	for _, p := range properties {
		allowed[p] = struct{}{}
	}
	return PartialBuilder[T]{e: e, allowed: allowed}
}

// From hydrates the projection from input. Allow-listed names that are not
// declared properties of T fail fast.
func (b PartialBuilder[T]) From(ctx context.Context, input any, contexts ...jdto.Context) (T, error) {
	var out T
	rv := reflect.ValueOf(&out).Elem()
	if rv.Kind() != reflect.Struct {
		var zero T
		return zero, &jdto.Error{Code: jdto.CodeInvalidType, Message: fmt.Sprintf("partial hydration target must be a struct, not %s", rv.Kind())}
	}
	meta, err := b.e.factory.CreateType(rv.Type())
	if err != nil {
		var zero T
		return zero, err
	}
	for name := range b.allowed {
		if !meta.HasProperty(name) {
			var zero T
			return zero, &jdto.Error{
				Code:    jdto.CodeConfig,
				Path:    name,
				Message: fmt.Sprintf("%s has no property %q", meta.ClassName, name),
			}
		}
	}
	c := b.e.contextOf(contexts)
	data, err := b.e.normalizeInput(input, c)
	if err != nil {
		var zero T
		return zero, err
	}
	h := hydrator{e: b.e}
	if err := h.hydrate(ctx, rv, meta, data, c, hydrateOpts{partial: true, allowed: b.allowed}); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
