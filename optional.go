package jdto

import "errors"

// ErrNoValue is returned by Optional.Get on an empty Optional.
var ErrNoValue = errors.New("jdto: no value present")

// Optional is an explicit presence/absence wrapper replacing ad hoc nullable
// checks.
type Optional[T any] struct {
	value   T
	present bool
}

// Of wraps a present value.
func Of[T any](v T) Optional[T] { return Optional[T]{value: v, present: true} }

// Empty returns an absent Optional.
func Empty[T any]() Optional[T] { return Optional[T]{} }

func (o Optional[T]) IsPresent() bool { return o.present }
func (o Optional[T]) IsEmpty() bool   { return !o.present }

// Get returns the value, or ErrNoValue when empty.
func (o Optional[T]) Get() (T, error) {
	if !o.present {
		var zero T
		return zero, ErrNoValue
	}
	return o.value, nil
}

// OrElse returns the value when present, def otherwise.
func (o Optional[T]) OrElse(def T) T {
	if o.present {
		return o.value
	}
	return def
}

// OrElseGet returns the value when present; the supplier is invoked only when
// empty.
func (o Optional[T]) OrElseGet(supplier func() T) T {
	if o.present {
		return o.value
	}
	return supplier()
}

// OrElseErr returns the value when present, or the supplied error when empty.
func (o Optional[T]) OrElseErr(supplier func() error) (T, error) {
	if o.present {
		return o.value, nil
	}
	var zero T
	return zero, supplier()
}

// Filter keeps the value only when the predicate holds; otherwise the result
// is empty.
func (o Optional[T]) Filter(pred func(T) bool) Optional[T] {
	if o.present && pred(o.value) {
		return o
	}
	return Empty[T]()
}

// IfPresent invokes fn with the value when present.
func (o Optional[T]) IfPresent(fn func(T)) {
	if o.present {
		fn(o.value)
	}
}

// IfEmpty invokes fn when empty.
func (o Optional[T]) IfEmpty(fn func()) {
	if !o.present {
		fn()
	}
}

// MapOptional applies fn to a present value; empty input stays empty.
// A package function because Go methods cannot introduce type parameters.
func MapOptional[T, U any](o Optional[T], fn func(T) U) Optional[U] {
	if o.IsEmpty() {
		return Empty[U]()
	}
	v, _ := o.Get()
	return Of(fn(v))
}
