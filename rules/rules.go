// Package rules provides the built-in validators. Each validator activates
// only when the matching rule is attached to the property, so one registry
// instance serves every DTO type.
//
// Required runs at a higher priority than the format and range rules: an
// absent or empty value yields one coherent violation instead of cascading
// into format validators, which skip empty values entirely.
package rules

import (
	"reflect"

	jdto "github.com/jdto/jdto"
	"github.com/jdto/jdto/i18n"
)

const (
	PriorityRequired    = 100
	PriorityConditional = 90
	PriorityDefault     = 50
	PriorityCascade     = 10
)

// RegisterDefaults wires the built-in validators into a registry.
func RegisterDefaults(reg *jdto.ValidatorRegistry) {
	reg.Register(Required{}, PriorityRequired)
	reg.Register(RequiredIf{}, PriorityConditional)
	reg.Register(Email{}, PriorityDefault)
	reg.Register(URL{}, PriorityDefault)
	reg.Register(UUID{}, PriorityDefault)
	reg.Register(Min{}, PriorityDefault)
	reg.Register(Max{}, PriorityDefault)
	reg.Register(Between{}, PriorityDefault)
	reg.Register(Length{}, PriorityDefault)
	reg.Register(Regexp{}, PriorityDefault)
	reg.Register(Expr{}, PriorityDefault)
}

// violation builds a RuleViolation with the i18n message for the rule code.
func violation(p jdto.PropertyMeta, rule string, v any, params map[string]any) jdto.RuleViolation {
	return jdto.RuleViolation{
		Property:     p.Name,
		Rule:         rule,
		Message:      i18n.T(rule, nil),
		InvalidValue: v,
		Params:       params,
	}
}

// isEmpty reports whether a value counts as absent for Required: nil, empty
// string, empty slice/map. Zero numbers and false are present values.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// skippable reports whether non-required rules should pass over the value.
func skippable(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok && s == "" {
		return true
	}
	return false
}

// numeric unifies the raw value onto float64 for the range rules. Named
// numeric types are unwrapped via reflection.
func numeric(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// valueLen measures strings in runes and collections in elements.
func valueLen(v any) (int, bool) {
	if s, ok := v.(string); ok {
		return len([]rune(s)), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}
