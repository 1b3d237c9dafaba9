package rules

import (
	"reflect"

	jdto "github.com/jdto/jdto"
)

// Required rejects nil, empty strings and empty collections. Zero numbers,
// false and non-empty collections pass.
type Required struct{}

func (Required) Name() string { return "required" }

func (Required) Supports(p jdto.PropertyMeta, _ any) bool { return p.HasRule("required") }

func (r Required) Validate(p jdto.PropertyMeta, v any, _ jdto.ValidationContext) []jdto.RuleViolation {
	if isEmpty(v) {
		return []jdto.RuleViolation{violation(p, "required", v, nil)}
	}
	return nil
}

// RequiredIf makes a property required when another raw input field holds an
// exact value. The comparison is strict: a "true" string does not satisfy a
// boolean true condition.
type RequiredIf struct{}

func (RequiredIf) Name() string { return "required_if" }

func (RequiredIf) Supports(p jdto.PropertyMeta, _ any) bool { return p.HasRule("required_if") }

func (r RequiredIf) Validate(p jdto.PropertyMeta, v any, vc jdto.ValidationContext) []jdto.RuleViolation {
	spec, _ := p.Rule("required_if")
	field, _ := spec.Param("field", "").(string)
	want := spec.Param("value", nil)
	got, ok := vc.AllData[field]
	if !ok {
		return nil
	}
	if !strictEqual(got, want) {
		return nil
	}
	if isEmpty(v) {
		return []jdto.RuleViolation{violation(p, "required_if", v, map[string]any{"field": field, "value": want})}
	}
	return nil
}

// strictEqual requires both kind and value to match. Numeric values compare
// across widths (JSON delivers float64), but never across string/bool/number
// boundaries.
func strictEqual(got, want any) bool {
	if got == nil || want == nil {
		return got == want
	}
	gk := reflect.TypeOf(got).Kind()
	wk := reflect.TypeOf(want).Kind()
	gn, gIsNum := numeric(got)
	wn, wIsNum := numeric(want)
	if gIsNum || wIsNum {
		return gIsNum && wIsNum && gn == wn
	}
	if gk != wk {
		return false
	}
	return reflect.DeepEqual(got, want)
}
