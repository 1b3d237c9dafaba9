package rules

import (
	"strconv"

	jdto "github.com/jdto/jdto"
)

// Min rejects numeric values below the bound (inclusive pass at the bound).
type Min struct{}

func (Min) Name() string { return "min" }

func (Min) Supports(p jdto.PropertyMeta, _ any) bool { return p.HasRule("min") }

func (m Min) Validate(p jdto.PropertyMeta, v any, _ jdto.ValidationContext) []jdto.RuleViolation {
	if skippable(v) {
		return nil
	}
	spec, _ := p.Rule("min")
	bound, _ := spec.Param("min", float64(0)).(float64)
	n, ok := ruleNumeric(v)
	if !ok || n < bound {
		return []jdto.RuleViolation{violation(p, "min", v, map[string]any{"min": bound})}
	}
	return nil
}

// Max rejects numeric values above the bound (inclusive pass at the bound).
type Max struct{}

func (Max) Name() string { return "max" }

func (Max) Supports(p jdto.PropertyMeta, _ any) bool { return p.HasRule("max") }

func (m Max) Validate(p jdto.PropertyMeta, v any, _ jdto.ValidationContext) []jdto.RuleViolation {
	if skippable(v) {
		return nil
	}
	spec, _ := p.Rule("max")
	bound, _ := spec.Param("max", float64(0)).(float64)
	n, ok := ruleNumeric(v)
	if !ok || n > bound {
		return []jdto.RuleViolation{violation(p, "max", v, map[string]any{"max": bound})}
	}
	return nil
}

// Between rejects numeric values outside [min, max].
type Between struct{}

func (Between) Name() string { return "between" }

func (Between) Supports(p jdto.PropertyMeta, _ any) bool { return p.HasRule("between") }

func (b Between) Validate(p jdto.PropertyMeta, v any, _ jdto.ValidationContext) []jdto.RuleViolation {
	if skippable(v) {
		return nil
	}
	spec, _ := p.Rule("between")
	lo, _ := spec.Param("min", float64(0)).(float64)
	hi, _ := spec.Param("max", float64(0)).(float64)
	n, ok := ruleNumeric(v)
	if !ok || n < lo || n > hi {
		return []jdto.RuleViolation{violation(p, "between", v, map[string]any{"min": lo, "max": hi})}
	}
	return nil
}

// Length rejects strings and collections whose length falls outside
// [min, max]; boundaries pass.
type Length struct{}

func (Length) Name() string { return "length" }

func (Length) Supports(p jdto.PropertyMeta, _ any) bool { return p.HasRule("length") }

func (l Length) Validate(p jdto.PropertyMeta, v any, _ jdto.ValidationContext) []jdto.RuleViolation {
	if skippable(v) {
		return nil
	}
	spec, _ := p.Rule("length")
	lo, _ := spec.Param("min", float64(0)).(float64)
	hi, _ := spec.Param("max", float64(0)).(float64)
	n, ok := valueLen(v)
	if !ok || float64(n) < lo || float64(n) > hi {
		return []jdto.RuleViolation{violation(p, "length", v, map[string]any{"min": lo, "max": hi})}
	}
	return nil
}

// ruleNumeric accepts native numbers and numeric strings; range rules run on
// raw input, which often arrives as strings.
func ruleNumeric(v any) (float64, bool) {
	if n, ok := numeric(v); ok {
		return n, true
	}
	if s, ok := v.(string); ok {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
