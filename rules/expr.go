package rules

import (
	"github.com/expr-lang/expr"

	jdto "github.com/jdto/jdto"
)

// Expr evaluates an expr-lang expression against the raw input. The
// expression sees "value" (the property's raw value) and "data" (the full
// input map, for cross-field conditions) and must yield true to pass.
//
//	Age int `validate:"expr=value >= data.minAge"`
type Expr struct{}

func (Expr) Name() string { return "expr" }

func (Expr) Supports(p jdto.PropertyMeta, _ any) bool { return p.HasRule("expr") }

func (e Expr) Validate(p jdto.PropertyMeta, v any, vc jdto.ValidationContext) []jdto.RuleViolation {
	spec, _ := p.Rule("expr")
	code, _ := spec.Param("expr", "").(string)
	env := map[string]any{
		"value": v,
		"data":  vc.AllData,
	}
	out, err := expr.Eval(code, env)
	if err != nil {
		return []jdto.RuleViolation{violation(p, "expr", v, map[string]any{"expr": code, "error": err.Error()})}
	}
	if ok, _ := out.(bool); !ok {
		return []jdto.RuleViolation{violation(p, "expr", v, map[string]any{"expr": code})}
	}
	return nil
}
