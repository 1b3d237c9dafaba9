// Package caster provides the built-in casters: scalar coercion, time
// parsing, enum resolution, item-wise array casting and a passthrough for
// untyped targets.
//
// Casters return canonical Go values (bool, int64, uint64, float64, string,
// time.Time, enum-typed values); the hydrator converts them onto the concrete
// field type.
package caster

import (
	jdto "github.com/jdto/jdto"
)

// Default priorities. Higher wins; the array caster must resolve before the
// scalar caster so []int is cast item-wise.
const (
	PriorityArray       = 40
	PriorityEnum        = 30
	PriorityTime        = 20
	PriorityScalar      = 10
	PriorityPassthrough = 0
)

// RegisterDefaults wires the built-in casters into a registry.
func RegisterDefaults(reg *jdto.CasterRegistry) {
	reg.Register(NewArrayCaster(reg), PriorityArray)
	reg.Register(EnumCaster{}, PriorityEnum)
	reg.Register(TimeCaster{}, PriorityTime)
	reg.Register(ScalarCaster{}, PriorityScalar)
	reg.Register(Passthrough{}, PriorityPassthrough)
}

// Passthrough hands the value through unchanged for untyped (any) and map
// targets.
type Passthrough struct{}

func (Passthrough) Name() string { return "passthrough" }

func (Passthrough) Supports(p jdto.PropertyMeta, _ any) bool {
	return p.Type.IsMap || (!p.Type.Builtin && !p.Type.IsDTO && !p.Type.IsArray &&
		!p.Type.IsEnum && !p.Type.IsTime)
}

func (Passthrough) Cast(_ jdto.PropertyMeta, v any, _ jdto.Context) (any, error) {
	return v, nil
}

// effectiveMode resolves the cast mode for a property: a property-level
// strict marker always forces strict regardless of the Context.
func effectiveMode(p jdto.PropertyMeta, c jdto.Context) jdto.CastMode {
	if p.Strict {
		return jdto.CastStrict
	}
	return c.CastMode()
}
