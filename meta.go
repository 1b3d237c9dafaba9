package jdto

import "reflect"

// TypeDescriptor describes the declared type of a single property. It is
// immutable and fully determines casting and transform eligibility.
type TypeDescriptor struct {
	Name      string
	Builtin   bool
	Nullable  bool
	IsArray   bool
	ArrayItem *TypeDescriptor
	IsEnum    bool
	IsDTO     bool
	IsTime    bool
	IsMap     bool

	rt reflect.Type
}

// NewTypeDescriptor builds a descriptor bound to the given reflect type.
// Describer implementations fill the classification flags.
func NewTypeDescriptor(rt reflect.Type, d TypeDescriptor) TypeDescriptor {
	d.rt = rt
	if d.Name == "" && rt != nil {
		d.Name = rt.String()
	}
	return d
}

// ReflectType returns the Go type the descriptor was derived from. It may be
// nil for metadata produced by non-reflection describers.
func (d TypeDescriptor) ReflectType() reflect.Type { return d.rt }

// RuleSpec is one validation rule attached to a property, in declaration
// order.
type RuleSpec struct {
	Name   string
	Params map[string]any
}

// Param returns a named rule parameter, or def when absent.
func (r RuleSpec) Param(name string, def any) any {
	if v, ok := r.Params[name]; ok {
		return v
	}
	return def
}

// DefaultKind selects one step of the DefaultFrom resolution chain.
type DefaultKind int

const (
	DefaultFromInput   DefaultKind = iota // value present in the input map (no-op marker)
	DefaultFromConfig                     // engine config source lookup
	DefaultFromEnv                        // engine env source lookup
	DefaultFromStatic                     // static method Default<Property>() on the DTO type
	DefaultFromLiteral                    // declared default tag value
)

// DefaultSource is one entry of a property's DefaultFrom chain.
type DefaultSource struct {
	Kind DefaultKind
	Key  string // lookup key for config/env sources
}

// DiscriminatorSpec maps a companion type-key inside a sub-payload to a
// concrete target type name registered with the engine.
type DiscriminatorSpec struct {
	Key     string            // key inside the sub-payload holding the discriminator value
	Mapping map[string]string // discriminator value -> registered type name; empty means value is the type name
}

// PropertyMeta describes one settable struct field.
type PropertyMeta struct {
	Name            string // property name (Go field name, lower-cased first rune)
	FieldName       string // exact Go field name
	Index           int    // struct field index
	Type            TypeDescriptor
	Readonly        bool
	HasDefault      bool
	DefaultValue    any
	MapFrom         string // explicit source-key override, "" when absent
	CasterName      string // explicit caster override, "" when absent
	TransformerName string // explicit transformer override, "" when absent
	Hidden          bool
	Strict          bool // property-level strict cast, overrides Context cast mode
	Rules           []RuleSpec
	Pipeline        []string
	DefaultFrom     []DefaultSource
	Discriminator   *DiscriminatorSpec
	Attributes      map[string]string // raw unrecognized tag items
}

// HasRule reports whether a rule with the given name is attached.
func (p PropertyMeta) HasRule(name string) bool {
	for _, r := range p.Rules {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Rule returns the first attached rule with the given name.
func (p PropertyMeta) Rule(name string) (RuleSpec, bool) {
	for _, r := range p.Rules {
		if r.Name == name {
			return r, true
		}
	}
	return RuleSpec{}, false
}

// ClassMeta is the cached structural description of one struct type. Created
// once per type and never mutated afterwards.
type ClassMeta struct {
	ClassName  string
	Readonly   bool
	Properties []PropertyMeta // declaration order

	rt     reflect.Type
	byName map[string]int
}

// NewClassMeta builds a ClassMeta and its lookup index. Describers call this
// once per type.
func NewClassMeta(rt reflect.Type, className string, readonly bool, props []PropertyMeta) ClassMeta {
	byName := make(map[string]int, len(props))
	for i, p := range props {
		byName[p.Name] = i
	}
	return ClassMeta{ClassName: className, Readonly: readonly, Properties: props, rt: rt, byName: byName}
}

// ReflectType returns the struct type the metadata describes.
func (m ClassMeta) ReflectType() reflect.Type { return m.rt }

// Property returns the metadata for a declared property name.
func (m ClassMeta) Property(name string) (PropertyMeta, bool) {
	if i, ok := m.byName[name]; ok {
		return m.Properties[i], true
	}
	return PropertyMeta{}, false
}

// HasProperty reports whether name is a declared property.
func (m ClassMeta) HasProperty(name string) bool {
	_, ok := m.byName[name]
	return ok
}
