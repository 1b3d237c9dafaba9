package jdto

import "context"

// Caster converts a raw input value into the property's declared type.
type Caster interface {
	// Name identifies the caster for property-level overrides.
	Name() string
	// Supports reports whether the caster applies to this (property, value).
	Supports(p PropertyMeta, v any) bool
	// Cast converts the value according to the Context cast mode.
	Cast(p PropertyMeta, v any, c Context) (any, error)
}

// Validator checks a raw input value against one rule family.
type Validator interface {
	// Name identifies the rule; it becomes RuleViolation.Rule.
	Name() string
	// Supports reports whether the validator applies to this (property, value).
	Supports(p PropertyMeta, v any) bool
	// Validate returns the violations for the value, or nil when it passes.
	Validate(p PropertyMeta, v any, vc ValidationContext) []RuleViolation
}

// Transformer converts a typed value into its output representation during
// normalization.
type Transformer interface {
	Name() string
	Supports(p PropertyMeta, v any) bool
	Transform(p PropertyMeta, v any, c Context) (any, error)
}

// ValidationContext carries the full raw input map alongside the property
// under validation, enabling cross-field rules.
type ValidationContext struct {
	Property PropertyMeta
	AllData  map[string]any
	Context  Context
}

// InputNormalizer converts arbitrary engine input into the raw map the
// hydrator consumes. The engine picks the first supporting normalizer.
type InputNormalizer interface {
	Supports(input any) bool
	Normalize(input any) (map[string]any, error)
}

// Enum is implemented by named types that want enum-style casting: resolution
// from a backing value or a case name, and unwrapping on normalization.
type Enum interface {
	// EnumCases maps case names to their backing values.
	EnumCases() map[string]any
}

// PostHydrator is the optional post-hydration lifecycle hook. Errors raised
// here propagate unmodified; they are domain-rule failures, not plumbing
// failures.
type PostHydrator interface {
	AfterHydrate(ctx context.Context) error
}

// LazyProvider exposes named values computed on demand at normalization time.
// A map value may be a plain value or a zero-argument func() any producer;
// producers are invoked only when the name is selected for inclusion.
type LazyProvider interface {
	LazyProperties() map[string]any
}

// MetaCache stores computed ClassMeta keyed by type name. Implementations
// must be safe for concurrent use; duplicate first-population of the same key
// is benign.
type MetaCache interface {
	Get(key string) (ClassMeta, bool)
	Set(key string, meta ClassMeta)
	Clear()
}

// SchemaExporter is the collaborator interface for schema generators that
// consume ClassMeta (JSON Schema, OpenAPI). Implementations live outside this
// module.
type SchemaExporter interface {
	Export(meta ClassMeta) (map[string]any, error)
}
