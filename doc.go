// Package jdto is a metadata-driven object hydration and normalization
// engine: it builds fully typed, validated structs from loosely typed input
// (maps, JSON, arbitrary structs), and serializes such structs back to plain
// maps under configurable filtering, depth and naming rules.
//
// The package is split into a small set of layers:
//
//   - Metadata: TypeDescriptor, PropertyMeta and ClassMeta describe one
//     struct's shape. A MetaFactory computes them once per type (by default
//     from struct tags) and memoizes them in a pluggable MetaCache.
//   - Registries: casters, validators and transformers are priority-ordered
//     extension points sharing one resolution rule: first supporting handler
//     by descending priority wins.
//   - Configuration: Context and SerializationOptions are immutable records;
//     every With* call returns a new value.
//   - Pipelines: the engine subpackage hosts the Hydrator (input -> struct)
//     and Normalizer (struct -> map) built on top of the layers above.
//
// Built-in handlers live in the caster, rules and transform subpackages and
// are wired up by engine.New. Default-value lookup backends (environment,
// YAML config) live in the lookup subpackage.
//
// A minimal round trip:
//
//	type User struct {
//	    FirstName string `validate:"required"`
//	    LastName  string
//	}
//
//	e := engine.New()
//	u, err := engine.Hydrate[User](e, ctx, map[string]any{
//	    "first_name": "John",
//	    "last_name":  "Doe",
//	})
//	// ...
//	m, err := e.Normalize(ctx, u) // {"first_name":"John","last_name":"Doe"}
package jdto
