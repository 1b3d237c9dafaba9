// Package engine composes the metadata factory, the three handler
// registries and the lookup sources into the hydration and normalization
// pipelines, and exposes the user-facing facade.
package engine

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	json "github.com/goccy/go-json"

	jdto "github.com/jdto/jdto"
	"github.com/jdto/jdto/caster"
	"github.com/jdto/jdto/lookup"
	"github.com/jdto/jdto/rules"
	"github.com/jdto/jdto/transform"
)

// Engine is the facade over the hydration and normalization pipelines.
// Construction is explicit; there is no ambient singleton. An Engine is safe
// for concurrent use: all mutable state lives in the meta cache, which
// tolerates duplicate first-population.
type Engine struct {
	factory      *jdto.MetaFactory
	casters      *jdto.CasterRegistry
	validators   *jdto.ValidatorRegistry
	transformers *jdto.TransformerRegistry
	inputs       []jdto.InputNormalizer
	config       lookup.Source
	env          lookup.Source
	defaults     jdto.Context

	typesMu sync.RWMutex
	types   map[string]reflect.Type
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithContext sets the default Context used when a call passes none.
func WithContext(c jdto.Context) Option {
	return func(e *Engine) { e.defaults = c }
}

// WithMetaFactory replaces the default MetaFactory (struct-tag describer,
// in-memory cache).
func WithMetaFactory(f *jdto.MetaFactory) Option {
	return func(e *Engine) { e.factory = f }
}

// WithConfigSource sets the source consulted by defaultFrom:"config:..."
// resolution.
func WithConfigSource(s lookup.Source) Option {
	return func(e *Engine) { e.config = s }
}

// WithEnvSource replaces the process-environment source consulted by
// defaultFrom:"env:..." resolution.
func WithEnvSource(s lookup.Source) Option {
	return func(e *Engine) { e.env = s }
}

// WithInputNormalizer prepends a normalizer, giving it precedence over the
// built-ins.
func WithInputNormalizer(n jdto.InputNormalizer) Option {
	return func(e *Engine) { e.inputs = append([]jdto.InputNormalizer{n}, e.inputs...) }
}

// WithCaster registers an additional caster.
func WithCaster(c jdto.Caster, priority int) Option {
	return func(e *Engine) { e.casters.Register(c, priority) }
}

// WithValidator registers an additional validator.
func WithValidator(v jdto.Validator, priority int) Option {
	return func(e *Engine) { e.validators.Register(v, priority) }
}

// WithTransformer registers an additional transformer.
func WithTransformer(t jdto.Transformer, priority int) Option {
	return func(e *Engine) { e.transformers.Register(t, priority) }
}

// New builds an Engine with the built-in casters, validators, transformers
// and input normalizers wired in.
func New(opts ...Option) *Engine {
	e := &Engine{
		factory:      jdto.NewMetaFactory(),
		casters:      jdto.NewCasterRegistry(),
		validators:   jdto.NewValidatorRegistry(),
		transformers: jdto.NewTransformerRegistry(),
		env:          lookup.Env{},
		defaults:     jdto.NewContext(),
		types:        map[string]reflect.Type{},
	}
	caster.RegisterDefaults(e.casters)
	rules.RegisterDefaults(e.validators)
	transform.RegisterDefaults(e.transformers)
	for _, o := range opts {
		o(e)
	}
	// input normalizers run in order; the struct snapshot goes last because
	// it supports any struct value
	e.inputs = append(e.inputs,
		MapNormalizer{},
		JSONNormalizer{},
		StructNormalizer{factory: e.factory, naming: e.defaults.Naming()},
	)
	return e
}

// RegisterType makes a concrete type available to discriminator resolution
// under the given name. prototype may be a value or a pointer.
func (e *Engine) RegisterType(name string, prototype any) {
	rt := reflect.TypeOf(prototype)
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	e.typesMu.Lock()
	defer e.typesMu.Unlock()
	e.types[name] = rt
}

func (e *Engine) typeFor(name string) (reflect.Type, bool) {
	e.typesMu.RLock()
	defer e.typesMu.RUnlock()
	rt, ok := e.types[name]
	return rt, ok
}

// Meta exposes the cached metadata for a value's type, for schema exporters
// and other collaborators.
func (e *Engine) Meta(v any) (jdto.ClassMeta, error) { return e.factory.Create(v) }

// contextOf resolves the effective Context: the last one passed wins, the
// engine default applies otherwise.
func (e *Engine) contextOf(contexts []jdto.Context) jdto.Context {
	if len(contexts) > 0 {
		return contexts[len(contexts)-1]
	}
	return e.defaults
}

// contextualNormalizer lets an input normalizer see the effective Context,
// so key production can follow the per-call naming strategy.
type contextualNormalizer interface {
	NormalizeWith(input any, c jdto.Context) (map[string]any, error)
}

// normalizeInput picks the first supporting input normalizer. It fails
// before any metadata work when nothing supports the input.
func (e *Engine) normalizeInput(input any, c jdto.Context) (map[string]any, error) {
	for _, n := range e.inputs {
		if n.Supports(input) {
			if cn, ok := n.(contextualNormalizer); ok {
				return cn.NormalizeWith(input, c)
			}
			return n.Normalize(input)
		}
	}
	return nil, jdto.NewHydrationError(
		fmt.Sprintf("cannot normalize input of type %T", input),
		&jdto.Error{Code: jdto.CodeUnknownInput, Message: fmt.Sprintf("no input normalizer supports %T", input)},
	)
}

// Hydrate builds a new T from input. It is all-or-nothing: either a fully
// valid value is returned, or the error aggregates every failing property.
func Hydrate[T any](e *Engine, ctx context.Context, input any, contexts ...jdto.Context) (T, error) {
	var out T
	if err := e.HydrateInto(ctx, &out, input, contexts...); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// HydrateInto hydrates input into target, which must be a non-nil pointer to
// a struct.
func (e *Engine) HydrateInto(ctx context.Context, target any, input any, contexts ...jdto.Context) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &jdto.Error{Code: jdto.CodeInvalidType, Message: "hydration target must be a non-nil pointer to a struct"}
	}
	dest := rv.Elem()
	if dest.Kind() != reflect.Struct {
		return &jdto.Error{Code: jdto.CodeInvalidType, Message: fmt.Sprintf("hydration target must point at a struct, not %s", dest.Kind())}
	}
	c := e.contextOf(contexts)
	data, err := e.normalizeInput(input, c)
	if err != nil {
		return err
	}
	meta, err := e.factory.CreateType(dest.Type())
	if err != nil {
		return err
	}
	h := hydrator{e: e}
	return h.hydrate(ctx, dest, meta, data, c, hydrateOpts{})
}

// Normalize serializes v (a struct or pointer to one) into a plain map under
// the Context's serialization options.
func (e *Engine) Normalize(ctx context.Context, v any, contexts ...jdto.Context) (map[string]any, error) {
	n := normalizer{e: e}
	return n.Normalize(ctx, v, e.contextOf(contexts))
}

// NormalizeToJSON is Normalize followed by JSON encoding.
func (e *Engine) NormalizeToJSON(ctx context.Context, v any, contexts ...jdto.Context) ([]byte, error) {
	m, err := e.Normalize(ctx, v, contexts...)
	if err != nil {
		return nil, err
	}
	return json.Marshal(m)
}
