package jdto

// CastMode dictates how strictly casters coerce input values.
type CastMode int

const (
	CastLoose      CastMode = iota // documented coercions (numeric<->string, bool tables, time parsing)
	CastStrict                     // native kind must exactly match the declared type
	CastPermissive                 // failed coercion yields the zero value instead of an error
)

// DefaultMaxDepth bounds normalization recursion unless overridden.
const DefaultMaxDepth = 10

// Context is the immutable configuration consumed by both pipelines. The
// zero value is usable; every With* method returns a new instance with one
// field replaced, leaving the receiver untouched.
type Context struct {
	naming            NamingStrategy
	validationEnabled bool
	serialization     SerializationOptions
	castMode          CastMode
	customData        map[string]any
	globalPipeline    []string
}

// NewContext returns a Context with defaults: snake_case naming, validation
// disabled, loose casting, maxDepth 10.
func NewContext() Context {
	return Context{
		naming:        SnakeCaseStrategy{},
		serialization: NewSerializationOptions(),
	}
}

// Naming returns the active naming strategy (snake_case when unset).
func (c Context) Naming() NamingStrategy {
	if c.naming == nil {
		return SnakeCaseStrategy{}
	}
	return c.naming
}

func (c Context) ValidationEnabled() bool { return c.validationEnabled }

func (c Context) Serialization() SerializationOptions { return c.serialization }

func (c Context) CastMode() CastMode { return c.castMode }

// CustomData returns the opaque value stored under key.
func (c Context) CustomData(key string) (any, bool) {
	v, ok := c.customData[key]
	return v, ok
}

func (c Context) GlobalPipeline() []string { return c.globalPipeline }

func (c Context) WithNaming(s NamingStrategy) Context {
	c.naming = s
	return c
}

func (c Context) WithValidation(enabled bool) Context {
	c.validationEnabled = enabled
	return c
}

func (c Context) WithSerialization(o SerializationOptions) Context {
	c.serialization = o
	return c
}

func (c Context) WithCastMode(m CastMode) Context {
	c.castMode = m
	return c
}

// WithCustomData returns a Context with key set in the custom data map. The
// receiver's map is copied, never mutated.
func (c Context) WithCustomData(key string, v any) Context {
	m := make(map[string]any, len(c.customData)+1)
	for k, old := range c.customData {
		m[k] = old
	}
	m[key] = v
	c.customData = m
	return c
}

func (c Context) WithGlobalPipeline(steps ...string) Context {
	c.globalPipeline = append([]string(nil), steps...)
	return c
}

// SerializationOptions steers the Normalizer: property filtering, recursion
// depth, lazy-property inclusion and top-level wrapping. Immutable; same
// With* discipline as Context.
type SerializationOptions struct {
	only        []string
	except      []string
	maxDepth    int
	includeLazy []string // nil = none, empty = all, names = subset
	wrap        string
}

// NewSerializationOptions returns options with defaults: no filtering,
// maxDepth 10, no lazy inclusion, no wrapping.
func NewSerializationOptions() SerializationOptions {
	return SerializationOptions{maxDepth: DefaultMaxDepth}
}

func (o SerializationOptions) Only() []string   { return o.only }
func (o SerializationOptions) Except() []string { return o.except }
func (o SerializationOptions) MaxDepth() int    { return o.maxDepth }
func (o SerializationOptions) Wrap() string     { return o.wrap }

// IncludeLazy returns the lazy inclusion selector: nil excludes all lazy
// properties, an empty non-nil slice includes all, names include a subset.
func (o SerializationOptions) IncludeLazy() []string { return o.includeLazy }

func (o SerializationOptions) WithOnly(names ...string) SerializationOptions {
	o.only = append([]string(nil), names...)
	return o
}

func (o SerializationOptions) WithExcept(names ...string) SerializationOptions {
	o.except = append([]string(nil), names...)
	return o
}

func (o SerializationOptions) WithMaxDepth(depth int) SerializationOptions {
	o.maxDepth = depth
	return o
}

// WithIncludeLazy selects the named lazy properties for inclusion.
func (o SerializationOptions) WithIncludeLazy(names ...string) SerializationOptions {
	o.includeLazy = append([]string{}, names...)
	return o
}

// WithAllLazy includes every lazy property.
func (o SerializationOptions) WithAllLazy() SerializationOptions {
	o.includeLazy = []string{}
	return o
}

// WithNoLazy excludes every lazy property (the default).
func (o SerializationOptions) WithNoLazy() SerializationOptions {
	o.includeLazy = nil
	return o
}

func (o SerializationOptions) WithWrap(key string) SerializationOptions {
	o.wrap = key
	return o
}

// Selected reports whether a property name passes the only/except filter.
// Hidden properties are excluded before this filter ever applies.
func (o SerializationOptions) Selected(name string) bool {
	if len(o.only) > 0 {
		for _, n := range o.only {
			if n == name {
				return true
			}
		}
		return false
	}
	for _, n := range o.except {
		if n == name {
			return false
		}
	}
	return true
}

// LazySelected reports whether a lazy property name is selected by the
// includeLazy option. The only/except filter applies separately via Selected.
func (o SerializationOptions) LazySelected(name string) bool {
	if o.includeLazy == nil {
		return false
	}
	if len(o.includeLazy) == 0 {
		return true
	}
	for _, n := range o.includeLazy {
		if n == name {
			return true
		}
	}
	return false
}
