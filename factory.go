package jdto

import (
	"fmt"
	"reflect"
	"sync"
)

// MapCache is the default in-memory MetaCache. Reads take the fast path;
// duplicate first-population of the same key is benign because ClassMeta is a
// pure function of the type's static shape.
type MapCache struct {
	mu sync.RWMutex
	m  map[string]ClassMeta
}

func NewMapCache() *MapCache { return &MapCache{m: map[string]ClassMeta{}} }

func (c *MapCache) Get(key string) (ClassMeta, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	meta, ok := c.m[key]
	return meta, ok
}

func (c *MapCache) Set(key string, meta ClassMeta) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = meta
}

func (c *MapCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = map[string]ClassMeta{}
}

// MetaFactory produces and memoizes ClassMeta per struct type. Construction
// is explicit (engine-factory time); there is no ambient singleton.
type MetaFactory struct {
	describer Describer
	cache     MetaCache
}

// MetaFactoryOption configures a MetaFactory.
type MetaFactoryOption func(*MetaFactory)

// WithDescriber replaces the default StructDescriber.
func WithDescriber(d Describer) MetaFactoryOption {
	return func(f *MetaFactory) { f.describer = d }
}

// WithMetaCache replaces the default MapCache.
func WithMetaCache(c MetaCache) MetaFactoryOption {
	return func(f *MetaFactory) { f.cache = c }
}

func NewMetaFactory(opts ...MetaFactoryOption) *MetaFactory {
	f := &MetaFactory{describer: StructDescriber{}, cache: NewMapCache()}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Create returns the metadata for v's struct type, computing it on first use
// and serving the cached instance afterwards. v may be a struct value, a
// pointer to one, or a reflect.Type.
func (f *MetaFactory) Create(v any) (ClassMeta, error) {
	rt, ok := v.(reflect.Type)
	if !ok {
		if v == nil {
			return ClassMeta{}, &Error{Code: CodeInvalidType, Message: "cannot describe nil"}
		}
		rt = reflect.TypeOf(v)
	}
	return f.CreateType(rt)
}

// CreateType is Create for an already-resolved reflect.Type.
func (f *MetaFactory) CreateType(rt reflect.Type) (ClassMeta, error) {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return ClassMeta{}, &Error{
			Code:         CodeInvalidType,
			Message:      fmt.Sprintf("cannot describe %s: not a struct", rt),
			ExpectedType: "struct",
			GivenType:    rt.String(),
		}
	}
	key := rt.String()
	if meta, ok := f.cache.Get(key); ok {
		return meta, nil
	}
	meta, err := f.describer.Describe(rt)
	if err != nil {
		return ClassMeta{}, err
	}
	f.cache.Set(key, meta)
	return meta, nil
}

// Reset clears the cache. Mainly useful in tests and long-lived tools that
// reload generated types.
func (f *MetaFactory) Reset() { f.cache.Clear() }
