// Package lookup provides the default-value sources consulted by the
// hydrator's defaultFrom resolution chain: static maps, environment
// variables (with optional .env loading) and YAML config files.
package lookup

import (
	"os"
	"strings"
)

// Source resolves a lookup key to a raw value. Returned values go through
// the normal casting stage, so string-typed results are fine.
type Source interface {
	Lookup(key string) (any, bool)
}

// Static serves lookups from a fixed map.
type Static map[string]any

func (s Static) Lookup(key string) (any, bool) {
	v, ok := s[key]
	return v, ok
}

// Chain consults sources in order and returns the first hit.
type Chain []Source

func (c Chain) Lookup(key string) (any, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if v, ok := s.Lookup(key); ok {
			return v, ok
		}
	}
	return nil, false
}

// Env resolves keys from process environment variables, optionally under a
// prefix. Dots in keys become underscores, so "app.name" with prefix "MYAPP"
// reads MYAPP_APP_NAME.
type Env struct {
	Prefix string
}

func (e Env) Lookup(key string) (any, bool) {
	name := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if e.Prefix != "" {
		name = strings.ToUpper(e.Prefix) + "_" + name
	}
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil, false
	}
	return v, true
}
