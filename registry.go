package jdto

import (
	"fmt"
	"sort"
	"sync"
)

// handlerEntry pairs a handler with its registration priority and order.
type handlerEntry[H any] struct {
	handler  H
	priority int
	seq      int
}

// registry is the priority-ordered extension-point store shared by the
// caster, validator and transformer registries. Handlers resolve in
// descending priority; ties keep registration order. The sort is computed
// once and cached until the next Register call.
type registry[H any] struct {
	mu      sync.RWMutex
	entries []handlerEntry[H]
	sorted  []H
	seq     int
}

func (r *registry[H]) Register(h H, priority int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, handlerEntry[H]{handler: h, priority: priority, seq: r.seq})
	r.seq++
	r.sorted = nil
}

// Handlers returns the handlers in descending priority order.
func (r *registry[H]) Handlers() []H {
	r.mu.RLock()
	if r.sorted != nil {
		out := r.sorted
		r.mu.RUnlock()
		return out
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sorted != nil {
		return r.sorted
	}
	es := append([]handlerEntry[H](nil), r.entries...)
	sort.SliceStable(es, func(i, j int) bool {
		if es[i].priority != es[j].priority {
			return es[i].priority > es[j].priority
		}
		return es[i].seq < es[j].seq
	})
	out := make([]H, len(es))
	for i, e := range es {
		out[i] = e.handler
	}
	r.sorted = out
	return out
}

// CasterRegistry resolves which caster applies to a (property, value) pair.
type CasterRegistry struct {
	registry[Caster]
}

func NewCasterRegistry() *CasterRegistry { return &CasterRegistry{} }

// Find returns the highest-priority caster whose Supports matches, or nil.
func (r *CasterRegistry) Find(p PropertyMeta, v any) Caster {
	if p.CasterName != "" {
		if c := r.ByName(p.CasterName); c != nil {
			return c
		}
	}
	for _, c := range r.Handlers() {
		if c.Supports(p, v) {
			return c
		}
	}
	return nil
}

// ByName returns the registered caster with the given name, or nil.
func (r *CasterRegistry) ByName(name string) Caster {
	for _, c := range r.Handlers() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// Cast resolves and applies a caster; it fails when no caster supports the
// value.
func (r *CasterRegistry) Cast(p PropertyMeta, v any, c Context) (any, error) {
	h := r.Find(p, v)
	if h == nil {
		return nil, &Error{
			Code:         CodeCastFailed,
			Message:      fmt.Sprintf("no caster supports property %q (%T)", p.Name, v),
			ExpectedType: p.Type.Name,
			GivenType:    fmt.Sprintf("%T", v),
			GivenValue:   v,
		}
	}
	return h.Cast(p, v, c)
}

// ValidatorRegistry resolves the validators applying to a (property, value)
// pair.
type ValidatorRegistry struct {
	registry[Validator]
}

func NewValidatorRegistry() *ValidatorRegistry { return &ValidatorRegistry{} }

// Find returns the highest-priority validator whose Supports matches, or nil.
func (r *ValidatorRegistry) Find(p PropertyMeta, v any) Validator {
	for _, h := range r.Handlers() {
		if h.Supports(p, v) {
			return h
		}
	}
	return nil
}

// Validate runs every supporting validator in priority order and returns the
// accumulated violations.
func (r *ValidatorRegistry) Validate(p PropertyMeta, v any, vc ValidationContext) []RuleViolation {
	var out []RuleViolation
	for _, h := range r.Handlers() {
		if !h.Supports(p, v) {
			continue
		}
		out = append(out, h.Validate(p, v, vc)...)
	}
	return out
}

// TransformerRegistry resolves which transformer applies to a (property,
// value) pair.
type TransformerRegistry struct {
	registry[Transformer]
}

func NewTransformerRegistry() *TransformerRegistry { return &TransformerRegistry{} }

// Find returns the highest-priority transformer whose Supports matches, or
// nil.
func (r *TransformerRegistry) Find(p PropertyMeta, v any) Transformer {
	if p.TransformerName != "" {
		for _, t := range r.Handlers() {
			if t.Name() == p.TransformerName {
				return t
			}
		}
	}
	for _, t := range r.Handlers() {
		if t.Supports(p, v) {
			return t
		}
	}
	return nil
}

// Transform applies the first matching transformer, falling back to the
// input unchanged when none matches.
func (r *TransformerRegistry) Transform(p PropertyMeta, v any, c Context) (any, error) {
	t := r.Find(p, v)
	if t == nil {
		return v, nil
	}
	return t.Transform(p, v, c)
}
