package jdto

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// PipelineStep is one string-shaped transform applied to raw input values
// before validation and casting. Non-string values pass through untouched.
type PipelineStep func(string) string

var (
	_stepsMu sync.RWMutex
	_steps   = map[string]func(param string) (PipelineStep, error){
		"trim":  func(string) (PipelineStep, error) { return strings.TrimSpace, nil },
		"lower": func(string) (PipelineStep, error) { return strings.ToLower, nil },
		"upper": func(string) (PipelineStep, error) { return strings.ToUpper, nil },
		"strip_tags": func(string) (PipelineStep, error) {
			return stripTags, nil
		},
		"truncate": func(param string) (PipelineStep, error) {
			n, err := strconv.Atoi(param)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("truncate step wants a non-negative length, got %q", param)
			}
			return func(s string) string {
				r := []rune(s)
				if len(r) <= n {
					return s
				}
				return string(r[:n])
			}, nil
		},
	}
)

// RegisterPipelineStep installs a custom named step usable from pipe tags and
// Context.WithGlobalPipeline. The param value is whatever follows "name=" in
// the step declaration; parameterless steps receive "".
func RegisterPipelineStep(name string, build func(param string) (PipelineStep, error)) {
	_stepsMu.Lock()
	defer _stepsMu.Unlock()
	_steps[name] = build
}

// ResolvePipeline compiles the named steps. Step declarations are either
// "name" or "name=param".
func ResolvePipeline(names []string) ([]PipelineStep, error) {
	out := make([]PipelineStep, 0, len(names))
	for _, decl := range names {
		name, param := decl, ""
		if i := strings.IndexByte(decl, '='); i >= 0 {
			name, param = decl[:i], decl[i+1:]
		}
		_stepsMu.RLock()
		build, ok := _steps[name]
		_stepsMu.RUnlock()
		if !ok {
			return nil, &Error{Code: CodeConfig, Message: fmt.Sprintf("unknown pipeline step %q", name)}
		}
		step, err := build(param)
		if err != nil {
			return nil, &Error{Code: CodeConfig, Message: err.Error()}
		}
		out = append(out, step)
	}
	return out, nil
}

// ApplyPipeline runs the global steps then the property steps, in order, over
// a raw value. Only string values are transformed.
func ApplyPipeline(c Context, p PropertyMeta, v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}
	names := make([]string, 0, len(c.GlobalPipeline())+len(p.Pipeline))
	names = append(names, c.GlobalPipeline()...)
	names = append(names, p.Pipeline...)
	steps, err := ResolvePipeline(names)
	if err != nil {
		return nil, err
	}
	for _, step := range steps {
		s = step(s)
	}
	return s, nil
}

// stripTags removes anything between '<' and the matching '>'. Unterminated
// tags are dropped to the end of the string.
func stripTags(s string) string {
	b := &strings.Builder{}
	depth := 0
	for _, r := range s {
		switch {
		case r == '<':
			depth++
		case r == '>' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
