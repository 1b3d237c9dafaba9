package rules

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"

	jdto "github.com/jdto/jdto"
)

// Email validates string values as addr-spec email addresses.
type Email struct{}

func (Email) Name() string { return "email" }

func (Email) Supports(p jdto.PropertyMeta, _ any) bool { return p.HasRule("email") }

func (e Email) Validate(p jdto.PropertyMeta, v any, _ jdto.ValidationContext) []jdto.RuleViolation {
	if skippable(v) {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return []jdto.RuleViolation{violation(p, "email", v, nil)}
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return []jdto.RuleViolation{violation(p, "email", v, nil)}
	}
	return nil
}

// URL validates string values as absolute URLs.
type URL struct{}

func (URL) Name() string { return "url" }

func (URL) Supports(p jdto.PropertyMeta, _ any) bool { return p.HasRule("url") }

func (u URL) Validate(p jdto.PropertyMeta, v any, _ jdto.ValidationContext) []jdto.RuleViolation {
	if skippable(v) {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return []jdto.RuleViolation{violation(p, "url", v, nil)}
	}
	parsed, err := url.Parse(s)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return []jdto.RuleViolation{violation(p, "url", v, nil)}
	}
	return nil
}

// UUID validates string values as RFC 4122 UUIDs.
type UUID struct{}

func (UUID) Name() string { return "uuid" }

func (UUID) Supports(p jdto.PropertyMeta, _ any) bool { return p.HasRule("uuid") }

func (u UUID) Validate(p jdto.PropertyMeta, v any, _ jdto.ValidationContext) []jdto.RuleViolation {
	if skippable(v) {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return []jdto.RuleViolation{violation(p, "uuid", v, nil)}
	}
	if _, err := uuid.Parse(s); err != nil {
		return []jdto.RuleViolation{violation(p, "uuid", v, nil)}
	}
	return nil
}

// Regexp validates string values against the rule's pattern. Compiled
// patterns are cached process-wide; property metadata is static for the
// program lifetime.
type Regexp struct{}

var (
	_reMu    sync.RWMutex
	_reCache = map[string]*regexp.Regexp{}
)

func (Regexp) Name() string { return "regexp" }

func (Regexp) Supports(p jdto.PropertyMeta, _ any) bool { return p.HasRule("regexp") }

func (r Regexp) Validate(p jdto.PropertyMeta, v any, _ jdto.ValidationContext) []jdto.RuleViolation {
	if skippable(v) {
		return nil
	}
	spec, _ := p.Rule("regexp")
	pattern, _ := spec.Param("pattern", "").(string)
	re, err := compiled(pattern)
	if err != nil {
		return []jdto.RuleViolation{violation(p, "regexp", v, map[string]any{"pattern": pattern, "error": err.Error()})}
	}
	s, ok := v.(string)
	if !ok || !re.MatchString(s) {
		return []jdto.RuleViolation{violation(p, "regexp", v, map[string]any{"pattern": pattern})}
	}
	return nil
}

func compiled(pattern string) (*regexp.Regexp, error) {
	_reMu.RLock()
	re, ok := _reCache[pattern]
	_reMu.RUnlock()
	if ok {
		return re, nil
	}
	re, err := regexp.Compile(anchored(pattern))
	if err != nil {
		return nil, err
	}
	_reMu.Lock()
	_reCache[pattern] = re
	_reMu.Unlock()
	return re, nil
}

// anchored forces whole-string matching unless the pattern is already
// anchored.
func anchored(pattern string) string {
	if strings.HasPrefix(pattern, "^") && strings.HasSuffix(pattern, "$") {
		return pattern
	}
	return "^(?:" + pattern + ")$"
}
