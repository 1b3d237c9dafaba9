package jdto

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType          = "invalid_type"
	CodeMissingKey           = "missing_key"
	CodeInvalidMapping       = "invalid_mapping"
	CodeCastFailed           = "cast_failed"
	CodeInvalidFormat        = "invalid_format"
	CodeInvalidEnum          = "invalid_enum"
	CodeDiscriminatorMissing = "discriminator_missing"
	CodeDiscriminatorUnknown = "discriminator_unknown"
	CodeUnknownInput         = "unknown_input"
	CodeLazyCollision        = "lazy_collision"
	CodeConfig               = "config_error"
	// Validation rule codes (violation RuleName values use the rule's own name).
	CodeRequired = "required"
)

// Error is the base error for hydration and mapping failures. Path is a
// dotted property path built up as the error bubbles through nested
// hydration (for example "address.zipCode").
type Error struct {
	Path         string
	Code         string
	Message      string
	ExpectedType string
	GivenType    string
	GivenValue   any
	Cause        error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s at %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// WithPath returns a copy of the error with the path replaced.
func (e *Error) WithPath(path string) *Error {
	cp := *e
	cp.Path = path
	return &cp
}

// PrependPath returns a copy of the error with segment prefixed onto the
// dotted path.
func (e *Error) PrependPath(segment string) *Error {
	cp := *e
	if cp.Path == "" {
		cp.Path = segment
	} else {
		cp.Path = segment + "." + cp.Path
	}
	return &cp
}

// MissingRequiredKey reports an input map lacking a key that maps to a
// non-nullable property without a default.
func MissingRequiredKey(key string, path ...string) *Error {
	e := &Error{Code: CodeMissingKey, Message: fmt.Sprintf("missing required key %q", key)}
	if len(path) > 0 {
		e.Path = path[0]
	}
	return e
}

// InvalidMapping reports a value that cannot be mapped from one shape to
// another.
func InvalidMapping(from, to string, path ...string) *Error {
	e := &Error{
		Code:         CodeInvalidMapping,
		Message:      fmt.Sprintf("cannot map %s to %s", from, to),
		ExpectedType: to,
		GivenType:    from,
	}
	if len(path) > 0 {
		e.Path = path[0]
	}
	return e
}

// CastError reports a failed cast for a property value.
func CastError(expected string, given any, cause error) *Error {
	return &Error{
		Code:         CodeCastFailed,
		Message:      fmt.Sprintf("cannot cast %T to %s", given, expected),
		ExpectedType: expected,
		GivenType:    fmt.Sprintf("%T", given),
		GivenValue:   given,
		Cause:        cause,
	}
}

// HydrationError aggregates every per-property failure of a single hydrate
// call. Hydration is all-or-nothing: either a fully valid object is returned,
// or a HydrationError carrying all nested errors.
type HydrationError struct {
	Message string
	nested  []error
}

// NewHydrationError builds an aggregate from the given nested errors.
func NewHydrationError(message string, nested ...error) *HydrationError {
	return &HydrationError{Message: message, nested: nested}
}

// Error summarizes the first few nested errors.
func (e *HydrationError) Error() string {
	if len(e.nested) == 0 {
		return e.Message
	}
	const maxShown = 3
	b := &strings.Builder{}
	b.WriteString(e.Message)
	b.WriteString(": ")
	lim := len(e.nested)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.nested[i].Error())
	}
	if len(e.nested) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(e.nested))
	}
	return b.String()
}

// Errors returns the nested errors in the order they were collected.
func (e *HydrationError) Errors() []error { return e.nested }

// ErrorCount counts nested errors, descending into nested HydrationErrors.
func (e *HydrationError) ErrorCount() int {
	n := 0
	for _, err := range e.nested {
		var he *HydrationError
		if errors.As(err, &he) {
			n += he.ErrorCount()
			continue
		}
		n++
	}
	return n
}

// HasNestedErrors reports whether any error was collected.
func (e *HydrationError) HasNestedErrors() bool { return len(e.nested) > 0 }

// FullMessage renders every nested error on its own line.
func (e *HydrationError) FullMessage() string {
	b := &strings.Builder{}
	b.WriteString(e.Message)
	for _, err := range e.nested {
		var he *HydrationError
		if errors.As(err, &he) {
			b.WriteString("\n")
			b.WriteString(he.FullMessage())
			continue
		}
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// RuleViolation describes a single failed validation rule. Constructed once
// per failure and never mutated.
type RuleViolation struct {
	Property     string
	Rule         string
	Message      string
	InvalidValue any
	Params       map[string]any
}

// ValidationError aggregates every rule violation of a single hydrate call.
type ValidationError struct {
	Violations []RuleViolation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	const maxShown = 3
	b := &strings.Builder{}
	fmt.Fprintf(b, "validation failed (%d violations): ", len(e.Violations))
	lim := len(e.Violations)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		v := e.Violations[i]
		fmt.Fprintf(b, "%s: %s", v.Property, v.Message)
	}
	if len(e.Violations) > lim {
		b.WriteString("; ...")
	}
	return b.String()
}

// AsHydrationError extracts a HydrationError using errors.As internally.
func AsHydrationError(err error) (*HydrationError, bool) {
	var he *HydrationError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// AsValidationError extracts a ValidationError using errors.As internally.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
