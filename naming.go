package jdto

import (
	"strings"
	"unicode"
)

// Direction selects which way a NamingStrategy converts.
type Direction int

const (
	ToSource   Direction = iota // property name -> input/output key
	ToProperty                  // input key -> property name
)

// NamingStrategy converts between property names and source keys in both
// directions.
type NamingStrategy interface {
	// Convert converts name in the given direction. Unknown direction values
	// return the input unchanged rather than failing; key resolution treats a
	// bad direction as "no conversion".
	Convert(name string, dir Direction) string
}

// SnakeCaseStrategy converts camelCase property names to snake_case source
// keys and back. A run of uppercase letters counts as one word boundary, so
// "HTMLParser" becomes "html_parser". Already-snake input passes through
// unchanged in either direction.
type SnakeCaseStrategy struct {
	// Separator defaults to "_".
	Separator string
}

func (s SnakeCaseStrategy) sep() string {
	if s.Separator == "" {
		return "_"
	}
	return s.Separator
}

func (s SnakeCaseStrategy) Convert(name string, dir Direction) string {
	switch dir {
	case ToSource:
		return s.toSource(name)
	case ToProperty:
		return s.toProperty(name)
	default:
		return name
	}
}

func (s SnakeCaseStrategy) toSource(name string) string {
	sep := s.sep()
	if strings.Contains(name, sep) {
		// already snake-cased; idempotent
		return strings.ToLower(name)
	}
	runes := []rune(name)
	b := &strings.Builder{}
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(runes[i-1]) && runes[i-1] != '_'
			// end of an uppercase run followed by a lowercase letter starts a
			// new word: HTMLParser -> html_parser
			nextLower := i > 0 && unicode.IsUpper(runes[i-1]) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				b.WriteString(sep)
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

func (s SnakeCaseStrategy) toProperty(key string) string {
	sep := s.sep()
	parts := strings.Split(key, sep)
	b := &strings.Builder{}
	wrote := false
	for _, p := range parts {
		if p == "" {
			continue
		}
		if !wrote {
			b.WriteString(strings.ToLower(p))
			wrote = true
			continue
		}
		r := []rune(strings.ToLower(p))
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// IdentityStrategy maps property names to keys verbatim.
type IdentityStrategy struct{}

func (IdentityStrategy) Convert(name string, _ Direction) string { return name }
