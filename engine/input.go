package engine

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	jdto "github.com/jdto/jdto"
)

// MapNormalizer passes map inputs through, copying map[string]string onto
// map[string]any.
type MapNormalizer struct{}

func (MapNormalizer) Supports(input any) bool {
	switch input.(type) {
	case map[string]any, map[string]string:
		return true
	}
	return false
}

func (MapNormalizer) Normalize(input any) (map[string]any, error) {
	switch t := input.(type) {
	case map[string]any:
		return t, nil
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = v
		}
		return out, nil
	}
	return nil, &jdto.Error{Code: jdto.CodeUnknownInput, Message: fmt.Sprintf("unsupported map input %T", input)}
}

// JSONNormalizer decodes JSON objects from []byte, json.RawMessage and
// object-shaped strings.
type JSONNormalizer struct{}

func (JSONNormalizer) Supports(input any) bool {
	switch t := input.(type) {
	case []byte:
		return looksLikeJSONObject(string(t))
	case json.RawMessage:
		return looksLikeJSONObject(string(t))
	case string:
		return looksLikeJSONObject(t)
	}
	return false
}

func (JSONNormalizer) Normalize(input any) (map[string]any, error) {
	var data []byte
	switch t := input.(type) {
	case []byte:
		data = t
	case json.RawMessage:
		data = t
	case string:
		data = []byte(t)
	default:
		return nil, &jdto.Error{Code: jdto.CodeUnknownInput, Message: fmt.Sprintf("unsupported JSON input %T", input)}
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &jdto.Error{Code: jdto.CodeInvalidFormat, Message: "invalid JSON object", Cause: err}
	}
	return out, nil
}

func looksLikeJSONObject(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "{")
}

// YAMLNormalizer decodes YAML mappings. It is not wired in by default
// because []byte input is ambiguous with JSON; opt in via
// WithInputNormalizer.
type YAMLNormalizer struct{}

func (YAMLNormalizer) Supports(input any) bool {
	_, ok := input.([]byte)
	return ok
}

func (YAMLNormalizer) Normalize(input any) (map[string]any, error) {
	data, ok := input.([]byte)
	if !ok {
		return nil, &jdto.Error{Code: jdto.CodeUnknownInput, Message: fmt.Sprintf("unsupported YAML input %T", input)}
	}
	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, &jdto.Error{Code: jdto.CodeInvalidFormat, Message: "invalid YAML mapping", Cause: err}
	}
	return out, nil
}

// StructNormalizer snapshots the exported fields of an arbitrary struct into
// a map keyed the same way hydration resolves keys (mapFrom override, then
// the naming strategy). The engine feeds it the per-call strategy through
// NormalizeWith so struct inputs and key resolution always agree.
type StructNormalizer struct {
	factory *jdto.MetaFactory
	naming  jdto.NamingStrategy
}

func (s StructNormalizer) Supports(input any) bool {
	rv := reflect.ValueOf(input)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return false
	}
	_, isTime := rv.Interface().(time.Time)
	return !isTime
}

func (s StructNormalizer) Normalize(input any) (map[string]any, error) {
	return s.snapshot(input, s.naming)
}

// NormalizeWith snapshots with the naming strategy of the effective Context
// instead of the one captured at construction.
func (s StructNormalizer) NormalizeWith(input any, c jdto.Context) (map[string]any, error) {
	return s.snapshot(input, c.Naming())
}

func (s StructNormalizer) snapshot(input any, naming jdto.NamingStrategy) (map[string]any, error) {
	rv := reflect.ValueOf(input)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	meta, err := s.factory.CreateType(rv.Type())
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(meta.Properties))
	for _, p := range meta.Properties {
		key := p.MapFrom
		if key == "" {
			key = naming.Convert(p.Name, jdto.ToSource)
		}
		out[key] = rv.Field(p.Index).Interface()
	}
	return out, nil
}
