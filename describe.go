package jdto

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Describer produces ClassMeta for a struct type. The default implementation
// reads struct tags; code generators or config-file loaders can provide their
// own and feed the same engine.
type Describer interface {
	Describe(rt reflect.Type) (ClassMeta, error)
}

// StructDescriber derives metadata from struct tags.
//
// Recognized tags:
//
//	jdto:"from=key,hidden,strict,readonly,caster=name,transformer=name"  ("-" skips the field)
//	json:"key"          fallback source-key override when jdto from= is absent
//	validate:"required,email,url,uuid,min=18,max=99,between=1:10,length=3:20,regexp=^a+$,required_if=field:value,expr=...,valid,valid=each"
//	pipe:"trim,lower,strip_tags,truncate=20"
//	default:"literal"
//	defaultFrom:"config:app.name,env:APP_NAME,static,default"
//	discriminator:"type,cat=CatDto,dog=DogDto"
type StructDescriber struct{}

var (
	_timeType = reflect.TypeOf(time.Time{})
	_enumType = reflect.TypeOf((*Enum)(nil)).Elem()
)

func (StructDescriber) Describe(rt reflect.Type) (ClassMeta, error) {
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
	props := make([]PropertyMeta, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		p, skip, err := describeField(sf, i)
		if err != nil {
			return ClassMeta{}, err
		}
		if skip {
			continue
		}
		props = append(props, p)
	}
	return NewClassMeta(rt, rt.String(), false, props), nil
}

func describeField(sf reflect.StructField, index int) (PropertyMeta, bool, error) {
	p := PropertyMeta{
		Name:      propertyName(sf.Name),
		FieldName: sf.Name,
		Index:     index,
		Type:      describeType(sf.Type),
	}

	if tag, ok := sf.Tag.Lookup("jdto"); ok {
		if tag == "-" {
			return PropertyMeta{}, true, nil
		}
		for _, item := range splitTag(tag) {
			key, val, hasVal := cutTagItem(item)
			switch key {
			case "from":
				p.MapFrom = val
			case "hidden":
				p.Hidden = true
			case "strict":
				p.Strict = true
			case "readonly":
				p.Readonly = true
			case "caster":
				p.CasterName = val
			case "transformer":
				p.TransformerName = val
			default:
				if p.Attributes == nil {
					p.Attributes = map[string]string{}
				}
				if hasVal {
					p.Attributes[key] = val
				} else {
					p.Attributes[key] = ""
				}
			}
		}
	}
	if p.MapFrom == "" {
		if jt, ok := sf.Tag.Lookup("json"); ok && jt != "" {
			name := jt
			if i := strings.IndexByte(jt, ','); i >= 0 {
				name = jt[:i]
			}
			if name == "-" {
				return PropertyMeta{}, true, nil
			}
			if name != "" {
				p.MapFrom = name
			}
		}
	}

	if tag, ok := sf.Tag.Lookup("validate"); ok && tag != "" {
		rules, err := parseRules(tag)
		if err != nil {
			return PropertyMeta{}, false, &Error{Code: CodeConfig, Message: fmt.Sprintf("field %s: %v", sf.Name, err)}
		}
		p.Rules = rules
	}
	if tag, ok := sf.Tag.Lookup("pipe"); ok && tag != "" {
		p.Pipeline = splitTag(tag)
	}
	if tag, ok := sf.Tag.Lookup("default"); ok {
		p.HasDefault = true
		p.DefaultValue = tag
	}
	if tag, ok := sf.Tag.Lookup("defaultFrom"); ok && tag != "" {
		chain, err := parseDefaultFrom(tag)
		if err != nil {
			return PropertyMeta{}, false, &Error{Code: CodeConfig, Message: fmt.Sprintf("field %s: %v", sf.Name, err)}
		}
		p.DefaultFrom = chain
	}
	if tag, ok := sf.Tag.Lookup("discriminator"); ok && tag != "" {
		spec, err := parseDiscriminator(tag)
		if err != nil {
			return PropertyMeta{}, false, &Error{Code: CodeConfig, Message: fmt.Sprintf("field %s: %v", sf.Name, err)}
		}
		p.Discriminator = spec
	}
	return p, false, nil
}

// describeType classifies a field type into a TypeDescriptor.
func describeType(rt reflect.Type) TypeDescriptor {
	d := TypeDescriptor{Name: rt.String()}
	base := rt
	if base.Kind() == reflect.Pointer {
		d.Nullable = true
		base = base.Elem()
	}
	switch {
	case base == _timeType:
		d.IsTime = true
	case base.Implements(_enumType) || reflect.PointerTo(base).Implements(_enumType):
		d.IsEnum = true
	case base.Kind() == reflect.Slice || base.Kind() == reflect.Array:
		d.IsArray = true
		item := describeType(base.Elem())
		d.ArrayItem = &item
	case base.Kind() == reflect.Struct:
		d.IsDTO = true
	case base.Kind() == reflect.Map:
		d.IsMap = true
		d.Builtin = true
	case base.Kind() == reflect.Interface:
		d.Nullable = true
	default:
		d.Builtin = true
	}
	return NewTypeDescriptor(rt, d)
}

// propertyName lowers the first rune of a Go field name: FirstName ->
// firstName. Acronym-leading names keep the run intact for the naming
// strategy to split (HTMLBody -> hTMLBody is avoided by lowering the whole
// leading run).
func propertyName(field string) string {
	runes := []rune(field)
	i := 0
	for i < len(runes) && unicode.IsUpper(runes[i]) {
		// stop before the last upper of a run followed by lowercase
		if i+1 < len(runes) && unicode.IsLower(runes[i+1]) && i > 0 {
			break
		}
		runes[i] = unicode.ToLower(runes[i])
		i++
	}
	return string(runes)
}

func splitTag(tag string) []string {
	parts := strings.Split(tag, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func cutTagItem(item string) (key, val string, hasVal bool) {
	if i := strings.IndexByte(item, '='); i >= 0 {
		return item[:i], item[i+1:], true
	}
	return item, "", false
}

func parseRules(tag string) ([]RuleSpec, error) {
	items := splitTag(tag)
	out := make([]RuleSpec, 0, len(items))
	for _, item := range items {
		name, val, hasVal := cutTagItem(item)
		spec := RuleSpec{Name: name}
		switch name {
		case "required", "email", "url", "uuid":
			// no parameters
		case "min", "max":
			n, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, fmt.Errorf("rule %s wants a number, got %q", name, val)
			}
			spec.Params = map[string]any{name: n}
		case "between":
			lo, hi, err := parseRange(val)
			if err != nil {
				return nil, fmt.Errorf("rule between: %v", err)
			}
			spec.Params = map[string]any{"min": lo, "max": hi}
		case "length":
			lo, hi, err := parseRange(val)
			if err != nil {
				return nil, fmt.Errorf("rule length: %v", err)
			}
			spec.Params = map[string]any{"min": lo, "max": hi}
		case "regexp":
			if val == "" {
				return nil, fmt.Errorf("rule regexp wants a pattern")
			}
			spec.Params = map[string]any{"pattern": val}
		case "required_if":
			field, want, ok := strings.Cut(val, ":")
			if !ok {
				return nil, fmt.Errorf("rule required_if wants field:value, got %q", val)
			}
			spec.Params = map[string]any{"field": field, "value": parseLiteral(want)}
		case "expr":
			if val == "" {
				return nil, fmt.Errorf("rule expr wants an expression")
			}
			spec.Params = map[string]any{"expr": val}
		case "valid":
			if hasVal && val == "each" {
				spec.Params = map[string]any{"each": true}
			}
		default:
			// unknown rules are kept verbatim for custom validators
			if hasVal {
				spec.Params = map[string]any{"value": val}
			}
		}
		out = append(out, spec)
	}
	return out, nil
}

func parseRange(val string) (float64, float64, error) {
	lo, hi, ok := strings.Cut(val, ":")
	if !ok {
		return 0, 0, fmt.Errorf("want min:max, got %q", val)
	}
	l, err := strconv.ParseFloat(lo, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad min %q", lo)
	}
	h, err := strconv.ParseFloat(hi, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad max %q", hi)
	}
	return l, h, nil
}

// parseLiteral interprets a tag literal the way JSON input would arrive:
// bools and numbers keep their native kind, everything else stays a string.
// RequiredIf comparisons are strict, so "true" and true stay distinct.
func parseLiteral(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	return s
}

func parseDefaultFrom(tag string) ([]DefaultSource, error) {
	items := splitTag(tag)
	out := make([]DefaultSource, 0, len(items))
	for _, item := range items {
		kind, key, _ := strings.Cut(item, ":")
		switch kind {
		case "input":
			out = append(out, DefaultSource{Kind: DefaultFromInput})
		case "config":
			if key == "" {
				return nil, fmt.Errorf("defaultFrom config wants a key")
			}
			out = append(out, DefaultSource{Kind: DefaultFromConfig, Key: key})
		case "env":
			if key == "" {
				return nil, fmt.Errorf("defaultFrom env wants a variable name")
			}
			out = append(out, DefaultSource{Kind: DefaultFromEnv, Key: key})
		case "static":
			out = append(out, DefaultSource{Kind: DefaultFromStatic})
		case "default":
			out = append(out, DefaultSource{Kind: DefaultFromLiteral})
		default:
			return nil, fmt.Errorf("unknown defaultFrom source %q", kind)
		}
	}
	return out, nil
}

func parseDiscriminator(tag string) (*DiscriminatorSpec, error) {
	items := splitTag(tag)
	if len(items) == 0 {
		return nil, fmt.Errorf("discriminator wants a key")
	}
	spec := &DiscriminatorSpec{Key: items[0], Mapping: map[string]string{}}
	for _, item := range items[1:] {
		val, typ, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("discriminator mapping wants value=Type, got %q", item)
		}
		spec.Mapping[val] = typ
	}
	return spec, nil
}
