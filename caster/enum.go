package caster

import (
	"reflect"

	jdto "github.com/jdto/jdto"
)

// EnumCaster resolves enum-typed targets from a backing value or a case
// name. A type opts in by implementing jdto.Enum.
type EnumCaster struct{}

func (EnumCaster) Name() string { return "enum" }

func (EnumCaster) Supports(p jdto.PropertyMeta, _ any) bool { return p.Type.IsEnum }

func (EnumCaster) Cast(p jdto.PropertyMeta, v any, c jdto.Context) (any, error) {
	mode := effectiveMode(p, c)
	rt := baseType(p.Type)
	cases, err := enumCases(rt)
	if err != nil {
		return nil, err
	}

	// Already the enum type itself: accept if it names a declared case.
	if reflect.TypeOf(v) == rt {
		for _, backing := range cases {
			if equalBacking(v, backing, jdto.CastStrict) {
				return v, nil
			}
		}
	} else {
		// Backing value match first, then case name.
		for _, backing := range cases {
			if equalBacking(v, backing, mode) {
				return convertToEnum(rt, backing), nil
			}
		}
		if mode != jdto.CastStrict {
			if name, ok := v.(string); ok {
				if backing, ok := cases[name]; ok {
					return convertToEnum(rt, backing), nil
				}
			}
		}
	}

	if mode == jdto.CastPermissive {
		return reflect.Zero(rt).Interface(), nil
	}
	return nil, &jdto.Error{
		Code:         jdto.CodeInvalidEnum,
		Message:      "value matches no enum case",
		ExpectedType: p.Type.Name,
		GivenValue:   v,
	}
}

// enumCases instantiates the zero value of the enum type to read its case
// table. Pointer receivers are handled by addressing a fresh value.
func enumCases(rt reflect.Type) (map[string]any, error) {
	zero := reflect.New(rt).Elem()
	if e, ok := zero.Interface().(jdto.Enum); ok {
		return e.EnumCases(), nil
	}
	if e, ok := zero.Addr().Interface().(jdto.Enum); ok {
		return e.EnumCases(), nil
	}
	return nil, &jdto.Error{Code: jdto.CodeInvalidEnum, Message: "type does not implement jdto.Enum", GivenType: rt.String()}
}

// equalBacking compares a raw value to a case's backing value. Loose mode
// tolerates the numeric-kind mismatch JSON introduces (float64 vs int).
func equalBacking(v, backing any, mode jdto.CastMode) bool {
	if mode == jdto.CastStrict {
		return v == backing
	}
	if v == backing {
		return true
	}
	vf, okV := reflectNumeric(v)
	bf, okB := reflectNumeric(backing)
	if okV && okB {
		return vf == bf
	}
	vs, okV := reflectString(v)
	bs, okB := reflectString(backing)
	return okV && okB && vs == bs
}

// reflectNumeric also unifies named numeric types (enum constants).
func reflectNumeric(v any) (float64, bool) {
	if f, ok := numericValue(v); ok {
		return f, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func reflectString(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func convertToEnum(rt reflect.Type, backing any) any {
	bv := reflect.ValueOf(backing)
	if bv.Type().ConvertibleTo(rt) {
		return bv.Convert(rt).Interface()
	}
	return backing
}
