package engine

import (
	"context"
	"fmt"
	"reflect"
	"strconv"

	jdto "github.com/jdto/jdto"
)

// hydrateOpts carries per-call hydration behavior. Partial mode (used by the
// PartialBuilder) restricts processing to an allow-list and never raises
// missing-key errors for everything else.
type hydrateOpts struct {
	partial bool
	allowed map[string]struct{}
}

type hydrator struct{ e *Engine }

// hydrate processes every property of meta in declaration order, collecting
// per-property failures instead of stopping at the first one. Either dest is
// fully populated and valid, or the returned error aggregates everything
// that went wrong.
func (h hydrator) hydrate(ctx context.Context, dest reflect.Value, meta jdto.ClassMeta, data map[string]any, c jdto.Context, opts hydrateOpts) error {
	var errs []error
	var viols []jdto.RuleViolation

	for _, p := range meta.Properties {
		if opts.partial {
			if _, ok := opts.allowed[p.Name]; !ok {
				h.applyDeclaredDefault(dest, p, c)
				continue
			}
		}
		if fatal := h.property(ctx, dest, p, data, c, &errs, &viols); fatal != nil {
			return fatal
		}
	}

	if len(errs) == 0 && len(viols) > 0 {
		return &jdto.ValidationError{Violations: viols}
	}
	if len(viols) > 0 {
		errs = append(errs, &jdto.ValidationError{Violations: viols})
	}
	if len(errs) > 0 {
		return jdto.NewHydrationError(fmt.Sprintf("hydration of %s failed", meta.ClassName), errs...)
	}

	if ph, ok := dest.Addr().Interface().(jdto.PostHydrator); ok {
		// domain-rule failures from the hook propagate unmodified
		return ph.AfterHydrate(ctx)
	}
	return nil
}

// property runs one property through the fixed stages: pipeline, key
// resolution, validation, casting, nested recursion. The returned error is
// non-nil only for fatal conditions that must abort the whole call (nested
// lifecycle-hook failures).
func (h hydrator) property(ctx context.Context, dest reflect.Value, p jdto.PropertyMeta, data map[string]any, c jdto.Context, errs *[]error, viols *[]jdto.RuleViolation) error {
	key := p.MapFrom
	if key == "" {
		key = c.Naming().Convert(p.Name, jdto.ToSource)
	}
	raw, present := data[key]

	if present {
		piped, err := jdto.ApplyPipeline(c, p, raw)
		if err != nil {
			return h.merge(p.Name, err, errs, viols)
		}
		raw = piped
	} else {
		dv, ok, err := h.resolveDefault(dest, p, false)
		if err != nil {
			return h.merge(p.Name, err, errs, viols)
		}
		if ok {
			raw, present = dv, true
		}
	}

	if c.ValidationEnabled() {
		vc := jdto.ValidationContext{Property: p, AllData: data, Context: c}
		var rawVal any
		if present {
			rawVal = raw
		}
		if vs := h.e.validators.Validate(p, rawVal, vc); len(vs) > 0 {
			*viols = append(*viols, vs...)
			return nil
		}
	}

	if !present {
		if p.Type.Nullable {
			return nil
		}
		*errs = append(*errs, jdto.MissingRequiredKey(key, p.Name))
		return nil
	}

	if err := h.assign(ctx, dest.Field(p.Index), p, raw, c); err != nil {
		return h.merge(p.Name, err, errs, viols)
	}
	return nil
}

// merge rebases a child error under the property name: hydration aggregates
// flatten, validation violations keep accumulating with dotted property
// names, plain errors get their path prefixed. Anything else is a lifecycle
// hook failure and is returned as fatal.
func (h hydrator) merge(prefix string, err error, errs *[]error, viols *[]jdto.RuleViolation) error {
	switch t := err.(type) {
	case *jdto.HydrationError:
		for _, nested := range t.Errors() {
			if fatal := h.merge(prefix, nested, errs, viols); fatal != nil {
				return fatal
			}
		}
		return nil
	case *jdto.ValidationError:
		for _, v := range t.Violations {
			v.Property = prefix + "." + v.Property
			*viols = append(*viols, v)
		}
		return nil
	case *jdto.Error:
		*errs = append(*errs, t.PrependPath(prefix))
		return nil
	default:
		return err
	}
}

// resolveDefault walks the property's DefaultFrom chain. Without a declared
// chain the implicit order is static method, then the default tag literal.
// implicitOnly restricts resolution to that implicit order regardless of the
// declared chain (partial mode).
func (h hydrator) resolveDefault(dest reflect.Value, p jdto.PropertyMeta, implicitOnly bool) (any, bool, error) {
	chain := p.DefaultFrom
	if len(chain) == 0 || implicitOnly {
		chain = []jdto.DefaultSource{{Kind: jdto.DefaultFromStatic}, {Kind: jdto.DefaultFromLiteral}}
	}
	for _, src := range chain {
		switch src.Kind {
		case jdto.DefaultFromInput:
			// input was already consulted; nothing to do here
		case jdto.DefaultFromConfig:
			if h.e.config != nil {
				if v, ok := h.e.config.Lookup(src.Key); ok {
					return v, true, nil
				}
			}
		case jdto.DefaultFromEnv:
			if h.e.env != nil {
				if v, ok := h.e.env.Lookup(src.Key); ok {
					return v, true, nil
				}
			}
		case jdto.DefaultFromStatic:
			v, ok, err := staticDefault(dest, p)
			if err != nil || ok {
				return v, ok, err
			}
		case jdto.DefaultFromLiteral:
			if p.HasDefault {
				return p.DefaultValue, true, nil
			}
		}
	}
	return nil, false, nil
}

// staticDefault invokes Default<Field>() on the DTO type when declared. One
// result returns the value; a second result may report an error.
func staticDefault(dest reflect.Value, p jdto.PropertyMeta) (any, bool, error) {
	name := "Default" + p.FieldName
	m := dest.Addr().MethodByName(name)
	if !m.IsValid() {
		m = dest.MethodByName(name)
	}
	if !m.IsValid() || m.Type().NumIn() != 0 || m.Type().NumOut() == 0 || m.Type().NumOut() > 2 {
		return nil, false, nil
	}
	out := m.Call(nil)
	if len(out) == 2 {
		if err, ok := out[1].Interface().(error); ok && err != nil {
			return nil, false, &jdto.Error{Code: jdto.CodeConfig, Message: fmt.Sprintf("%s failed: %v", name, err), Cause: err}
		}
	}
	return out[0].Interface(), true, nil
}

// applyDeclaredDefault populates a property skipped by partial mode with its
// declared default, when one exists. Failures here are ignored: partial mode
// guarantees only the allow-listed fields.
func (h hydrator) applyDeclaredDefault(dest reflect.Value, p jdto.PropertyMeta, c jdto.Context) {
	v, ok, err := h.resolveDefault(dest, p, true)
	if err != nil || !ok {
		return
	}
	cast, err := h.e.casters.Cast(p, v, c)
	if err != nil {
		return
	}
	_ = setValue(dest.Field(p.Index), cast)
}

// assign casts raw onto the field, recursing into nested DTOs and
// discriminator-mapped polymorphic properties.
func (h hydrator) assign(ctx context.Context, field reflect.Value, p jdto.PropertyMeta, raw any, c jdto.Context) error {
	if raw == nil {
		if p.Type.Nullable {
			field.Set(reflect.Zero(field.Type()))
			return nil
		}
		return &jdto.Error{
			Code:         jdto.CodeInvalidType,
			Message:      "null value for non-nullable property",
			ExpectedType: p.Type.Name,
			GivenType:    "null",
		}
	}
	switch {
	case p.Discriminator != nil:
		return h.assignPolymorphic(ctx, field, p, raw, c)
	case p.Type.IsDTO:
		return h.assignDTO(ctx, field, p, raw, c)
	case p.Type.IsArray && p.Type.ArrayItem != nil && p.Type.ArrayItem.IsDTO:
		return h.assignDTOSlice(ctx, field, p, raw, c)
	default:
		cast, err := h.e.casters.Cast(p, raw, c)
		if err != nil {
			return err
		}
		return setValue(field, cast)
	}
}

// childContext decides whether validation cascades into a nested hydration:
// the valid rule opts a DTO property in, valid=each opts array elements in.
func childContext(c jdto.Context, p jdto.PropertyMeta, element bool) jdto.Context {
	if !c.ValidationEnabled() {
		return c
	}
	spec, ok := p.Rule("valid")
	if !ok {
		return c.WithValidation(false)
	}
	if element {
		if each, _ := spec.Param("each", false).(bool); !each {
			return c.WithValidation(false)
		}
	}
	return c
}

func (h hydrator) assignDTO(ctx context.Context, field reflect.Value, p jdto.PropertyMeta, raw any, c jdto.Context) error {
	base := field.Type()
	for base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	if rv := reflect.ValueOf(raw); rv.Type() == base || rv.Type() == reflect.PointerTo(base) {
		return setValue(field, raw)
	}
	sub, ok := raw.(map[string]any)
	if !ok {
		return jdto.InvalidMapping(fmt.Sprintf("%T", raw), base.String())
	}
	meta, err := h.e.factory.CreateType(base)
	if err != nil {
		return err
	}
	inst := reflect.New(base)
	if err := h.hydrate(ctx, inst.Elem(), meta, sub, childContext(c, p, false), hydrateOpts{}); err != nil {
		return err
	}
	if field.Kind() == reflect.Pointer {
		field.Set(inst)
		return nil
	}
	field.Set(inst.Elem())
	return nil
}

func (h hydrator) assignDTOSlice(ctx context.Context, field reflect.Value, p jdto.PropertyMeta, raw any, c jdto.Context) error {
	items, err := toAnySlice(raw)
	if err != nil {
		return jdto.InvalidMapping(fmt.Sprintf("%T", raw), p.Type.Name)
	}
	sliceType := field.Type()
	for sliceType.Kind() == reflect.Pointer {
		sliceType = sliceType.Elem()
	}
	elemType := sliceType.Elem()
	base := elemType
	for base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	meta, err := h.e.factory.CreateType(base)
	if err != nil {
		return err
	}

	childCtx := childContext(c, p, true)
	out := reflect.MakeSlice(sliceType, len(items), len(items))
	var errs []error
	var viols []jdto.RuleViolation
	for i, item := range items {
		sub, ok := item.(map[string]any)
		if !ok {
			errs = append(errs, jdto.InvalidMapping(fmt.Sprintf("%T", item), base.String(), strconv.Itoa(i)))
			continue
		}
		inst := reflect.New(base)
		if err := h.hydrate(ctx, inst.Elem(), meta, sub, childCtx, hydrateOpts{}); err != nil {
			if fatal := h.merge(strconv.Itoa(i), err, &errs, &viols); fatal != nil {
				return fatal
			}
			continue
		}
		if elemType.Kind() == reflect.Pointer {
			out.Index(i).Set(inst)
		} else {
			out.Index(i).Set(inst.Elem())
		}
	}
	if len(viols) > 0 {
		errs = append(errs, &jdto.ValidationError{Violations: viols})
	}
	if len(errs) > 0 {
		return jdto.NewHydrationError(fmt.Sprintf("hydration of %s elements failed", p.Type.Name), errs...)
	}
	return setValue(field, out.Interface())
}

// assignPolymorphic reads the companion discriminator key inside the
// sub-payload to select the registered concrete type, before any casting.
func (h hydrator) assignPolymorphic(ctx context.Context, field reflect.Value, p jdto.PropertyMeta, raw any, c jdto.Context) error {
	sub, ok := raw.(map[string]any)
	if !ok {
		return jdto.InvalidMapping(fmt.Sprintf("%T", raw), p.Type.Name)
	}
	spec := p.Discriminator
	dv, ok := sub[spec.Key]
	if !ok {
		return &jdto.Error{Code: jdto.CodeDiscriminatorMissing, Message: fmt.Sprintf("discriminator key %q missing", spec.Key)}
	}
	dval := fmt.Sprint(dv)
	name := dval
	if len(spec.Mapping) > 0 {
		name, ok = spec.Mapping[dval]
		if !ok {
			return &jdto.Error{Code: jdto.CodeDiscriminatorUnknown, Message: fmt.Sprintf("discriminator value %q is not mapped", dval), GivenValue: dval}
		}
	}
	rt, ok := h.e.typeFor(name)
	if !ok {
		return &jdto.Error{Code: jdto.CodeDiscriminatorUnknown, Message: fmt.Sprintf("type %q is not registered", name), GivenValue: dval}
	}
	meta, err := h.e.factory.CreateType(rt)
	if err != nil {
		return err
	}
	inst := reflect.New(rt)
	if err := h.hydrate(ctx, inst.Elem(), meta, sub, childContext(c, p, false), hydrateOpts{}); err != nil {
		return err
	}
	switch {
	case inst.Type().AssignableTo(field.Type()):
		field.Set(inst)
	case inst.Elem().Type().AssignableTo(field.Type()):
		field.Set(inst.Elem())
	default:
		return jdto.InvalidMapping(rt.String(), field.Type().String())
	}
	return nil
}

// setValue writes a cast result onto a field, allocating pointers for
// nullable targets and rebuilding typed slices from []any.
func setValue(field reflect.Value, v any) error {
	ft := field.Type()
	if v == nil {
		field.Set(reflect.Zero(ft))
		return nil
	}
	if ft.Kind() == reflect.Pointer {
		ptr := reflect.New(ft.Elem())
		if err := setValue(ptr.Elem(), v); err != nil {
			return err
		}
		field.Set(ptr)
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(ft) {
		field.Set(rv)
		return nil
	}
	if ft.Kind() == reflect.Slice {
		if items, ok := v.([]any); ok {
			out := reflect.MakeSlice(ft, len(items), len(items))
			for i, item := range items {
				if err := setValue(out.Index(i), item); err != nil {
					return err
				}
			}
			field.Set(out)
			return nil
		}
	}
	if convertibleKinds(rv.Type(), ft) && rv.Type().ConvertibleTo(ft) {
		field.Set(rv.Convert(ft))
		return nil
	}
	return jdto.InvalidMapping(rv.Type().String(), ft.String())
}

// convertibleKinds guards reflect conversion against cross-class surprises
// like int-to-string rune conversion.
func convertibleKinds(from, to reflect.Type) bool {
	return kindClass(from.Kind()) == kindClass(to.Kind())
}

func kindClass(k reflect.Kind) int {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return 1
	case reflect.String:
		return 2
	case reflect.Bool:
		return 3
	default:
		return 0
	}
}

func toAnySlice(v any) ([]any, error) {
	if items, ok := v.([]any); ok {
		return items, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected a slice, got %T", v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}
