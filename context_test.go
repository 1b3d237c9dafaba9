package jdto_test

import (
	"testing"

	jdto "github.com/jdto/jdto"
)

func TestContextDefaults(t *testing.T) {
	c := jdto.NewContext()
	if c.ValidationEnabled() {
		t.Error("validation should default off")
	}
	if c.CastMode() != jdto.CastLoose {
		t.Error("cast mode should default loose")
	}
	if _, ok := c.Naming().(jdto.SnakeCaseStrategy); !ok {
		t.Errorf("naming should default to snake_case, got %T", c.Naming())
	}
	if c.Serialization().MaxDepth() != jdto.DefaultMaxDepth {
		t.Errorf("maxDepth = %d", c.Serialization().MaxDepth())
	}
}

func TestContextWithLeavesReceiverUntouched(t *testing.T) {
	base := jdto.NewContext()
	derived := base.WithValidation(true).WithCastMode(jdto.CastStrict)
	if base.ValidationEnabled() || base.CastMode() != jdto.CastLoose {
		t.Error("With* mutated the receiver")
	}
	if !derived.ValidationEnabled() || derived.CastMode() != jdto.CastStrict {
		t.Error("derived context lost its changes")
	}
}

func TestContextCustomDataCopies(t *testing.T) {
	a := jdto.NewContext().WithCustomData("tenant", "acme")
	b := a.WithCustomData("tenant", "globex")
	if v, _ := a.CustomData("tenant"); v != "acme" {
		t.Errorf("receiver data changed to %v", v)
	}
	if v, _ := b.CustomData("tenant"); v != "globex" {
		t.Errorf("derived data = %v", v)
	}
	if _, ok := a.CustomData("missing"); ok {
		t.Error("missing key reported present")
	}
}

func TestSerializationSelected(t *testing.T) {
	o := jdto.NewSerializationOptions().WithOnly("name", "email")
	if !o.Selected("name") || o.Selected("age") {
		t.Error("only filter not applied")
	}
	o = jdto.NewSerializationOptions().WithExcept("password")
	if o.Selected("password") || !o.Selected("name") {
		t.Error("except filter not applied")
	}
	// only wins over except
	o = jdto.NewSerializationOptions().WithOnly("name").WithExcept("name")
	if !o.Selected("name") {
		t.Error("only should take precedence over except")
	}
}

func TestSerializationLazySelected(t *testing.T) {
	o := jdto.NewSerializationOptions()
	if o.LazySelected("anything") {
		t.Error("default excludes all lazy properties")
	}
	o = o.WithAllLazy()
	if !o.LazySelected("anything") {
		t.Error("WithAllLazy should include every lazy property")
	}
	o = o.WithIncludeLazy("fullName")
	if !o.LazySelected("fullName") || o.LazySelected("other") {
		t.Error("named lazy selection broken")
	}
	o = o.WithNoLazy()
	if o.LazySelected("fullName") {
		t.Error("WithNoLazy should exclude again")
	}
}

func TestSerializationWithCopies(t *testing.T) {
	base := jdto.NewSerializationOptions()
	derived := base.WithOnly("a").WithMaxDepth(2).WithWrap("data")
	if len(base.Only()) != 0 || base.MaxDepth() != jdto.DefaultMaxDepth || base.Wrap() != "" {
		t.Error("With* mutated the receiver")
	}
	if derived.MaxDepth() != 2 || derived.Wrap() != "data" {
		t.Error("derived options lost changes")
	}
}
