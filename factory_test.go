package jdto_test

import (
	"reflect"
	"sync"
	"testing"

	jdto "github.com/jdto/jdto"
)

type factoryUser struct {
	FirstName string
	Age       int
}

// countingDescriber wraps the tag describer and counts Describe calls.
type countingDescriber struct {
	inner jdto.StructDescriber
	mu    sync.Mutex
	calls int
}

func (d *countingDescriber) Describe(rt reflect.Type) (jdto.ClassMeta, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	return d.inner.Describe(rt)
}

func (d *countingDescriber) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func TestFactoryCachesPerType(t *testing.T) {
	d := &countingDescriber{}
	f := jdto.NewMetaFactory(jdto.WithDescriber(d))

	first, err := f.Create(factoryUser{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := f.Create(&factoryUser{})
	if err != nil {
		t.Fatalf("Create pointer: %v", err)
	}
	if d.count() != 1 {
		t.Errorf("Describe ran %d times, want 1", d.count())
	}
	if first.ClassName != second.ClassName {
		t.Error("value and pointer produced different metadata")
	}
}

func TestFactoryResetClearsCache(t *testing.T) {
	d := &countingDescriber{}
	f := jdto.NewMetaFactory(jdto.WithDescriber(d))

	if _, err := f.Create(factoryUser{}); err != nil {
		t.Fatal(err)
	}
	f.Reset()
	if _, err := f.Create(factoryUser{}); err != nil {
		t.Fatal(err)
	}
	if d.count() != 2 {
		t.Errorf("Describe ran %d times after Reset, want 2", d.count())
	}
}

func TestFactoryConcurrentFirstUse(t *testing.T) {
	f := jdto.NewMetaFactory()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.Create(factoryUser{}); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
}

func TestFactoryRejectsNonStructs(t *testing.T) {
	f := jdto.NewMetaFactory()
	for _, v := range []any{42, "str", []int{1}, map[string]any{}} {
		if _, err := f.Create(v); err == nil {
			t.Errorf("Create(%T) should fail", v)
		}
	}
	if _, err := f.Create(nil); err == nil {
		t.Error("Create(nil) should fail")
	}
}

func TestFactoryMetadataShape(t *testing.T) {
	f := jdto.NewMetaFactory()
	meta, err := f.Create(factoryUser{})
	if err != nil {
		t.Fatal(err)
	}
	if len(meta.Properties) != 2 {
		t.Fatalf("got %d properties", len(meta.Properties))
	}
	p, ok := meta.Property("firstName")
	if !ok {
		t.Fatal("firstName not declared")
	}
	if p.FieldName != "FirstName" || p.Index != 0 {
		t.Errorf("firstName meta = %+v", p)
	}
	if !meta.HasProperty("age") {
		t.Error("age not declared")
	}
	if meta.HasProperty("FirstName") {
		t.Error("property lookup should use property names, not field names")
	}
}
