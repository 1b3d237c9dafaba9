package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jdto "github.com/jdto/jdto"
	"github.com/jdto/jdto/engine"
)

type account struct {
	FirstName string
	Email     string
	Password  string `jdto:"hidden"`
	Status    userStatus
	SignedUp  time.Time
	Nickname  *string
	Home      address
	Tags      []string
}

func sampleAccount() account {
	return account{
		FirstName: "John",
		Email:     "john@example.com",
		Password:  "s3cret",
		Status:    userStatus(2),
		SignedUp:  time.Date(2021, 3, 14, 9, 0, 0, 0, time.UTC),
		Home:      address{Street: "Main St 1", ZipCode: "12345"},
		Tags:      []string{"a", "b"},
	}
}

func TestNormalizeBasics(t *testing.T) {
	e := engine.New()
	m, err := e.Normalize(context.Background(), sampleAccount())
	require.NoError(t, err)

	assert.Equal(t, "John", m["first_name"], "keys use the naming strategy")
	assert.Equal(t, "john@example.com", m["email"])
	assert.NotContains(t, m, "password", "hidden properties never appear")
	assert.Equal(t, int64(2), m["status"], "enums unwrap to their backing value")
	assert.Equal(t, "2021-03-14T09:00:00Z", m["signed_up"], "times format as RFC3339")
	assert.Nil(t, m["nickname"])

	home, ok := m["home"].(map[string]any)
	require.True(t, ok, "nested DTOs become nested maps")
	assert.Equal(t, "12345", home["zip_code"])
}

func TestNormalizeAcceptsPointers(t *testing.T) {
	e := engine.New()
	a := sampleAccount()
	m, err := e.Normalize(context.Background(), &a)
	require.NoError(t, err)
	assert.Equal(t, "John", m["first_name"])

	var nilAcc *account
	_, err = e.Normalize(context.Background(), nilAcc)
	assert.Error(t, err)
}

func TestNormalizeOnlyAndExcept(t *testing.T) {
	e := engine.New()

	c := jdto.NewContext().WithSerialization(jdto.NewSerializationOptions().WithOnly("firstName", "email"))
	m, err := e.Normalize(context.Background(), sampleAccount(), c)
	require.NoError(t, err)
	assert.Len(t, m, 2)
	assert.Contains(t, m, "first_name")
	assert.Contains(t, m, "email")

	c = jdto.NewContext().WithSerialization(jdto.NewSerializationOptions().WithExcept("email", "tags"))
	m, err = e.Normalize(context.Background(), sampleAccount(), c)
	require.NoError(t, err)
	assert.NotContains(t, m, "email")
	assert.NotContains(t, m, "tags")
	assert.Contains(t, m, "first_name")
}

func TestNormalizeMaxDepthZero(t *testing.T) {
	e := engine.New()
	c := jdto.NewContext().WithSerialization(jdto.NewSerializationOptions().WithMaxDepth(0))
	m, err := e.Normalize(context.Background(), sampleAccount(), c)
	require.NoError(t, err, "depth capping truncates, it never fails")
	assert.Empty(t, m)
}

func TestNormalizeMaxDepthTruncatesNested(t *testing.T) {
	e := engine.New()
	c := jdto.NewContext().WithSerialization(jdto.NewSerializationOptions().WithMaxDepth(1))
	m, err := e.Normalize(context.Background(), sampleAccount(), c)
	require.NoError(t, err)
	assert.Equal(t, "John", m["first_name"])
	home, ok := m["home"].(map[string]any)
	require.True(t, ok)
	assert.Empty(t, home, "the nested level sits at the cap and renders empty")
}

func TestNormalizeWrapTopLevelOnly(t *testing.T) {
	e := engine.New()
	c := jdto.NewContext().WithSerialization(jdto.NewSerializationOptions().WithWrap("data"))
	m, err := e.Normalize(context.Background(), sampleAccount(), c)
	require.NoError(t, err)
	require.Len(t, m, 1)

	inner, ok := m["data"].(map[string]any)
	require.True(t, ok)
	home, ok := inner["home"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, home, "data", "nested levels are never wrapped")
}

type profile struct {
	FirstName string
	LastName  string

	fullNameCalls int
}

func (p *profile) LazyProperties() map[string]any {
	return map[string]any{
		"fullName": func() any {
			p.fullNameCalls++
			return p.FirstName + " " + p.LastName
		},
		"plain": "static-value",
	}
}

func TestNormalizeLazyExcludedByDefault(t *testing.T) {
	e := engine.New()
	p := &profile{FirstName: "Ada", LastName: "Lovelace"}
	m, err := e.Normalize(context.Background(), p)
	require.NoError(t, err)
	assert.NotContains(t, m, "full_name")
	assert.NotContains(t, m, "plain")
	assert.Zero(t, p.fullNameCalls, "producers must not run when excluded")
}

func TestNormalizeLazyIncludeAll(t *testing.T) {
	e := engine.New()
	p := &profile{FirstName: "Ada", LastName: "Lovelace"}
	c := jdto.NewContext().WithSerialization(jdto.NewSerializationOptions().WithAllLazy())
	m, err := e.Normalize(context.Background(), p, c)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", m["full_name"])
	assert.Equal(t, "static-value", m["plain"])
	assert.Equal(t, 1, p.fullNameCalls, "a producer runs exactly once")
}

func TestNormalizeLazyNamedSubset(t *testing.T) {
	e := engine.New()
	p := &profile{FirstName: "Ada", LastName: "Lovelace"}
	c := jdto.NewContext().WithSerialization(jdto.NewSerializationOptions().WithIncludeLazy("plain"))
	m, err := e.Normalize(context.Background(), p, c)
	require.NoError(t, err)
	assert.Equal(t, "static-value", m["plain"])
	assert.NotContains(t, m, "full_name")
	assert.Zero(t, p.fullNameCalls, "unselected producers must not run")
}

func TestNormalizeLazyRespectsExcept(t *testing.T) {
	e := engine.New()
	p := &profile{FirstName: "Ada", LastName: "Lovelace"}
	c := jdto.NewContext().WithSerialization(
		jdto.NewSerializationOptions().WithAllLazy().WithExcept("fullName"),
	)
	m, err := e.Normalize(context.Background(), p, c)
	require.NoError(t, err)
	assert.NotContains(t, m, "full_name")
	assert.Zero(t, p.fullNameCalls)
}

type collidingProfile struct {
	FullName string
}

func (collidingProfile) LazyProperties() map[string]any {
	return map[string]any{"fullName": "boom"}
}

func TestNormalizeLazyCollisionIsFatal(t *testing.T) {
	e := engine.New()
	c := jdto.NewContext().WithSerialization(jdto.NewSerializationOptions().WithAllLazy())
	_, err := e.Normalize(context.Background(), collidingProfile{FullName: "x"}, c)
	require.Error(t, err)
	je, ok := err.(*jdto.Error)
	require.True(t, ok, "got %T", err)
	assert.Equal(t, jdto.CodeLazyCollision, je.Code)
}

func TestNormalizeLazyCollisionIgnoredWhenNotIncluded(t *testing.T) {
	e := engine.New()
	// the colliding name is never included, so nothing fails
	m, err := e.Normalize(context.Background(), collidingProfile{FullName: "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", m["full_name"])

	c := jdto.NewContext().WithSerialization(jdto.NewSerializationOptions().WithIncludeLazy("other"))
	_, err = e.Normalize(context.Background(), collidingProfile{FullName: "x"}, c)
	require.NoError(t, err)
}

func TestNormalizeDtoSlice(t *testing.T) {
	type directory struct {
		Homes []address
	}
	e := engine.New()
	m, err := e.Normalize(context.Background(), directory{Homes: []address{
		{Street: "A", ZipCode: "1"},
		{Street: "B", ZipCode: "2"},
	}})
	require.NoError(t, err)
	homes, ok := m["homes"].([]any)
	require.True(t, ok)
	require.Len(t, homes, 2)
	assert.Equal(t, "2", homes[1].(map[string]any)["zip_code"])
}

func TestNormalizeScalarSliceElements(t *testing.T) {
	type schedule struct {
		Start time.Time
		Slots []time.Time
		Codes []userStatus
	}
	e := engine.New()
	s := schedule{
		Start: time.Date(2021, 3, 14, 9, 0, 0, 0, time.UTC),
		Slots: []time.Time{
			time.Date(2022, 1, 2, 3, 4, 5, 0, time.UTC),
			time.Date(2023, 6, 7, 8, 9, 10, 0, time.UTC),
		},
		Codes: []userStatus{userStatus(1), userStatus(2)},
	}
	m, err := e.Normalize(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, "2021-03-14T09:00:00Z", m["start"])
	assert.Equal(t, []any{"2022-01-02T03:04:05Z", "2023-06-07T08:09:10Z"}, m["slots"],
		"slice elements format the same way scalar fields do")
	assert.Equal(t, []any{int64(1), int64(2)}, m["codes"])
}

func TestNormalizeToJSON(t *testing.T) {
	e := engine.New()
	b, err := e.NormalizeToJSON(context.Background(), address{Street: "A", ZipCode: "1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"street":"A","zip_code":"1"}`, string(b))
}

func TestNormalizeRejectsNonStructs(t *testing.T) {
	e := engine.New()
	_, err := e.Normalize(context.Background(), 42)
	assert.Error(t, err)
	_, err = e.Normalize(context.Background(), map[string]any{})
	assert.Error(t, err)
}

func TestNormalizeCustomTransformerOverride(t *testing.T) {
	type stamped struct {
		At time.Time `jdto:"transformer=unix"`
	}
	e := engine.New(engine.WithTransformer(unixTransformer{}, 50))
	m, err := e.Normalize(context.Background(), stamped{At: time.Unix(1700000000, 0)})
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), m["at"])
}

type unixTransformer struct{}

func (unixTransformer) Name() string { return "unix" }

func (unixTransformer) Supports(_ jdto.PropertyMeta, v any) bool {
	_, ok := v.(time.Time)
	return ok
}

func (unixTransformer) Transform(_ jdto.PropertyMeta, v any, _ jdto.Context) (any, error) {
	return v.(time.Time).Unix(), nil
}
