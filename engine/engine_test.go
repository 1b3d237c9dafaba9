package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jdto "github.com/jdto/jdto"
	"github.com/jdto/jdto/engine"
)

type point struct {
	X int
	Y int
}

func TestHydrateFromJSONBytes(t *testing.T) {
	e := engine.New()
	p, err := engine.Hydrate[point](e, context.Background(), []byte(`{"x": 1, "y": 2}`))
	require.NoError(t, err)
	assert.Equal(t, point{X: 1, Y: 2}, p)
}

func TestHydrateFromJSONString(t *testing.T) {
	e := engine.New()
	p, err := engine.Hydrate[point](e, context.Background(), `{"x": 1, "y": 2}`)
	require.NoError(t, err)
	assert.Equal(t, point{X: 1, Y: 2}, p)
}

func TestHydrateFromInvalidJSON(t *testing.T) {
	e := engine.New()
	_, err := engine.Hydrate[point](e, context.Background(), `{"x": `)
	require.Error(t, err)
}

func TestHydrateFromStringMap(t *testing.T) {
	e := engine.New()
	p, err := engine.Hydrate[point](e, context.Background(), map[string]string{"x": "1", "y": "2"})
	require.NoError(t, err)
	assert.Equal(t, point{X: 1, Y: 2}, p)
}

func TestHydrateFromStruct(t *testing.T) {
	type wirePoint struct {
		X int
		Y int
	}
	e := engine.New()
	p, err := engine.Hydrate[point](e, context.Background(), wirePoint{X: 3, Y: 4})
	require.NoError(t, err)
	assert.Equal(t, point{X: 3, Y: 4}, p)
}

func TestYAMLNormalizerOptIn(t *testing.T) {
	e := engine.New(engine.WithInputNormalizer(engine.YAMLNormalizer{}))
	p, err := engine.Hydrate[point](e, context.Background(), []byte("x: 5\ny: 6\n"))
	require.NoError(t, err)
	assert.Equal(t, point{X: 5, Y: 6}, p)
}

func TestWithContextSetsEngineDefault(t *testing.T) {
	type strictPoint struct {
		X int
	}
	e := engine.New(engine.WithContext(jdto.NewContext().WithCastMode(jdto.CastStrict)))
	_, err := engine.Hydrate[strictPoint](e, context.Background(), map[string]any{"x": "1"})
	require.Error(t, err, "the engine default context should apply")

	// an explicit per-call context overrides the default
	p, err := engine.Hydrate[strictPoint](e, context.Background(), map[string]any{"x": "1"}, jdto.NewContext())
	require.NoError(t, err)
	assert.Equal(t, 1, p.X)
}

func TestWithCasterTakesPrecedence(t *testing.T) {
	type flagged struct {
		Level int
	}
	e := engine.New(engine.WithCaster(levelCaster{}, 100))
	f, err := engine.Hydrate[flagged](e, context.Background(), map[string]any{"level": "high"})
	require.NoError(t, err)
	assert.Equal(t, 3, f.Level)
}

type levelCaster struct{}

func (levelCaster) Name() string { return "level" }

func (levelCaster) Supports(p jdto.PropertyMeta, v any) bool {
	s, ok := v.(string)
	return ok && p.Name == "level" && (s == "low" || s == "high")
}

func (levelCaster) Cast(_ jdto.PropertyMeta, v any, _ jdto.Context) (any, error) {
	if v == "high" {
		return int64(3), nil
	}
	return int64(1), nil
}

func TestEngineMeta(t *testing.T) {
	e := engine.New()
	meta, err := e.Meta(point{})
	require.NoError(t, err)
	assert.True(t, meta.HasProperty("x"))
	assert.True(t, meta.HasProperty("y"))
}

func TestCustomNamingStrategy(t *testing.T) {
	type cfg struct {
		MaxRetries int
	}
	e := engine.New()
	c := jdto.NewContext().WithNaming(jdto.IdentityStrategy{})
	got, err := engine.Hydrate[cfg](e, context.Background(), map[string]any{"maxRetries": 5}, c)
	require.NoError(t, err)
	assert.Equal(t, 5, got.MaxRetries)

	m, err := e.Normalize(context.Background(), got, c)
	require.NoError(t, err)
	assert.Contains(t, m, "maxRetries")
}

func TestStructInputFollowsPerCallNaming(t *testing.T) {
	type retryConfig struct {
		MaxRetries int
	}
	type wireConfig struct {
		MaxRetries int
	}
	e := engine.New()
	c := jdto.NewContext().WithNaming(jdto.IdentityStrategy{})

	// the struct snapshot must key under the same strategy key resolution uses
	got, err := engine.Hydrate[retryConfig](e, context.Background(), wireConfig{MaxRetries: 7}, c)
	require.NoError(t, err)
	assert.Equal(t, 7, got.MaxRetries)
}

func TestHydrateNormalizeRoundTrip(t *testing.T) {
	e := engine.New()
	u, err := engine.Hydrate[user](e, context.Background(), validUserInput())
	require.NoError(t, err)

	m, err := e.Normalize(context.Background(), u)
	require.NoError(t, err)

	again, err := engine.Hydrate[user](e, context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, u, again)
}
