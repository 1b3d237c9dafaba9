package lookup_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdto/jdto/lookup"
)

func TestStatic(t *testing.T) {
	s := lookup.Static{"app.name": "jdto"}
	v, ok := s.Lookup("app.name")
	require.True(t, ok)
	assert.Equal(t, "jdto", v)

	_, ok = s.Lookup("missing")
	assert.False(t, ok)
}

func TestChainFirstHitWins(t *testing.T) {
	c := lookup.Chain{
		nil,
		lookup.Static{"k": "first"},
		lookup.Static{"k": "second", "other": "x"},
	}
	v, ok := c.Lookup("k")
	require.True(t, ok)
	assert.Equal(t, "first", v)

	v, ok = c.Lookup("other")
	require.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = c.Lookup("missing")
	assert.False(t, ok)
}

func TestEnvKeyMangling(t *testing.T) {
	t.Setenv("MYAPP_APP_NAME", "from-env")
	e := lookup.Env{Prefix: "myapp"}
	v, ok := e.Lookup("app.name")
	require.True(t, ok)
	assert.Equal(t, "from-env", v)

	_, ok = e.Lookup("app.missing")
	assert.False(t, ok)
}

func TestEnvWithoutPrefix(t *testing.T) {
	t.Setenv("PLAIN_KEY", "v")
	e := lookup.Env{}
	v, ok := e.Lookup("plain.key")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestNewEnvLoadsDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("DOTENV_SAMPLE_KEY=loaded\n"), 0o600))
	t.Setenv("DOTENV_SAMPLE_KEY", "") // restore after the test
	os.Unsetenv("DOTENV_SAMPLE_KEY")

	e, err := lookup.NewEnv("", path)
	require.NoError(t, err)
	v, ok := e.Lookup("dotenv.sample.key")
	require.True(t, ok)
	assert.Equal(t, "loaded", v)
}

func TestNewEnvMissingFile(t *testing.T) {
	_, err := lookup.NewEnv("", filepath.Join(t.TempDir(), "nope.env"))
	assert.Error(t, err)
}

func TestYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: jdto\n  port: 8080\n"), 0o600))

	cfg, err := lookup.YAMLFile(path)
	require.NoError(t, err)

	v, ok := cfg.Lookup("app.name")
	require.True(t, ok)
	assert.Equal(t, "jdto", v)

	v, ok = cfg.Lookup("app.port")
	require.True(t, ok)
	assert.Equal(t, 8080, v)

	_, ok = cfg.Lookup("app.missing")
	assert.False(t, ok)
	_, ok = cfg.Lookup("app.name.deeper")
	assert.False(t, ok)
}

func TestYAMLFileProblemsAggregate(t *testing.T) {
	_, err := lookup.YAMLFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte(":\n  - ["), 0o600))
	_, err = lookup.YAMLFile(broken)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte(""), 0o600))
	_, err = lookup.YAMLFile(empty)
	assert.Error(t, err)
}

func TestConfigWrapsDecodedDocument(t *testing.T) {
	cfg := lookup.NewConfig(map[string]any{"a": map[string]any{"b": 1}})
	v, ok := cfg.Lookup("a.b")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}
