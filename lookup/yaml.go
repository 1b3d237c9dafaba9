package lookup

import (
	"fmt"
	"os"
	"strings"

	"github.com/hengadev/errsx"
	"gopkg.in/yaml.v3"
)

// Config serves dot-path lookups ("app.name") over a parsed YAML document.
type Config struct {
	root map[string]any
}

// NewConfig wraps an already-decoded document.
func NewConfig(root map[string]any) *Config { return &Config{root: root} }

// YAMLFile loads and validates a YAML config file. Load problems are
// aggregated so a broken file reports everything at once.
func YAMLFile(path string) (*Config, error) {
	var errs errsx.Map

	data, err := os.ReadFile(path)
	if err != nil {
		errs.Set("read config file", err)
		return nil, errs.AsError()
	}
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		errs.Set("parse yaml", err)
	} else if root == nil {
		errs.Set("validate document", fmt.Errorf("config file %s holds no mapping", path))
	}
	if !errs.IsEmpty() {
		return nil, errs.AsError()
	}
	return &Config{root: root}, nil
}

func (c *Config) Lookup(key string) (any, bool) {
	var cur any = c.root
	for _, seg := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
