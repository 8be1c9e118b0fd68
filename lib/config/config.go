// Package config loads a named or user-supplied feature profile into a
// features.Set, the "where does the flag set come from" concern a driver
// needs that the core packages deliberately stay agnostic about.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/yuri91/wasp/lib/features"
)

// Profile is the on-disk shape of a feature profile file: a name for
// logging/diagnostics, plus the set of flags to enable. Flags absent from
// Enable are left at their default (disabled) state.
type Profile struct {
	Name   string   `yaml:"name"`
	Enable []string `yaml:"enable"`
}

// builtinProfiles covers the named profiles a `--profile` flag accepts
// without reading a file: the MVP default, MVP plus bulk-memory (the
// most commonly requested single addition), and the full flag set.
var builtinProfiles = map[string]func() *features.Set{
	"mvp":             features.Default,
	"mvp+bulk-memory": mvpBulkMemory,
	"all":             features.All,
}

func mvpBulkMemory() *features.Set {
	s := features.Default()
	s.Enable(features.BulkMemory)
	return s
}

// Load resolves name against the builtin profiles first, falling back to
// reading it as a path to a YAML profile file.
func Load(name string) (*features.Set, error) {
	if builtin, ok := builtinProfiles[name]; ok {
		return builtin(), nil
	}
	return LoadFile(name)
}

// LoadFile parses a YAML profile file at path into a features.Set.
func LoadFile(path string) (*features.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", path, err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	set := features.New()
	for _, name := range p.Enable {
		f, ok := features.ParseFlag(name)
		if !ok {
			return nil, fmt.Errorf("profile %s: unknown feature %q", path, name)
		}
		set.Enable(f)
	}
	return set, nil
}
