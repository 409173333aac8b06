package convention

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/tessera-orm/tessera/model"
)

// Config selects which built-in conventions a model runs. The zero value
// enables everything.
type Config struct {
	// Disabled lists convention names (see each convention's Name) to
	// leave out of the assembled set.
	Disabled []string `yaml:"disabled"`
}

// LoadConfig reads a YAML convention configuration, e.g.:
//
//	disabled:
//	  - ForeignKeyIndex
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(cfg); err != nil {
		if err == io.EOF {
			return cfg, nil
		}
		return nil, fmt.Errorf("convention: decoding config: %w", err)
	}
	return cfg, nil
}

// namer is implemented by every built-in convention.
type namer interface {
	Name() string
}

// builtins returns the built-in conventions in registration order. Order
// matters: discovery runs before maintenance so maintenance conventions
// observe discovered keys.
func builtins() []namer {
	return []namer{
		PrimaryKeyDiscovery{},
		ForeignKeyIndex{},
		ManyToManyAssociation{},
	}
}

// Set assembles the default convention set, honoring cfg. A nil cfg
// enables every built-in convention.
func Set(cfg *Config) *model.ConventionSet {
	disabled := map[string]bool{}
	if cfg != nil {
		for _, name := range cfg.Disabled {
			disabled[name] = true
		}
	}
	set := model.NewConventionSet()
	for _, c := range builtins() {
		if disabled[c.Name()] {
			continue
		}
		set.Add(c)
	}
	return set
}

// DefaultSet assembles the convention set with every built-in convention
// enabled.
func DefaultSet() *model.ConventionSet {
	return Set(nil)
}
