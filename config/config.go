// Package config handles miniruby.toml interpreter configuration:
// limits on the bytecode compiler and VM that callers may want to
// tune or relax for a particular embedding.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Limits caps the resources a single compile/run can consume. Zero
// values are replaced with Default's at Load time.
type Limits struct {
	ValuePoolLimit  int `toml:"value-pool-limit"`
	LocalLimit      int `toml:"local-limit"`
	MaxJumpDistance int `toml:"max-jump-distance"`
	StackCapacity   int `toml:"initial-stack-capacity"`
}

// Config is the root of a miniruby.toml file.
type Config struct {
	Limits Limits `toml:"limits"`

	// Dir is the directory containing the loaded miniruby.toml file.
	Dir string `toml:"-"`
}

// Default returns the limits miniruby uses when no config file is
// present, matching the fixed constants the bytecode package
// otherwise hard-codes.
func Default() Limits {
	return Limits{
		ValuePoolLimit:  256,
		LocalLimit:      256,
		MaxJumpDistance: 255,
		StackCapacity:   64,
	}
}

func (l *Limits) applyDefaults() {
	def := Default()
	if l.ValuePoolLimit == 0 {
		l.ValuePoolLimit = def.ValuePoolLimit
	}
	if l.LocalLimit == 0 {
		l.LocalLimit = def.LocalLimit
	}
	if l.MaxJumpDistance == 0 {
		l.MaxJumpDistance = def.MaxJumpDistance
	}
	if l.StackCapacity == 0 {
		l.StackCapacity = def.StackCapacity
	}
}

// Load parses a miniruby.toml file from dir. A missing file is not an
// error: Load returns a Config holding Default limits.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, "miniruby.toml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		c := &Config{Limits: Default()}
		c.Dir, _ = filepath.Abs(dir)
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parse error in %s: %w", path, err)
	}
	c.Limits.applyDefaults()

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("config: cannot resolve path %s: %w", dir, err)
	}
	return &c, nil
}
