// Package config loads the optional quillc.yaml file that lets a
// caller override the built-in reserved-identifier-sigil policy
// (spec.md §6: "exact policy is a per-variant concern") without
// touching source. Absence of the file is not an error.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the shape of quillc.yaml.
type Config struct {
	// ReservedSigils lists leading characters a declared identifier may
	// not start with. Defaults to ["#", "$"] when the file is absent or
	// this key is omitted.
	ReservedSigils []string `yaml:"reservedSigils"`
}

// Default returns the built-in policy, matching parser.ReservedSigils'
// initial value.
func Default() *Config {
	return &Config{ReservedSigils: []string{"#", "$"}}
}

// Load reads and parses path. A missing file is not an error - Load
// returns Default() instead, since quillc.yaml is entirely optional.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Sigils converts the configured string list to runes, for
// parser.SetReservedSigils. Only single-character entries are
// meaningful; longer ones are ignored.
func (c *Config) Sigils() []rune {
	var out []rune
	for _, s := range c.ReservedSigils {
		if len(s) == 1 {
			out = append(out, rune(s[0]))
		}
	}
	return out
}
