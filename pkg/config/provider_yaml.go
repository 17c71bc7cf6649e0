package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Load reads analysis parameters from a YAML file, filling anything the
// file omits from Default(). An empty path returns Default() unchanged.
func Load(filename string) (*Data, error) {
	if filename == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", filename, err)
	}

	data := &Data{}
	if err := yaml.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", filename, err)
	}

	data.merge(Default())
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", filename, err)
	}
	return data, nil
}
