package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML configuration file accepted by -c/--config. All
// settings are optional; flags override the file.
//
//	gen:
//	  header: true
//	  bigint: true
//	  outDir: ./schemas
type fileConfig struct {
	Gen genConfig `yaml:"gen"`
}

type genConfig struct {
	// Header toggles the generated-code header comment.
	Header *bool `yaml:"header"`
	// BigInt toggles mapping 64-bit integers to bigint.
	BigInt *bool `yaml:"bigint"`
	// OutDir writes one .ts file per input into this directory.
	OutDir string `yaml:"outDir"`
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}
