package cluster

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultCluster []byte

// Parse decodes a cluster document.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse cluster document: %w", err)
	}
	if c.Name == "" {
		return nil, fmt.Errorf("cluster document has no name")
	}
	if len(c.Nodes) == 0 {
		return nil, fmt.Errorf("cluster %q has no nodes", c.Name)
	}
	return &c, nil
}

// LoadFile reads and parses a cluster document from disk.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cluster file: %w", err)
	}
	return Parse(data)
}

// Default returns the embedded demo cluster. Each call parses a fresh copy,
// so callers may mutate the result freely.
func Default() *Config {
	c, err := Parse(defaultCluster)
	if err != nil {
		// The embedded document is validated by tests; a parse failure here
		// is a build defect, not a runtime condition.
		panic(fmt.Sprintf("embedded cluster document invalid: %v", err))
	}
	return c
}
