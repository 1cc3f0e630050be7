// Package config loads fleetsim settings.
//
// Settings merge from three layers, lowest priority first: defaults
// embedded in the binary, the user's YAML file in the XDG config
// directory, and FLEETSIM_* environment variables. Viper does the
// layering; the rest of the program only ever sees the final Settings.
package config

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const appName = "fleetsim"

//go:embed defaults.yaml
var embedded embed.FS

// Settings is the resolved configuration.
type Settings struct {
	// ClusterFile points at a cluster topology YAML. Empty means the
	// embedded default fleet.
	ClusterFile string `mapstructure:"cluster_file" yaml:"cluster_file,omitempty"`

	// DefinitionsDir points at a directory of tool definition YAML files.
	// Empty means the embedded catalogue.
	DefinitionsDir string `mapstructure:"definitions_dir" yaml:"definitions_dir,omitempty"`

	// DefaultNode is the node the shell starts on.
	DefaultNode string `mapstructure:"default_node" yaml:"default_node"`

	// StartAsRoot elevates the shell from the first prompt.
	StartAsRoot bool `mapstructure:"start_as_root" yaml:"start_as_root,omitempty"`

	// HistoryLimit bounds the persisted command history.
	HistoryLimit int `mapstructure:"history_limit" yaml:"history_limit"`

	// Color enables pterm styling in the shell.
	Color bool `mapstructure:"color" yaml:"color"`
}

// Load resolves settings from all layers.
func Load() (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	defaults, err := embedded.ReadFile("defaults.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded defaults: %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("failed to parse embedded defaults: %w", err)
	}

	userPath := UserConfigPath()
	if _, err := os.Stat(userPath); err == nil {
		v.SetConfigFile(userPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
	}

	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, key := range v.AllKeys() {
		// AutomaticEnv only resolves keys viper has seen; bind each
		// known key so env-only overrides take effect too.
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return &s, nil
}

// UserConfigPath returns the user config file location. FLEETSIM_CONFIG
// overrides the XDG default.
func UserConfigPath() string {
	if custom := os.Getenv("FLEETSIM_CONFIG"); custom != "" {
		return custom
	}
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// StateDir returns the XDG state directory for the application.
func StateDir() string {
	return filepath.Join(xdg.StateHome, appName)
}

// Save writes settings to the user config file.
func Save(s *Settings) error {
	path := UserConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
