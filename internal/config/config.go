// Package config loads optional project defaults from .treedoc.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory.
const FileName = ".treedoc.yaml"

// Config declares defaults for flags that were not given on the command line.
type Config struct {
	Output     string   `yaml:"output,omitempty"`
	Log        string   `yaml:"log,omitempty"`
	RebuildDir string   `yaml:"rebuild_dir,omitempty"`
	Extensions []string `yaml:"extensions,omitempty"`
	NoTUI      bool     `yaml:"no_tui,omitempty"`
}

// Load reads the config at path. A missing file yields an empty Config.
// An empty path means FileName in dir.
func Load(dir, path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
