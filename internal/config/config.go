// Package config holds the CLI's ambient defaults: the Extension
// download cache directory, HTTP fetch timeout, and default output
// format/colour. None of this is validation semantics — it exists
// purely so the CLI has somewhere to read its defaults from besides
// flags, the way the original schema-manager reads deployment
// environments from a YAML file.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the CLI's ambient configuration, loaded from an optional
// .cjval.yml.
type Config struct {
	// ExtensionCacheDir is loaded from the config file, but no cjval
	// command reads it: fetched Extension documents are not cached.
	ExtensionCacheDir string `yaml:"extensionCacheDir"`
	// FetchTimeout bounds how long an Extension URL fetch may take.
	FetchTimeout time.Duration `yaml:"fetchTimeout"`
	// OutputFormat is "text" or "json".
	OutputFormat string `yaml:"outputFormat"`
	// UseColour is loaded from the config file, but no cjval command
	// reads it: text output colour is set by the --nocolour flag alone.
	UseColour bool `yaml:"useColour"`
}

// Default returns the built-in configuration used when no .cjval.yml
// is present.
func Default() *Config {
	return &Config{
		FetchTimeout: 10 * time.Second,
		OutputFormat: "text",
		UseColour:    true,
	}
}

// Load reads a YAML config file at path. A missing file is not an
// error: unlike the deployment-environment config this package
// replaces, there is no registry a run cannot proceed without, so
// Load just returns Default().
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
		return nil, &ParseError{Path: path, Err: err}
	}
	return cfg, nil
}

// ParseError means a .cjval.yml file exists but is not valid YAML.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "parsing " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }
