// Package config loads the optional valvegear.yaml settings file.
//
// Every field has a default, so a missing file is not an error. A present
// file is decoded strictly (unknown keys are rejected) and then checked
// against the embedded CUE schema in schema.cue.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "valvegear.yaml"

//go:embed schema.cue
var schemaCUE string

// Config holds all valvegear settings.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" json:"paths"`
	History HistoryConfig `yaml:"history" json:"history"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Output  OutputConfig  `yaml:"output" json:"output"`
}

// PathsConfig locates the two text files.
type PathsConfig struct {
	Inputs  string `yaml:"inputs" json:"inputs"`
	Outputs string `yaml:"outputs" json:"outputs"`
}

// HistoryConfig configures the optional calculation history database.
// An empty Database disables recording.
type HistoryConfig struct {
	Database string `yaml:"database" json:"database"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"` // debug, info, warn, error
}

// OutputConfig sets the default CLI output format.
type OutputConfig struct {
	Format string `yaml:"format" json:"format"` // text, json
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Inputs:  "inputs/inputs.txt",
			Outputs: "outputs/outputs.txt",
		},
		Logging: LoggingConfig{Level: "info"},
		Output:  OutputConfig{Format: "text"},
	}
}

// Load reads the config at path on top of the defaults.
//
// If path is empty, DefaultFile is tried and silently skipped when absent.
// An explicit path that does not exist is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data on top of the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config against the CUE schema.
func (c *Config) Validate() error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	value := ctx.Encode(c)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SlogLevel maps Logging.Level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
