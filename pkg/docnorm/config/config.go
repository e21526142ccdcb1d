package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/docnorm/pkg/docnorm/internalerr"
	"github.com/cognicore/docnorm/pkg/docnorm/rawtext"
)

// Config is the docnorm configuration file.
type Config struct {
	Language   string     `yaml:"language"`
	MaxLength  int        `yaml:"max_length"`
	Morphology Morphology `yaml:"morphology"`
	Store      Store      `yaml:"store"`
	Log        Log        `yaml:"log"`
}

// Morphology configures the specialized-morphology path.
type Morphology struct {
	Language       string `yaml:"language"`
	TaggerModel    string `yaml:"tagger_model"`
	StemDictionary string `yaml:"stem_dictionary"`
}

// Store configures document persistence. An empty path keeps documents in
// memory.
type Store struct {
	Path string `yaml:"path"`
}

// Log configures logging.
type Log struct {
	Debug bool `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Language:   rawtext.DefaultLanguage,
		MaxLength:  rawtext.DefaultMaxLength,
		Morphology: Morphology{Language: "id"},
	}
}

// Load reads a YAML config file. Fields missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load config %s: %w", path, internalerr.ErrNotFound)
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w: %v", path, internalerr.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.MaxLength < 0 {
		return fmt.Errorf("%w: max_length must not be negative, got %d", internalerr.ErrInvalidConfig, c.MaxLength)
	}
	if c.Morphology.TaggerModel != "" && strings.TrimSpace(c.Morphology.Language) == "" {
		return fmt.Errorf("%w: morphology.language is required when a tagger model is set", internalerr.ErrInvalidConfig)
	}
	return nil
}
