package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/gait-ai/gait/pkg/errors"
	"github.com/gait-ai/gait/pkg/models"
)

var validate = validator.New()

// Config holds all gait configuration.
type Config struct {
	Store StoreConfig `yaml:"store"`
	NLP   NLPConfig   `yaml:"nlp"`
	Cache CacheConfig `yaml:"cache"`
	HTTP  HTTPConfig  `yaml:"http"`
	APIs  []APIConfig `yaml:"apis" validate:"required,min=1,dive"`
	Log   LogConfig   `yaml:"log"`
}

// StoreConfig points at the SPARQL endpoint holding the mapping graphs and
// the cache graph.
type StoreConfig struct {
	Endpoint string        `yaml:"endpoint" validate:"required,url"`
	Timeout  time.Duration `yaml:"timeout" validate:"gte=0"`
}

// NLPConfig points at the upstream intent parser.
type NLPConfig struct {
	Endpoint string        `yaml:"endpoint" validate:"required,url"`
	Timeout  time.Duration `yaml:"timeout" validate:"gte=0"`
}

// CacheConfig controls the prompt result cache.
// Backend is "sparql" (default) or "sqlite".
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Backend string        `yaml:"backend" validate:"oneof=sparql sqlite"`
	TTL     time.Duration `yaml:"ttl" validate:"gt=0"`
	Graph   string        `yaml:"graph" validate:"required_if=Backend sparql"`
	DBPath  string        `yaml:"db_path" validate:"required_if=Backend sqlite"`
}

// HTTPConfig controls the client used for calls to the target APIs.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout" validate:"gte=0"`
	UserAgent string        `yaml:"user_agent"`
}

// APIConfig defines one external GraphQL API and its mapping graph.
type APIConfig struct {
	Name           string            `yaml:"name" validate:"required"`
	Family         models.Family     `yaml:"family" validate:"required,oneof=user-collection reference"`
	URL            string            `yaml:"url" validate:"required,url"`
	Auth           models.AuthPolicy `yaml:"auth" validate:"oneof=bearer none"`
	Token          string            `yaml:"token"`
	MappingGraph   string            `yaml:"mapping_graph" validate:"required"`
	PrimaryConcept string            `yaml:"primary_concept"`
	DefaultField   string            `yaml:"default_field" validate:"required"`
}

// LogConfig controls logger construction.
type LogConfig struct {
	JSON  bool   `yaml:"json"`
	Level string `yaml:"level"`
}

// Default returns a Config with sensible defaults and the two built-in APIs.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Endpoint: "http://localhost:9999/blazegraph/namespace/kb/sparql",
			Timeout:  10 * time.Second,
		},
		NLP: NLPConfig{
			Endpoint: "http://localhost:5000/parse/with-api-detection",
			Timeout:  60 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			Backend: "sparql",
			TTL:     time.Minute,
			Graph:   "http://example.org/graphs/cache",
			DBPath:  "gait.db",
		},
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "gait",
		},
		APIs: []APIConfig{
			{
				Name:           "github",
				Family:         models.FamilyUserCollection,
				URL:            "https://api.github.com/graphql",
				Auth:           models.AuthBearer,
				MappingGraph:   "http://example.org/graphs/github",
				PrimaryConcept: "user",
				DefaultField:   "id",
			},
			{
				Name:         "countries",
				Family:       models.FamilyReference,
				URL:          "https://countries.trevorblades.com/",
				Auth:         models.AuthNone,
				MappingGraph: "http://example.org/graphs/countries",
				DefaultField: "code",
			},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a YAML config file, expands environment variables and
// validates the result. Sections missing from the file keep their defaults;
// an apis list in the file replaces the built-in one.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks struct constraints and that API names are unique.
func (c *Config) Validate() error {
	for i := range c.APIs {
		if c.APIs[i].Auth == "" {
			c.APIs[i].Auth = models.AuthNone
		}
	}
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.Mark(err, errors.ErrInvalidConfig), "validate config")
	}

	seen := make(map[string]bool, len(c.APIs))
	for _, a := range c.APIs {
		name := strings.ToLower(a.Name)
		if seen[name] {
			return errors.Wrapf(errors.ErrInvalidConfig, "duplicate api %q", a.Name)
		}
		seen[name] = true
	}
	return nil
}
