// Package config loads ormlens configuration from a YAML file, a .env file
// and ORMLENS_* environment variables, in increasing order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-ormlens/pkg/algorithms"
	"github.com/dd0wney/cluso-ormlens/pkg/analysis"
	"github.com/dd0wney/cluso-ormlens/pkg/auth"
	"github.com/dd0wney/cluso-ormlens/pkg/ddd"
	"github.com/dd0wney/cluso-ormlens/pkg/loader"
	"github.com/dd0wney/cluso-ormlens/pkg/logging"
	"github.com/dd0wney/cluso-ormlens/pkg/rules"
	"github.com/dd0wney/cluso-ormlens/pkg/validation"
)

// Config is the complete ormlens configuration
type Config struct {
	LogLevel string         `yaml:"log_level"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Server   ServerConfig   `yaml:"server"`
	S3       S3Config       `yaml:"s3"`
}

// AnalysisConfig controls classification, rules and search limits
type AnalysisConfig struct {
	Classifier     string        `yaml:"classifier"`
	MaxDepth       int           `yaml:"max_depth"`
	MaxSteps       int           `yaml:"max_steps"`
	MaxPaths       int           `yaml:"max_paths"`
	Timeout        time.Duration `yaml:"timeout"`
	NameSimilarity bool          `yaml:"name_similarity"`

	ddd.Thresholds        `yaml:",inline"`
	rules.GraphThresholds `yaml:",inline"`
}

// ServerConfig controls the HTTP server
type ServerConfig struct {
	Port         int           `yaml:"port"`
	CacheSize    int           `yaml:"cache_size"`
	JWTSecret    string        `yaml:"jwt_secret"`
	EventsURL    string        `yaml:"events_url"`
	RateLimit    int           `yaml:"rate_limit"` // analysis requests per second per client, 0 disables
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// S3Config locates the object store used for s3:// model sources
type S3Config struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	limits := algorithms.DefaultLimits()
	return &Config{
		LogLevel: "info",
		Analysis: AnalysisConfig{
			Classifier:      ddd.HeuristicName,
			MaxDepth:        limits.MaxDepth,
			MaxSteps:        limits.MaxSteps,
			MaxPaths:        limits.MaxPaths,
			Timeout:         30 * time.Second,
			NameSimilarity:  true,
			Thresholds:      ddd.DefaultThresholds(),
			GraphThresholds: rules.DefaultGraphThresholds(),
		},
		Server: ServerConfig{
			Port:         8080,
			CacheSize:    256,
			RateLimit:    10,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		S3: S3Config{
			Region: "us-east-1",
		},
	}
}

// Load reads the YAML file at path (skipped when path is empty), then any
// .env file in the working directory, then ORMLENS_* variables, and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks every section and reports all problems at once
func (c *Config) Validate() error {
	levels := validation.NewConfigValidator("config").
		Custom("log_level", func() error {
			if !logging.ValidLevel(c.LogLevel) {
				return fmt.Errorf("unknown level %q", c.LogLevel)
			}
			return nil
		})

	a := c.Analysis
	av := validation.NewConfigValidator("analysis").
		OneOf("classifier", a.Classifier, ddd.Names()).
		Positive("max_depth", a.MaxDepth).
		Positive("max_steps", a.MaxSteps).
		Positive("max_paths", a.MaxPaths).
		NonNegativeDuration("timeout", a.Timeout).
		NonNegative("reference_min_degree", a.ReferenceMinDegree).
		NonNegativeFloat("reference_in_ratio", a.ReferenceInRatio).
		NonNegative("reference_max_attributes", a.ReferenceMaxAttributes).
		NonNegative("root_min_out", a.RootMinOut).
		NonNegative("fan_out", a.FanOut).
		NonNegative("fan_in", a.FanIn).
		MinInt("scc_min_size", a.SCCMinSize, 1).
		NonNegative("max_roots", a.MaxRoots)

	s := c.Server
	sv := validation.NewConfigValidator("server").
		RangeInt("port", s.Port, 1, 65535).
		Positive("cache_size", s.CacheSize).
		NonNegative("rate_limit", s.RateLimit).
		Custom("jwt_secret", func() error {
			if s.JWTSecret != "" && len(s.JWTSecret) < auth.MinSecretLength {
				return fmt.Errorf("must be at least %d characters", auth.MinSecretLength)
			}
			return nil
		}).
		NonNegativeDuration("read_timeout", s.ReadTimeout).
		NonNegativeDuration("write_timeout", s.WriteTimeout)

	var errs []error
	for _, v := range []*validation.ConfigValidator{levels, av, sv} {
		errs = append(errs, v.Errors()...)
	}
	return errors.Join(errs...)
}

// AnalysisOptions converts the analysis section to analyzer options
func (c *Config) AnalysisOptions() analysis.Options {
	a := c.Analysis
	return analysis.Options{
		Classifier: a.Classifier,
		Thresholds: a.Thresholds,
		Rules:      a.GraphThresholds,
		Limits: algorithms.Limits{
			MaxDepth: a.MaxDepth,
			MaxSteps: a.MaxSteps,
			MaxPaths: a.MaxPaths,
		},
		NameSimilarity: a.NameSimilarity,
		Timeout:        a.Timeout,
	}
}

// S3Options converts the s3 section to loader options
func (c *Config) S3Options() loader.S3Options {
	return loader.S3Options{
		Region:          c.S3.Region,
		Endpoint:        c.S3.Endpoint,
		AccessKeyID:     c.S3.AccessKeyID,
		SecretAccessKey: c.S3.SecretAccessKey,
	}
}

// Level returns the configured log level
func (c *Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}
