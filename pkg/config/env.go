package config

import (
	"fmt"
	"strconv"
	"time"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "ORMLENS_"

// LookupFunc matches os.LookupEnv
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides fields from ORMLENS_* variables. LOG_LEVEL is honoured
// when ORMLENS_LOG_LEVEL is unset.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	e := envReader{lookup: lookup}

	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	e.setString("LOG_LEVEL", &c.LogLevel)

	e.setString("CLASSIFIER", &c.Analysis.Classifier)
	e.setInt("MAX_DEPTH", &c.Analysis.MaxDepth)
	e.setInt("MAX_STEPS", &c.Analysis.MaxSteps)
	e.setInt("MAX_PATHS", &c.Analysis.MaxPaths)
	e.setDuration("TIMEOUT", &c.Analysis.Timeout)
	e.setBool("NAME_SIMILARITY", &c.Analysis.NameSimilarity)

	e.setInt("PORT", &c.Server.Port)
	e.setInt("CACHE_SIZE", &c.Server.CacheSize)
	e.setString("JWT_SECRET", &c.Server.JWTSecret)
	e.setString("EVENTS_URL", &c.Server.EventsURL)
	e.setInt("RATE_LIMIT", &c.Server.RateLimit)
	e.setDuration("READ_TIMEOUT", &c.Server.ReadTimeout)
	e.setDuration("WRITE_TIMEOUT", &c.Server.WriteTimeout)

	e.setString("S3_REGION", &c.S3.Region)
	e.setString("S3_ENDPOINT", &c.S3.Endpoint)
	e.setString("S3_ACCESS_KEY_ID", &c.S3.AccessKeyID)
	e.setString("S3_SECRET_ACCESS_KEY", &c.S3.SecretAccessKey)

	return e.err
}

// envReader stops at the first malformed value
type envReader struct {
	lookup LookupFunc
	err    error
}

func (e *envReader) get(name string) (string, bool) {
	if e.err != nil {
		return "", false
	}
	v, ok := e.lookup(EnvPrefix + name)
	return v, ok && v != ""
}

func (e *envReader) setString(name string, dst *string) {
	if v, ok := e.get(name); ok {
		*dst = v
	}
}

func (e *envReader) setInt(name string, dst *int) {
	v, ok := e.get(name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.err = fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, name, v, err)
		return
	}
	*dst = n
}

func (e *envReader) setBool(name string, dst *bool) {
	v, ok := e.get(name)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.err = fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, name, v, err)
		return
	}
	*dst = b
}

func (e *envReader) setDuration(name string, dst *time.Duration) {
	v, ok := e.get(name)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.err = fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, name, v, err)
		return
	}
	*dst = d
}
