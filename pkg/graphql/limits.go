package graphql

import "fmt"

// LimitConfig bounds list results
type LimitConfig struct {
	DefaultLimit int // used when no limit is given
	MaxLimit     int // upper bound for any requested limit
	MaxDepth     int // deepest selection nesting accepted
}

// DefaultLimitConfig returns the limits used by the server
func DefaultLimitConfig() LimitConfig {
	return LimitConfig{DefaultLimit: 20, MaxLimit: 100, MaxDepth: 6}
}

// ValidateLimitConfig validates the limit configuration
func ValidateLimitConfig(config *LimitConfig) error {
	if config.MaxLimit <= 0 {
		return fmt.Errorf("max limit must be greater than 0, got %d", config.MaxLimit)
	}
	if config.DefaultLimit <= 0 {
		return fmt.Errorf("default limit must be greater than 0, got %d", config.DefaultLimit)
	}
	if config.DefaultLimit > config.MaxLimit {
		return fmt.Errorf("default limit (%d) cannot exceed max limit (%d)", config.DefaultLimit, config.MaxLimit)
	}
	if config.MaxDepth <= 0 {
		return fmt.Errorf("max depth must be greater than 0, got %d", config.MaxDepth)
	}
	return nil
}

// applyLimit maps a requested limit to the effective one: negative selects
// the default, zero means none, anything else is capped.
func applyLimit(requested int, config *LimitConfig) int {
	switch {
	case requested < 0:
		return config.DefaultLimit
	case requested > config.MaxLimit:
		return config.MaxLimit
	default:
		return requested
	}
}
