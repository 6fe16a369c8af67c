package redis

import "time"

// Config holds Redis connection settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// DialTimeout bounds the initial connection check
	DialTimeout time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
	}
}
