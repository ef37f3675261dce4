package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// ImageTTL bounds how long a poster image outlives its last write.
	// Towns are torn down explicitly; the TTL is a backstop for images
	// orphaned by an unclean shutdown.
	ImageTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		ImageTTL:     24 * time.Hour,
	}
}
