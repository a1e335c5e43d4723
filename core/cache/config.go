package cache

// Config holds configuration for the artifact cache.
type Config struct {
	// Capacity is the maximum number of cached artifacts. Zero means unbounded.
	Capacity int `mapstructure:"capacity" default:"64"`
}
