package prefs

import "time"

// Config holds configuration for persisted preferences.
type Config struct {
	// FlushSeconds is the interval between cache counter flushes.
	FlushSeconds int `mapstructure:"flush_seconds" default:"30"`
}

// FlushInterval returns the flush interval, defaulting to thirty seconds.
func (c Config) FlushInterval() time.Duration {
	if c.FlushSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.FlushSeconds) * time.Second
}
