package render

// Config holds configuration for QR rendering.
type Config struct {
	// Size is the edge length of the QR square in pixels.
	Size int `mapstructure:"size" default:"320"`
	// Recovery is the error correction level (low, medium, high, highest).
	Recovery string `mapstructure:"recovery" default:"medium"`
	// TimeoutSeconds bounds a single render call. Zero disables the timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}
