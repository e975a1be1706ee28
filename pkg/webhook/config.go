package webhook

import "time"

// Config holds settings for the outbound job webhook.
type Config struct {
	// URL receives a POST per created job. Empty disables dispatch.
	URL string `yaml:"url" json:"url"`
	// Timeout bounds a single delivery attempt.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// DefaultConfig returns a disabled webhook with a 5s delivery timeout.
func DefaultConfig() Config {
	return Config{
		Timeout: 5 * time.Second,
	}
}

// Enabled reports whether a destination URL is configured.
func (c Config) Enabled() bool {
	return c.URL != ""
}
