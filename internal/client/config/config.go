// Package config handles configuration for the gallery CLI,
// including defaults, JSON overlay, and command-line flags.
package config

// Config holds runtime settings for the gallery CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend REST API.
//   - SessionDBPath: path of the local SQLite file holding the session.
type Config struct {
	ServerBaseURL string
	SessionDBPath string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8080"
	c.SessionDBPath = "gallery.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
