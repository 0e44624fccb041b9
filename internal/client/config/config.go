// Package config holds runtime settings for the GophStore client and the
// defaults -> JSON file -> command-line flags loading chain, where later
// sources take precedence.
package config

import "time"

// Config holds runtime settings for the storefront client.
//
// Fields:
//   - ServerURL: base URL of the backend REST API.
//   - RequestTimeout: bound applied to every network round-trip.
//   - CartMode: "server" (backend is the source of truth) or "local"
//     (cart lives in the local database, no network).
//   - LocalDBPath: sqlite file holding the token cache and local cart.
//   - AutoLoginAfterRegister: log the user in right after registration.
//   - CatalogCacheSize: LRU capacity for per-category product lists.
type Config struct {
	ServerURL              string
	RequestTimeout         time.Duration
	CartMode               string
	LocalDBPath            string
	AutoLoginAfterRegister bool
	CatalogCacheSize       int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5001"
	c.RequestTimeout = 10 * time.Second
	c.CartMode = "server"
	c.LocalDBPath = "gophstore.db"
	c.AutoLoginAfterRegister = false
	c.CatalogCacheSize = 16
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if a config file was given) and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
