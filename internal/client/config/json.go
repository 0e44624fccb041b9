package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophstore/internal/flagx"
	"github.com/dmitrijs2005/gophstore/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so the timeout can be written either as a string like "10s"
// or as integer nanoseconds. Pointer fields distinguish "absent" from zero.
type JsonConfig struct {
	ServerURL              string         `json:"server_url"`
	RequestTimeout         timex.Duration `json:"request_timeout"`
	CartMode               string         `json:"cart_mode"`
	LocalDBPath            string         `json:"local_db_path"`
	AutoLoginAfterRegister *bool          `json:"auto_login_after_register"`
	CatalogCacheSize       int            `json:"catalog_cache_size"`
}

// parseJson overlays Config with values loaded from a JSON file named via
// the -c/-config flags. Absent file means no overlay; read or unmarshal
// errors panic (callers get a hard startup failure rather than silently
// running on defaults).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.CartMode != "" {
		cfg.CartMode = jc.CartMode
	}
	if jc.LocalDBPath != "" {
		cfg.LocalDBPath = jc.LocalDBPath
	}
	if jc.AutoLoginAfterRegister != nil {
		cfg.AutoLoginAfterRegister = *jc.AutoLoginAfterRegister
	}
	if jc.CatalogCacheSize != 0 {
		cfg.CatalogCacheSize = jc.CatalogCacheSize
	}
}
