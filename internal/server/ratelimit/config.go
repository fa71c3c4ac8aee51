package ratelimit

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EndpointConfig is the limit for one path and method.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends in "/"
	Method string        // HTTP method
	Limit  int           // requests per Window
	Window time.Duration // refill period
	Burst  int           // bucket capacity; Limit when 0
}

// Keys read by LoadConfig. With AutomaticEnv they map to RATE_LIMIT_* variables.
const (
	KeyEnabled         = "rate_limit_enabled"
	KeyDefaultLimit    = "rate_limit_default_limit"
	KeyDefaultWindow   = "rate_limit_default_window"
	KeyCleanupInterval = "rate_limit_cleanup_interval"
	KeyWhitelist       = "rate_limit_whitelist"
	KeyBlacklist       = "rate_limit_blacklist"
)

// SetDefaults registers the rate limit defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyEnabled, true)
	v.SetDefault(KeyDefaultLimit, 1000)
	v.SetDefault(KeyDefaultWindow, time.Minute)
	v.SetDefault(KeyCleanupInterval, 5*time.Minute)
	v.SetDefault(KeyWhitelist, "")
	v.SetDefault(KeyBlacklist, "")
}

// LoadConfig builds a Config from v. A nil v yields DefaultConfig.
func LoadConfig(v *viper.Viper) *Config {
	if v == nil {
		return DefaultConfig()
	}
	SetDefaults(v)

	if !v.GetBool(KeyEnabled) {
		return &Config{Enabled: false}
	}

	cfg := &Config{
		Enabled:         true,
		DefaultLimit:    v.GetInt(KeyDefaultLimit),
		DefaultWindow:   v.GetDuration(KeyDefaultWindow),
		CleanupInterval: v.GetDuration(KeyCleanupInterval),
		Whitelist:       parseIPList(v.GetString(KeyWhitelist)),
		Blacklist:       parseIPList(v.GetString(KeyBlacklist)),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 1000
	}
	if cfg.DefaultWindow <= 0 {
		cfg.DefaultWindow = time.Minute
	}
	return cfg
}

// DefaultEndpointConfigs returns the per-route limits. Routes not listed use
// the default limit; GET /health is never limited.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Account creation and login attempts.
		{Path: "/auth/signup", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},
		{Path: "/auth/login", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},

		// Scoring reads the whole catalog on every call.
		{Path: "/recommendations/generate", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/dialogflow/chat", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/dialogflow/webhook", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},

		// Writes.
		{Path: "/recommendations/", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/recommendations/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/users/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/users/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
	}
}

// parseIPList parses a comma-separated list of addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
