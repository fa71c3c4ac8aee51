package ratelimit

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig(viper.New())

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 1000, cfg.DefaultLimit)
	assert.Equal(t, time.Minute, cfg.DefaultWindow)
	assert.Equal(t, 5*time.Minute, cfg.CleanupInterval)
	assert.Empty(t, cfg.Whitelist)
	assert.NotEmpty(t, cfg.EndpointConfigs)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "50")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2,")
	t.Setenv("RATE_LIMIT_BLACKLIST", "192.168.0.9")

	v := viper.New()
	v.AutomaticEnv()
	cfg := LoadConfig(v)

	assert.Equal(t, 50, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Whitelist)
	assert.True(t, cfg.Blacklist["192.168.0.9"])
}

func TestLoadConfig_Disabled(t *testing.T) {
	v := viper.New()
	v.Set(KeyEnabled, false)

	cfg := LoadConfig(v)
	assert.False(t, cfg.Enabled)
}

func TestLoadConfig_NilViper(t *testing.T) {
	cfg := LoadConfig(nil)
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultConfig().DefaultLimit, cfg.DefaultLimit)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name      string
		path      string
		method    string
		wantLimit int
		wantNil   bool
	}{
		{name: "health is unlimited", path: "/health", method: "GET", wantLimit: 0},
		{name: "exact match", path: "/auth/signup", method: "POST", wantLimit: 10},
		{name: "exact beats prefix", path: "/recommendations/generate", method: "POST", wantLimit: 60},
		{name: "prefix match", path: "/recommendations/save", method: "POST", wantLimit: 100},
		{name: "prefix delete", path: "/users/delete", method: "DELETE", wantLimit: 100},
		{name: "method mismatch", path: "/recommendations/saved", method: "GET", wantNil: true},
		{name: "unknown path", path: "/careers", method: "GET", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}
