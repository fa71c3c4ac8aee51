package config

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCost keeps hashing fast in tests.
const testCost = 10

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name     string
		cost     string
		pepper   string
		wantCost int
		wantErr  bool
	}{
		{name: "default cost", cost: "", wantCost: 12},
		{name: "custom cost", cost: "11", wantCost: 11},
		{name: "with pepper", cost: "10", pepper: "pepper", wantCost: 10},
		{name: "cost too low", cost: "9", wantErr: true},
		{name: "cost too high", cost: "15", wantErr: true},
		{name: "non-numeric cost", cost: "high", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tt.cost)
			t.Setenv("PASSWORD_PEPPER", tt.pepper)

			cfg, err := NewPasswordConfig()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCost, cfg.BcryptCost)
			assert.Equal(t, tt.pepper, cfg.Pepper)
		})
	}
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	cfg, err := NewPasswordConfigFromValues(testCost, "")
	require.NoError(t, err)

	hash, err := cfg.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"))

	assert.True(t, cfg.VerifyPassword("correct horse", hash))
	assert.False(t, cfg.VerifyPassword("wrong horse", hash))
	assert.False(t, cfg.VerifyPassword("correct horse", "not-a-hash"))
}

func TestPasswordConfig_SaltUniqueness(t *testing.T) {
	cfg, err := NewPasswordConfigFromValues(testCost, "")
	require.NoError(t, err)

	h1, err := cfg.HashPassword("same password")
	require.NoError(t, err)
	h2, err := cfg.HashPassword("same password")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestPasswordConfig_Pepper(t *testing.T) {
	peppered, err := NewPasswordConfigFromValues(testCost, "server-pepper")
	require.NoError(t, err)
	plain, err := NewPasswordConfigFromValues(testCost, "")
	require.NoError(t, err)

	hash, err := peppered.HashPassword("secret123")
	require.NoError(t, err)

	assert.True(t, peppered.VerifyPassword("secret123", hash))
	assert.False(t, plain.VerifyPassword("secret123", hash), "rotating the pepper invalidates hashes")
}

func TestPasswordConfig_LengthLimit(t *testing.T) {
	cfg, err := NewPasswordConfigFromValues(testCost, strings.Repeat("p", 63))
	require.NoError(t, err)

	_, err = cfg.HashPassword("123456789")
	assert.NoError(t, err, "72 bytes with pepper is accepted")

	hash, err := cfg.HashPassword("1234567890")
	assert.Error(t, err)
	assert.Empty(t, hash)
}

func TestPasswordConfig_ConcurrentAccess(t *testing.T) {
	cfg, err := NewPasswordConfigFromValues(testCost, "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hash, err := cfg.HashPassword("concurrent")
			assert.NoError(t, err)
			assert.True(t, cfg.VerifyPassword("concurrent", hash))
		}()
	}
	wg.Wait()
}
