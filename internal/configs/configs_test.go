package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "PORT", "ALLOWED_ORIGINS", "JWT_SECRET", "STORE_DRIVER", "DATABASE_URL",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "MESSAGE_RATE", "MESSAGE_BURST", "MESSAGE_TIMEOUT",
		"DEV_ADMIN_EMAIL", "DEV_ADMIN_PASSWORD",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_DevelopmentDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.NotEmpty(t, cfg.DatabaseDSN)
	assert.Equal(t, 5.0, cfg.MessageRate)
	assert.Equal(t, 10, cfg.MessageBurst)
	assert.Equal(t, 10*time.Second, cfg.MessageTimeout)
}

func TestFromEnv_ProductionRequiresSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cret")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://db/talentx")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestFromEnv_MemoryStoreOnlyInDevelopment(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", StoreDriverMemory)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Empty(t, cfg.DatabaseDSN)

	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	_, err = FromEnv()
	assert.Error(t, err)
}

func TestFromEnv_ParsesLists(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("MESSAGE_TIMEOUT", "250ms")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 250*time.Millisecond, cfg.MessageTimeout)
}

func TestFromEnv_RejectsBadValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"PORT", "abc"},
		{"PORT", "80"},
		{"STORE_DRIVER", "mongo"},
		{"MESSAGE_RATE", "-1"},
		{"MESSAGE_BURST", "0"},
		{"MESSAGE_TIMEOUT", "soon"},
		{"REDIS_DB", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_DevAdminSeed(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", StoreDriverMemory)
	t.Setenv("DEV_ADMIN_EMAIL", " admin@talentx.dev ")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "DEV_ADMIN_PASSWORD")

	t.Setenv("DEV_ADMIN_PASSWORD", "letmein")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "admin@talentx.dev", cfg.DevAdminEmail)
	assert.Equal(t, "letmein", cfg.DevAdminPassword)

	t.Setenv("STORE_DRIVER", StoreDriverPostgres)
	cfg, err = FromEnv()
	require.NoError(t, err)
	assert.Empty(t, cfg.DevAdminEmail, "only the memory store is seeded")
}
