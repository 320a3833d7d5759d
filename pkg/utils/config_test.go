package utils

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv(t *testing.T) {
	chdir(t, t.TempDir()) // no .env here
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("PORT", "9000")
	t.Setenv("CONFIRMATION_RESEND_SECONDS", "30")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", config.JWT.Secret)
	assert.Equal(t, "9000", config.App.Port)
	assert.Equal(t, 30, config.Confirmation.ResendSeconds)
	assert.Equal(t, "localhost:6379", config.Redis.Addr)
	assert.Equal(t, 24, config.Confirmation.TTLHours)
	assert.Equal(t, "auth@yamdb.com", config.Email.From)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SECRET_KEY", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

// chdir switches the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
