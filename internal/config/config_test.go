package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENVIRONMENT", "CORS_ORIGINS", "AUTO_MIGRATE", "SECRET_KEY",
		"JWT_ALGORITHM", "ACCESS_TOKEN_EXPIRE_HOURS", "BCRYPT_COST",
		"LOG_LEVEL", "LOG_DIR", "LOG_MAX_FILES", "CONFIG_FILE",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/vcto")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, DefaultSecretKey, cfg.SecretKey)
	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL())
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("SECRET_KEY", "s3cr3t")
	t.Setenv("JWT_ALGORITHM", "hs512")
	t.Setenv("ACCESS_TOKEN_EXPIRE_HOURS", "2")
	t.Setenv("AUTO_MIGRATE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "s3cr3t", cfg.SecretKey)
	assert.Equal(t, "HS512", cfg.JWTAlgorithm)
	assert.Equal(t, 2*time.Hour, cfg.AccessTokenTTL())
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	setBaseEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"port: \"9000\"\nsecret_key: from-file\naccess_token_expire_hours: 6\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port, "env wins over file")
	assert.Equal(t, "from-file", cfg.SecretKey)
	assert.Equal(t, 6, cfg.AccessTokenExpireHours)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing database url", env: map[string]string{"DATABASE_URL": ""}},
		{name: "default secret in prod", env: map[string]string{"ENVIRONMENT": "prod"}},
		{name: "asymmetric algorithm", env: map[string]string{"JWT_ALGORITHM": "RS256"}},
		{name: "zero ttl", env: map[string]string{"ACCESS_TOKEN_EXPIRE_HOURS": "0"}},
		{name: "bcrypt cost too high", env: map[string]string{"BCRYPT_COST": "40"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestSetupLogFile_KeepsMostRecent(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"server-2024-01-01T00-00-00.log",
		"server-2024-01-02T00-00-00.log",
		"server-2024-01-03T00-00-00.log",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	f, err := SetupLogFile(dir, 2)
	require.NoError(t, err)
	defer f.Close()

	files, err := filepath.Glob(filepath.Join(dir, "server-*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.NotContains(t, files, filepath.Join(dir, "server-2024-01-01T00-00-00.log"))
}
