package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
env:
  env: test
  serviceName: library
  log:
    pretty: true
    level: debug
credential:
  iterations: 1000
  saltLength: 24
  keyLength: 24
loginThrottle:
  enabled: true
  maxAttempts: 3
  window: 5m
  redis:
    addr: localhost:6379
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))

	return dir
}

func TestLoadWithEnv_ReadsYAML(t *testing.T) {
	t.Chdir(writeConfig(t, testConfigYAML))

	cfg, err := LoadWithEnv[Config]("config")
	require.NoError(t, err)

	assert.Equal(t, "library", cfg.Env.ServiceName)
	assert.Equal(t, "debug", cfg.Env.Log.Level)
	assert.True(t, cfg.Env.Log.Pretty)
	require.NotNil(t, cfg.Credential)
	assert.Equal(t, 1000, cfg.Credential.Iterations)
	require.NotNil(t, cfg.LoginThrottle)
	assert.Equal(t, 3, cfg.LoginThrottle.MaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.LoginThrottle.Window)
	assert.Equal(t, "localhost:6379", cfg.LoginThrottle.Redis.Addr)
}

func TestLoadWithEnv_EnvOverridesYAML(t *testing.T) {
	t.Chdir(writeConfig(t, testConfigYAML))
	t.Setenv("CREDENTIAL_ITERATIONS", "4000")
	t.Setenv("LOGINTHROTTLE_WINDOW", "30m")

	cfg, err := LoadWithEnv[Config]("config")
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Credential.Iterations)
	assert.Equal(t, 30*time.Minute, cfg.LoginThrottle.Window)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.yaml not found")
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, "info", cfg.Env.Log.Level)
	assert.Equal(t, DefaultIterations, cfg.Credential.Iterations)
	assert.Equal(t, DefaultMaxIterations, cfg.Credential.MaxIterations)
	assert.Equal(t, DefaultSaltLength, cfg.Credential.SaltLength)
	assert.Equal(t, DefaultKeyLength, cfg.Credential.KeyLength)
	assert.Equal(t, DefaultMaxPasswordBytes, cfg.Credential.MaxPasswordBytes)
	assert.Equal(t, runtime.NumCPU(), cfg.Credential.Workers)
	assert.Equal(t, DefaultMaxPasswordLength, cfg.Account.MaxPasswordLength)
	assert.Equal(t, DefaultMaxRoles, cfg.Account.MaxRoles)
	assert.Equal(t, DefaultMaxLoginAttempts, cfg.LoginThrottle.MaxAttempts)
	assert.Equal(t, DefaultLoginWindow, cfg.LoginThrottle.Window)
	assert.Equal(t, DefaultMetricsNamespace, cfg.Metrics.Namespace)
	assert.Equal(t, DefaultMetricsPort, cfg.Metrics.Port)
	assert.False(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.LoginThrottle.Enabled)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Credential: &CredentialConfig{Iterations: 5000, Workers: 2},
	}
	cfg.ApplyDefaults()

	assert.Equal(t, 5000, cfg.Credential.Iterations)
	assert.Equal(t, 2, cfg.Credential.Workers)
	assert.Equal(t, DefaultSaltLength, cfg.Credential.SaltLength)
}
