package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath = "."

	DefaultIterations        = 1000
	DefaultMaxIterations     = 1_000_000
	DefaultSaltLength        = 24
	DefaultKeyLength         = 24
	DefaultMaxPasswordBytes  = 1024
	DefaultMaxPasswordLength = 60
	DefaultMaxRoles          = 2
	DefaultMaxLoginAttempts  = 5
	DefaultLoginWindow       = 15 * time.Minute
	DefaultMetricsNamespace  = "library"
	DefaultMetricsPort       = 9090
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	Credential *CredentialConfig `json:"credential" yaml:"credential"`

	Account *AccountConfig `json:"account" yaml:"account"`

	// LoginThrottle configuration for failed-login counting
	LoginThrottle *LoginThrottleConfig `json:"loginThrottle" yaml:"loginThrottle"`

	// Metrics configuration for the Prometheus endpoint
	Metrics *MetricsConfig `json:"metrics" yaml:"metrics"`
}

// CredentialConfig defines the PBKDF2 parameters for newly created credential records.
// Existing records carry their own parameters and are unaffected by changes here.
type CredentialConfig struct {
	Iterations       int `json:"iterations" yaml:"iterations"`
	MaxIterations    int `json:"maxIterations" yaml:"maxIterations"`
	SaltLength       int `json:"saltLength" yaml:"saltLength"`
	KeyLength        int `json:"keyLength" yaml:"keyLength"`
	MaxPasswordBytes int `json:"maxPasswordBytes" yaml:"maxPasswordBytes"`

	// Number of concurrent key derivations; defaults to the CPU count
	Workers int `json:"workers" yaml:"workers"`
}

// AccountConfig defines account management rules
type AccountConfig struct {
	MaxPasswordLength int `json:"maxPasswordLength" yaml:"maxPasswordLength"`
	MaxRoles          int `json:"maxRoles" yaml:"maxRoles"`

	// Bootstrap librarian created on startup when the email is unused
	Bootstrap *BootstrapConfig `json:"bootstrap" yaml:"bootstrap"`
}

// BootstrapConfig describes the initial librarian account
type BootstrapConfig struct {
	FirstName string `json:"firstName" yaml:"firstName"`
	LastName  string `json:"lastName" yaml:"lastName"`
	Email     string `json:"email" yaml:"email"`
	Password  string `json:"password" yaml:"password"`
}

// LoginThrottleConfig defines the Redis-backed failed login counter
type LoginThrottleConfig struct {
	Enabled     bool          `json:"enabled" yaml:"enabled"`
	MaxAttempts int           `json:"maxAttempts" yaml:"maxAttempts"`
	Window      time.Duration `json:"window" yaml:"window"`
	Redis       RedisConfig   `json:"redis" yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
}

// MetricsConfig defines the operations endpoint serving /metrics and /healthz
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Namespace string `json:"namespace" yaml:"namespace"`
	Port      int    `json:"port" yaml:"port"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	var configFile string
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate

			break
		}
	}

	if configFile == "" {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Example: CREDENTIAL_SALTLENGTH -> credential.saltLength (not credential.saltlength)
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	if cfg.Postgres != nil {
		// POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, ...
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	return cfg, nil
}

// ApplyDefaults fills zero-valued sections and fields.
func (cfg *Config) ApplyDefaults() {
	if cfg.Env.Log.Level == "" {
		cfg.Env.Log.Level = "info"
	}

	if cfg.Credential == nil {
		cfg.Credential = &CredentialConfig{}
	}
	cfg.Credential.applyDefaults()

	if cfg.Account == nil {
		cfg.Account = &AccountConfig{}
	}
	if cfg.Account.MaxPasswordLength <= 0 {
		cfg.Account.MaxPasswordLength = DefaultMaxPasswordLength
	}
	if cfg.Account.MaxRoles <= 0 {
		cfg.Account.MaxRoles = DefaultMaxRoles
	}

	if cfg.LoginThrottle == nil {
		cfg.LoginThrottle = &LoginThrottleConfig{}
	}
	if cfg.LoginThrottle.MaxAttempts <= 0 {
		cfg.LoginThrottle.MaxAttempts = DefaultMaxLoginAttempts
	}
	if cfg.LoginThrottle.Window <= 0 {
		cfg.LoginThrottle.Window = DefaultLoginWindow
	}

	if cfg.Metrics == nil {
		cfg.Metrics = &MetricsConfig{}
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Port <= 0 {
		cfg.Metrics.Port = DefaultMetricsPort
	}
}

func (c *CredentialConfig) applyDefaults() {
	if c.Iterations <= 0 {
		c.Iterations = DefaultIterations
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = max(DefaultMaxIterations, c.Iterations)
	}
	if c.SaltLength <= 0 {
		c.SaltLength = DefaultSaltLength
	}
	if c.KeyLength <= 0 {
		c.KeyLength = DefaultKeyLength
	}
	if c.MaxPasswordBytes <= 0 {
		c.MaxPasswordBytes = DefaultMaxPasswordBytes
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			break
		}

		replicas = append(replicas, postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		})
	}

	return replicas
}
