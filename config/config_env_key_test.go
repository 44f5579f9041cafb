package config

import "testing"

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"credential": map[string]any{
			"saltLength":       24,
			"maxPasswordBytes": 1024,
		},
		"loginThrottle": map[string]any{
			"maxAttempts": 5,
			"redis": map[string]any{
				"addr": "",
			},
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "CREDENTIAL_SALTLENGTH", want: "credential.saltLength"},
		{envKey: "CREDENTIAL_MAXPASSWORDBYTES", want: "credential.maxPasswordBytes"},
		{envKey: "LOGINTHROTTLE_REDIS_ADDR", want: "loginThrottle.redis.addr"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}
