package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "default", cfg.QueryDefaultScope)
	assert.Equal(t, 7*24*time.Hour, cfg.PresignMaxTTL)
	assert.Equal(t, 30*time.Second, cfg.ClockSkew)
	assert.Equal(t, int64(5*1024*1024), cfg.MultipartMinPartSize)
	assert.Equal(t, 24*time.Hour, cfg.UploadSessionTTL)
	assert.True(t, cfg.RateLimitEnabled)
	assert.Equal(t, "edgegate", cfg.MetricsNamespace)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PRESIGN_MAX_TTL_SECONDS", "3600")
	t.Setenv("MULTIPART_MIN_PART_SIZE", "1024")
	t.Setenv("QUERY_SCOPES", "analytics=postgres://a;reporting=mysql://b")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, time.Hour, cfg.PresignMaxTTL)
	assert.Equal(t, int64(1024), cfg.MultipartMinPartSize)
	assert.Equal(t, map[string]string{
		"analytics": "postgres://a",
		"reporting": "mysql://b",
	}, cfg.QueryScopes)
}

func TestParseScopes(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected map[string]string
	}{
		{
			name:     "empty",
			raw:      "",
			expected: map[string]string{},
		},
		{
			name:     "single scope",
			raw:      "analytics=postgres://localhost/analytics",
			expected: map[string]string{"analytics": "postgres://localhost/analytics"},
		},
		{
			name: "multiple scopes with whitespace",
			raw:  "a=dsn1; b=dsn2",
			expected: map[string]string{
				"a": "dsn1",
				"b": "dsn2",
			},
		},
		{
			name:     "malformed entries skipped",
			raw:      "a=dsn1;;nodsn;=dsn2",
			expected: map[string]string{"a": "dsn1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseScopes(tt.raw))
		})
	}
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		expected string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.expected, cfg.GetGinMode())
		})
	}
}
