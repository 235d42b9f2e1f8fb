package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefault(t *testing.T) {
	t.Parallel()

	cfg := NewDefault()
	assert.Equal(t, ":8000", cfg.Listen)
	assert.Equal(t, ".", cfg.Root)
	assert.Equal(t, ".env", cfg.EnvFile)
	assert.False(t, cfg.NoCache)
	assert.Equal(t, "MAPBOX_ACCESS_TOKEN", cfg.Token.Key)
	assert.Equal(t, "/js/app.js", cfg.Entry.Path)
	assert.Equal(t, "js/app.js", cfg.Entry.File)
	assert.Equal(t, "process.env.MAPBOX_ACCESS_TOKEN || ''", cfg.Entry.Placeholder)
	assert.True(t, cfg.Log.Access)
	assert.True(t, cfg.Headers.IsEmpty())

	require.NoError(t, cfg.Validate())
}

func TestConfig_ListenURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		listen   string
		expected string
	}{
		{":8000", "http://localhost:8000"},
		{"0.0.0.0:8000", "http://localhost:8000"},
		{"[::]:9000", "http://localhost:9000"},
		{"127.0.0.1:8080", "http://127.0.0.1:8080"},
		{"[::1]:8080", "http://[::1]:8080"},
		{"not-an-address", "http://not-an-address"},
	}

	for _, tt := range tests {
		t.Run(tt.listen, func(t *testing.T) {
			t.Parallel()
			cfg := &Config{Listen: tt.listen}
			assert.Equal(t, tt.expected, cfg.ListenURL())
		})
	}
}

func TestHeaders_IsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, Headers{}.IsEmpty())
	assert.False(t, Headers{Remove: []string{"Server"}}.IsEmpty())
	assert.False(t, Headers{Set: map[string]string{"X-A": "1"}}.IsEmpty())
	assert.False(t, Headers{Add: map[string]string{"X-A": "1"}}.IsEmpty())
}
