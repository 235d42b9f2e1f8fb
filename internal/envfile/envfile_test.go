package envfile

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/robbyt/go-loglater"
	"github.com/robbyt/go-loglater/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenKey = "MAPBOX_ACCESS_TOKEN"

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func attrValue(rec storage.Record, key string) (string, bool) {
	for _, a := range rec.Attrs {
		if a.Key == key {
			return a.Value.String(), true
		}
	}
	return "", false
}

func TestLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
		wantErr error
	}{
		{name: "single line", content: "MAPBOX_ACCESS_TOKEN=xyz\n", want: "xyz"},
		{name: "no trailing newline", content: "MAPBOX_ACCESS_TOKEN=xyz", want: "xyz"},
		{name: "surrounding whitespace stripped", content: "   MAPBOX_ACCESS_TOKEN=pk.abc  \n", want: "pk.abc"},
		{name: "value keeps later equals", content: "MAPBOX_ACCESS_TOKEN=a=b==\n", want: "a=b=="},
		{name: "empty value", content: "MAPBOX_ACCESS_TOKEN=\n", want: ""},
		{name: "value keeps quotes", content: "MAPBOX_ACCESS_TOKEN=\"quoted\"\n", want: "\"quoted\""},
		{
			name:    "first match wins",
			content: "MAPBOX_ACCESS_TOKEN=first\nMAPBOX_ACCESS_TOKEN=second\n",
			want:    "first",
		},
		{
			name:    "comments and blank lines skipped",
			content: "# tokens\n\n   \nOTHER=1\n#MAPBOX_ACCESS_TOKEN=commented\nMAPBOX_ACCESS_TOKEN=real\n",
			want:    "real",
		},
		{name: "crlf line endings", content: "OTHER=1\r\nMAPBOX_ACCESS_TOKEN=win\r\n", want: "win"},
		{name: "last line without newline", content: "OTHER=1\nMAPBOX_ACCESS_TOKEN=tail", want: "tail"},
		{
			name:    "line longer than 64KiB before the key",
			content: "OTHER=" + strings.Repeat("x", 70000) + "\nMAPBOX_ACCESS_TOKEN=ok\n",
			want:    "ok",
		},
		{
			name:    "long value is returned whole",
			content: "MAPBOX_ACCESS_TOKEN=" + strings.Repeat("t", 100000) + "\n",
			want:    strings.Repeat("t", 100000),
		},
		{name: "key is not trimmed around equals", content: "MAPBOX_ACCESS_TOKEN = spaced\n", want: ""},
		{name: "key is case sensitive", content: "mapbox_access_token=lower\n", want: ""},
		{name: "missing key", content: "OTHER=1\n", want: ""},
		{name: "empty file", content: "", want: ""},
		{name: "malformed line", content: "OTHER=1\nnot a pair\nMAPBOX_ACCESS_TOKEN=x\n", wantErr: ErrMalformedLine},
		{name: "indented comment without equals is malformed", content: "  # note\n", wantErr: ErrMalformedLine},
		{
			name:    "malformed line after match is never read",
			content: "MAPBOX_ACCESS_TOKEN=early\ngarbage\n",
			want:    "early",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Lookup(strings.NewReader(tt.content), tokenKey)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookup_MalformedLineNumber(t *testing.T) {
	t.Parallel()

	_, err := Lookup(strings.NewReader("A=1\n\nbroken\n"), tokenKey)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestLookup_ReadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk gone")
	_, err := Lookup(iotest.ErrReader(boom), tokenKey)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReadFile)
	assert.ErrorIs(t, err, boom)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("reads value", func(t *testing.T) {
		t.Parallel()

		path := writeEnvFile(t, "MAPBOX_ACCESS_TOKEN=abc123\n")
		got, err := Load(path, tokenKey)
		require.NoError(t, err)
		assert.Equal(t, "abc123", got)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Load(filepath.Join(t.TempDir(), ".env"), tokenKey)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrOpenFile)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed file names the path", func(t *testing.T) {
		t.Parallel()

		path := writeEnvFile(t, "oops\n")
		_, err := Load(path, tokenKey)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedLine)
		assert.Contains(t, err.Error(), path)
	})
}

func TestLoadToken(t *testing.T) {
	t.Parallel()

	t.Run("success logs only a prefix", func(t *testing.T) {
		t.Parallel()

		collector := loglater.NewLogCollector(nil)
		path := writeEnvFile(t, "MAPBOX_ACCESS_TOKEN=pk.secretvalue\n")

		token := LoadToken(slog.New(collector), path, tokenKey)
		assert.Equal(t, "pk.secretvalue", token)

		logs := collector.GetLogs()
		require.Len(t, logs, 1)
		assert.Equal(t, slog.LevelInfo, logs[0].Level)
		assert.Equal(t, "Loaded access token", logs[0].Message)
		prefix, ok := attrValue(logs[0], "prefix")
		require.True(t, ok)
		assert.Equal(t, "pk.se...", prefix)
		for _, a := range logs[0].Attrs {
			assert.NotContains(t, a.Value.String(), "secretvalue")
		}
	})

	t.Run("missing file is not fatal", func(t *testing.T) {
		t.Parallel()

		collector := loglater.NewLogCollector(nil)
		token := LoadToken(slog.New(collector), filepath.Join(t.TempDir(), ".env"), tokenKey)
		assert.Equal(t, "", token)

		logs := collector.GetLogs()
		require.Len(t, logs, 1)
		assert.Equal(t, slog.LevelWarn, logs[0].Level)
		assert.Contains(t, logs[0].Message, "Error loading env file")
	})

	t.Run("malformed file is not fatal", func(t *testing.T) {
		t.Parallel()

		collector := loglater.NewLogCollector(nil)
		token := LoadToken(slog.New(collector), writeEnvFile(t, "broken\n"), tokenKey)
		assert.Equal(t, "", token)

		logs := collector.GetLogs()
		require.Len(t, logs, 1)
		assert.Equal(t, slog.LevelWarn, logs[0].Level)
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		collector := loglater.NewLogCollector(nil)
		token := LoadToken(slog.New(collector), writeEnvFile(t, "OTHER=1\n"), tokenKey)
		assert.Equal(t, "", token)

		logs := collector.GetLogs()
		require.Len(t, logs, 1)
		assert.Equal(t, "No access token found", logs[0].Message)
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		collector := loglater.NewLogCollector(nil)
		assert.Equal(t, "", LoadToken(slog.New(collector), "", tokenKey))
	})

	t.Run("nil logger uses default", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "v", LoadToken(nil, writeEnvFile(t, "MAPBOX_ACCESS_TOKEN=v\n"), tokenKey))
	})
}
