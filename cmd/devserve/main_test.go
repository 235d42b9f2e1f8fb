package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/atlanticdynamic/devserve/internal/config"
	"github.com/atlanticdynamic/devserve/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func runApp(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	buf := &bytes.Buffer{}
	app.Writer = buf
	app.ErrWriter = io.Discard
	// keep cli.Exit errors from terminating the test binary
	app.ExitErrHandler = func(context.Context, *cli.Command, error) {}
	err := app.Run(ctx, append([]string{"devserve"}, args...))
	return buf.String(), err
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "no flags keeps config values",
			args: nil,
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, config.NewDefault(), cfg)
			},
		},
		{
			name: "string overrides",
			args: []string{"-l", ":9000", "-r", "public", "-e", "secrets.env", "--token-key", "MY_TOKEN", "--entry-path", "/js/main.js", "--entry-file", "src/main.js"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, ":9000", cfg.Listen)
				assert.Equal(t, "public", cfg.Root)
				assert.Equal(t, "secrets.env", cfg.EnvFile)
				assert.Equal(t, "MY_TOKEN", cfg.Token.Key)
				assert.Equal(t, "/js/main.js", cfg.Entry.Path)
				assert.Equal(t, "src/main.js", cfg.Entry.File)
			},
		},
		{
			name: "bool overrides",
			args: []string{"--no-cache", "--access-log=false"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.True(t, cfg.NoCache)
				assert.False(t, cfg.Log.Access)
			},
		},
		{
			name: "empty env file disables token loading",
			args: []string{"--env-file", ""},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Empty(t, cfg.EnvFile)
			},
		},
		{
			name: "logging overrides",
			args: []string{"--log-level", "debug", "--log-format", "json", "--log-output", "stdout"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "debug", cfg.Log.Level)
				assert.Equal(t, "json", cfg.Log.Format)
				assert.Equal(t, "stdout", cfg.Log.Output)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *config.Config
			cmd := newServeCmd()
			cmd.Action = func(ctx context.Context, c *cli.Command) error {
				got = config.NewDefault()
				applyFlags(c, got, slog.Default())
				return nil
			}

			require.NoError(t, cmd.Run(t.Context(), append([]string{"serve"}, tt.args...)))
			require.NotNil(t, got)
			tt.check(t, got)
		})
	}
}

func TestPrepareConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("flags override file", func(t *testing.T) {
		path := filepath.Join(dir, "devserve.toml")
		writeFile(t, path, "listen = \":7000\"\nno_cache = false\n")

		var got *config.Config
		cmd := newServeCmd()
		cmd.Action = func(ctx context.Context, c *cli.Command) error {
			var err error
			got, err = prepareConfig(c, slog.Default())
			return err
		}

		require.NoError(t, cmd.Run(t.Context(), []string{"serve", "-c", path, "--no-cache"}))
		assert.Equal(t, ":7000", got.Listen)
		assert.True(t, got.NoCache)
	})

	t.Run("invalid override fails validation", func(t *testing.T) {
		cmd := newServeCmd()
		cmd.Action = func(ctx context.Context, c *cli.Command) error {
			_, err := prepareConfig(c, slog.Default())
			return err
		}

		err := cmd.Run(t.Context(), []string{"serve", "--listen", "nope", "--log-format", "xml"})
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrFailedToValidateConfig)
	})

	t.Run("missing file", func(t *testing.T) {
		cmd := newServeCmd()
		cmd.Action = func(ctx context.Context, c *cli.Command) error {
			_, err := prepareConfig(c, slog.Default())
			return err
		}

		err := cmd.Run(t.Context(), []string{"serve", "-c", filepath.Join(dir, "absent.toml")})
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrFailedToLoadConfig)
	})
}

func TestStartupLine(t *testing.T) {
	cfg := config.NewDefault()
	line := startupLine(cfg)
	assert.Contains(t, line, "Serving at")
	assert.Contains(t, line, "http://localhost:8000")
	assert.NotContains(t, line, "no-cache")

	cfg.NoCache = true
	assert.Contains(t, startupLine(cfg), " with no-cache headers")
}

func TestVersionCmd(t *testing.T) {
	out, err := runApp(t, t.Context(), "version")
	require.NoError(t, err)
	assert.Equal(t, "devserve version dev\n", out)
}

func TestValidateCmd(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "valid.toml")
	writeFile(t, valid, "listen = \"127.0.0.1:8080\"\nroot = \"site\"\n[headers.set]\n\"X-Frame-Options\" = \"DENY\"\n")
	invalid := filepath.Join(dir, "invalid.toml")
	writeFile(t, invalid, "listen = \"127.0.0.1:99999\"\n")

	t.Run("summary", func(t *testing.T) {
		out, err := runApp(t, t.Context(), "validate", valid)
		require.NoError(t, err)
		assert.Contains(t, out, "is valid")
		assert.Contains(t, out, "Config Summary")
		assert.Contains(t, out, "http://127.0.0.1:8080")
	})

	t.Run("tree", func(t *testing.T) {
		out, err := runApp(t, t.Context(), "validate", "--tree", "--config", valid)
		require.NoError(t, err)
		assert.Contains(t, out, "devserve config")
		assert.Contains(t, out, "X-Frame-Options")
		assert.NotContains(t, out, "Config Summary")
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := runApp(t, t.Context(), "validate", invalid)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrFailedToValidateConfig)
	})

	t.Run("path required", func(t *testing.T) {
		_, err := runApp(t, t.Context(), "validate")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config file path required")
	})
}

func TestServeCmd_InvalidConfig(t *testing.T) {
	_, err := runApp(t, t.Context(), "serve", "--listen", "not-an-address")

	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
}

func TestServeCmd_ServesUntilCancelled(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "site")
	writeFile(t, filepath.Join(root, "index.html"), "<html></html>")
	writeFile(t, filepath.Join(root, "js", "app.js"), "mapboxgl.accessToken = process.env.MAPBOX_ACCESS_TOKEN || '';\n")
	envPath := filepath.Join(dir, ".env")
	writeFile(t, envPath, "MAPBOX_ACCESS_TOKEN=pk.cmdtest\n")

	addr := testutil.GetRandomListeningAddr(t)
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := runApp(t, ctx, "serve",
			"--listen", addr,
			"--root", root,
			"--env-file", envPath,
			"--no-cache",
			"--access-log=false",
			"--log-output", filepath.Join(dir, "logs", "devserve.log"),
		)
		done <- result{out: out, err: err}
	}()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/js/app.js")
		if err != nil {
			return false
		}
		defer func() { _ = resp.Body.Close() }()
		data, err := io.ReadAll(resp.Body)
		if err != nil || resp.StatusCode != http.StatusOK {
			return false
		}
		body = string(data)
		return true
	}, 5*time.Second, 20*time.Millisecond, "server should start")

	assert.Equal(t, "mapboxgl.accessToken = 'pk.cmdtest';\n", body)

	logPath := filepath.Join(dir, "logs", "devserve.log")
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(logPath)
		return err == nil && bytes.Contains(data, []byte("Server ready"))
	}, 5*time.Second, 20*time.Millisecond, "ready should be logged")

	cancel()
	select {
	case res := <-done:
		assert.NoError(t, res.err)
		assert.Contains(t, res.out, "Serving at")
		assert.Contains(t, res.out, "with no-cache headers")
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not return after cancel")
	}

	logData, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logData), "Loaded access token")
	assert.NotContains(t, string(logData), "pk.cmdtest")
}
