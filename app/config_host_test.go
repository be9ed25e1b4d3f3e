//go:build !tinygo

package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigTOML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "joy.toml", `
name = "bench"
input_hz = 50
peers = ["02:00:00:00:00:01"]
menu = ["arm", "disarm"]

[link]
listen = "127.0.0.1:4210"
target = "127.0.0.1:4211"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "bench", cfg.Name)
	assert.Equal(t, 50, cfg.InputHz)
	assert.Equal(t, DefaultConfig().FrameHz, cfg.FrameHz, "unset rate takes the default")
	assert.Equal(t, []string{"02:00:00:00:00:01"}, cfg.Peers)
	assert.Equal(t, []string{"arm", "disarm"}, cfg.Menu)
	assert.Equal(t, LinkConfig{Listen: "127.0.0.1:4210", Target: "127.0.0.1:4211"}, cfg.Link)
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "joy.yaml", `
name: yamljoy
frame_hz: 10
flick: 0.8
link:
  self: "02:00:00:00:00:09"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "yamljoy", cfg.Name)
	assert.Equal(t, 10, cfg.FrameHz)
	assert.Equal(t, float32(0.8), cfg.Flick)
	assert.Equal(t, "02:00:00:00:00:09", cfg.Link.Self)
}

func TestLoadConfigUnknownExtension(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "joy.conf", "name = \"plain\"\n")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "plain", cfg.Name)

	path = writeConfig(t, t.TempDir(), "joy.conf", "name: yamlish\n")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "yamlish", cfg.Name)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name, file, body string
	}{
		{"negative rate", "rate.toml", "input_hz = -5\n"},
		{"bad peer", "peer.toml", "peers = [\"not-an-address\"]\n"},
		{"bad self", "self.yaml", "link:\n  self: bogus\n"},
		{"flick below rest", "stick.toml", "flick = 0.2\nrest = 0.4\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.file, tt.body)
			_, err := LoadConfig(path)
			assert.ErrorIs(t, err, errConfig)
		})
	}
}

func TestLoadConfigBadSyntax(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "joy.toml", "name = \n")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestWatchConfigReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "joy.toml", "flick = 0.6\n")

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan Config, 4)
	errs := make(chan error, 4)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, path, func(c Config) { got <- c }, func(err error) { errs <- err })
	}()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	// The watcher registers asynchronously; keep rewriting until it sees one.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()
	writeConfig(t, dir, "joy.toml", "flick = 0.9\n")
	for {
		select {
		case cfg := <-got:
			if cfg.Flick == 0.9 {
				return
			}
		case err := <-errs:
			t.Logf("WatchConfig reported %v", err)
		case <-tick.C:
			writeConfig(t, dir, "joy.toml", "flick = 0.9\n")
		case <-deadline:
			t.Fatal("no reload within 5s")
		}
	}
}
