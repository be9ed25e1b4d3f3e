//go:build !tinygo

package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// reloadDebounce coalesces the burst of events an editor save produces.
const reloadDebounce = 100 * time.Millisecond

// LoadConfig reads a TOML or YAML config file over DefaultConfig. A missing
// file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	switch filepath.Ext(path) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("decode TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			if yerr := yaml.Unmarshal(data, &cfg); yerr != nil {
				return Config{}, fmt.Errorf("parse config: unrecognized format")
			}
		}
	}

	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// WatchConfig reloads path after every write and hands each valid result to
// fn. Load errors go to onErr (which may be nil) and leave the previous
// config in place. It blocks until ctx is done.
func WatchConfig(ctx context.Context, path string, fn func(Config), onErr func(error)) error {
	if onErr == nil {
		onErr = func(error) {}
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	// Editors often replace the file, so watch its directory.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()
	reload := func() {
		cfg, err := LoadConfig(path)
		if err != nil {
			onErr(err)
			return
		}
		fn(cfg)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != filepath.Base(path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, reload)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			onErr(err)
		}
	}
}
