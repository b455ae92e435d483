package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/xplshn/tracerr2"
)

// Watch reloads the config at configPath whenever it is written and passes the
// previous and reloaded values to onChange. Reload errors go to onError and the
// previous config stays current. Watch blocks until ctx is done.
func Watch(ctx context.Context, configPath string, current *Config, onChange func(oldConfig, newConfig *Config), onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return tracerr.Wrapf(err, "failed to create config watcher")
	}
	defer watcher.Close()

	// Editors often replace the file, so watch the directory and filter by name.
	target := filepath.Clean(configPath)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return tracerr.Wrapf(err, "failed to watch %s", filepath.Dir(target))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			// A truncate arrives as a write of an empty file; wait for the content.
			if info, err := os.Stat(configPath); err == nil && info.Size() == 0 {
				continue
			}
			next, err := LoadConfig(configPath)
			if err != nil {
				onError(err)
				continue
			}
			onChange(current, next)
			current = next
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onError(err)
		}
	}
}

// Changes describes every setting that differs between old and updated
func Changes(old, updated *Config) []string {
	var changes []string
	add := func(name string, from, to any) {
		if from != to {
			changes = append(changes, fmt.Sprintf("%s changed from %v to %v", name, from, to))
		}
	}
	add("root", old.Root, updated.Root)
	add("listen", old.Listen, updated.Listen)
	add("workers", old.Workers, updated.Workers)
	add("read_timeout", old.ReadTimeout, updated.ReadTimeout)
	add("write_timeout", old.WriteTimeout, updated.WriteTimeout)
	add("rate_limit", old.RateLimit, updated.RateLimit)
	add("rate_burst", old.RateBurst, updated.RateBurst)
	add("log_dir", old.LogDir, updated.LogDir)
	return changes
}

// NeedsRestart reports whether any setting other than the rate limits changed.
// Those are fixed once the listener and worker pool exist.
func NeedsRestart(old, updated *Config) bool {
	return old.Root != updated.Root ||
		old.Listen != updated.Listen ||
		old.Workers != updated.Workers ||
		old.ReadTimeout != updated.ReadTimeout ||
		old.WriteTimeout != updated.WriteTimeout ||
		old.LogDir != updated.LogDir
}
