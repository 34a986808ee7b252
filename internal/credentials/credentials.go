// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package credentials supplies the commercial data source credential as an injected
// dependency instead of ambient global state.
package credentials

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/wneessen/hotspotd/internal/logger"
)

// Source is implemented by anything that can supply the commercial data source
// credential. A source that is not Available causes the adapter to be skipped, which
// is an expected condition and not a failure.
type Source interface {
	Available() bool
	Get() (username, token string, ok bool)
}

// Static is a fixed credential in "username:token" form, usually taken from the
// configuration or environment.
type Static string

// Available reports whether a non-empty credential is configured
func (s Static) Available() bool {
	return strings.TrimSpace(string(s)) != ""
}

// Get splits the credential into its username and token part. A credential without a
// separator is treated as a bare username with an empty token.
func (s Static) Get() (string, string, bool) {
	raw := strings.TrimSpace(string(s))
	if raw == "" {
		return "", "", false
	}
	username, token, found := strings.Cut(raw, ":")
	if !found {
		return raw, "", true
	}
	return username, token, true
}

// FileStore reads the credential from a file and reloads it when the file changes, so
// the credential can be rotated without restarting the service. A missing file means
// no credential is available.
type FileStore struct {
	path   string
	logger *logger.Logger

	mu      sync.RWMutex
	current Static
}

// NewFileStore returns a FileStore for the given path with the credential loaded once.
func NewFileStore(path string, log *logger.Logger) *FileStore {
	store := &FileStore{path: path, logger: log}
	store.reload()
	return store
}

// Available reports whether the file currently holds a non-empty credential
func (f *FileStore) Available() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current.Available()
}

// Get returns the current username and token
func (f *FileStore) Get() (string, string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current.Get()
}

// Watch reloads the credential whenever the file is written or replaced. It blocks
// until the context is cancelled.
func (f *FileStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create credential file watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			f.logger.Error("failed to close credential file watcher", logger.Err(err))
		}
	}()

	if err = watcher.Add(f.path); err != nil {
		return fmt.Errorf("failed to watch credential file: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				f.reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Error("credential file watcher error", logger.Err(err))
		}
	}
}

func (f *FileStore) reload() {
	data, err := os.ReadFile(f.path)
	if err != nil {
		f.mu.Lock()
		f.current = ""
		f.mu.Unlock()
		if !os.IsNotExist(err) && f.logger != nil {
			f.logger.Error("failed to read credential file", logger.Err(err))
		}
		return
	}
	f.mu.Lock()
	f.current = Static(strings.TrimSpace(string(data)))
	f.mu.Unlock()
}
