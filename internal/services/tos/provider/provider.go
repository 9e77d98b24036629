// Package provider serves terms of service text from a file on disk
package provider

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"

	"agora/internal/platform/logger"
	"agora/internal/services/tos/domain"

	"github.com/fsnotify/fsnotify"
)

// Config for the file provider
type Config struct {
	// Path to the terms text file
	Path string

	// Version overrides version detection when set
	Version string
}

// File loads terms from disk and caches them until the file changes
type File struct {
	cfg Config
	log logger.Logger

	mu     sync.RWMutex
	cached *domain.Terms
}

// NewFile constructs a file provider
func NewFile(cfg Config, log logger.Logger) *File {
	return &File{cfg: cfg, log: log}
}

// Current implements domain.ProviderPort
func (f *File) Current(_ context.Context) (domain.Terms, error) {
	f.mu.RLock()
	if f.cached != nil {
		t := *f.cached
		f.mu.RUnlock()
		return t, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cached != nil {
		return *f.cached, nil
	}

	raw, err := os.ReadFile(f.cfg.Path)
	if err != nil {
		return domain.Terms{}, fmt.Errorf("tos read %s: %w", f.cfg.Path, err)
	}
	text := string(raw)

	t := domain.Terms{
		Text:    text,
		Version: f.resolveVersion(text),
	}
	f.cached = &t
	return t, nil
}

// Invalidate drops the cache so the next Current re-reads the file
func (f *File) Invalidate() {
	f.mu.Lock()
	f.cached = nil
	f.mu.Unlock()
}

// resolveVersion picks the configured version, else a Version: line in
// the text, else a stable content hash of the LF-normalized text
func (f *File) resolveVersion(text string) string {
	if f.cfg.Version != "" {
		return f.cfg.Version
	}
	if v := versionLine(text); v != "" {
		return v
	}
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	sum := sha256.Sum256([]byte(normalized))
	return "sha256:" + hex.EncodeToString(sum[:])
}

func versionLine(text string) string {
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if rest, ok := strings.CutPrefix(line, "Version:"); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

// Watch invalidates the cache whenever the terms file changes on disk.
// Blocks until ctx is cancelled
func (f *File) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			f.log.Warn().Err(cerr).Msg("tos watcher close")
		}
	}()

	if err := w.Add(f.cfg.Path); err != nil {
		return fmt.Errorf("tos watch %s: %w", f.cfg.Path, err)
	}
	f.log.Info().Str("path", f.cfg.Path).Msg("tos watcher started")

	for {
		select {
		case <-ctx.Done():
			f.log.Info().Msg("tos watcher stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			f.Invalidate()
			f.log.Info().Str("op", ev.Op.String()).Msg("tos file changed, cache dropped")

			// editors often replace the file, which drops the watch
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				if err := w.Add(f.cfg.Path); err != nil {
					f.log.Warn().Err(err).Msg("tos re-watch failed")
				}
			}

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			f.log.Error().Err(werr).Msg("tos watcher error")
		}
	}
}
