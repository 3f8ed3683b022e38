package chunkstore

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Sweeper removes cache artifacts older than the TTL: metadata records,
// chunk files and leftover uploads. Expiry is by file mtime, so a token's
// metadata and its chunks age out together.
type Sweeper struct {
	dirs     []string
	ttl      time.Duration
	interval time.Duration
	logger   *slog.Logger
}

func NewSweeper(dirs []string, ttl, interval time.Duration, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Sweeper{dirs: dirs, ttl: ttl, interval: interval, logger: logger}
}

// Run sweeps on a ticker until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce()
		}
	}
}

// SweepOnce removes every regular file under the swept directories whose
// mtime is older than the TTL. Errors on individual files are logged and
// skipped so one bad entry cannot stall the sweep.
func (s *Sweeper) SweepOnce() {
	cutoff := time.Now().Add(-s.ttl)
	removed := 0
	for _, dir := range s.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(cutoff) {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if err := os.Remove(path); err != nil {
				s.logger.Warn("chunkstore.sweep.remove_failed", "path", path, "error", err)
				continue
			}
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("chunkstore.sweep.ok", "removed", removed)
	}
}
