package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// StalePatterns match what interrupted conversions and downloads leave in
// the scratch directory. Installed binaries never match.
var StalePatterns = []string{
	"convert_*",
	"ffmpeg-download-*",
	".ffmpeg-*",
	".ffprobe-*",
}

// Service removes stale work files from the transcoder scratch directory
type Service struct {
	dir      string
	maxAge   time.Duration
	interval time.Duration
	log      zerolog.Logger
}

// NewService creates a new cleanup service
func NewService(dir string, maxAge, interval time.Duration, log zerolog.Logger) *Service {
	return &Service{
		dir:      dir,
		maxAge:   maxAge,
		interval: interval,
		log:      log.With().Str("component", "cleanup").Logger(),
	}
}

// Start sweeps once, then every interval until ctx is done
func (s *Service) Start(ctx context.Context) {
	s.Sweep()
	if s.interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-ctx.Done():
				s.log.Debug().Msg("cleanup service stopped")
				return
			}
		}
	}()

	s.log.Info().Dur("interval", s.interval).Dur("max_age", s.maxAge).Msg("cleanup service started")
}

// Sweep removes top-level entries matching StalePatterns that are older
// than maxAge and returns how many were removed
func (s *Service) Sweep() int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("dir", s.dir).Msg("cannot read scratch dir")
		}
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if !isStale(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil || time.Since(info.ModTime()) < s.maxAge {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("failed to remove stale entry")
			continue
		}
		s.log.Debug().Str("path", path).Msg("removed stale entry")
		removed++
	}
	return removed
}

func isStale(name string) bool {
	for _, pattern := range StalePatterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
