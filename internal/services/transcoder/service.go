package transcoder

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/killallgit/media-gateway/pkg/download"
	"github.com/killallgit/media-gateway/pkg/errors"
	"github.com/killallgit/media-gateway/pkg/ffmpeg"
)

// Config holds configuration for the transcoder service
type Config struct {
	ScratchDir      string        // Writable directory for downloaded binaries and temp files
	FFmpegPath      string        // System ffmpeg to try first; empty disables the lookup
	FFprobePath     string        // System ffprobe paired with FFmpegPath
	DownloadURL     string        // Static build, either .tar.xz or a bare executable
	DownloadTimeout time.Duration // Bound for the whole download
	MaxDownloadSize int64
	Timeout         time.Duration // Per conversion
	SmokeTimeout    time.Duration // Bound for `ffmpeg -version`
	RetryInterval   time.Duration // Minimum delay between failed initializations
	SampleRate      int           // Target sample rate
}

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	cfg Config
	log zerolog.Logger

	group singleflight.Group
	ready atomic.Bool

	// lastFailure is only touched inside the singleflight group
	lastFailure time.Time

	mu      sync.RWMutex
	ff      *ffmpeg.FFmpeg
	source  Source
	version string

	downloads atomic.Int64
}

// NewService creates a new transcoder service. Nothing is downloaded until
// EnsureReady is called.
func NewService(cfg Config, log zerolog.Logger) *ServiceImpl {
	if cfg.ScratchDir == "" {
		cfg.ScratchDir = "/tmp/ffmpeg"
	}
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = 3 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.SmokeTimeout <= 0 {
		cfg.SmokeTimeout = 10 * time.Second
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}

	return &ServiceImpl{
		cfg: cfg,
		log: log.With().Str("component", "transcoder").Logger(),
	}
}

// Ready reports whether a verified binary is in place
func (s *ServiceImpl) Ready() bool {
	return s.ready.Load()
}

// Status returns a snapshot for health reporting
func (s *ServiceImpl) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := Status{
		Ready:      s.ready.Load(),
		Source:     s.source,
		Version:    s.version,
		SampleRate: s.cfg.SampleRate,
		Downloads:  s.downloads.Load(),
	}
	if s.ff != nil {
		status.FFmpegPath = s.ff.FFmpegPath()
		status.FFprobePath = s.ff.FFprobePath()
	}
	return status
}

// EnsureReady locates, downloads and verifies ffmpeg as needed. Concurrent
// callers share a single initialization.
func (s *ServiceImpl) EnsureReady(ctx context.Context) bool {
	if s.ready.Load() {
		if s.binaryPresent() {
			return true
		}
		s.log.Warn().Msg("ffmpeg binary vanished, reinitializing")
		s.ready.Store(false)
	}

	// Callers wait for the shared result; the work itself is not tied to
	// any one caller's cancellation
	ch := s.group.DoChan("ensure", func() (interface{}, error) {
		initCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.DownloadTimeout)
		defer cancel()
		return s.initialize(initCtx), nil
	})

	select {
	case res := <-ch:
		return res.Val.(bool)
	case <-ctx.Done():
		return false
	}
}

func (s *ServiceImpl) binaryPresent() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ff == nil {
		return false
	}
	_, err := exec.LookPath(s.ff.FFmpegPath())
	return err == nil
}

// initialize runs inside the singleflight group
func (s *ServiceImpl) initialize(ctx context.Context) bool {
	if s.ready.Load() {
		return true
	}
	if !s.lastFailure.IsZero() && s.cfg.RetryInterval > 0 && time.Since(s.lastFailure) < s.cfg.RetryInterval {
		s.log.Debug().Time("last_failure", s.lastFailure).Msg("skipping transcoder init, retry interval not elapsed")
		return false
	}

	if err := s.activate(ctx); err != nil {
		s.lastFailure = time.Now()
		s.log.Error().Err(err).Msg("transcoder unavailable")
		return false
	}

	s.lastFailure = time.Time{}
	s.ready.Store(true)
	status := s.Status()
	s.log.Info().
		Str("source", string(status.Source)).
		Str("ffmpeg", status.FFmpegPath).
		Str("version", status.Version).
		Msg("transcoder ready")
	return true
}

// activate tries the system binary, then the scratch directory, then a
// fresh download.
func (s *ServiceImpl) activate(ctx context.Context) error {
	if s.cfg.FFmpegPath != "" {
		if path, err := exec.LookPath(s.cfg.FFmpegPath); err == nil {
			probe := s.cfg.FFprobePath
			if p, err := exec.LookPath(probe); err == nil {
				probe = p
			}
			err := s.use(ctx, ffmpeg.New(path, probe, s.cfg.Timeout), SourceSystem)
			if err == nil {
				return nil
			}
			s.log.Warn().Err(err).Str("path", path).Msg("system ffmpeg failed smoke test")
		}
	}

	installer, err := NewInstaller(s.cfg.ScratchDir)
	if err != nil {
		return err
	}

	if installer.Exists("ffmpeg") {
		ff := ffmpeg.New(installer.Path("ffmpeg"), installer.Path("ffprobe"), s.cfg.Timeout)
		if err := s.use(ctx, ff, SourceScratch); err == nil {
			return nil
		}
		s.log.Warn().Str("path", installer.Path("ffmpeg")).Msg("scratch ffmpeg is not functional, downloading again")
	}

	if err := s.download(ctx, installer); err != nil {
		return err
	}
	ff := ffmpeg.New(installer.Path("ffmpeg"), installer.Path("ffprobe"), s.cfg.Timeout)
	return s.use(ctx, ff, SourceDownload)
}

// use smoke tests ff and makes it the active binary
func (s *ServiceImpl) use(ctx context.Context, ff *ffmpeg.FFmpeg, source Source) error {
	smokeCtx, cancel := context.WithTimeout(ctx, s.cfg.SmokeTimeout)
	defer cancel()

	version, err := ff.Version(smokeCtx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSmokeTestFailed, err)
	}
	s.mu.Lock()
	s.ff = ff
	s.source = source
	s.version = version
	s.mu.Unlock()
	return nil
}

func (s *ServiceImpl) download(ctx context.Context, installer *Installer) error {
	if s.cfg.DownloadURL == "" {
		return fmt.Errorf("no ffmpeg found and no download url configured")
	}

	options := download.DefaultOptions()
	options.TempDir = s.cfg.ScratchDir
	options.Timeout = s.cfg.DownloadTimeout
	options.Logger = s.log
	options.ProgressFunc = downloadProgress(s.log, progressStep)
	if s.cfg.MaxDownloadSize > 0 {
		options.MaxSize = s.cfg.MaxDownloadSize
	}

	s.log.Info().Str("url", s.cfg.DownloadURL).Msg("downloading ffmpeg")
	start := time.Now()
	s.downloads.Add(1)

	result, err := download.NewDownloader(options).DownloadToTemp(ctx, s.cfg.DownloadURL, "ffmpeg-download-*")
	if err != nil {
		return err
	}
	defer download.CleanupTempFile(result.FilePath)

	if isTarXZ(s.cfg.DownloadURL) {
		installed, err := installer.ExtractTarXZ(result.FilePath)
		if err != nil {
			return err
		}
		s.log.Info().Strs("binaries", installed).Dur("took", time.Since(start)).Msg("ffmpeg archive extracted")
		return nil
	}

	if _, err := installer.InstallBinary("ffmpeg", result.FilePath); err != nil {
		return err
	}
	s.log.Info().Int64("bytes", result.ContentLength).Dur("took", time.Since(start)).Msg("ffmpeg binary installed")
	return nil
}

// progressStep is how many bytes pass between progress log lines
const progressStep = 10 * 1024 * 1024

// downloadProgress logs download progress at debug level once every step bytes
func downloadProgress(log zerolog.Logger, step int64) download.ProgressFunc {
	next := step
	return func(downloaded, total int64) {
		if downloaded < next {
			return
		}
		next = downloaded + step

		event := log.Debug().Int64("downloaded", downloaded)
		if total > 0 {
			event = event.Int64("total", total).Int64("percent", downloaded*100/total)
		}
		event.Msg("ffmpeg download progress")
	}
}

func isTarXZ(url string) bool {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return strings.HasSuffix(url, ".tar.xz") || strings.HasSuffix(url, ".txz")
}

// ResampleToWAV converts input to mono 16-bit PCM WAV at the configured rate
func (s *ServiceImpl) ResampleToWAV(ctx context.Context, input []byte) (*ffmpeg.Conversion, error) {
	if !s.EnsureReady(ctx) {
		return nil, errors.TranscodeUnavailable(ErrNotReady)
	}

	s.mu.RLock()
	ff := s.ff
	s.mu.RUnlock()

	options := ffmpeg.ResampleOptions{
		SampleRate: s.cfg.SampleRate,
		Channels:   1,
		TempDir:    s.cfg.ScratchDir,
	}

	start := time.Now()
	conversion, err := ff.ConvertBytes(ctx, input, options)
	if err != nil {
		return nil, s.classify(err)
	}

	event := s.log.Debug().
		Int("input_bytes", conversion.InputLen).
		Int("output_bytes", len(conversion.WAV)).
		Int("sample_rate", conversion.Format.SampleRate).
		Dur("took", time.Since(start))
	if conversion.Source != nil {
		event = event.Str("source_codec", conversion.Source.Codec).Float64("source_duration", conversion.Source.Duration)
	}
	event.Msg("audio converted")

	return conversion, nil
}

func (s *ServiceImpl) classify(err error) error {
	switch {
	case stderrors.Is(err, ffmpeg.ErrProcessingTimeout):
		return errors.Wrap(err, errors.ErrCodeTranscodeFailed, "Audio conversion timed out").
			WithStatus(http.StatusGatewayTimeout)
	case stderrors.Is(err, ffmpeg.ErrProcessingCancelled):
		// The caller went away; nothing reads this response
		return errors.Internal(err)
	case stderrors.Is(err, ffmpeg.ErrInvalidAudioFile):
		// The binary may have been removed underneath us
		if !s.binaryPresent() {
			s.ready.Store(false)
			return errors.TranscodeUnavailable(err)
		}
		return errors.TranscodeFailed(err)
	case stderrors.Is(err, os.ErrNotExist):
		s.ready.Store(false)
		return errors.TranscodeUnavailable(err)
	default:
		return errors.Internal(err)
	}
}
