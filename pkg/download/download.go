package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ErrTooLarge is returned when the remote file exceeds DownloadOptions.MaxSize
var ErrTooLarge = errors.New("download exceeds maximum size")

// DownloadOptions configures the download behavior
type DownloadOptions struct {
	TempDir      string         // Directory for temporary files
	MaxSize      int64          // Maximum file size in bytes (0 = no limit)
	Timeout      time.Duration  // Download timeout
	ProgressFunc ProgressFunc   // Optional progress callback
	UserAgent    string         // User agent string
	Logger       zerolog.Logger // Debug output
}

// ProgressFunc is called during download to report progress
type ProgressFunc func(downloaded, total int64)

// DefaultOptions returns default download options
func DefaultOptions() DownloadOptions {
	return DownloadOptions{
		TempDir:   os.TempDir(),
		MaxSize:   200 * 1024 * 1024,
		Timeout:   3 * time.Minute,
		UserAgent: "MediaGateway/1.0",
		Logger:    zerolog.Nop(),
	}
}

// DownloadResult contains information about a successful download
type DownloadResult struct {
	FilePath      string // Path to downloaded file
	ContentType   string // Content-Type from response
	ContentLength int64  // Size in bytes
}

// Downloader fetches remote artifacts into temporary files
type Downloader struct {
	client  *http.Client
	options DownloadOptions
}

// NewDownloader creates a new downloader with the given options
func NewDownloader(options DownloadOptions) *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: options.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		options: options,
	}
}

// DownloadToTemp downloads url into a new temp file named after pattern
// (see os.CreateTemp). The caller owns the returned file.
func (d *Downloader) DownloadToTemp(ctx context.Context, url, pattern string) (*DownloadResult, error) {
	log := d.options.Logger
	log.Debug().Str("url", url).Msg("starting download")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", d.options.UserAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	contentLength := resp.ContentLength
	if d.options.MaxSize > 0 && contentLength > d.options.MaxSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, contentLength, d.options.MaxSize)
	}

	if err := os.MkdirAll(d.options.TempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	tempFile, err := os.CreateTemp(d.options.TempDir, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	written, err := d.downloadToFile(resp.Body, tempFile, contentLength)
	tempPath := tempFile.Name()
	closeErr := tempFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempPath)
		return nil, fmt.Errorf("failed to download: %w", err)
	}

	log.Debug().Int64("bytes", written).Str("path", tempPath).Msg("download complete")

	return &DownloadResult{
		FilePath:      tempPath,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: written,
	}, nil
}

// downloadToFile copies the response body to file with optional progress
// tracking, failing once more than MaxSize bytes arrive
func (d *Downloader) downloadToFile(src io.Reader, dst *os.File, totalSize int64) (int64, error) {
	reader := src
	if d.options.ProgressFunc != nil {
		reader = &progressReader{
			reader:   src,
			total:    totalSize,
			callback: d.options.ProgressFunc,
		}
	}

	if d.options.MaxSize <= 0 {
		return io.Copy(dst, reader)
	}

	written, err := io.Copy(dst, io.LimitReader(reader, d.options.MaxSize+1))
	if err != nil {
		return written, err
	}
	if written > d.options.MaxSize {
		return written, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, d.options.MaxSize)
	}
	return written, nil
}

// CleanupTempFile removes a temporary file
func CleanupTempFile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// progressReader wraps a reader to report progress
type progressReader struct {
	reader     io.Reader
	total      int64
	downloaded int64
	callback   ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.downloaded += int64(n)
		if pr.callback != nil {
			pr.callback(pr.downloaded, pr.total)
		}
	}
	return n, err
}
