package transcoder

import (
	"archive/tar"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/killallgit/media-gateway/pkg/errors"
)

const fakeFFmpeg = "#!/bin/sh\necho 'ffmpeg version 7.0-test Copyright (c) 2000-2024 the FFmpeg developers'\n"
const fakeFFprobe = "#!/bin/sh\necho '{}'\n"
const brokenFFmpeg = "#!/bin/sh\necho 'segmentation fault'\nexit 1\n"

// slowFFmpeg passes the smoke test and then hangs on any conversion
const slowFFmpeg = "#!/bin/sh\nif [ \"$1\" = \"-version\" ]; then\n  echo 'ffmpeg version 7.0-test'\n  exit 0\nfi\nexec sleep 5\n"

// countingServer serves body and counts requests
func countingServer(t *testing.T, body []byte, delay time.Duration) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if delay > 0 {
			time.Sleep(delay)
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

// buildTarXZ packs files into an xz compressed tarball
func buildTarXZ(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	xzw, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	tw := tar.NewWriter(xzw)

	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "ffmpeg-7.0.2-amd64-static/",
		Typeflag: tar.TypeDir,
		Mode:     0755,
	}))
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0755,
			Size:     int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, xzw.Close())
	return buf.Bytes()
}

func testConfig(t *testing.T, url string) Config {
	return Config{
		ScratchDir:      t.TempDir(),
		DownloadURL:     url,
		DownloadTimeout: 10 * time.Second,
		Timeout:         10 * time.Second,
		SmokeTimeout:    5 * time.Second,
		SampleRate:      16000,
	}
}

func TestNewService_Defaults(t *testing.T) {
	svc := NewService(Config{}, zerolog.Nop())

	assert.Equal(t, "/tmp/ffmpeg", svc.cfg.ScratchDir)
	assert.Equal(t, 3*time.Minute, svc.cfg.DownloadTimeout)
	assert.Equal(t, 16000, svc.cfg.SampleRate)
	assert.False(t, svc.Ready())
	assert.Equal(t, Status{SampleRate: 16000}, svc.Status())
}

func TestEnsureReady_DownloadsOnce(t *testing.T) {
	server, hits := countingServer(t, []byte(fakeFFmpeg), 0)
	svc := NewService(testConfig(t, server.URL+"/ffmpeg"), zerolog.Nop())

	assert.True(t, svc.EnsureReady(context.Background()))
	assert.True(t, svc.EnsureReady(context.Background()))

	assert.Equal(t, int64(1), hits.Load())
	assert.True(t, svc.Ready())

	status := svc.Status()
	assert.Equal(t, SourceDownload, status.Source)
	assert.Equal(t, int64(1), status.Downloads)
	assert.Contains(t, status.Version, "ffmpeg version 7.0-test")
	assert.Equal(t, filepath.Join(svc.cfg.ScratchDir, "ffmpeg"), status.FFmpegPath)
}

func TestEnsureReady_ConcurrentCallersShareDownload(t *testing.T) {
	server, hits := countingServer(t, []byte(fakeFFmpeg), 100*time.Millisecond)
	svc := NewService(testConfig(t, server.URL+"/ffmpeg"), zerolog.Nop())

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.EnsureReady(context.Background())
		}(i)
	}
	wg.Wait()

	for _, ok := range results {
		assert.True(t, ok)
	}
	assert.Equal(t, int64(1), hits.Load())
}

func TestEnsureReady_TarXZArchive(t *testing.T) {
	archive := buildTarXZ(t, map[string]string{
		"ffmpeg-7.0.2-amd64-static/ffmpeg":     fakeFFmpeg,
		"ffmpeg-7.0.2-amd64-static/ffprobe":    fakeFFprobe,
		"ffmpeg-7.0.2-amd64-static/readme.txt": "static build",
	})
	server, hits := countingServer(t, archive, 0)
	cfg := testConfig(t, server.URL+"/releases/ffmpeg-release-amd64-static.tar.xz")
	svc := NewService(cfg, zerolog.Nop())

	require.True(t, svc.EnsureReady(context.Background()))
	assert.Equal(t, int64(1), hits.Load())

	for _, name := range []string{"ffmpeg", "ffprobe"} {
		info, err := os.Stat(filepath.Join(cfg.ScratchDir, name))
		require.NoError(t, err, name)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm(), name)
	}
	_, err := os.Stat(filepath.Join(cfg.ScratchDir, "readme.txt"))
	assert.True(t, os.IsNotExist(err))

	// Only the installed binaries remain, the archive itself is removed
	entries, err := os.ReadDir(cfg.ScratchDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestEnsureReady_RedownloadsWhenBinaryVanishes(t *testing.T) {
	server, hits := countingServer(t, []byte(fakeFFmpeg), 0)
	cfg := testConfig(t, server.URL+"/ffmpeg")
	svc := NewService(cfg, zerolog.Nop())

	require.True(t, svc.EnsureReady(context.Background()))
	require.NoError(t, os.RemoveAll(cfg.ScratchDir))

	assert.True(t, svc.EnsureReady(context.Background()))
	assert.Equal(t, int64(2), hits.Load())
	assert.FileExists(t, filepath.Join(cfg.ScratchDir, "ffmpeg"))
}

func TestEnsureReady_UsesExistingScratchBinary(t *testing.T) {
	cfg := testConfig(t, "")
	installer, err := NewInstaller(cfg.ScratchDir)
	require.NoError(t, err)
	_, err = installer.Install("ffmpeg", bytes.NewBufferString(fakeFFmpeg))
	require.NoError(t, err)

	svc := NewService(cfg, zerolog.Nop())
	require.True(t, svc.EnsureReady(context.Background()))
	assert.Equal(t, SourceScratch, svc.Status().Source)
	assert.Zero(t, svc.Status().Downloads)
}

func TestEnsureReady_SmokeTestFailure(t *testing.T) {
	server, _ := countingServer(t, []byte(brokenFFmpeg), 0)
	svc := NewService(testConfig(t, server.URL+"/ffmpeg"), zerolog.Nop())

	assert.False(t, svc.EnsureReady(context.Background()))
	assert.False(t, svc.Ready())

	_, err := svc.ResampleToWAV(context.Background(), []byte("audio"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeTranscodeUnavailable))
	assert.Equal(t, http.StatusServiceUnavailable, errors.GetHTTPCode(err))
}

func TestEnsureReady_RetryInterval(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testConfig(t, server.URL+"/ffmpeg")
	cfg.RetryInterval = time.Hour
	svc := NewService(cfg, zerolog.Nop())

	assert.False(t, svc.EnsureReady(context.Background()))
	assert.False(t, svc.EnsureReady(context.Background()))
	assert.Equal(t, int64(1), hits.Load())
}

func TestEnsureReady_NoSourceConfigured(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.FFmpegPath = "/nonexistent/ffmpeg"
	svc := NewService(cfg, zerolog.Nop())

	assert.False(t, svc.EnsureReady(context.Background()))
}

func TestEnsureReady_CallerCancelled(t *testing.T) {
	server, _ := countingServer(t, []byte(fakeFFmpeg), 500*time.Millisecond)
	svc := NewService(testConfig(t, server.URL+"/ffmpeg"), zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.False(t, svc.EnsureReady(ctx))

	// The shared initialization keeps running and later callers see its result
	assert.True(t, svc.EnsureReady(context.Background()))
}

func TestResampleToWAV_CallerCancelled(t *testing.T) {
	cfg := testConfig(t, "")
	installer, err := NewInstaller(cfg.ScratchDir)
	require.NoError(t, err)
	_, err = installer.Install("ffmpeg", bytes.NewBufferString(slowFFmpeg))
	require.NoError(t, err)
	_, err = installer.Install("ffprobe", bytes.NewBufferString(fakeFFprobe))
	require.NoError(t, err)

	svc := NewService(cfg, zerolog.Nop())
	require.True(t, svc.EnsureReady(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	_, err = svc.ResampleToWAV(ctx, []byte("audio"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInternal))
	assert.False(t, errors.Is(err, errors.ErrCodeTranscodeFailed))
	assert.True(t, svc.Ready(), "a cancelled conversion keeps the binary")
}

func TestDownloadProgress(t *testing.T) {
	var buf bytes.Buffer
	progress := downloadProgress(zerolog.New(&buf).Level(zerolog.DebugLevel), 100)

	progress(50, 300)
	progress(120, 300)
	progress(150, 300)
	progress(230, 300)
	progress(240, -1)
	progress(400, -1)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"downloaded":120`)
	assert.Contains(t, lines[0], `"percent":40`)
	assert.Contains(t, lines[1], `"percent":76`)
	assert.Contains(t, lines[2], `"downloaded":400`)
	assert.NotContains(t, lines[2], "percent")
}

func TestEnsureReady_LogsDownloadProgress(t *testing.T) {
	payload := fakeFFmpeg + "#" + strings.Repeat("x", progressStep+1024)
	server, _ := countingServer(t, []byte(payload), 0)

	var buf bytes.Buffer
	svc := NewService(testConfig(t, server.URL+"/ffmpeg"), zerolog.New(&buf).Level(zerolog.DebugLevel))
	require.True(t, svc.EnsureReady(context.Background()))

	assert.Contains(t, buf.String(), "ffmpeg download progress")
}

func TestIsTarXZ(t *testing.T) {
	tests := map[string]bool{
		"https://johnvansickle.com/ffmpeg/releases/ffmpeg-release-amd64-static.tar.xz": true,
		"https://example.com/build.txz?token=abc":                                      true,
		"https://example.com/ffmpeg":                                                   false,
		"https://example.com/ffmpeg.zip":                                               false,
	}
	for url, want := range tests {
		assert.Equal(t, want, isTarXZ(url), url)
	}
}

func TestInstaller_ExtractIgnoresDirectoryComponents(t *testing.T) {
	dir := t.TempDir()
	scratch := filepath.Join(dir, "scratch")
	archivePath := filepath.Join(dir, "release.tar.xz")
	require.NoError(t, os.WriteFile(archivePath, buildTarXZ(t, map[string]string{
		"../../ffmpeg": fakeFFmpeg,
	}), 0644))

	installer, err := NewInstaller(scratch)
	require.NoError(t, err)

	installed, err := installer.ExtractTarXZ(archivePath)
	require.NoError(t, err)
	assert.Equal(t, []string{"ffmpeg"}, installed)
	assert.FileExists(t, filepath.Join(scratch, "ffmpeg"))
	assert.NoFileExists(t, filepath.Join(dir, "ffmpeg"))
}

func TestInstaller_ExtractWithoutFFmpeg(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "release.tar.xz")
	require.NoError(t, os.WriteFile(archivePath, buildTarXZ(t, map[string]string{
		"release/ffprobe": fakeFFprobe,
	}), 0644))

	installer, err := NewInstaller(filepath.Join(dir, "scratch"))
	require.NoError(t, err)

	_, err = installer.ExtractTarXZ(archivePath)
	assert.ErrorIs(t, err, ErrBinaryNotFound)
}

func TestInstaller_ExtractNotAnArchive(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "release.tar.xz")
	require.NoError(t, os.WriteFile(archivePath, []byte("<html>not found</html>"), 0644))

	installer, err := NewInstaller(filepath.Join(dir, "scratch"))
	require.NoError(t, err)

	_, err = installer.ExtractTarXZ(archivePath)
	assert.Error(t, err)
}

// Integration test - only runs if a system ffmpeg is available
func TestResampleToWAV_SystemFFmpeg(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skipf("FFmpeg binary not available: %v", err)
	}

	cfg := testConfig(t, "")
	cfg.FFmpegPath = "ffmpeg"
	cfg.FFprobePath = "ffprobe"
	svc := NewService(cfg, zerolog.Nop())

	// 44.1 kHz stereo source
	src := filepath.Join(t.TempDir(), "in.wav")
	out, err := os.Create(src)
	require.NoError(t, err)
	enc := wav.NewEncoder(out, 44100, 16, 2, 1)
	data := make([]int, 44100)
	for i := range data {
		data[i] = (i % 100) * 200
	}
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: 44100},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, out.Close())

	input, err := os.ReadFile(src)
	require.NoError(t, err)

	conversion, err := svc.ResampleToWAV(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, SourceSystem, svc.Status().Source)
	assert.Equal(t, 16000, conversion.Format.SampleRate)
	assert.Equal(t, 1, conversion.Format.Channels)
	assert.Equal(t, 16, conversion.Format.BitDepth)

	_, err = svc.ResampleToWAV(context.Background(), []byte("not audio at all"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeTranscodeFailed))
	assert.Equal(t, http.StatusBadRequest, errors.GetHTTPCode(err))
}
