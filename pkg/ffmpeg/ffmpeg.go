package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// FFmpeg wraps ffmpeg and ffprobe functionality
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	timeout     time.Duration
}

// New creates a new FFmpeg instance
func New(ffmpegPath, ffprobePath string, timeout time.Duration) *FFmpeg {
	return &FFmpeg{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		timeout:     timeout,
	}
}

// FFmpegPath returns the ffmpeg executable in use
func (f *FFmpeg) FFmpegPath() string {
	return f.ffmpegPath
}

// FFprobePath returns the ffprobe executable in use
func (f *FFmpeg) FFprobePath() string {
	return f.ffprobePath
}

// Version runs `ffmpeg -version` and returns the first line of its output.
// It doubles as a smoke test that the binary actually executes.
func (f *FFmpeg) Version(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, f.ffmpegPath, "-version")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", NewProcessingError("version", f.ffmpegPath, err, stderr.String())
	}

	line, _ := bufio.NewReader(&stdout).ReadString('\n')
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "ffmpeg version") {
		return "", NewProcessingError("version", f.ffmpegPath,
			fmt.Errorf("unexpected version output %q", line), "")
	}
	return line, nil
}

// ResampleToWAV decodes inputFile and writes a PCM s16le WAV at the
// requested sample rate and channel count to outputFile
func (f *FFmpeg) ResampleToWAV(ctx context.Context, inputFile, outputFile string, options ResampleOptions) error {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", inputFile,
		"-vn",                 // Drop any video/artwork stream
		"-map_metadata", "-1", // No LIST/INFO chunk in the output
		"-ar", strconv.Itoa(options.SampleRate),
		"-ac", strconv.Itoa(options.Channels),
		"-c:a", "pcm_s16le", // PCM 16-bit little-endian
		"-f", "wav",
		"-y", // Overwrite output
		outputFile,
	}

	cmd := exec.CommandContext(ctx, f.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		switch ctxErr := ctx.Err(); {
		case errors.Is(ctxErr, context.DeadlineExceeded):
			return NewProcessingError("wav_conversion", inputFile, ErrProcessingTimeout, stderr.String())
		case ctxErr != nil:
			return NewProcessingError("wav_conversion", inputFile,
				fmt.Errorf("%w: %v", ErrProcessingCancelled, ctxErr), stderr.String())
		}
		return NewProcessingError("wav_conversion", inputFile,
			fmt.Errorf("%w: %v", ErrInvalidAudioFile, err), stderr.String())
	}

	return nil
}

// ConvertBytes converts an in-memory clip to WAV. The input is staged in a
// temporary file because containers such as m4a cannot be decoded from a pipe.
func (f *FFmpeg) ConvertBytes(ctx context.Context, input []byte, options ResampleOptions) (*Conversion, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	workDir, err := os.MkdirTemp(options.TempDir, "convert_*")
	if err != nil {
		return nil, NewProcessingError("temp_file_creation", options.TempDir, fmt.Errorf("%w: %v", ErrTempFileCreation, err), "")
	}
	defer os.RemoveAll(workDir)

	inputPath := filepath.Join(workDir, "input")
	outputPath := filepath.Join(workDir, "output.wav")

	if err := os.WriteFile(inputPath, input, 0600); err != nil {
		return nil, NewProcessingError("temp_file_creation", inputPath, fmt.Errorf("%w: %v", ErrTempFileCreation, err), "")
	}

	conversion := &Conversion{InputLen: len(input)}

	// Metadata is informational; a missing ffprobe must not block conversion
	if metadata, err := f.GetMetadata(ctx, inputPath); err == nil {
		conversion.Source = metadata
	}

	if err := f.ResampleToWAV(ctx, inputPath, outputPath, options); err != nil {
		return nil, err
	}

	wav, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, NewProcessingError("wav_read", outputPath, err, "")
	}

	format, err := InspectWAV(wav)
	if err != nil {
		return nil, NewProcessingError("wav_verification", outputPath, err, "")
	}
	if format.SampleRate != options.SampleRate || format.Channels != options.Channels || format.BitDepth != 16 {
		return nil, NewProcessingError("wav_verification", outputPath,
			fmt.Errorf("%w: got %d Hz, %d ch, %d bit", ErrInvalidOutput, format.SampleRate, format.Channels, format.BitDepth), "")
	}

	conversion.WAV = wav
	conversion.Format = *format
	return conversion, nil
}
