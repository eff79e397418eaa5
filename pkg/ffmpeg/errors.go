package ffmpeg

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrInvalidAudioFile    = errors.New("invalid or unsupported audio file")
	ErrInvalidOutput       = errors.New("converted output is not the requested wav format")
	ErrProcessingTimeout   = errors.New("audio processing timeout")
	ErrProcessingCancelled = errors.New("audio processing cancelled")
	ErrTempFileCreation    = errors.New("failed to create temporary file")
)

// ProcessingError represents an error during audio processing
type ProcessingError struct {
	Operation string // The operation that failed (e.g., "metadata_extraction", "wav_conversion")
	File      string // The file being processed
	Err       error  // The underlying error
	Stderr    string // stderr output from ffmpeg/ffprobe
}

func (e *ProcessingError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("ffmpeg %s failed for %s: %v (stderr: %s)", e.Operation, e.File, e.Err, e.Stderr)
	}
	return fmt.Sprintf("ffmpeg %s failed for %s: %v", e.Operation, e.File, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// NewProcessingError creates a new ProcessingError
func NewProcessingError(operation, file string, err error, stderr string) *ProcessingError {
	return &ProcessingError{
		Operation: operation,
		File:      file,
		Err:       err,
		Stderr:    stderr,
	}
}
