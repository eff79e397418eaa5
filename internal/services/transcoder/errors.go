package transcoder

import "errors"

var (
	ErrNotReady        = errors.New("transcoder is not ready")
	ErrBinaryNotFound  = errors.New("ffmpeg binary not found in archive")
	ErrUnsafeArchive   = errors.New("archive entry is too large")
	ErrSmokeTestFailed = errors.New("ffmpeg smoke test failed")
)
