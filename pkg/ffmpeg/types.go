package ffmpeg

// AudioMetadata represents metadata extracted from an audio file
type AudioMetadata struct {
	Duration   float64 `json:"duration"`    // Duration in seconds
	SampleRate int     `json:"sample_rate"` // Sample rate in Hz
	Channels   int     `json:"channels"`    // Number of audio channels
	Bitrate    int     `json:"bitrate"`     // Bitrate in bits per second
	Format     string  `json:"format"`      // Container format (mp3, mov,mp4,m4a, etc.)
	Codec      string  `json:"codec"`       // Audio codec
	Size       int64   `json:"size"`        // File size in bytes
}

// WAVFormat describes the PCM layout of a WAV file
type WAVFormat struct {
	SampleRate int `json:"sample_rate"`
	Channels   int `json:"channels"`
	BitDepth   int `json:"bit_depth"`
}

// ResampleOptions defines the target of a WAV conversion
type ResampleOptions struct {
	SampleRate int    // Target sample rate in Hz
	Channels   int    // Target channel count
	TempDir    string // Directory for intermediate files
}

// Conversion is the result of converting an in-memory clip to WAV
type Conversion struct {
	WAV      []byte         // Encoded WAV file
	Format   WAVFormat      // Verified layout of WAV
	Source   *AudioMetadata // Input metadata, nil when ffprobe was unavailable
	InputLen int            // Size of the input in bytes
}
