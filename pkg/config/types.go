package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment string           `mapstructure:"environment"`
	Server      ServerConfig     `mapstructure:"server"`
	Gemini      GeminiConfig     `mapstructure:"gemini"`
	Classifier  ClassifierConfig `mapstructure:"classifier"`
	Inference   InferenceConfig  `mapstructure:"inference"`
	Limits      LimitsConfig     `mapstructure:"limits"`
	Transcoder  TranscoderConfig `mapstructure:"transcoder"`
	Security    SecurityConfig   `mapstructure:"security"`
	Logging     LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

// GeminiConfig contains settings for the generative model API
type GeminiConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	Model        string        `mapstructure:"model"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
}

// ClassifierConfig contains settings for the BirdNET species classifier
type ClassifierConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	TopN    int           `mapstructure:"top_n"`
}

// EndpointConfig holds per-endpoint generation parameters
type EndpointConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	Temperature     float64       `mapstructure:"temperature"`
	MaxOutputTokens int           `mapstructure:"max_output_tokens"`
}

// InferenceConfig groups generation parameters by endpoint. Larger outputs
// cost more and are more likely to time out, so each endpoint has its own ceiling.
type InferenceConfig struct {
	Image         EndpointConfig `mapstructure:"image"`
	Summary       EndpointConfig `mapstructure:"summary"`
	Analyze       EndpointConfig `mapstructure:"analyze"`
	DescribeAudio EndpointConfig `mapstructure:"describe_audio"`
	Video         EndpointConfig `mapstructure:"video"`
}

// LimitsConfig contains payload ceilings enforced before any upstream call
type LimitsConfig struct {
	MaxImageEncoded int64 `mapstructure:"max_image_encoded"`
	MaxVideoEncoded int64 `mapstructure:"max_video_encoded"`
	MaxAudioEncoded int64 `mapstructure:"max_audio_encoded"`
	MaxAudioUpload  int64 `mapstructure:"max_audio_upload"`
}

// TranscoderConfig contains settings for the downloadable ffmpeg build
type TranscoderConfig struct {
	ScratchDir      string        `mapstructure:"scratch_dir"`
	FFmpegPath      string        `mapstructure:"ffmpeg_path"`
	FFprobePath     string        `mapstructure:"ffprobe_path"`
	DownloadURL     string        `mapstructure:"download_url"`
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`
	MaxDownloadSize int64         `mapstructure:"max_download_size"`
	Timeout         time.Duration `mapstructure:"timeout"`
	SampleRate      int           `mapstructure:"sample_rate"`
	Bootstrap       bool          `mapstructure:"bootstrap"`
	RetryInterval   time.Duration `mapstructure:"retry_interval"`
	SweepInterval   time.Duration `mapstructure:"sweep_interval"` // 0 sweeps once at startup only
	StaleAfter      time.Duration `mapstructure:"stale_after"`
}

// SecurityConfig contains CORS settings
type SecurityConfig struct {
	CORSOrigins []string `mapstructure:"cors_origins"`
	CORSMethods []string `mapstructure:"cors_methods"`
	CORSHeaders []string `mapstructure:"cors_headers"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}
