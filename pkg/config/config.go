package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// Sample rates the transcoder accepts as a target
var supportedSampleRates = map[int]bool{
	8000:  true,
	16000: true,
	22050: true,
	44100: true,
	48000: true,
}

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		// A local .env is optional; variables already in the environment win
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			initErr = fmt.Errorf("error reading .env file: %w", err)
			return
		}

		setDefaults()

		// Set up environment variable reading for overrides
		viper.SetEnvPrefix("GATEWAY")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		// The API key and port keep their conventional unprefixed names
		_ = viper.BindEnv("gemini.api_key", "GEMINI_API_KEY", "GATEWAY_GEMINI_API_KEY")
		_ = viper.BindEnv("server.port", "PORT", "GATEWAY_SERVER_PORT")

		// Load config from fixed location (cleaned for safety)
		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		if err := viper.ReadInConfig(); err != nil {
			// If the config file doesn't exist, just use defaults and env vars
			if !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// Reset clears loaded configuration so Init can run again (tests only)
func Reset() {
	viper.Reset()
	once = sync.Once{}
	initErr = nil
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	rate := viper.GetInt("transcoder.sample_rate")
	if !supportedSampleRates[rate] {
		return fmt.Errorf("unsupported transcoder sample rate: %d", rate)
	}

	for _, key := range []string{
		"limits.max_image_encoded",
		"limits.max_video_encoded",
		"limits.max_audio_encoded",
		"limits.max_audio_upload",
	} {
		if viper.GetInt64(key) <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}

	// Auto-correct an invalid prediction count
	if viper.GetInt("classifier.top_n") <= 0 {
		viper.Set("classifier.top_n", 5)
	}

	return nil
}

// Validate validates a Config struct
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if !supportedSampleRates[c.Transcoder.SampleRate] {
		return fmt.Errorf("unsupported transcoder sample rate: %d", c.Transcoder.SampleRate)
	}

	if c.Limits.MaxImageEncoded <= 0 || c.Limits.MaxVideoEncoded <= 0 ||
		c.Limits.MaxAudioEncoded <= 0 || c.Limits.MaxAudioUpload <= 0 {
		return fmt.Errorf("payload limits must be positive")
	}

	if c.Classifier.TopN <= 0 {
		c.Classifier.TopN = 5
	}

	return nil
}

// RequireAPIKey fails when the generation API key is absent. Only commands
// that call the upstream API need it.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.Gemini.APIKey) == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is not set")
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 5000)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 150*time.Second)
	viper.SetDefault("server.idle_timeout", 60*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)
	viper.SetDefault("server.max_body_bytes", 12*1024*1024)

	// Gemini defaults
	viper.SetDefault("gemini.api_key", "")
	viper.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("gemini.model", "gemini-2.5-flash")
	viper.SetDefault("gemini.probe_timeout", 5*time.Second)

	// Classifier defaults
	viper.SetDefault("classifier.url", "https://birdnet.cornell.edu/api/upload")
	viper.SetDefault("classifier.timeout", 60*time.Second)
	viper.SetDefault("classifier.top_n", 5)

	// Per-endpoint generation defaults
	setEndpointDefaults("image", 45*time.Second, 1024)
	setEndpointDefaults("summary", 30*time.Second, 800)
	setEndpointDefaults("analyze", 60*time.Second, 1024)
	setEndpointDefaults("describe_audio", 30*time.Second, 1024)
	setEndpointDefaults("video", 60*time.Second, 2048)

	// Payload ceilings
	viper.SetDefault("limits.max_image_encoded", 4_000_000)
	viper.SetDefault("limits.max_video_encoded", 4_500_000)
	viper.SetDefault("limits.max_audio_encoded", 10_000_000)
	viper.SetDefault("limits.max_audio_upload", 10*1024*1024)

	// Transcoder defaults
	viper.SetDefault("transcoder.scratch_dir", "/tmp/ffmpeg")
	viper.SetDefault("transcoder.ffmpeg_path", "ffmpeg")
	viper.SetDefault("transcoder.ffprobe_path", "ffprobe")
	viper.SetDefault("transcoder.download_url", "https://johnvansickle.com/ffmpeg/releases/ffmpeg-release-amd64-static.tar.xz")
	viper.SetDefault("transcoder.download_timeout", 3*time.Minute)
	viper.SetDefault("transcoder.max_download_size", 200*1024*1024)
	viper.SetDefault("transcoder.timeout", 60*time.Second)
	viper.SetDefault("transcoder.sample_rate", 16000)
	viper.SetDefault("transcoder.bootstrap", true)
	viper.SetDefault("transcoder.retry_interval", 30*time.Second)
	viper.SetDefault("transcoder.sweep_interval", 10*time.Minute)
	viper.SetDefault("transcoder.stale_after", 15*time.Minute)

	// Security defaults
	viper.SetDefault("security.cors_origins", []string{"*"})
	viper.SetDefault("security.cors_methods", []string{"GET", "POST", "OPTIONS"})
	viper.SetDefault("security.cors_headers", []string{"Content-Type", "Authorization"})

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.json", false)
}

func setEndpointDefaults(name string, timeout time.Duration, maxTokens int) {
	prefix := "inference." + name + "."
	viper.SetDefault(prefix+"timeout", timeout)
	viper.SetDefault(prefix+"temperature", 0.1)
	viper.SetDefault(prefix+"max_output_tokens", maxTokens)
}
