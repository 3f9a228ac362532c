package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		// Set default values
		setDefaults()

		// Set up environment variable reading for overrides
		viper.SetEnvPrefix("PODDIT")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		// Load config from fixed location (cleaned for safety)
		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		// Try to read the config file
		if err := viper.ReadInConfig(); err != nil {
			// If the config file doesn't exist, just use defaults and env vars
			if !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		// Validate the configuration
		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
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

// Get returns a config value by key using Viper directly
func Get(key string) any {
	return viper.Get(key)
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetFloat64 returns a float64 config value
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		fmt.Println("Warning: No database path configured")
	}

	if err := validateAPIKeys(); err != nil {
		return err
	}

	// Auto-correct out-of-range mixing constants
	if v := viper.GetFloat64("audio.main_bed_volume"); v <= 0 || v >= 1 {
		viper.Set("audio.main_bed_volume", 0.14)
	}
	if v := viper.GetFloat64("audio.epilogue_bed_volume"); v <= 0 || v >= 1 {
		viper.Set("audio.epilogue_bed_volume", 0.18)
	}
	if viper.GetFloat64("audio.concat_gap_seconds") < 0 {
		viper.Set("audio.concat_gap_seconds", 1.5)
	}
	if viper.GetInt("generation.episode_limit") <= 0 {
		viper.Set("generation.episode_limit", 1)
	}

	if _, err := time.LoadLocation(viper.GetString("generation.default_timezone")); err != nil {
		return fmt.Errorf("invalid default timezone: %w", err)
	}

	return nil
}

// validateAPIKeys validates that API keys are not using placeholder values
func validateAPIKeys() error {
	env := viper.GetString("environment")
	isProduction := env == "production" || env == "prod"

	placeholders := []string{
		"YOUR_KEY_HERE",
		"YOUR_API_KEY",
		"changeme",
		"CHANGEME",
		"",
	}

	synthKey := viper.GetString("synthesis.api_key")
	for _, placeholder := range placeholders {
		if synthKey == placeholder {
			if isProduction {
				return fmt.Errorf("invalid synthesis API key: cannot use placeholder values in production")
			}
			fmt.Println("Warning: synthesis API key is using a placeholder value")
			break
		}
	}

	speechKey := viper.GetString("speech.api_key")
	for _, placeholder := range placeholders {
		if speechKey == placeholder {
			if isProduction {
				return fmt.Errorf("invalid speech API key: cannot use placeholder values in production")
			}
			fmt.Println("Warning: speech API key is using a placeholder value")
			break
		}
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Audio.MainBedVolume <= 0 || c.Audio.MainBedVolume >= 1 {
		c.Audio.MainBedVolume = 0.14
	}
	if c.Audio.EpilogueBedVolume <= 0 || c.Audio.EpilogueBedVolume >= 1 {
		c.Audio.EpilogueBedVolume = 0.18
	}
	if c.Generation.EpisodeLimit <= 0 {
		c.Generation.EpisodeLimit = 1
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Environment defaults
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.path", "./data/poddit.db")
	viper.SetDefault("database.verbose", false)

	// Audio assembly defaults. Bed volumes and the concat gap are fixed
	// design constants; the epilogue bed is thinner and sits a notch louder.
	viper.SetDefault("audio.ffmpeg_path", "ffmpeg")
	viper.SetDefault("audio.ffprobe_path", "ffprobe")
	viper.SetDefault("audio.timeout", 5*time.Minute)
	viper.SetDefault("audio.bed_dir", "./assets/beds")
	viper.SetDefault("audio.bed_base_url", "") // fetch missing beds from here when set
	viper.SetDefault("audio.main_bed_file", "main_bed.mp3")
	viper.SetDefault("audio.epilogue_bed_file", "epilogue_bed.mp3")
	viper.SetDefault("audio.output_dir", "./data/audio")
	viper.SetDefault("audio.main_bed_volume", 0.14)
	viper.SetDefault("audio.epilogue_bed_volume", 0.18)
	viper.SetDefault("audio.epilogue_tail_seconds", 2.0)
	viper.SetDefault("audio.concat_gap_seconds", 1.5)

	// Content synthesis defaults
	viper.SetDefault("synthesis.base_url", "https://api.openai.com/v1")
	viper.SetDefault("synthesis.model", "gpt-4o-mini")
	viper.SetDefault("synthesis.temperature", 0.7)
	viper.SetDefault("synthesis.timeout", 2*time.Minute)
	viper.SetDefault("synthesis.user_agent", "PodditAPI/1.0")

	// Speech rendering defaults
	viper.SetDefault("speech.base_url", "https://api.openai.com/v1")
	viper.SetDefault("speech.model", "tts-1")
	viper.SetDefault("speech.voice", "nova")
	viper.SetDefault("speech.format", "mp3")
	viper.SetDefault("speech.timeout", 3*time.Minute)

	// Generation defaults
	viper.SetDefault("generation.default_timezone", "America/New_York")
	viper.SetDefault("generation.episode_limit", 1)
	viper.SetDefault("generation.quota_window", 24*time.Hour)
	viper.SetDefault("generation.run_timeout", 10*time.Minute)
	viper.SetDefault("generation.batch_timeout", 2*time.Hour)
	viper.SetDefault("generation.lookback_window", 24*time.Hour)
	viper.SetDefault("generation.schedule_interval", 0) // disabled unless set
	viper.SetDefault("generation.retry_after", 30*time.Second)

	// Storage defaults
	viper.SetDefault("storage.temp_dir", "./tmp")
	viper.SetDefault("storage.max_temp_age", 24*time.Hour)
	viper.SetDefault("storage.cleanup_interval", 1*time.Hour)

	// Notification defaults
	viper.SetDefault("notifications.endpoint", "https://ntfy.sh")
	viper.SetDefault("notifications.timeout", 10*time.Second)

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.requests_per_second", 10)
	viper.SetDefault("rate_limiting.burst", 20)

	// Security defaults
	viper.SetDefault("security.enable_cors", true)
	viper.SetDefault("security.cors_origins", []string{"*"})
	viper.SetDefault("security.enable_recovery", true)
}
