package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment   string             `mapstructure:"environment"`
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Audio         AudioConfig        `mapstructure:"audio"`
	Synthesis     SynthesisConfig    `mapstructure:"synthesis"`
	Speech        SpeechConfig       `mapstructure:"speech"`
	Generation    GenerationConfig   `mapstructure:"generation"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	RateLimiting  RateLimitConfig    `mapstructure:"rate_limiting"`
	Security      SecurityConfig     `mapstructure:"security"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Verbose bool   `mapstructure:"verbose"`
}

// AudioConfig contains the fixed mixing and assembly constants. These are
// tuned values, not computed ones.
type AudioConfig struct {
	FFmpegPath  string        `mapstructure:"ffmpeg_path"`
	FFprobePath string        `mapstructure:"ffprobe_path"`
	Timeout     time.Duration `mapstructure:"timeout"`

	BedDir      string `mapstructure:"bed_dir"`
	MainBedFile string `mapstructure:"main_bed_file"`
	EpilogueBed string `mapstructure:"epilogue_bed_file"`
	OutputDir   string `mapstructure:"output_dir"`

	// BedBaseURL, when set, is where missing bed files are fetched from
	// at startup
	BedBaseURL string `mapstructure:"bed_base_url"`

	MainBedVolume     float64 `mapstructure:"main_bed_volume"`
	EpilogueBedVolume float64 `mapstructure:"epilogue_bed_volume"`
	EpilogueTail      float64 `mapstructure:"epilogue_tail_seconds"`
	ConcatGap         float64 `mapstructure:"concat_gap_seconds"`
}

// SynthesisConfig contains content-generation (LLM) settings
type SynthesisConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
}

// SpeechConfig contains text-to-speech settings
type SpeechConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Voice   string        `mapstructure:"voice"`
	Format  string        `mapstructure:"format"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// GenerationConfig contains orchestration settings
type GenerationConfig struct {
	DefaultTimezone  string        `mapstructure:"default_timezone"`
	EpisodeLimit     int           `mapstructure:"episode_limit"`
	QuotaWindow      time.Duration `mapstructure:"quota_window"`
	RunTimeout       time.Duration `mapstructure:"run_timeout"`
	BatchTimeout     time.Duration `mapstructure:"batch_timeout"`
	LookbackWindow   time.Duration `mapstructure:"lookback_window"`
	ScheduleInterval time.Duration `mapstructure:"schedule_interval"`
	RetryAfter       time.Duration `mapstructure:"retry_after"`
}

// StorageConfig contains scratch storage settings
type StorageConfig struct {
	TempDir         string        `mapstructure:"temp_dir"`
	MaxTempAge      time.Duration `mapstructure:"max_temp_age"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// NotificationConfig contains delivery-notification settings
type NotificationConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig contains API rate limiting settings
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerSecond int  `mapstructure:"requests_per_second"`
	Burst             int  `mapstructure:"burst"`
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	EnableCORS     bool     `mapstructure:"enable_cors"`
	CORSOrigins    []string `mapstructure:"cors_origins"`
	EnableRecovery bool     `mapstructure:"enable_recovery"`
}
