package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

var (
	ErrMissingAPIKey = errors.New("YouTube API key is required")
)

// Keys read from the environment and flags
const (
	KeyAPIKey       = "youtube_api_key"
	KeyDBPath       = "db_path"
	KeyPort         = "port"
	KeyLogLevel     = "log_level"
	KeyAllowOrigins = "allow_origins"
	KeyConcurrency  = "concurrency"
	KeyRPS          = "requests_per_second"
)

// DefaultAllowOrigin is used when no CORS origin is configured
const DefaultAllowOrigin = "http://localhost:3000"

// Config holds the application configuration
type Config struct {
	YouTubeAPIKey string
	// DBPath is a SQLite Cloud connection string; empty disables the run archive
	DBPath        string
	Port          string
	LogLevel      zerolog.Level
	AllowOrigins  []string
	Concurrency   int

	// RequestsPerSecond caps YouTube API calls; 0 means unlimited
	RequestsPerSecond float64
}

// LoadEnvFile loads variables from .env files into the process environment.
// A missing default .env file is not an error.
func LoadEnvFile(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		if len(files) == 0 && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyAllowOrigins, []string{DefaultAllowOrigin})
	v.SetDefault(KeyConcurrency, 1)
	v.SetDefault(KeyRPS, 0)
}

// NewViper returns a viper instance bound to the environment
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load builds the configuration from v
func Load(v *viper.Viper) (*Config, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(v.GetString(KeyLogLevel)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", v.GetString(KeyLogLevel), err)
	}

	concurrency := v.GetInt(KeyConcurrency)
	if concurrency < 1 {
		return nil, fmt.Errorf("concurrency must be at least 1, got %d", concurrency)
	}

	rps := v.GetFloat64(KeyRPS)
	if rps < 0 {
		return nil, fmt.Errorf("requests per second must not be negative, got %v", rps)
	}

	origins := splitList(v.GetStringSlice(KeyAllowOrigins))
	if len(origins) == 0 {
		origins = []string{DefaultAllowOrigin}
	}

	return &Config{
		YouTubeAPIKey: strings.TrimSpace(v.GetString(KeyAPIKey)),
		DBPath:        v.GetString(KeyDBPath),
		Port:          v.GetString(KeyPort),
		LogLevel:      level,
		AllowOrigins:  origins,
		Concurrency:   concurrency,

		RequestsPerSecond: rps,
	}, nil
}

// splitList flattens comma-separated entries coming from the environment
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.YouTubeAPIKey == "" {
		return fmt.Errorf("%w: YOUTUBE_API_KEY environment variable is not set", ErrMissingAPIKey)
	}
	return nil
}

// ArchiveEnabled reports whether runs should be stored
func (c *Config) ArchiveEnabled() bool {
	return c.DBPath != ""
}
