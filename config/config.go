package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	OCR       OCRConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Client    ClientConfig
	Heuristic HeuristicConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds the sqlite database location
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// AuthConfig holds token signing configuration
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	Issuer    string        `mapstructure:"issuer"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// OCRConfig holds text recognition configuration
type OCRConfig struct {
	TesseractPath  string        `mapstructure:"tesseract_path"`
	Languages      string        `mapstructure:"languages"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP  int `mapstructure:"per_ip"` // requests per minute per client IP
	Client int `mapstructure:"client"` // requests per second from the CLI, 0 disables
}

// ClientConfig holds configuration for the CLI client
type ClientConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SessionPath string        `mapstructure:"session_path"`
	Debug       bool          `mapstructure:"debug"`
}

// HeuristicConfig is the lexicon used to guess item names from OCR text
type HeuristicConfig struct {
	Stoplist  []string `mapstructure:"stoplist"`
	MinLength int      `mapstructure:"min_length"`
	MaxLength int      `mapstructure:"max_length"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file; an empty path searches the default locations
func LoadFile(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/bestbefore/")
	}

	// Environment variable settings: server.port <- BESTBEFORE_SERVER_PORT
	v.SetEnvPrefix("BESTBEFORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://127.0.0.1:5173"})

	v.SetDefault("database.path", "bestbefore.db")

	// Auth defaults; the secret has no default and must be provided to the server
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "bestbefore")
	v.SetDefault("auth.token_ttl", "24h")

	// OCR defaults
	v.SetDefault("ocr.tesseract_path", "tesseract")
	v.SetDefault("ocr.languages", "eng")
	v.SetDefault("ocr.max_upload_bytes", 10<<20)
	v.SetDefault("ocr.timeout", "30s")

	// Cache defaults
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.client", 0)

	// Client defaults
	v.SetDefault("client.base_url", "http://127.0.0.1:8000")
	v.SetDefault("client.timeout", "30s")
	v.SetDefault("client.session_path", "")
	v.SetDefault("client.debug", false)

	// Name heuristic defaults
	v.SetDefault("heuristic.stoplist", []string{
		"total", "subtotal", "tax", "change", "visa", "mastercard", "cash", "qty", "price",
	})
	v.SetDefault("heuristic.min_length", 3)
	v.SetDefault("heuristic.max_length", 28)
}

// validate validates the configuration shared by both binaries
func validate(config *Config) error {
	switch config.Server.Environment {
	case "development", "production", "test":
	default:
		return fmt.Errorf("server environment must be development, production or test, got: %s", config.Server.Environment)
	}

	if config.Heuristic.MinLength < 1 || config.Heuristic.MaxLength < config.Heuristic.MinLength {
		return fmt.Errorf("heuristic lengths must satisfy 1 <= min_length <= max_length, got %d..%d",
			config.Heuristic.MinLength, config.Heuristic.MaxLength)
	}

	if config.OCR.MaxUploadBytes < 0 {
		return fmt.Errorf("ocr max_upload_bytes must not be negative")
	}

	if config.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}

	if config.Client.BaseURL == "" {
		return fmt.Errorf("client base URL is required (set BESTBEFORE_CLIENT_BASE_URL)")
	}

	return nil
}

// ValidateServer checks the settings only the API server needs
func (c *Config) ValidateServer() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required (set BESTBEFORE_AUTH_JWT_SECRET)")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required (set BESTBEFORE_DATABASE_PATH)")
	}
	return nil
}
