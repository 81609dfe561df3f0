package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

var configEnvVars = []string{
	"BESTBEFORE_SERVER_PORT",
	"BESTBEFORE_SERVER_ENVIRONMENT",
	"BESTBEFORE_SERVER_ALLOWED_ORIGINS",
	"BESTBEFORE_DATABASE_PATH",
	"BESTBEFORE_AUTH_JWT_SECRET",
	"BESTBEFORE_AUTH_TOKEN_TTL",
	"BESTBEFORE_OCR_MAX_UPLOAD_BYTES",
	"BESTBEFORE_CACHE_TTL",
	"BESTBEFORE_RATELIMIT_PER_IP",
	"BESTBEFORE_RATELIMIT_CLIENT",
	"BESTBEFORE_CLIENT_BASE_URL",
	"BESTBEFORE_CLIENT_TIMEOUT",
	"BESTBEFORE_HEURISTIC_STOPLIST",
	"BESTBEFORE_HEURISTIC_MIN_LENGTH",
	"BESTBEFORE_HEURISTIC_MAX_LENGTH",
}

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		for _, key := range configEnvVars {
			os.Unsetenv(key)
		}
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8000" {
			t.Errorf("Server.Port = %s, want 8000", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Database.Path != "bestbefore.db" {
			t.Errorf("Database.Path = %s, want bestbefore.db", cfg.Database.Path)
		}
		if cfg.Auth.TokenTTL != 24*time.Hour {
			t.Errorf("Auth.TokenTTL = %v, want 24h", cfg.Auth.TokenTTL)
		}
		if cfg.OCR.MaxUploadBytes != 10<<20 {
			t.Errorf("OCR.MaxUploadBytes = %d, want %d", cfg.OCR.MaxUploadBytes, 10<<20)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 120 {
			t.Errorf("RateLimit.PerIP = %d, want 120", cfg.RateLimit.PerIP)
		}
		if cfg.Client.Timeout != 30*time.Second {
			t.Errorf("Client.Timeout = %v, want 30s", cfg.Client.Timeout)
		}
		if cfg.Heuristic.MinLength != 3 || cfg.Heuristic.MaxLength != 28 {
			t.Errorf("Heuristic lengths = %d..%d, want 3..28", cfg.Heuristic.MinLength, cfg.Heuristic.MaxLength)
		}
		if len(cfg.Heuristic.Stoplist) != 9 {
			t.Errorf("Heuristic.Stoplist = %v, want the 9 default words", cfg.Heuristic.Stoplist)
		}

		// the server refuses to start without a secret
		if err := cfg.ValidateServer(); err == nil {
			t.Error("ValidateServer() error = nil, want error for missing JWT secret")
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("BESTBEFORE_SERVER_PORT", "9090")
		os.Setenv("BESTBEFORE_SERVER_ENVIRONMENT", "production")
		os.Setenv("BESTBEFORE_DATABASE_PATH", "/var/lib/bestbefore/data.db")
		os.Setenv("BESTBEFORE_AUTH_JWT_SECRET", "s3cret")
		os.Setenv("BESTBEFORE_AUTH_TOKEN_TTL", "2h")
		os.Setenv("BESTBEFORE_CACHE_TTL", "1h")
		os.Setenv("BESTBEFORE_RATELIMIT_PER_IP", "200")
		os.Setenv("BESTBEFORE_CLIENT_BASE_URL", "https://pantry.example.com")
		os.Setenv("BESTBEFORE_HEURISTIC_MAX_LENGTH", "40")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Database.Path != "/var/lib/bestbefore/data.db" {
			t.Errorf("Database.Path = %s", cfg.Database.Path)
		}
		if cfg.Auth.JWTSecret != "s3cret" {
			t.Errorf("Auth.JWTSecret = %s, want s3cret", cfg.Auth.JWTSecret)
		}
		if cfg.Auth.TokenTTL != 2*time.Hour {
			t.Errorf("Auth.TokenTTL = %v, want 2h", cfg.Auth.TokenTTL)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
		if cfg.Client.BaseURL != "https://pantry.example.com" {
			t.Errorf("Client.BaseURL = %s", cfg.Client.BaseURL)
		}
		if cfg.Heuristic.MaxLength != 40 {
			t.Errorf("Heuristic.MaxLength = %d, want 40", cfg.Heuristic.MaxLength)
		}
		if err := cfg.ValidateServer(); err != nil {
			t.Errorf("ValidateServer() error = %v, want nil", err)
		}
	})

	t.Run("fails validation for unknown environment", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("BESTBEFORE_SERVER_ENVIRONMENT", "staging")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for unknown environment")
		}
	})

	t.Run("fails validation for inverted heuristic bounds", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("BESTBEFORE_HEURISTIC_MIN_LENGTH", "10")
		os.Setenv("BESTBEFORE_HEURISTIC_MAX_LENGTH", "5")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for min_length > max_length")
		}
	})
}

func TestLoadFile(t *testing.T) {
	for _, key := range configEnvVars {
		os.Unsetenv(key)
	}

	t.Run("reads an explicit yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bestbefore.yaml")
		content := `
server:
  port: "7000"
auth:
  jwt_secret: from-file
heuristic:
  stoplist: [total, receipt]
  min_length: 2
  max_length: 20
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config file: %v", err)
		}

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile() error = %v, want nil", err)
		}

		if cfg.Server.Port != "7000" {
			t.Errorf("Server.Port = %s, want 7000", cfg.Server.Port)
		}
		if cfg.Auth.JWTSecret != "from-file" {
			t.Errorf("Auth.JWTSecret = %s, want from-file", cfg.Auth.JWTSecret)
		}
		if !reflect.DeepEqual(cfg.Heuristic.Stoplist, []string{"total", "receipt"}) {
			t.Errorf("Heuristic.Stoplist = %v, want [total receipt]", cfg.Heuristic.Stoplist)
		}
		if cfg.Heuristic.MinLength != 2 {
			t.Errorf("Heuristic.MinLength = %d, want 2", cfg.Heuristic.MinLength)
		}
	})

	t.Run("env vars override the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bestbefore.yaml")
		if err := os.WriteFile(path, []byte("server:\n  port: \"7000\"\n"), 0644); err != nil {
			t.Fatalf("Failed to write config file: %v", err)
		}
		os.Setenv("BESTBEFORE_SERVER_PORT", "7100")
		defer os.Unsetenv("BESTBEFORE_SERVER_PORT")

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile() error = %v, want nil", err)
		}
		if cfg.Server.Port != "7100" {
			t.Errorf("Server.Port = %s, want 7100", cfg.Server.Port)
		}
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if err == nil {
			t.Error("LoadFile() error = nil, want error for missing file")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables, export prefixes and comments", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		envContent := `
# Comment line
TEST_VAR_1=value1
   # indented comment

TEST_VAR_2="quoted value"
# TEST_COMMENTED=should_not_load
export TEST_VAR_3=exported
TEST_VAR_4=four # trailing note
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_VAR_3")
		os.Unsetenv("TEST_VAR_4")
		os.Unsetenv("TEST_COMMENTED")
		defer func() {
			os.Unsetenv("TEST_VAR_1")
			os.Unsetenv("TEST_VAR_2")
			os.Unsetenv("TEST_VAR_3")
			os.Unsetenv("TEST_VAR_4")
		}()

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "quoted value" {
			t.Errorf("TEST_VAR_2 = %s, want quoted value", os.Getenv("TEST_VAR_2"))
		}
		if os.Getenv("TEST_VAR_3") != "exported" {
			t.Errorf("TEST_VAR_3 = %s, want exported", os.Getenv("TEST_VAR_3"))
		}
		if os.Getenv("TEST_VAR_4") != "four" {
			t.Errorf("TEST_VAR_4 = %q, want four without the comment", os.Getenv("TEST_VAR_4"))
		}
		if os.Getenv("TEST_COMMENTED") != "" {
			t.Errorf("TEST_COMMENTED should not be loaded from comment")
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		os.Setenv("TEST_OVERRIDE", "existing-value")
		defer os.Unsetenv("TEST_OVERRIDE")

		if err := os.WriteFile(".env", []byte("TEST_OVERRIDE=new-value"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Environment: "development"},
			Client:    ClientConfig{BaseURL: "http://127.0.0.1:8000"},
			Heuristic: HeuristicConfig{MinLength: 3, MaxLength: 28},
		}
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails for negative upload limit", func(t *testing.T) {
		cfg := valid()
		cfg.OCR.MaxUploadBytes = -1
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for negative upload limit")
		}
	})

	t.Run("fails without client base URL", func(t *testing.T) {
		cfg := valid()
		cfg.Client.BaseURL = ""
		err := validate(cfg)
		if err == nil || !strings.Contains(err.Error(), "BESTBEFORE_CLIENT_BASE_URL") {
			t.Errorf("validate() error = %v, want base URL error", err)
		}
	})

	t.Run("server needs database path", func(t *testing.T) {
		cfg := valid()
		cfg.Auth.JWTSecret = "x"
		if err := cfg.ValidateServer(); err == nil {
			t.Error("ValidateServer() error = nil, want error for empty database path")
		}
	})
}
