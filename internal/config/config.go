package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		FrontendURL string `yaml:"frontend_url" env:"FRONTEND_URL"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxConns        int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
		MinConns        int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		VerifyTokenExpiration string `yaml:"verify_token_expiration" env:"JWT_VERIFY_TOKEN_EXPIRATION"`
		ResetTokenExpiration  string `yaml:"reset_token_expiration" env:"JWT_RESET_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	SMTP struct {
		Host      string `yaml:"host" env:"EMAIL_HOST"`
		Port      int    `yaml:"port" env:"EMAIL_PORT"`
		Username  string `yaml:"username" env:"EMAIL_USER"`
		Password  string `yaml:"password" env:"EMAIL_PASS"`
		FromName  string `yaml:"from_name" env:"EMAIL_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"EMAIL_FROM"`
		UseTLS    bool   `yaml:"use_tls" env:"EMAIL_SECURE"`
		Timeout   string `yaml:"timeout" env:"EMAIL_TIMEOUT"`
	} `yaml:"smtp"`

	Reminder struct {
		Enabled      bool   `yaml:"enabled" env:"REMINDER_ENABLED"`
		Cron         string `yaml:"cron" env:"REMINDER_CRON"`
		StartupDelay string `yaml:"startup_delay" env:"REMINDER_STARTUP_DELAY"`
		LockTTL      string `yaml:"lock_ttl" env:"REMINDER_LOCK_TTL"`
	} `yaml:"reminder"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	Storage struct {
		UploadDir   string `yaml:"upload_dir" env:"UPLOAD_DIR"`
		MaxUploadMB int    `yaml:"max_upload_mb" env:"MAX_UPLOAD_MB"`
	} `yaml:"storage"`

	Admin AdminConfig `yaml:"admin"`
}

// AdminConfig is the account seeded on startup
type AdminConfig struct {
	Email     string `yaml:"email" env:"ADMIN_EMAIL"`
	Password  string `yaml:"password" env:"ADMIN_PASSWORD"`
	FirstName string `yaml:"first_name" env:"ADMIN_FIRST_NAME"`
	LastName  string `yaml:"last_name" env:"ADMIN_LAST_NAME"`
}

// LoadConfig loads configuration from a file, a .env file and environment variables.
// Precedence: environment > .env > YAML file > defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env never overrides variables already present in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.FrontendURL = "http://localhost:3000"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "scholarpath"
	config.Database.SSLMode = "disable"
	config.Database.MaxConns = 20
	config.Database.MinConns = 2
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.JWT.AccessTokenExpiration = "168h"
	config.JWT.VerifyTokenExpiration = "24h"
	config.JWT.ResetTokenExpiration = "1h"
	config.JWT.Issuer = "scholarpath"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.SMTP.Port = 587
	config.SMTP.FromName = "ScholarPath"
	config.SMTP.Timeout = "30s"

	config.Reminder.Enabled = true
	config.Reminder.Cron = "0 0 8 * * *"
	config.Reminder.StartupDelay = "5s"
	config.Reminder.LockTTL = "10m"

	config.Storage.UploadDir = "uploads"
	config.Storage.MaxUploadMB = 50

	config.Admin.FirstName = "System"
	config.Admin.LastName = "Admin"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	durations := map[string]string{
		"JWT access token expiration": config.JWT.AccessTokenExpiration,
		"JWT verify token expiration": config.JWT.VerifyTokenExpiration,
		"JWT reset token expiration":  config.JWT.ResetTokenExpiration,
		"database conn max lifetime":  config.Database.ConnMaxLifetime,
		"smtp timeout":                config.SMTP.Timeout,
		"reminder startup delay":      config.Reminder.StartupDelay,
		"reminder lock ttl":           config.Reminder.LockTTL,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	if _, err := cron.Parse(config.Reminder.Cron); err != nil {
		return fmt.Errorf("invalid reminder cron spec %q: %w", config.Reminder.Cron, err)
	}

	if config.Storage.MaxUploadMB <= 0 {
		return fmt.Errorf("storage max upload size must be positive")
	}

	if (config.Admin.Email == "") != (config.Admin.Password == "") {
		return fmt.Errorf("admin email and password must be set together")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// MustDuration parses a duration already checked by validateConfig
func MustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		panic(fmt.Sprintf("unvalidated duration %q: %v", value, err))
	}
	return d
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(GetEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

// GetEnvAsBool gets an environment variable as a boolean or returns a default value
func GetEnvAsBool(key string, defaultValue bool) bool {
	switch strings.ToLower(GetEnv(key, "")) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultValue
}
