package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/joho/godotenv"
	"github.com/yi-nology/asset_tracker/pkg/storage"
	"gopkg.in/yaml.v3"
)

// Config captures service level configuration loaded from config.yaml.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	CORS     CORSConfig     `yaml:"cors"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  storage.Config `yaml:"storage"`
	Import   ImportConfig   `yaml:"import"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig defines HTTP server options.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// DatabaseConfig defines the database backend configuration.
type DatabaseConfig struct {
	Driver   string         `yaml:"driver"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig contains SQLite specific settings.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// MySQLConfig contains MySQL specific connection details.
type MySQLConfig struct {
	DSN string `yaml:"dsn"`
}

// PostgresConfig contains PostgreSQL specific connection details.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// CORSConfig defines CORS middleware settings.
type CORSConfig struct {
	AllowOrigin      string `yaml:"allow_origin"`
	AllowMethods     string `yaml:"allow_methods"`
	AllowHeaders     string `yaml:"allow_headers"`
	AllowCredentials bool   `yaml:"allow_credentials"`
}

// RedisConfig defines Redis connection settings for the write lock.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Address  string        `yaml:"address"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	LockKey  string        `yaml:"lock_key"`
	LockTTL  time.Duration `yaml:"lock_ttl"`
	LockWait time.Duration `yaml:"lock_wait"`
}

// AuthConfig holds the shared credential and session token settings.
// PasswordHash (bcrypt) takes precedence over Password when both are set.
type AuthConfig struct {
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	PasswordHash string        `yaml:"password_hash"`
	TokenSecret  string        `yaml:"token_secret"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
	Enforce      bool          `yaml:"enforce"`
}

// ImportConfig controls bulk CSV imports.
type ImportConfig struct {
	Delay   time.Duration `yaml:"delay"`
	MaxSize int64         `yaml:"max_size"`
}

// LogConfig controls the hlog level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a YAML configuration file from the provided path.
// It searches in the current working directory first, then next to the binary executable.
// ASSET_* environment variables override values from the file.
func Load(name string) (*Config, error) {
	cfg := defaultConfig()

	configPath := findConfigFile(name)
	if configPath == "" {
		log.Printf("Warning: config file %q not found, using defaults", name)
		applyEnv(cfg)
		return cfg, nil
	}

	log.Printf("Loading config from: %s", configPath)
	f, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	parsed := defaultConfig()
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(parsed); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyDefaults(parsed)
	applyEnv(parsed)
	return parsed, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process environment.
// Missing files are ignored; existing variables are never overwritten.
func LoadDotEnv(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address: ":8080",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			SQLite: SQLiteConfig{
				Path: "data/assets.db",
			},
		},
		CORS: CORSConfig{
			AllowOrigin:      "*",
			AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
			AllowHeaders:     "*",
			AllowCredentials: false,
		},
		Redis: RedisConfig{
			LockKey:  "asset_tracker:write_lock",
			LockTTL:  10 * time.Second,
			LockWait: 5 * time.Second,
		},
		Auth: AuthConfig{
			Username: "asset_admin",
			TokenTTL: 12 * time.Hour,
		},
		Storage: storage.DefaultConfig(),
		Import: ImportConfig{
			Delay:   200 * time.Millisecond,
			MaxSize: 10 * 1024 * 1024, // 10MB
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.SQLite.Path == "" {
		cfg.Database.SQLite.Path = "data/assets.db"
	}
	if cfg.Redis.LockKey == "" {
		cfg.Redis.LockKey = "asset_tracker:write_lock"
	}
	if cfg.Redis.LockTTL <= 0 {
		cfg.Redis.LockTTL = 10 * time.Second
	}
	if cfg.Redis.LockWait <= 0 {
		cfg.Redis.LockWait = 5 * time.Second
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = 12 * time.Hour
	}
	if cfg.Import.Delay < 0 {
		cfg.Import.Delay = 0
	}
	if cfg.Import.MaxSize <= 0 {
		cfg.Import.MaxSize = 10 * 1024 * 1024
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// applyEnv lets deployment secrets live outside config.yaml.
func applyEnv(cfg *Config) {
	overrides := map[string]*string{
		"ASSET_SERVER_ADDRESS":     &cfg.Server.Address,
		"ASSET_DATABASE_DRIVER":    &cfg.Database.Driver,
		"ASSET_SQLITE_PATH":        &cfg.Database.SQLite.Path,
		"ASSET_MYSQL_DSN":          &cfg.Database.MySQL.DSN,
		"ASSET_POSTGRES_DSN":       &cfg.Database.Postgres.DSN,
		"ASSET_REDIS_ADDRESS":      &cfg.Redis.Address,
		"ASSET_REDIS_PASSWORD":     &cfg.Redis.Password,
		"ASSET_AUTH_USERNAME":      &cfg.Auth.Username,
		"ASSET_AUTH_PASSWORD":      &cfg.Auth.Password,
		"ASSET_AUTH_PASSWORD_HASH": &cfg.Auth.PasswordHash,
		"ASSET_AUTH_TOKEN_SECRET":  &cfg.Auth.TokenSecret,
		"ASSET_S3_ACCESS_KEY":      &cfg.Storage.S3.AccessKey,
		"ASSET_S3_SECRET_KEY":      &cfg.Storage.S3.SecretKey,
	}
	for key, target := range overrides {
		if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
			*target = strings.TrimSpace(value)
		}
	}
}

// HlogLevel maps the configured level name onto hlog.
func (c LogConfig) HlogLevel() hlog.Level {
	switch strings.ToLower(strings.TrimSpace(c.Level)) {
	case "trace":
		return hlog.LevelTrace
	case "debug":
		return hlog.LevelDebug
	case "warn", "warning":
		return hlog.LevelWarn
	case "error":
		return hlog.LevelError
	default:
		return hlog.LevelInfo
	}
}

// findConfigFile searches for a config file in the current directory first,
// then next to the binary executable. Returns the full path or empty string.
func findConfigFile(name string) string {
	// 1. Current working directory
	if _, err := os.Stat(name); err == nil {
		abs, _ := filepath.Abs(name)
		return abs
	}

	// 2. Next to the binary executable
	exe, err := os.Executable()
	if err == nil {
		exeDir := filepath.Dir(exe)
		candidate := filepath.Join(exeDir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
