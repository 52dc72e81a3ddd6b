// Package config resolves runtime settings from defaults, an optional YAML
// file, a .env file and LEARNQUEST_* environment variables.
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
	"gopkg.in/yaml.v3"

	"github.com/abhisek/learnquest/internal/store"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "LEARNQUEST_"

// Config is the full runtime configuration.
type Config struct {
	// DBPath is the SQLite file used when Remote is empty.
	DBPath string `yaml:"db_path"`
	// Remote is the base URL of a record API server. When set, records
	// are read and written over HTTP instead of a local file.
	Remote string `yaml:"remote"`

	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Session SessionConfig `yaml:"session"`
	LLM     LLMConfig     `yaml:"llm"`
}

// ServerConfig configures the record API server.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	RateLimit       float64       `yaml:"rate_limit"` // requests per second
	RateBurst       int           `yaml:"rate_burst"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
	// File, when set, receives logs through a rotating writer.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// SessionConfig holds session defaults.
type SessionConfig struct {
	BatchSize int           `yaml:"batch_size"`
	TimeLimit time.Duration `yaml:"time_limit"`
}

// LLMConfig selects the provider used by challenge generation. API keys
// are read from the environment only.
type LLMConfig struct {
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Default returns the built-in configuration. DBPath is left empty and
// resolved by Load.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			AllowedOrigins:  []string{"*"},
			RateLimit:       20,
			RateBurst:       40,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Session: SessionConfig{
			BatchSize: 5,
			TimeLimit: 30 * time.Second,
		},
		LLM: LLMConfig{
			Timeout: 30 * time.Second,
		},
	}
}

// Options are the inputs to Load that come from the command line.
type Options struct {
	// ConfigFile overrides LEARNQUEST_CONFIG.
	ConfigFile string
	// EnvFile is the dotenv file to load; ".env" when empty. A missing
	// file is not an error.
	EnvFile string
	// DBPath and Remote override every other source when non-empty.
	DBPath string
	Remote string
}

// Load builds the configuration. Later sources win: defaults, YAML file,
// environment (including .env), then opts.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := Default()

	path := opts.ConfigFile
	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if opts.DBPath != "" {
		cfg.DBPath = opts.DBPath
	}
	if opts.Remote != "" {
		cfg.Remote = opts.Remote
	}

	if cfg.Remote == "" {
		if cfg.DBPath == "" {
			p, err := store.DefaultDBPath()
			if err != nil {
				return nil, fmt.Errorf("resolve DB path: %w", err)
			}
			cfg.DBPath = p
		} else if err := store.EnsureDir(cfg.DBPath); err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// applyEnv overrides fields from LEARNQUEST_* variables. Malformed numbers
// and durations are errors rather than silently ignored.
func (c *Config) applyEnv() error {
	if v, ok := getEnv("DB"); ok {
		c.DBPath = v
	}
	if v, ok := getEnv("REMOTE"); ok {
		c.Remote = v
	}

	if v, ok := getEnv("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnv("SERVER_ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v, ok := getEnv("SERVER_RATE_LIMIT"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envError("SERVER_RATE_LIMIT", err)
		}
		c.Server.RateLimit = f
	}
	if v, ok := getEnv("SERVER_RATE_BURST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError("SERVER_RATE_BURST", err)
		}
		c.Server.RateBurst = n
	}

	if v, ok := getEnv("LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := getEnv("LOG_FORMAT"); ok {
		c.Logging.Format = v
	}
	if v, ok := getEnv("LOG_FILE"); ok {
		c.Logging.File = v
	}

	if v, ok := getEnv("BATCH_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError("BATCH_SIZE", err)
		}
		c.Session.BatchSize = n
	}
	if v, ok := getEnv("TIME_LIMIT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return envError("TIME_LIMIT", err)
		}
		c.Session.TimeLimit = d
	}

	if v, ok := getEnv("LLM_PROVIDER"); ok {
		c.LLM.Provider = v
	}
	if v, ok := getEnv("LLM_MODEL"); ok {
		c.LLM.Model = v
	}
	return nil
}

func envError(key string, err error) error {
	return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Logging.Format)
	}
	if c.Session.BatchSize < 1 {
		return fmt.Errorf("batch size must be at least 1, got %d", c.Session.BatchSize)
	}
	if c.Session.TimeLimit <= 0 {
		return fmt.Errorf("time limit must be positive, got %s", c.Session.TimeLimit)
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return errors.New("rate limit and burst cannot be negative")
	}
	if c.Remote != "" && !strings.HasPrefix(c.Remote, "http://") && !strings.HasPrefix(c.Remote, "https://") {
		return fmt.Errorf("remote must be an http(s) URL, got %q", c.Remote)
	}
	return nil
}
