package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures connection settings, default credentials and logging.
// Environment variables override values read from the TOML file.
type Config struct {
	Host        string `env:"BODYSCALE_HOST"`
	Port        int    `env:"BODYSCALE_PORT"`
	ProxyHost   string `env:"BODYSCALE_PROXY_HOST"`
	ProxyPort   int    `env:"BODYSCALE_PROXY_PORT"`
	UserID      int64  `env:"BODYSCALE_USER_ID"`
	PublicKey   string `env:"BODYSCALE_PUBLIC_KEY"`
	PollSeconds int    `env:"BODYSCALE_POLL_SECONDS"`
	LogLevel    string `env:"BODYSCALE_LOG_LEVEL"`
	LogDir      string `env:"BODYSCALE_LOG_DIR"`
}

const (
	defaultConfigPath  = "~/.config/bodyscale/config.toml"
	defaultLogDir      = "~/.local/share/bodyscale"
	defaultHost        = "wbsapi.withings.net"
	defaultPort        = 80
	defaultProxyPort   = 80
	defaultPollSeconds = 60
	defaultLogLevel    = "info"
)

// dotEnvPath is loaded before environment overrides are parsed.
var dotEnvPath = ".env"

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	if err := readFile(resolved, &cfg); err != nil {
		return Config{}, err
	}
	if err := loadDotEnv(dotEnvPath); err != nil {
		return Config{}, err
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings the client cannot work with.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.ProxyPort < 1 || c.ProxyPort > 65535 {
		return fmt.Errorf("invalid proxy_port %d", c.ProxyPort)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}

// HasCredentials reports whether a default user id and public key are set.
func (c Config) HasCredentials() bool {
	return c.UserID > 0 && c.PublicKey != ""
}

// LogPath returns the path of the bodyscale log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/bodyscale.log")
	}
	return filepath.Join(c.LogDir, "bodyscale.log")
}

func defaults() Config {
	return Config{
		Host:        defaultHost,
		Port:        defaultPort,
		ProxyPort:   defaultProxyPort,
		PollSeconds: defaultPollSeconds,
		LogLevel:    defaultLogLevel,
		LogDir:      defaultLogDir,
	}
}

func readFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Host        string `toml:"host"`
		Port        int    `toml:"port"`
		ProxyHost   string `toml:"proxy_host"`
		ProxyPort   int    `toml:"proxy_port"`
		UserID      int64  `toml:"user_id"`
		PublicKey   string `toml:"public_key"`
		PollSeconds int    `toml:"poll_seconds"`
		LogLevel    string `toml:"log_level"`
		LogDir      string `toml:"log_dir"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.Host); v != "" {
		cfg.Host = v
	}
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	cfg.ProxyHost = strings.TrimSpace(raw.ProxyHost)
	if raw.ProxyPort != 0 {
		cfg.ProxyPort = raw.ProxyPort
	}
	cfg.UserID = raw.UserID
	cfg.PublicKey = strings.TrimSpace(raw.PublicKey)
	if raw.PollSeconds > 0 {
		cfg.PollSeconds = raw.PollSeconds
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = v
	}
	return nil
}

func loadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *Config) normalize() {
	c.Host = strings.TrimSpace(c.Host)
	if c.Host == "" {
		c.Host = defaultHost
	}
	c.ProxyHost = strings.TrimSpace(c.ProxyHost)
	c.PublicKey = strings.TrimSpace(c.PublicKey)
	if c.PollSeconds <= 0 {
		c.PollSeconds = defaultPollSeconds
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "warning" {
		c.LogLevel = "warn"
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if strings.TrimSpace(c.LogDir) == "" {
		c.LogDir = defaultLogDir
	}
	c.LogDir = mustExpand(c.LogDir)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
