package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Transport modes.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Tracker   TrackerConfig   `yaml:"tracker"`
	Notify    NotifyConfig    `yaml:"notify"`
	Persist   PersistConfig   `yaml:"persist"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type AuthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type TrackerConfig struct {
	LogCapacity  int      `yaml:"log_capacity"`
	DedupLimit   int      `yaml:"dedup_limit"`
	DedupKeep    int      `yaml:"dedup_keep"`
	TrackAll     bool     `yaml:"track_all"`
	Tracked      []string `yaml:"tracked"`
	Timezone     string   `yaml:"timezone"`
	NotifyStatus bool     `yaml:"notify_status"`
	NotifyVoice  bool     `yaml:"notify_voice"`
}

type NotifyConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	BufferSize int    `yaml:"buffer_size"`
}

type PersistConfig struct {
	Interval Duration `yaml:"interval"`
}

// Duration is a time.Duration read from a Go duration string such as "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Location resolves the configured timezone. Empty means time.Local.
func (c TrackerConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: TransportStdio,
		},
		DB: DBConfig{
			Path: "watchlog.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Tracker: TrackerConfig{
			LogCapacity: 1000,
			DedupLimit:  1000,
			DedupKeep:   500,
		},
		Notify: NotifyConfig{
			BufferSize: 256,
		},
		Persist: PersistConfig{
			Interval: Duration(30 * time.Second),
		},
	}

	if path := os.Getenv("WATCHLOG_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("WATCHLOG_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("WATCHLOG_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WATCHLOG_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("WATCHLOG_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = strings.ToLower(mode)
	}
	if token := os.Getenv("WATCHLOG_AUTH_TOKEN"); token != "" {
		cfg.Auth.Enabled = true
		cfg.Auth.Token = token
	}
	if dbPath := os.Getenv("WATCHLOG_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("WATCHLOG_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("WATCHLOG_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if trackAll := os.Getenv("WATCHLOG_TRACK_ALL"); trackAll != "" {
		v, err := strconv.ParseBool(trackAll)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WATCHLOG_TRACK_ALL: %w", err)
		}
		cfg.Tracker.TrackAll = v
	}
	if tz := os.Getenv("WATCHLOG_TIMEZONE"); tz != "" {
		cfg.Tracker.Timezone = tz
	}
	if url := os.Getenv("WATCHLOG_WEBHOOK_URL"); url != "" {
		cfg.Notify.WebhookURL = url
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Transport.Mode {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	if c.Auth.Enabled && c.Auth.Token == "" {
		return fmt.Errorf("auth enabled without a token")
	}
	if c.Tracker.LogCapacity <= 0 {
		return fmt.Errorf("tracker.log_capacity must be positive, got %d", c.Tracker.LogCapacity)
	}
	if c.Tracker.DedupLimit <= 0 {
		return fmt.Errorf("tracker.dedup_limit must be positive, got %d", c.Tracker.DedupLimit)
	}
	if c.Tracker.DedupKeep <= 0 || c.Tracker.DedupKeep > c.Tracker.DedupLimit {
		return fmt.Errorf("tracker.dedup_keep must be in 1..%d, got %d", c.Tracker.DedupLimit, c.Tracker.DedupKeep)
	}
	if c.Notify.BufferSize <= 0 {
		return fmt.Errorf("notify.buffer_size must be positive, got %d", c.Notify.BufferSize)
	}
	if c.Persist.Interval <= 0 {
		return fmt.Errorf("persist.interval must be positive")
	}
	if _, err := c.Tracker.Location(); err != nil {
		return err
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
