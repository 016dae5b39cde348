// Package config loads lifeo settings from an optional YAML file and LIFEO_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "LIFEO"

type Primary string

const (
	PrimarySQLite   Primary = "sqlite"
	PrimaryPostgres Primary = "postgres"
	PrimaryMemory   Primary = "memory"
)

type Config struct {
	DataDir string        `mapstructure:"data_dir"`
	Store   StoreConfig   `mapstructure:"store"`
	Planner PlannerConfig `mapstructure:"planner"`
	Badge   BadgeConfig   `mapstructure:"badge"`
	Log     LogConfig     `mapstructure:"log"`
	Focus   FocusConfig   `mapstructure:"focus"`
}

type StoreConfig struct {
	Primary     Primary `mapstructure:"primary"`
	SQLitePath  string  `mapstructure:"sqlite_path"`
	FallbackDir string  `mapstructure:"fallback_dir"`
	PostgresDSN string  `mapstructure:"postgres_dsn"`
}

type PlannerConfig struct {
	MaxMissions            int    `mapstructure:"max_missions"`
	DefaultDurationMinutes int    `mapstructure:"default_duration_minutes"`
	Timezone               string `mapstructure:"timezone"`
}

type BadgeConfig struct {
	File   string `mapstructure:"file"`
	Notify bool   `mapstructure:"notify"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

type FocusConfig struct {
	Tick time.Duration `mapstructure:"tick"`
}

func DefaultConfig() Config {
	return Config{
		DataDir: DefaultDataDir(),
		Store: StoreConfig{
			Primary: PrimarySQLite,
		},
		Planner: PlannerConfig{
			MaxMissions:            3,
			DefaultDurationMinutes: 25,
			Timezone:               "Local",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Focus: FocusConfig{
			Tick: time.Second,
		},
	}
}

// DefaultDataDir is ~/.lifeo, or .lifeo when there is no home directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lifeo"
	}
	return filepath.Join(home, ".lifeo")
}

// DefaultConfigPath is where Load looks when no path is given.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

// Load merges defaults, the YAML file at path and the environment, in that
// order. An empty path means DefaultConfigPath, which may be absent; an
// explicit path must exist.
func Load(path string) (Config, error) {
	defaults := DefaultConfig()
	v := viper.New()
	setDefaults(v, defaults)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return defaults, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return defaults, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize(defaults)
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("store.primary", string(d.Store.Primary))
	v.SetDefault("store.sqlite_path", d.Store.SQLitePath)
	v.SetDefault("store.fallback_dir", d.Store.FallbackDir)
	v.SetDefault("store.postgres_dsn", d.Store.PostgresDSN)
	v.SetDefault("planner.max_missions", d.Planner.MaxMissions)
	v.SetDefault("planner.default_duration_minutes", d.Planner.DefaultDurationMinutes)
	v.SetDefault("planner.timezone", d.Planner.Timezone)
	v.SetDefault("badge.file", d.Badge.File)
	v.SetDefault("badge.notify", d.Badge.Notify)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("focus.tick", d.Focus.Tick)
}

// normalize replaces invalid values with defaults and derives the store
// paths from the data dir when they are unset.
func (c *Config) normalize(d Config) {
	c.DataDir = expandHome(strings.TrimSpace(c.DataDir))
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	switch c.Store.Primary {
	case PrimarySQLite, PrimaryPostgres, PrimaryMemory:
	default:
		c.Store.Primary = d.Store.Primary
	}
	if c.Store.SQLitePath = expandHome(strings.TrimSpace(c.Store.SQLitePath)); c.Store.SQLitePath == "" {
		c.Store.SQLitePath = filepath.Join(c.DataDir, "lifeo.db")
	}
	if c.Store.FallbackDir = expandHome(strings.TrimSpace(c.Store.FallbackDir)); c.Store.FallbackDir == "" {
		c.Store.FallbackDir = filepath.Join(c.DataDir, "state")
	}
	if c.Planner.MaxMissions <= 0 {
		c.Planner.MaxMissions = d.Planner.MaxMissions
	}
	if c.Planner.DefaultDurationMinutes <= 0 {
		c.Planner.DefaultDurationMinutes = d.Planner.DefaultDurationMinutes
	}
	if _, err := loadLocation(c.Planner.Timezone); err != nil {
		c.Planner.Timezone = d.Planner.Timezone
	}
	c.Badge.File = expandHome(strings.TrimSpace(c.Badge.File))
	c.Log.File = expandHome(strings.TrimSpace(c.Log.File))
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
		c.Log.Level = strings.ToLower(c.Log.Level)
	default:
		c.Log.Level = d.Log.Level
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = d.Log.MaxSizeMB
	}
	if c.Log.MaxBackups < 0 {
		c.Log.MaxBackups = d.Log.MaxBackups
	}
	if c.Focus.Tick <= 0 {
		c.Focus.Tick = d.Focus.Tick
	}
}

// Location is the zone used to decide the calendar date.
func (c Config) Location() *time.Location {
	loc, err := loadLocation(c.Planner.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func loadLocation(name string) (*time.Location, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || strings.EqualFold(trimmed, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(trimmed)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
