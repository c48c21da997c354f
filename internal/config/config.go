// Package config loads reef configuration.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mworkman/reef/internal/util"
)

const (
	// ReefDir is the per-project data directory.
	ReefDir = ".reef"
	// ConfigFileName is the config file inside ReefDir.
	ConfigFileName = "config.yaml"
)

// Config holds reef settings.
type Config struct {
	// DataDir is where the snapshot, backups and index live.
	DataDir string        `yaml:"data_dir" mapstructure:"data_dir"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Query   QueryConfig   `yaml:"query" mapstructure:"query"`
}

// StorageConfig controls the persistence backend.
type StorageConfig struct {
	// Mode is "files" or "hybrid" (files plus a search index).
	Mode string `yaml:"mode" mapstructure:"mode"`
	// BackupRetention is how many clear-mode backups to keep.
	BackupRetention int `yaml:"backup_retention" mapstructure:"backup_retention"`
}

// QueryConfig controls listing defaults.
type QueryConfig struct {
	PageSize int `yaml:"page_size" mapstructure:"page_size"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir: ReefDir,
		Storage: StorageConfig{
			Mode:            "hybrid",
			BackupRetention: 10,
		},
		Query: QueryConfig{
			PageSize: 10,
		},
	}
}

// Load reads configuration, later sources overriding earlier:
// built-in defaults, then .reef/config.yaml (or the explicit file),
// then REEF_* environment variables. A missing config file is fine.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("storage.mode", def.Storage.Mode)
	v.SetDefault("storage.backup_retention", def.Storage.BackupRetention)
	v.SetDefault("query.page_size", def.Query.PageSize)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(ReefDir)
		v.AddConfigPath("$HOME/" + ReefDir)
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("REEF")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Mode {
	case "files", "hybrid":
	default:
		return fmt.Errorf("storage.mode must be \"files\" or \"hybrid\", got %q", c.Storage.Mode)
	}
	if c.Storage.BackupRetention < 0 {
		return fmt.Errorf("storage.backup_retention must not be negative")
	}
	if c.Query.PageSize <= 0 {
		return fmt.Errorf("query.page_size must be positive")
	}
	return nil
}

// ConfigPath returns the config file path for a data dir.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.DataDir, ConfigFileName)
}

// Write persists the config as YAML, atomically.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return util.AtomicWriteFile(path, data, 0o644)
}
