// Package config loads and validates the vocabdrill configuration file.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	Banks   BanksConfig   `mapstructure:"banks"`
	Storage StorageConfig `mapstructure:"storage"`
	Study   StudyConfig   `mapstructure:"study"`
	Reports ReportsConfig `mapstructure:"reports"`
}

type BanksConfig struct {
	CatalogFile     string `mapstructure:"catalog_file" validate:"required"`
	CacheDirectory  string `mapstructure:"cache_directory" validate:"required,dir"`
	CacheMaxAgeDays int    `mapstructure:"cache_max_age_days" validate:"min=1"`
	RetryDelayMs    int    `mapstructure:"retry_delay_ms" validate:"min=0"`
}

type StorageConfig struct {
	Driver        string `mapstructure:"driver" validate:"oneof=file sqlite mysql"`
	DataDirectory string `mapstructure:"data_directory" validate:"omitempty,dir"`

	// sqlite driver
	Path string `mapstructure:"path"`

	// mysql driver
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	Database        string            `mapstructure:"database"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime"`
}

type StudyConfig struct {
	DailyTarget int    `mapstructure:"daily_target" validate:"min=1"`
	DefaultBank string `mapstructure:"default_bank"`
}

type ReportsConfig struct {
	OutputDirectory string `mapstructure:"output_directory" validate:"omitempty,dir"`
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/vocabdrill")
	}

	v.SetDefault("banks.catalog_file", "banks.yml")
	v.SetDefault("banks.cache_directory", filepath.Join("data", "cache"))
	v.SetDefault("banks.cache_max_age_days", 7)
	v.SetDefault("banks.retry_delay_ms", 1000)
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.data_directory", filepath.Join("data", "learner"))
	v.SetDefault("storage.path", filepath.Join("data", "vocabdrill.db"))
	v.SetDefault("storage.host", "localhost")
	v.SetDefault("storage.port", 3306)
	v.SetDefault("study.daily_target", 20)
	v.SetDefault("reports.output_directory", "reports")

	// Database credentials come from the environment only, never the file.
	if err := v.BindEnv("storage.username", "VOCABDRILL_DB_USERNAME"); err != nil {
		return nil, fmt.Errorf("failed to bind VOCABDRILL_DB_USERNAME environment variable: %w", err)
	}
	if err := v.BindEnv("storage.password", "VOCABDRILL_DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind VOCABDRILL_DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
