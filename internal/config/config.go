package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the configuration for the application.
type Config struct {
	Server struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`
	Data struct {
		// Dir is the corpus root: workflows.json plus a workflows/
		// subdirectory of per-id definition blobs.
		Dir string `mapstructure:"dir"`
		// ReloadCron optionally schedules corpus reloads, standard
		// five-field cron syntax. Empty disables scheduled reloads.
		ReloadCron string `mapstructure:"reload_cron"`
	} `mapstructure:"data"`
	Detail struct {
		// Backend selects where definition blobs are read from:
		// "fs" (default) or "postgres".
		Backend string `mapstructure:"backend"`
	} `mapstructure:"detail"`
	DB struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"db"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	TLS struct {
		Enable    bool     `mapstructure:"enable"`
		CertFile  string   `mapstructure:"cert_file"`
		KeyFile   string   `mapstructure:"key_file"`
		Hostnames []string `mapstructure:"hostnames"`
	} `mapstructure:"tls"`
}

// LoadConfig loads the configuration from a file and the environment. An
// explicit path wins over the default search locations.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}
	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("data.dir", "./data")
	viper.SetDefault("detail.backend", "fs")
	viper.SetDefault("log.level", "info")

	if err := viper.ReadInConfig(); err != nil {
		// A missing default config file is fine, everything has defaults.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	switch config.Detail.Backend {
	case "fs", "postgres":
	default:
		return nil, fmt.Errorf("unknown detail backend %q", config.Detail.Backend)
	}

	return &config, nil
}
