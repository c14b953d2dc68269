package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines application configuration.
type Config struct {
	DB   DBConfig   `yaml:"db"`
	Log  LogConfig  `yaml:"log"`
	Club ClubConfig `yaml:"club"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// ClubConfig carries the fixed facts about the weekly session.
type ClubConfig struct {
	HostName      string `yaml:"host_name"`
	Timezone      string `yaml:"timezone"`
	DefaultCharge string `yaml:"default_charge"`
	StatementDir  string `yaml:"statement_dir"`
	RosterDir     string `yaml:"roster_dir"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		DB: DBConfig{
			Path: "shuttlepay.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Club: ClubConfig{
			HostName:      "James (Host)",
			Timezone:      "Europe/London",
			DefaultCharge: "4.40",
			StatementDir:  ".",
			RosterDir:     ".",
		},
	}

	if path := os.Getenv("SHUTTLEPAY_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if dbPath := os.Getenv("SHUTTLEPAY_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("SHUTTLEPAY_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if host := os.Getenv("SHUTTLEPAY_HOST_NAME"); host != "" {
		cfg.Club.HostName = host
	}
	if tz := os.Getenv("SHUTTLEPAY_TIMEZONE"); tz != "" {
		cfg.Club.Timezone = tz
	}
	if charge := os.Getenv("SHUTTLEPAY_DEFAULT_CHARGE"); charge != "" {
		if _, err := strconv.ParseFloat(charge, 64); err != nil {
			return Config{}, fmt.Errorf("invalid SHUTTLEPAY_DEFAULT_CHARGE: %w", err)
		}
		cfg.Club.DefaultCharge = charge
	}
	if dir := os.Getenv("SHUTTLEPAY_STATEMENT_DIR"); dir != "" {
		cfg.Club.StatementDir = dir
	}
	if dir := os.Getenv("SHUTTLEPAY_ROSTER_DIR"); dir != "" {
		cfg.Club.RosterDir = dir
	}

	return cfg, nil
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
