package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPageSize matches the reference layout of 100 questions per page.
const DefaultPageSize = 100

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		BankID        string `yaml:"bank_id"`
		QuestionsPath string `yaml:"questions_path"`
		PageSize      int    `yaml:"page_size"`
		TTL           string `yaml:"ttl"`
	} `yaml:"quiz"`
}

// Load reads YAML config from path and fills in defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Quiz.BankID == "" {
		c.Quiz.BankID = "default"
	}
	if c.Quiz.PageSize == 0 {
		c.Quiz.PageSize = DefaultPageSize
	}
}

// Validate reports settings the service cannot start with.
func (c Config) Validate() error {
	if c.Quiz.PageSize < 0 {
		return fmt.Errorf("quiz.page_size must be positive, got %d", c.Quiz.PageSize)
	}
	if c.Quiz.QuestionsPath == "" && c.Postgres.URL == "" {
		return fmt.Errorf("either quiz.questions_path or postgres.url must be set")
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
