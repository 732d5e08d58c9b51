package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort            = "8080"
	DefaultTriviaBaseURL   = "https://opentdb.com"
	DefaultUserAgent       = "QuizApp/1.0"
	DefaultQuizSeconds     = 300
	DefaultQuestionsAmount = 10
)

type Config struct {
	Server struct {
		Port         string `yaml:"port"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
		Env   string `yaml:"env"`
	} `yaml:"log"`
	Trivia struct {
		BaseURL   string `yaml:"base_url"`
		Timeout   string `yaml:"timeout"`
		UserAgent string `yaml:"user_agent"`
	} `yaml:"trivia"`
	Categories struct {
		TTL string `yaml:"ttl"`
	} `yaml:"categories"`
	Quiz struct {
		DurationSeconds int    `yaml:"duration_seconds"`
		Amount          int    `yaml:"amount"`
		IdleTTL         string `yaml:"idle_ttl"`
	} `yaml:"quiz"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
	} `yaml:"smtp"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads YAML config from path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if c.Trivia.BaseURL == "" {
		c.Trivia.BaseURL = DefaultTriviaBaseURL
	}
	if c.Trivia.UserAgent == "" {
		c.Trivia.UserAgent = DefaultUserAgent
	}
	if c.Quiz.DurationSeconds <= 0 {
		c.Quiz.DurationSeconds = DefaultQuizSeconds
	}
	if c.Quiz.Amount <= 0 {
		c.Quiz.Amount = DefaultQuestionsAmount
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
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
