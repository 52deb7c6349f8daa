package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	App struct {
		Name      string `yaml:"name"`
		Port      string `yaml:"port"`
		LogLevel  string `yaml:"log_level"`
		LogFormat string `yaml:"log_format"`
	} `yaml:"app"`

	API struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"api"`

	Session struct {
		Store      string        `yaml:"store"`
		CookieName string        `yaml:"cookie_name"`
		TTL        time.Duration `yaml:"ttl"`
		Secure     bool          `yaml:"secure"`
	} `yaml:"session"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`

	Orders struct {
		PollInterval time.Duration `yaml:"poll_interval"`
	} `yaml:"orders"`

	Theme struct {
		BrandName   string `yaml:"brand_name"`
		LogoURL     string `yaml:"logo_url"`
		AccentColor string `yaml:"accent_color"`
	} `yaml:"theme"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	cfg := &Config{}
	cfg.App.Name = "admin-dashboard"
	cfg.App.Port = "3000"
	cfg.App.LogLevel = "info"
	cfg.App.LogFormat = "console"
	cfg.API.BaseURL = "http://localhost:8080"
	cfg.API.Timeout = 10 * time.Second
	cfg.Session.Store = SessionStoreMemory
	cfg.Session.CookieName = "session"
	cfg.Session.TTL = 24 * time.Hour
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.Prefix = "admin-dashboard"
	cfg.Orders.PollInterval = 3 * time.Second
	cfg.Theme.BrandName = "Butch Native Lechon"
	cfg.Theme.LogoURL = "/static/logo.jpg"
	cfg.Theme.AccentColor = "#940e0e"
	return cfg
}

// Load builds the configuration from defaults, an optional YAML file, an
// optional .env file and finally the process environment.
func Load(yamlPath, envPath string) (*Config, error) {
	cfg := Default()

	if yamlPath != "" {
		file, err := os.Open(yamlPath)
		if err != nil {
			return nil, fmt.Errorf("failed open config file: %w", err)
		}
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file: %w", err)
		}
	}

	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.App.Port, "APP_PORT")
	setString(&cfg.App.LogLevel, "LOG_LEVEL")
	setString(&cfg.App.LogFormat, "LOG_FORMAT")

	// VITE_ENDPOINT is what the old frontend build read; keep accepting it.
	setString(&cfg.API.BaseURL, "VITE_ENDPOINT")
	setString(&cfg.API.BaseURL, "API_BASE_URL")

	setString(&cfg.Session.Store, "SESSION_STORE")
	setString(&cfg.Session.CookieName, "SESSION_COOKIE")

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Username, "REDIS_USERNAME")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Redis.Prefix, "REDIS_PREFIX")

	setString(&cfg.Theme.BrandName, "THEME_BRAND_NAME")
	setString(&cfg.Theme.LogoURL, "THEME_LOGO_URL")
	setString(&cfg.Theme.AccentColor, "THEME_ACCENT_COLOR")

	if err := setDuration(&cfg.API.Timeout, "API_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Session.TTL, "SESSION_TTL"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Orders.PollInterval, "ORDERS_POLL_INTERVAL"); err != nil {
		return err
	}

	if v := os.Getenv("SESSION_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_SECURE %q: %w", v, err)
		}
		cfg.Session.Secure = secure
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		cfg.Redis.DB = db
	}

	return nil
}

// Validate checks the values the service cannot start without.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api base url is required")
	}
	if c.App.Port == "" {
		return errors.New("app port is required")
	}
	if c.Orders.PollInterval <= 0 {
		return fmt.Errorf("orders poll interval must be positive, got %s", c.Orders.PollInterval)
	}
	switch c.Session.Store {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = d
	return nil
}
