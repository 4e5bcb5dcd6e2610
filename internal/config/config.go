package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. COURTSPLIT_SERVER_PORT.
const EnvPrefix = "COURTSPLIT"

// DefaultAdviceModel is used when no model is configured anywhere.
const DefaultAdviceModel = "gemini-2.0-flash"

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Advice    AdviceConfig    `yaml:"advice"`
	Display   DisplayConfig   `yaml:"display"`
	Wizard    WizardConfig    `yaml:"wizard"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr is the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // http or stdio
}

type DBConfig struct {
	Driver string `yaml:"driver"` // sqlite or postgres
	Path   string `yaml:"path"`
	URL    string `yaml:"url"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Path     string `yaml:"path"`
	MaxBytes int64  `yaml:"max_bytes" split_words:"true"`
}

type AdviceConfig struct {
	Enabled     bool          `yaml:"enabled"`
	APIKey      string        `yaml:"api_key" split_words:"true"`
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"base_url" split_words:"true"`
	Timeout     time.Duration `yaml:"timeout"`
	Temperature float64       `yaml:"temperature"`
}

type DisplayConfig struct {
	Locale         string `yaml:"locale"`
	CurrencySymbol string `yaml:"currency_symbol" split_words:"true"`
}

type WizardConfig struct {
	IdleTimeout   time.Duration `yaml:"idle_timeout" split_words:"true"`
	SweepInterval time.Duration `yaml:"sweep_interval" split_words:"true"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		DB: DBConfig{
			Driver: "sqlite",
			Path:   "courtsplit.db",
		},
		Log: LogConfig{
			Level:    "info",
			MaxBytes: 10 << 20,
		},
		Advice: AdviceConfig{
			Enabled:     true,
			Timeout:     30 * time.Second,
			Temperature: 0.2,
		},
		Display: DisplayConfig{
			Locale:         "en-US",
			CurrencySymbol: "$",
		},
		Wizard: WizardConfig{
			IdleTimeout:   2 * time.Hour,
			SweepInterval: 10 * time.Minute,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvPrefix + "_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	if cfg.Advice.APIKey == "" {
		cfg.Advice.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Advice.Model == "" {
		cfg.Advice.Model = os.Getenv("GEMINI_MODEL")
	}
	if cfg.Advice.Model == "" {
		cfg.Advice.Model = DefaultAdviceModel
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
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

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	switch c.Transport.Mode {
	case "http":
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
		}
	case "stdio":
	default:
		errs = append(errs, fmt.Errorf("transport.mode %q must be http or stdio", c.Transport.Mode))
	}

	switch c.DB.Driver {
	case "sqlite":
		if c.DB.Path == "" {
			errs = append(errs, errors.New("db.path is required for sqlite"))
		}
	case "postgres":
		if c.DB.URL == "" {
			errs = append(errs, errors.New("db.url is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("db.driver %q must be sqlite or postgres", c.DB.Driver))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not a known level", c.Log.Level))
	}
	if c.Log.MaxBytes < 0 {
		errs = append(errs, errors.New("log.max_bytes must not be negative"))
	}

	if c.Advice.Timeout < 0 {
		errs = append(errs, errors.New("advice.timeout must not be negative"))
	}
	if c.Advice.Temperature < 0 || c.Advice.Temperature > 2 {
		errs = append(errs, fmt.Errorf("advice.temperature %v must be between 0 and 2", c.Advice.Temperature))
	}

	if c.Display.Locale == "" {
		errs = append(errs, errors.New("display.locale is required"))
	}

	if c.Wizard.IdleTimeout <= 0 {
		errs = append(errs, errors.New("wizard.idle_timeout must be positive"))
	}
	if c.Wizard.SweepInterval <= 0 {
		errs = append(errs, errors.New("wizard.sweep_interval must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
