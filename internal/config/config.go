package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/maxrep/maxrep-cli/internal/app"
	"github.com/maxrep/maxrep-cli/internal/session"
)

const EnvPrefix = "MAXREP"

type Config struct {
	APIBaseURL       string        `mapstructure:"api_base_url"`
	CSRFCookieName   string        `mapstructure:"csrf_cookie_name"`
	AccessCookieName string        `mapstructure:"access_cookie_name"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	PollInterval     time.Duration `mapstructure:"poll_interval"`
	LogLevel         string        `mapstructure:"log_level"`
	LogFile          string        `mapstructure:"log_file"`
	DBPath           string        `mapstructure:"db_path"`
	FoodLookupURL    string        `mapstructure:"food_lookup_url"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_base_url", "http://localhost:8000/api/v1")
	v.SetDefault("csrf_cookie_name", session.DefaultCSRFCookie)
	v.SetDefault("access_cookie_name", session.DefaultAccessCookie)
	v.SetDefault("request_timeout", 15*time.Second)
	v.SetDefault("poll_interval", time.Minute)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("db_path", "")
	v.SetDefault("food_lookup_url", "https://world.openfoodfacts.org")
}

// Load reads settings from MAXREP_* environment variables and an optional
// config file. An empty path looks for config.yaml in the default config
// dir; a missing file there is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		dir, err := app.DefaultConfigDir()
		if err != nil {
			return Config{}, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName(app.ConfigName())
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := c.BaseURL(); err != nil {
		return err
	}
	if strings.TrimSpace(c.CSRFCookieName) == "" {
		return fmt.Errorf("csrf_cookie_name is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be > 0")
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("poll_interval must be >= 0")
	}
	return nil
}

func (c Config) BaseURL() (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(c.APIBaseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid api_base_url %q: %w", c.APIBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("invalid api_base_url %q (expected http(s)://host/...)", c.APIBaseURL)
	}
	return u, nil
}

// ResolveDBPath prefers the configured path over the default location.
func (c Config) ResolveDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	return app.DefaultDBPath()
}

func (c Config) ResolveLogFile() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, nil
	}
	return app.DefaultLogPath()
}
