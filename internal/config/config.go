// Package config loads sitemenu settings from an optional sitemenu.yaml,
// an optional .env file and SITEMENU_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SITEMENU_DB_PATH.
const EnvPrefix = "SITEMENU"

// DefaultFileName is looked up in the working directory and ~/.sitemenu.
const DefaultFileName = "sitemenu"

// Config holds all runtime settings.
type Config struct {
	DBPath       string            `mapstructure:"db_path"`
	BaseURL      string            `mapstructure:"base_url"`
	Site         string            `mapstructure:"site"`
	CurrentClass string            `mapstructure:"current_class"`
	LogUseCases  bool              `mapstructure:"log_use_cases"`
	Server       ServerConfig      `mapstructure:"server"`
	OTel         OTelConfig        `mapstructure:"otel"`
	Menus        map[string]string `mapstructure:"menus"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type OTelConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

// DefaultConfig returns a Config with sensible defaults. Tracing is disabled
// by default.
func DefaultConfig() Config {
	return Config{
		DBPath:       defaultDBPath(),
		CurrentClass: "active",
		Server:       ServerConfig{Addr: ":8080"},
		OTel: OTelConfig{
			Endpoint:    "localhost:4318",
			ServiceName: "sitemenu",
		},
		Menus: map[string]string{
			"main":   "Main menu",
			"footer": "Footer menu",
		},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "sitemenu.db"
	}
	return filepath.Join(home, ".sitemenu", "sitemenu.db")
}

// Load reads configuration. An empty path searches the default locations;
// a missing default file is not an error, a missing explicit one is.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(DefaultFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".sitemenu"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if len(cfg.Menus) == 0 {
		cfg.Menus = DefaultConfig().Menus
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("db_path", def.DBPath)
	v.SetDefault("base_url", def.BaseURL)
	v.SetDefault("site", def.Site)
	v.SetDefault("current_class", def.CurrentClass)
	v.SetDefault("log_use_cases", def.LogUseCases)
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("otel.enabled", def.OTel.Enabled)
	v.SetDefault("otel.endpoint", def.OTel.Endpoint)
	v.SetDefault("otel.service_name", def.OTel.ServiceName)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadDotEnv preloads path into the environment. Variables that are already
// set win over the file.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Validate checks the settings that have no usable fallback.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if c.BaseURL != "" && !strings.HasPrefix(c.BaseURL, "/") {
		return fmt.Errorf("base_url %q must start with '/'", c.BaseURL)
	}
	if strings.TrimSpace(c.CurrentClass) == "" {
		return fmt.Errorf("current_class must not be empty")
	}
	for name := range c.Menus {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("menus: entry with empty name")
		}
	}
	return nil
}

// MenuNames returns the configured menu positions in a stable order: main
// and footer first when present, then the rest alphabetically.
func (c *Config) MenuNames() []string {
	var names []string
	for _, fixed := range []string{"main", "footer"} {
		if _, ok := c.Menus[fixed]; ok {
			names = append(names, fixed)
		}
	}
	var rest []string
	for name := range c.Menus {
		if name != "main" && name != "footer" {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	return append(names, rest...)
}
