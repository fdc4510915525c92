package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override (BOUQUINS_SERVER_BASE_URL).
const EnvPrefix = "BOUQUINS"

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "bouquinsctl", "config.yml")
}

// ResolvePath picks the config file: the explicit path, then
// BOUQUINS_CONFIG, then DefaultPath.
func ResolvePath(path string) string {
	if path != "" {
		return ExpandHome(path)
	}
	if env := os.Getenv(EnvPrefix + "_CONFIG"); env != "" {
		return ExpandHome(env)
	}
	return DefaultPath()
}

// Default returns the configuration used when no file and no environment
// override exist.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:9000",
			Burst:   1,
		},
		Listing: ListingConfig{PerPage: 20},
		Search:  SearchConfig{PerPage: 10},
		Log:     LogConfig{Level: "warn", Format: "text"},
	}
}

// Load reads the config file at path (see ResolvePath) and applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(ResolvePath(path))
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Log.File = ExpandHome(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.base_url", d.Server.BaseURL)
	v.SetDefault("server.timeout", d.Server.Timeout)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.burst", d.Server.Burst)
	v.SetDefault("listing.per_page", d.Listing.PerPage)
	v.SetDefault("listing.discard_stale", d.Listing.DiscardStale)
	v.SetDefault("search.per_page", d.Search.PerPage)
	v.SetDefault("search.discard_stale", d.Search.DiscardStale)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
}

// Save writes cfg as YAML to path (see ResolvePath).
func Save(path string, cfg *Config) error {
	path = ResolvePath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

// ExpandHome expands a leading ~/ in a path.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
