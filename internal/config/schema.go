package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the top-level bouquinsctl configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Listing ListingConfig `mapstructure:"listing" yaml:"listing"`
	Search  SearchConfig  `mapstructure:"search" yaml:"search"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// ServerConfig holds the bouquins server connection settings.
type ServerConfig struct {
	BaseURL   string        `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gte=0"` // 0 = no timeout
	RateLimit float64       `mapstructure:"rate_limit" yaml:"rate_limit" validate:"gte=0"` // requests/s, 0 = unlimited
	Burst     int           `mapstructure:"burst" yaml:"burst" validate:"gte=0"`
}

// ListingConfig holds listing view settings.
type ListingConfig struct {
	PerPage      int  `mapstructure:"per_page" yaml:"per_page" validate:"gte=1,lte=500"`
	DiscardStale bool `mapstructure:"discard_stale" yaml:"discard_stale"`
}

// SearchConfig holds search settings.
type SearchConfig struct {
	PerPage      int  `mapstructure:"per_page" yaml:"per_page" validate:"gte=1,lte=500"`
	DiscardStale bool `mapstructure:"discard_stale" yaml:"discard_stale"`
}

// LogConfig selects log level, format and destination.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	Format string `mapstructure:"format" yaml:"format" validate:"omitempty,oneof=text json"`
	File   string `mapstructure:"file" yaml:"file,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and reports every violation by its
// config key.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s: failed %q", configKey(fe.Namespace()), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
}

var keyNames = map[string]string{
	"Server": "server", "Listing": "listing", "Search": "search", "Log": "log",
	"BaseURL": "base_url", "Timeout": "timeout", "RateLimit": "rate_limit", "Burst": "burst",
	"PerPage": "per_page", "Level": "level", "Format": "format",
}

// configKey turns "Config.Server.BaseURL" into "server.base_url".
func configKey(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 0 && parts[0] == "Config" {
		parts = parts[1:]
	}
	for i, p := range parts {
		if k, ok := keyNames[p]; ok {
			parts[i] = k
		}
	}
	return strings.Join(parts, ".")
}
