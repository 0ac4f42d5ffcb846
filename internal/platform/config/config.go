package config

import (
	platformerrors "storefront-go/internal/platform/errors"
)

// Config holds the settings the storefront client needs at startup. The session
// service treats it as immutable once handed to Configure.
type Config struct {
	// APIEndpoint is the base URL of the service-invocation gateway. Relative
	// operation paths are appended to it verbatim.
	APIEndpoint string `yaml:"api_endpoint"`
	// AuthClientID selects real sign-in when set. Empty means no identity
	// provider is configured, which is a legitimate state.
	AuthClientID string `yaml:"auth_client_id"`
	// APIScope names the delegated scope exposed by the backend API.
	APIScope string `yaml:"api_scope"`
	// DemoUser permits the local stand-in account when AuthClientID is empty.
	DemoUser bool `yaml:"demo_user"`

	Store StoreConfig `yaml:"store"`
	Log   LogConfig   `yaml:"log"`
}

// StoreConfig selects the local persistence driver for the token cache and
// demo-account marker.
type StoreConfig struct {
	Driver string       `yaml:"driver"`
	File   string       `yaml:"file"`
	SQLite SQLiteConfig `yaml:"sqlite"`
	Redis  RedisConfig  `yaml:"redis"`
}

type SQLiteConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// LogConfig mirrors the logging package options.
type LogConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
	File  string `yaml:"file"`
}

// Defaults returns the build-time fallback configuration: anonymous browsing
// against a same-origin gateway.
func Defaults() *Config {
	return &Config{
		APIEndpoint:  "/",
		AuthClientID: "",
		APIScope:     "store-api",
		DemoUser:     true,
		Store: StoreConfig{
			Driver: "memory",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (c *Config) validate() error {
	if c.APIEndpoint == "" {
		return platformerrors.New(platformerrors.KindConfig, "config.validate", "api endpoint must not be empty")
	}
	switch c.Store.Driver {
	case "", "memory", "file", "redis", "sqlite":
	default:
		return platformerrors.New(platformerrors.KindConfig, "config.validate", "unsupported store driver: "+c.Store.Driver)
	}
	return nil
}
