package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".storefront.yaml"

// Loader assembles a Config from build-time defaults, a .env file, an optional
// yaml file, environment variables and finally the hosting environment's
// runtime /config endpoint.
type Loader struct {
	useDotEnv  bool
	configFile string
	httpClient *http.Client
}

// NewLoader creates a loader with the default source chain.
func NewLoader() *Loader {
	return &Loader{
		useDotEnv:  true,
		configFile: defaultConfigFile,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithDotEnv toggles loading variables from a .env file first.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithConfigFile overrides the yaml config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	if path != "" {
		l.configFile = path
	}
	return l
}

// WithHTTPClient overrides the client used for the runtime config fetch.
func (l *Loader) WithHTTPClient(client *http.Client) *Loader {
	if client != nil {
		l.httpClient = client
	}
	return l
}

// Result captures the loaded configuration and its origin.
type Result struct {
	Config *Config
	Path   string
}

// Load builds the configuration without contacting the runtime endpoint.
func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		// Missing .env is fine, the process environment is used as-is.
		_ = godotenv.Load()
	}

	cfg := Defaults()
	path := "defaults"

	if data, err := os.ReadFile(l.configFile); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", l.configFile, err)
		}
		path = l.configFile
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Result{Config: cfg, Path: path}, nil
}

// runtimeConfig is the JSON shape served by the frontend host's /config route.
type runtimeConfig struct {
	APIEndpoint  string `json:"API_ENDPOINT"`
	AuthClientID string `json:"AUTH_CLIENT_ID"`
}

// FetchRuntime overlays cfg with values from the hosting environment's /config
// endpoint. Any failure (network, non-2xx, bad JSON) leaves cfg untouched and
// returns false; the defaults already loaded keep the app usable.
func (l *Loader) FetchRuntime(ctx context.Context, configURL string, cfg *Config) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, configURL, nil)
	if err != nil {
		return false
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false
	}

	var rc runtimeConfig
	if err := json.NewDecoder(resp.Body).Decode(&rc); err != nil {
		return false
	}

	cfg.APIEndpoint = rc.APIEndpoint
	cfg.AuthClientID = rc.AuthClientID
	return true
}

func applyEnv(cfg *Config) {
	cfg.APIEndpoint = envString("API_ENDPOINT", cfg.APIEndpoint)
	cfg.AuthClientID = envString("AUTH_CLIENT_ID", cfg.AuthClientID)
	cfg.APIScope = envString("API_SCOPE", cfg.APIScope)
	cfg.DemoUser = envBool("DEMO_USER", cfg.DemoUser)
	cfg.Store.Driver = envString("STORE_DRIVER", cfg.Store.Driver)
	cfg.Store.File = envString("STORE_FILE", cfg.Store.File)
	cfg.Store.SQLite.DSN = envString("STORE_SQLITE_DSN", cfg.Store.SQLite.DSN)
	cfg.Store.Redis.Addr = envString("STORE_REDIS_ADDR", cfg.Store.Redis.Addr)
	cfg.Store.Redis.Password = envString("STORE_REDIS_PASSWORD", cfg.Store.Redis.Password)
	cfg.Log.Level = envString("LOG_LEVEL", cfg.Log.Level)
}

// EnvString reads a string environment variable with a fallback default.
func EnvString(name, fallback string) string {
	return envString(name, fallback)
}

// EnvInt reads an integer environment variable with a fallback default.
func EnvInt(name string, fallback int) int {
	if v, ok := os.LookupEnv(name); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envString(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v
	}
	return fallback
}

func envBool(name string, fallback bool) bool {
	if v, ok := os.LookupEnv(name); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
