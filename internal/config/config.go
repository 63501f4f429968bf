package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"herowiki/lib/configutil"
	"herowiki/lib/requestcache"
	"herowiki/lib/telemetry"
)

const (
	DefaultPath     = "herowiki.json5"
	DefaultDatabase = "hero_wiki.sqlite"
	DefaultPort     = 5000
)

type Database struct {
	// Target is a sqlite file path or a libsql server url.
	Target    string `json:"target" env:"TARGET"`
	AuthToken string `json:"auth_token" env:"AUTH_TOKEN"`
}

type Http struct {
	// Headers replace the default identifying headers when set.
	Headers map[string]string `json:"headers" env:"HEADERS"`
	// Politeness is the pause before every network fetch in time.Duration
	// syntax ("1s", "250ms"), empty means requestcache.DefaultPoliteness.
	Politeness string `json:"politeness" env:"POLITENESS"`
	Timeout    string `json:"timeout" env:"TIMEOUT"`
	// DumpDir receives a .http dump of every exchange when set.
	DumpDir string `json:"dump_dir" env:"DUMP_DIR"`
}

type Sites struct {
	Official  string `json:"official" env:"OFFICIAL"`
	Gamepedia string `json:"gamepedia" env:"GAMEPEDIA"`
	Overbuff  string `json:"overbuff" env:"OVERBUFF"`
}

type Web struct {
	Port int `json:"port" env:"PORT"`
}

type Config struct {
	CachePath string           `json:"cache_path" env:"CACHE_PATH"`
	Database  Database         `json:"database" envPrefix:"DB_"`
	Http      Http             `json:"http" envPrefix:"HTTP_"`
	Sites     Sites            `json:"sites" envPrefix:"SITE_"`
	Web       Web              `json:"web" envPrefix:"WEB_"`
	Telemetry telemetry.Config `json:"telemetry" envPrefix:"TELEMETRY_"`
}

// Politeness returns the configured pause before network fetches.
func (c Config) Politeness() time.Duration {
	d, err := time.ParseDuration(c.Http.Politeness)
	if err != nil {
		return requestcache.DefaultPoliteness
	}
	return d
}

// FetcherOptions builds the request cache options for this configuration,
// dumps are wired separately since they need a directory to be prepared.
func (c Config) FetcherOptions() requestcache.FetcherOptions {
	politeness := c.Politeness()
	if politeness == 0 {
		politeness = -1
	}
	return requestcache.FetcherOptions{
		Headers:    c.Http.Headers,
		Politeness: politeness,
		Timeout:    c.Timeout(),
	}
}

// Timeout returns the configured request timeout, zero when unset so the
// HTTP client keeps its own default of no timeout.
func (c Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.Http.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Load reads `path` (and its .local variant) when present, then applies
// HEROWIKI_* environment overrides and fills in defaults. A missing
// configuration file is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}

	config, err := configutil.ReadConfig[Config](path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	err = configutil.ParseEnvWithPrefix(&config, "HEROWIKI_")
	if err != nil {
		return Config{}, err
	}

	err = config.validate()
	if err != nil {
		return Config{}, err
	}
	config.applyDefaults()
	return config, nil
}

func (c Config) validate() error {
	for name, value := range map[string]string{
		"http.politeness": c.Http.Politeness,
		"http.timeout":    c.Http.Timeout,
	} {
		if value == "" {
			continue
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if d < 0 {
			return fmt.Errorf("%s: must not be negative", name)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.CachePath == "" {
		c.CachePath = requestcache.DefaultPath
	}
	if c.Database.Target == "" {
		c.Database.Target = DefaultDatabase
	}
	if c.Web.Port == 0 {
		c.Web.Port = DefaultPort
	}
}
