package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/teemow/gcalskill/internal/feed"
	"github.com/teemow/gcalskill/internal/instrumentation"
)

// ErrMissingAPIKey is returned when a feed source needs an API key and none is set.
var ErrMissingAPIKey = errors.New("missing calendar API key: set feed.api_key or GCAL_API_KEY")

const (
	// DefaultListen is the skill endpoint listen address.
	DefaultListen = ":8080"

	// DefaultMetricsAddr is the Prometheus metrics listen address.
	DefaultMetricsAddr = ":9090"

	// DefaultEnvFile is read when present.
	DefaultEnvFile = ".env"
)

// FeedConfig selects and configures the calendar feed.
type FeedConfig struct {
	// Source is one of "api" (default), "http" or "ics".
	Source string `yaml:"source"`

	// CalendarID is the public calendar to read.
	CalendarID string `yaml:"calendar_id"`

	// APIKey authenticates the api source and the default http URL.
	APIKey string `yaml:"api_key,omitempty"`

	// URL is the feed location for the http and ics sources. For http it
	// defaults to the public events URL of CalendarID.
	URL string `yaml:"url,omitempty"`

	// CredentialsFile is a service-account JSON key used by the api source
	// instead of APIKey.
	CredentialsFile string `yaml:"credentials_file,omitempty"`

	// Timeout bounds the startup fetch.
	Timeout time.Duration `yaml:"timeout"`

	// Horizon bounds recurring-event expansion for the ics source.
	Horizon time.Duration `yaml:"horizon"`
}

// MetricsConfig controls the dedicated metrics server.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Config is the top-level configuration.
type Config struct {
	// Listen is the skill endpoint listen address.
	Listen string `yaml:"listen"`

	// Timezone is the IANA zone "now" is taken in when filtering past events.
	// Empty means the process local zone.
	Timezone string `yaml:"timezone"`

	// SkillID, when set, rejects requests addressed to another skill.
	SkillID string `yaml:"skill_id,omitempty"`

	// Refresh is a cron schedule (e.g. "*/30 * * * *") for reloading the
	// feed. Empty loads it once at startup.
	Refresh string `yaml:"refresh,omitempty"`

	Feed      FeedConfig             `yaml:"feed"`
	Metrics   MetricsConfig          `yaml:"metrics"`
	Telemetry instrumentation.Config `yaml:"telemetry"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen: DefaultListen,
		Feed: FeedConfig{
			Source:     feed.SourceAPI,
			CalendarID: feed.DefaultCalendarID,
			Timeout:    feed.DefaultTimeout,
			Horizon:    feed.DefaultHorizon,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    DefaultMetricsAddr,
		},
		Telemetry: instrumentation.DefaultConfig(),
	}
}

// Normalize fills zero values with defaults.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Feed.Source == "" {
		c.Feed.Source = feed.SourceAPI
	}
	if c.Feed.CalendarID == "" {
		c.Feed.CalendarID = feed.DefaultCalendarID
	}
	if c.Feed.Timeout <= 0 {
		c.Feed.Timeout = feed.DefaultTimeout
	}
	if c.Feed.Horizon <= 0 {
		c.Feed.Horizon = feed.DefaultHorizon
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = DefaultMetricsAddr
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = instrumentation.DefaultServiceName
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// LoadDotEnv loads a .env file into the process environment without
// overriding variables that are already set. A missing DefaultEnvFile is
// not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if path == DefaultEnvFile && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from environment variables read through lookup
// (os.LookupEnv in production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("GCAL_API_KEY", &c.Feed.APIKey)
	str("GCAL_CALENDAR_ID", &c.Feed.CalendarID)
	str("GCAL_FEED_SOURCE", &c.Feed.Source)
	str("GCAL_FEED_URL", &c.Feed.URL)
	str("GCAL_CREDENTIALS_FILE", &c.Feed.CredentialsFile)
	str("GCAL_TIMEZONE", &c.Timezone)
	str("SKILL_ID", &c.SkillID)
	str("SKILL_LISTEN", &c.Listen)
	str("SKILL_REFRESH", &c.Refresh)
	str("METRICS_ADDR", &c.Metrics.Addr)

	if v, ok := lookup("GCAL_FEED_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid GCAL_FEED_TIMEOUT %q: %w", v, err)
		}
		c.Feed.Timeout = d
	}
	if v, ok := lookup("METRICS_ENABLED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid METRICS_ENABLED %q: %w", v, err)
		}
		c.Metrics.Enabled = b
	}
	return c.Telemetry.ApplyEnv(lookup)
}

// Validate checks that the selected feed source can be built.
func (c *Config) Validate() error {
	switch c.Feed.Source {
	case feed.SourceAPI:
		if c.Feed.APIKey == "" && c.Feed.CredentialsFile == "" {
			return ErrMissingAPIKey
		}
	case feed.SourceHTTP:
		if c.Feed.URL == "" && c.Feed.APIKey == "" {
			return fmt.Errorf("http feed needs feed.url or an API key: %w", ErrMissingAPIKey)
		}
	case feed.SourceICS:
		if c.Feed.URL == "" {
			return fmt.Errorf("ics feed needs feed.url")
		}
	default:
		return fmt.Errorf("invalid feed source %q, must be one of: api, http, ics", c.Feed.Source)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Refresh != "" {
		if _, err := cron.ParseStandard(c.Refresh); err != nil {
			return fmt.Errorf("invalid refresh schedule %q: %w", c.Refresh, err)
		}
	}
	if c.Feed.Timeout <= 0 {
		return fmt.Errorf("feed timeout must be positive, got %s", c.Feed.Timeout)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("invalid telemetry config: %w", err)
	}
	return nil
}

// Location returns the configured zone, or time.Local when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// FeedURL returns the URL the http source reads.
func (c *Config) FeedURL() string {
	if c.Feed.URL != "" {
		return c.Feed.URL
	}
	return feed.GoogleEventsURL(c.Feed.CalendarID, c.Feed.APIKey)
}
