package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// credentialVars are the required environment variables for the
// posting API. They are never read from the YAML file.
var credentialVars = []string{"CONSUMER_KEY", "CONSUMER_SECRET", "ACCESS_KEY", "ACCESS_SECRET"}

// Config holds all application configuration.
type Config struct {
	Source struct {
		URL     string `yaml:"url"`
		Fetcher string `yaml:"fetcher"` // "http" or "browser"
	} `yaml:"source"`
	History struct {
		CSVPath string `yaml:"csv_path"`
	} `yaml:"history"`
	Narrative struct {
		ComparisonPolicy string `yaml:"comparison_policy"` // "day-after" or "friday-on-sunday"
	} `yaml:"narrative"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`

	Twitter struct {
		ConsumerKey    string `yaml:"-"`
		ConsumerSecret string `yaml:"-"`
		AccessKey      string `yaml:"-"`
		AccessSecret   string `yaml:"-"`
	} `yaml:"-"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SOURCE_URL"); v != "" {
		cfg.Source.URL = v
	}
	if v := os.Getenv("SOURCE_FETCHER"); v != "" {
		cfg.Source.Fetcher = v
	}
	if v := os.Getenv("HISTORY_CSV"); v != "" {
		cfg.History.CSVPath = v
	}
	if v := os.Getenv("COMPARISON_POLICY"); v != "" {
		cfg.Narrative.ComparisonPolicy = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Credentials come only from the environment.
	cfg.Twitter.ConsumerKey = os.Getenv("CONSUMER_KEY")
	cfg.Twitter.ConsumerSecret = os.Getenv("CONSUMER_SECRET")
	cfg.Twitter.AccessKey = os.Getenv("ACCESS_KEY")
	cfg.Twitter.AccessSecret = os.Getenv("ACCESS_SECRET")

	// Defaults
	if cfg.Source.URL == "" {
		cfg.Source.URL = "https://www.phillypolice.com/crime-maps-stats/"
	}
	if cfg.Source.Fetcher == "" {
		cfg.Source.Fetcher = "http"
	}
	if cfg.History.CSVPath == "" {
		cfg.History.CSVPath = "data/homicide_totals_daily.csv"
	}
	if cfg.Narrative.ComparisonPolicy == "" {
		cfg.Narrative.ComparisonPolicy = "day-after"
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 0 10 * * *"
	}
	// Database.SQLitePath has no default: an unset path means the run
	// audit log is disabled and the noop recorder is used.

	return cfg, nil
}

// Validate checks that all required fields are set and well-formed.
func (c *Config) Validate() error {
	if c.Source.URL == "" {
		return fmt.Errorf("source.url is required")
	}
	if c.Source.Fetcher != "http" && c.Source.Fetcher != "browser" {
		return fmt.Errorf("source.fetcher must be \"http\" or \"browser\", got %q", c.Source.Fetcher)
	}
	if c.History.CSVPath == "" {
		return fmt.Errorf("history.csv_path is required")
	}
	if p := c.Narrative.ComparisonPolicy; p != "day-after" && p != "friday-on-sunday" {
		return fmt.Errorf("narrative.comparison_policy must be \"day-after\" or \"friday-on-sunday\", got %q", p)
	}
	return nil
}

// ValidateCredentials checks that all four posting credentials are
// present in the environment.
func (c *Config) ValidateCredentials() error {
	values := []string{
		c.Twitter.ConsumerKey,
		c.Twitter.ConsumerSecret,
		c.Twitter.AccessKey,
		c.Twitter.AccessSecret,
	}
	for i, v := range values {
		if v == "" {
			return fmt.Errorf("missing required environment variable %s", credentialVars[i])
		}
	}
	return nil
}
