// Package config loads runtime parameters from a yaml file with
// environment-variable overrides layered on top, mirroring how the run is
// parameterized in CI (file for the stable bits, env for per-job tweaks).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every runtime parameter of a run.
type Config struct {
	Browser        string `yaml:"browser"`  // chrome or edge
	Headless       bool   `yaml:"headless"`
	BaseURL        string `yaml:"base_url"`
	ViewportWidth  int    `yaml:"viewport_width"`
	ViewportHeight int    `yaml:"viewport_height"`
	ArtifactsDir   string `yaml:"artifacts_dir"`

	Journey Journey `yaml:"journey"`
}

// Journey parameterizes the booking search.
type Journey struct {
	From        string `yaml:"from"`
	To          string `yaml:"to"`
	TravelClass string `yaml:"travel_class"`
	// TravelDate is YYYY-MM-DD; empty means the next Friday from today.
	TravelDate string `yaml:"travel_date"`
	// DepartureWindow is the departure filter option id, e.g. "6pm - 12am".
	DepartureWindow string `yaml:"departure_window"`

	Traveller Traveller `yaml:"traveller"`
}

// Traveller is the passenger added during the booking flow.
type Traveller struct {
	Name   string `yaml:"name"`
	Age    string `yaml:"age"`
	Gender string `yaml:"gender"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Browser:        "chrome",
		Headless:       false,
		BaseURL:        "https://www.makemytrip.com/",
		ViewportWidth:  1280,
		ViewportHeight: 720,
		ArtifactsDir:   "artifacts",
		Journey: Journey{
			From:            "Vadodara",
			To:              "Surat",
			TravelClass:     "First AC",
			DepartureWindow: "6pm - 12am",
			Traveller: Traveller{
				Name:   "Test Traveller",
				Age:    "30",
				Gender: "Male",
			},
		},
	}
}

// Load reads path over the defaults and then applies env overrides. A
// missing file is not an error; env and defaults still apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides file values from RAILCHECK_* variables.
func (c *Config) applyEnv() {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("RAILCHECK_BROWSER", &c.Browser)
	setString("RAILCHECK_BASE_URL", &c.BaseURL)
	setString("RAILCHECK_ARTIFACTS_DIR", &c.ArtifactsDir)
	setString("RAILCHECK_FROM", &c.Journey.From)
	setString("RAILCHECK_TO", &c.Journey.To)
	setString("RAILCHECK_TRAVEL_CLASS", &c.Journey.TravelClass)
	setString("RAILCHECK_TRAVEL_DATE", &c.Journey.TravelDate)

	if v := os.Getenv("RAILCHECK_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Headless = b
		}
	}
}

// TravelDate resolves the configured travel date. now is injected so the
// next-Friday default is testable.
func (c *Config) TravelDate(now time.Time, nextFriday func(time.Time) time.Time) (time.Time, error) {
	if c.Journey.TravelDate == "" {
		return nextFriday(now), nil
	}
	d, err := time.Parse("2006-01-02", c.Journey.TravelDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing travel_date %q: %w", c.Journey.TravelDate, err)
	}
	return d, nil
}
