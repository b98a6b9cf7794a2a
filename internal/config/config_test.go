package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/railcheck/internal/calendar"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "chrome", cfg.Browser)
	assert.Equal(t, "https://www.makemytrip.com/", cfg.BaseURL)
	assert.Equal(t, "6pm - 12am", cfg.Journey.DepartureWindow)
	assert.Equal(t, "First AC", cfg.Journey.TravelClass)
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Vadodara", cfg.Journey.From)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "railcheck.yaml")
	data := []byte("browser: edge\nheadless: true\njourney:\n  from: Mumbai\n  to: Pune\n  travel_date: \"2026-03-15\"\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "edge", cfg.Browser)
	assert.True(t, cfg.Headless)
	assert.Equal(t, "Mumbai", cfg.Journey.From)
	assert.Equal(t, "Pune", cfg.Journey.To)
	// untouched keys keep their defaults
	assert.Equal(t, "First AC", cfg.Journey.TravelClass)
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "railcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("browser: edge\n"), 0o644))

	t.Setenv("RAILCHECK_BROWSER", "chrome")
	t.Setenv("RAILCHECK_HEADLESS", "true")
	t.Setenv("RAILCHECK_FROM", "Delhi")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "chrome", cfg.Browser)
	assert.True(t, cfg.Headless)
	assert.Equal(t, "Delhi", cfg.Journey.From)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "railcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("browser: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestTravelDateExplicit(t *testing.T) {
	cfg := Default()
	cfg.Journey.TravelDate = "2026-03-15"

	d, err := cfg.TravelDate(time.Now(), calendar.NextFriday)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), d)
}

func TestTravelDateDefaultsToNextFriday(t *testing.T) {
	cfg := Default()
	now := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC) // a Monday

	d, err := cfg.TravelDate(now, calendar.NextFriday)
	require.NoError(t, err)
	assert.Equal(t, time.Friday, d.Weekday())
	assert.Equal(t, 6, d.Day())
}

func TestTravelDateRejectsBadFormat(t *testing.T) {
	cfg := Default()
	cfg.Journey.TravelDate = "15/03/2026"

	_, err := cfg.TravelDate(time.Now(), calendar.NextFriday)
	assert.Error(t, err)
}
