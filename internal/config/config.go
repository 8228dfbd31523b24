// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package config handles the seekr configuration. Settings are read via fig
// from an optional config file and can be overridden through the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kkyr/fig"
)

const (
	configEnv = "SEEKR"

	DefaultTextTpl    = "{{.Arrow}} {{.ProgressPercent}}% {{.RemainingText}}"
	DefaultTooltipTpl = "Destination: {{.DestinationName}}\nRemaining: {{.RemainingText}}\n" +
		"Bearing: {{floatFormat .BearingDegrees 0}}°\nETA: {{.ETAText}}\n{{.DaylightHint}}" +
		"{{if .WeatherText}}\nWeather: {{.WeatherText}}{{end}}" +
		"{{if .LandmarkText}}\n{{.LandmarkText}}{{end}}"
)

// Config represents the application's configuration structure.
type Config struct {
	Locale   string     `fig:"locale"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	Guidance struct {
		// Cumulative deviation in meters after which a wrong-direction
		// alert fires.
		DeviationThreshold float64 `fig:"deviation_threshold" default:"50"`
		// Number of consecutive on-course samples needed to reset the
		// accumulated deviation and re-arm alerting.
		ResetThreshold int `fig:"reset_threshold" default:"3"`
		// Distance to the destination in meters at which the user counts
		// as arrived.
		ArrivalRadius float64 `fig:"arrival_radius" default:"45"`
	} `fig:"guidance"`

	Intervals struct {
		Recalculation time.Duration `fig:"recalculation" default:"5s"`
		Output        time.Duration `fig:"output" default:"1s"`
	} `fig:"intervals"`

	Routing struct {
		// Base URL of an OSRM-compatible routing endpoint.
		BaseURL string `fig:"base_url" default:"https://router.project-osrm.org"`
		// Allowed values: foot, bike, driving
		Profile string `fig:"profile" default:"foot"`
	} `fig:"routing"`

	GPSD struct {
		Host string `fig:"host" default:"localhost"`
		Port string `fig:"port" default:"2947"`
	} `fig:"gpsd"`

	Stream struct {
		// Optional fix replay file. When set, the file is used as an
		// additional sample source next to gpsd.
		TrackFile   string `fig:"track_file"`
		DisableGPSD bool   `fig:"disable_gpsd"`
	} `fig:"stream"`

	Landmarks struct {
		File string `fig:"file"`
	} `fig:"landmarks"`

	Notifications struct {
		Disable bool `fig:"disable"`
	} `fig:"notifications"`

	Weather struct {
		// Fetch current conditions at the destination when navigation starts.
		Disable bool `fig:"disable"`
	} `fig:"weather"`

	Templates struct {
		Text    string `fig:"text"`
		Tooltip string `fig:"tooltip"`
	} `fig:"templates"`
}

// NewFromFile reads the configuration from the given file.
func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

// New returns a configuration built from defaults and the environment.
func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

// Validate checks value ranges and fills derived defaults.
func (c *Config) Validate() error {
	switch c.Routing.Profile {
	case "foot", "bike", "driving":
	default:
		return fmt.Errorf("invalid routing profile: %s", c.Routing.Profile)
	}
	if c.Guidance.DeviationThreshold <= 0 {
		return fmt.Errorf("invalid deviation threshold: %f", c.Guidance.DeviationThreshold)
	}
	if c.Guidance.ResetThreshold < 1 {
		return fmt.Errorf("invalid reset threshold: %d", c.Guidance.ResetThreshold)
	}
	if c.Guidance.ArrivalRadius <= 0 {
		return fmt.Errorf("invalid arrival radius: %f", c.Guidance.ArrivalRadius)
	}
	if c.Intervals.Recalculation < time.Second || c.Intervals.Recalculation > 10*time.Second {
		return fmt.Errorf("invalid recalculation interval: %s", c.Intervals.Recalculation)
	}
	if c.Templates.Text == "" {
		c.Templates.Text = DefaultTextTpl
	}
	if c.Templates.Tooltip == "" {
		c.Templates.Tooltip = DefaultTooltipTpl
	}
	if c.Landmarks.File == "" {
		home, _ := os.UserHomeDir()
		c.Landmarks.File = filepath.Join(home, ".config", "seekr", "landmarks.json")
	}

	return nil
}
