// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package presenter turns a navigation snapshot into the waybar-style text
// and tooltip strings that are written to stdout.
package presenter

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/nathan-osman/go-sunrise"
	"github.com/vorlif/humanize"
	"github.com/vorlif/humanize/locale/de"
	"github.com/vorlif/spreak"
	"golang.org/x/text/language"

	"github.com/wneessen/seekr/internal/config"
	"github.com/wneessen/seekr/internal/geo"
)

const (
	progressBarWidth = 10
	maxNameWidth     = 40
)

// arrowGlyphs maps the relative bearing, divided into eight sectors, to a
// direction arrow. Index 0 is straight ahead.
var arrowGlyphs = [8]string{"↑", "↗", "→", "↘", "↓", "↙", "←", "↖"}

// Snapshot carries everything the presenter needs about the current
// navigation state. It is assembled by the service on every output tick.
type Snapshot struct {
	DestinationName string
	Destination     geo.Coordinate
	Position        geo.Coordinate
	RelativeBearing float64 // radians, already compass-corrected
	Progress        float64 // 0..1
	Remaining       float64 // meters
	Speed           float64 // m/s
	Deviating       bool
	Arrived         bool
	WeatherText     string
	Landmarks       []string
	Now             time.Time
}

// TemplateContext is the data exposed to the text and tooltip templates.
type TemplateContext struct {
	DestinationName string
	Arrow           string
	BearingDegrees  float64
	ProgressPercent int
	ProgressBar     string
	RemainingText   string
	ETAText         string
	DaylightHint    string
	WeatherText     string
	LandmarkText    string
	Class           string
}

// Presenter renders navigation snapshots using the configured templates.
type Presenter struct {
	TextTemplate    *template.Template
	TooltipTemplate *template.Template

	localizer *spreak.Localizer
	humanizer *humanize.Humanizer
}

// New creates a Presenter from the configured templates. Both templates are
// parsed and rendered once against an empty context so that broken templates
// surface at startup instead of on the first output tick.
func New(conf *config.Config, localizer *spreak.Localizer) (*Presenter, error) {
	tag := language.Make(conf.Locale)
	if conf.Locale == "" {
		tag = language.English
	}
	collection := humanize.MustNew(humanize.WithLocale(de.New()))
	pres := &Presenter{
		localizer: localizer,
		humanizer: collection.CreateHumanizer(tag),
	}

	tpl, err := template.New("text").Funcs(pres.templateFuncMap()).Parse(conf.Templates.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text template: %w", err)
	}
	pres.TextTemplate = tpl
	tpl, err = template.New("tooltip").Funcs(pres.templateFuncMap()).Parse(conf.Templates.Tooltip)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tooltip template: %w", err)
	}
	pres.TooltipTemplate = tpl

	if _, err = pres.Render(TemplateContext{}); err != nil {
		return nil, err
	}
	return pres, nil
}

// BuildContext derives the template context from a navigation snapshot.
func (p *Presenter) BuildContext(snap Snapshot) TemplateContext {
	ctx := TemplateContext{
		DestinationName: runewidth.Truncate(snap.DestinationName, maxNameWidth, "…"),
		Arrow:           arrowGlyph(snap.RelativeBearing),
		BearingDegrees:  geo.NormalizeAngle(snap.RelativeBearing) * 180 / math.Pi,
		ProgressPercent: int(math.Round(snap.Progress * 100)),
		ProgressBar:     progressBar(snap.Progress),
		RemainingText:   p.remainingText(snap.Remaining),
		ETAText:         p.etaText(snap),
		WeatherText:     snap.WeatherText,
		LandmarkText:    p.landmarkText(snap.Landmarks),
		Class:           snapshotClass(snap),
	}
	if snap.Position.Valid() && !snap.Now.IsZero() {
		ctx.DaylightHint = p.daylightHint(snap.Position, snap.Now)
	}
	return ctx
}

// Render executes both templates against the given context.
func (p *Presenter) Render(ctx TemplateContext) (map[string]string, error) {
	out := make(map[string]string, 2)
	var buf bytes.Buffer
	if err := p.TextTemplate.Execute(&buf, ctx); err != nil {
		return nil, fmt.Errorf("failed to render text template: %w", err)
	}
	out["text"] = buf.String()
	buf.Reset()
	if err := p.TooltipTemplate.Execute(&buf, ctx); err != nil {
		return nil, fmt.Errorf("failed to render tooltip template: %w", err)
	}
	out["tooltip"] = buf.String()
	return out, nil
}

func (p *Presenter) remainingText(meters float64) string {
	if meters < 0 {
		meters = 0
	}
	suffix := p.localizer.Get("remaining")
	if meters < 1000 {
		return fmt.Sprintf("%.0f m %s", meters, suffix)
	}
	return fmt.Sprintf("%.1f km %s", meters/1000, suffix)
}

func (p *Presenter) etaText(snap Snapshot) string {
	if snap.Arrived || snap.Speed <= 0 || snap.Remaining <= 0 || snap.Now.IsZero() {
		return ""
	}
	eta := snap.Now.Add(time.Duration(snap.Remaining/snap.Speed) * time.Second)
	return p.humanizer.NaturalTime(eta)
}

// daylightHint tells the user when the light runs out, or comes back.
func (p *Presenter) daylightHint(pos geo.Coordinate, now time.Time) string {
	rise, set := sunrise.SunriseSunset(pos.Lat, pos.Lon, now.Year(), now.Month(), now.Day())
	switch {
	case now.Before(rise):
		return p.localizer.Getf("Sunrise at %s", rise.Local().Format("15:04"))
	case now.Before(set):
		return p.localizer.Getf("Sunset at %s", set.Local().Format("15:04"))
	default:
		next := now.AddDate(0, 0, 1)
		rise, _ = sunrise.SunriseSunset(pos.Lat, pos.Lon, next.Year(), next.Month(), next.Day())
		return p.localizer.Getf("Sunrise at %s", rise.Local().Format("15:04"))
	}
}

func (p *Presenter) landmarkText(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return p.localizer.Get("Landmark nearby") + ": " + strings.Join(names, ", ")
}

// arrowGlyph picks the arrow whose sector contains the relative bearing.
// Sectors are centered on the arrow directions, so anything within ±22.5° of
// straight ahead renders as ↑.
func arrowGlyph(bearing float64) string {
	bearing = geo.NormalizeAngle(bearing)
	sector := int(math.Round(bearing/(math.Pi/4))) % len(arrowGlyphs)
	return arrowGlyphs[sector]
}

func progressBar(fraction float64) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(math.Round(fraction * progressBarWidth))
	return strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)
}

func snapshotClass(snap Snapshot) string {
	switch {
	case snap.Arrived:
		return "arrived"
	case snap.Deviating:
		return "deviating"
	default:
		return "navigating"
	}
}
