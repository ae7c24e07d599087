// Package planner serves the per-target sky computations: position, tonight's
// window, the altitude chart, and the Sun and Moon for a site.
package planner

import (
	"time"

	"github.com/yanqian/skyplan/internal/domain/astro"
	"github.com/yanqian/skyplan/internal/domain/catalog"
	"github.com/yanqian/skyplan/internal/domain/observer"
)

// TargetRef selects a catalog entry by ID or describes an ad-hoc position.
// RA and Dec accept decimal or sexagesimal text.
type TargetRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	RA   string `json:"ra,omitempty"`
	Dec  string `json:"dec,omitempty"`
}

// PositionRequest asks where a target is at an instant.
type PositionRequest struct {
	Observer observer.Ref `json:"observer"`
	Target   TargetRef    `json:"target"`
	Time     *time.Time   `json:"time,omitempty"`
}

// PositionResponse is serialized back to API consumers.
type PositionResponse struct {
	Target          catalog.Target `json:"target"`
	Time            time.Time      `json:"time"`
	Position        astro.AltAz    `json:"position"`
	Compass         string         `json:"compass"`
	RAText          string         `json:"raText"`
	DecText         string         `json:"decText"`
	HorizonAltitude float64        `json:"horizonAltitude"`
	AboveHorizon    bool           `json:"aboveHorizon"`
}

// WindowRequest asks for tonight's visibility window.
type WindowRequest struct {
	Observer    observer.Ref `json:"observer"`
	Target      TargetRef    `json:"target"`
	Now         *time.Time   `json:"now,omitempty"`
	MinAltitude *float64     `json:"minAltitude,omitempty"`
}

// WindowResponse carries the window plus the unobstructed peak estimate.
type WindowResponse struct {
	Target          catalog.Target         `json:"target"`
	Night           astro.Night            `json:"night"`
	MinAltitude     float64                `json:"minAltitude"`
	Window          astro.VisibilityWindow `json:"window"`
	Observable      bool                   `json:"observable"`
	MaxAltitude     float64                `json:"maxAltitude"`
	MaxAltitudeTime time.Time              `json:"maxAltitudeTime"`
}

// SeriesRequest asks for the chart samples across tonight.
type SeriesRequest struct {
	Observer observer.Ref `json:"observer"`
	Target   TargetRef    `json:"target"`
	Now      *time.Time   `json:"now,omitempty"`
}

// SeriesResponse is serialized back to API consumers.
type SeriesResponse struct {
	Target catalog.Target     `json:"target"`
	Night  astro.Night        `json:"night"`
	Series astro.Series       `json:"series"`
	Peak   *astro.SeriesPoint `json:"peak,omitempty"`
}

// SkyRequest covers the Sun and Moon queries, which need no target.
type SkyRequest struct {
	Observer observer.Ref `json:"observer"`
	Time     *time.Time   `json:"time,omitempty"`
}

// MoonResponse is serialized back to API consumers.
type MoonResponse struct {
	Time    time.Time       `json:"time"`
	Moon    astro.MoonState `json:"moon"`
	Compass string          `json:"compass"`
}

// SunResponse is serialized back to API consumers.
type SunResponse struct {
	Time     time.Time      `json:"time"`
	Night    astro.Night    `json:"night"`
	Sun      astro.AltAz    `json:"sun"`
	Events   astro.SunTimes `json:"events"`
	DarkFrom *time.Time     `json:"darkFrom,omitempty"`
	DarkTo   *time.Time     `json:"darkTo,omitempty"`
}

// Config holds runtime knobs for the planner.
type Config struct {
	MinAltitude float64
}
