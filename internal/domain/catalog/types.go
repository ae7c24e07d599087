// Package catalog models deep-sky targets and the contracts for reading
// them from a catalog source.
package catalog

import (
	"fmt"
	"strings"

	"github.com/yanqian/skyplan/internal/domain/astro"
)

// Target is a catalog entry. RA is in hours [0,24), Dec in degrees [-90,90].
type Target struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	RA            float64  `json:"ra"`
	Dec           float64  `json:"dec"`
	Type          string   `json:"type"`
	Magnitude     *float64 `json:"magnitude,omitempty"`
	SizeArcmin    *float64 `json:"sizeArcmin,omitempty"`
	Constellation string   `json:"constellation,omitempty"`
	Distance      string   `json:"distance,omitempty"`
}

// Equatorial returns the catalog position in the form the sky math consumes.
func (t Target) Equatorial() astro.Equatorial {
	return astro.Equatorial{RA: t.RA, Dec: t.Dec}
}

// Validate checks the coordinate ranges and that the target is addressable.
func (t Target) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("target id is required")
	}
	if t.RA < 0 || t.RA >= 24 {
		return fmt.Errorf("target %s: ra %.4f out of range [0,24)", t.ID, t.RA)
	}
	if t.Dec < -90 || t.Dec > 90 {
		return fmt.Errorf("target %s: dec %.4f out of range [-90,90]", t.ID, t.Dec)
	}
	return nil
}

// Object types used throughout the catalog. Sources may carry other labels;
// matching against them is substring based.
const (
	TypeGalaxy           = "Galaxy"
	TypeGlobularCluster  = "Globular Cluster"
	TypeOpenCluster      = "Open Cluster"
	TypeNebula           = "Nebula"
	TypeEmissionNebula   = "Emission Nebula"
	TypeReflectionNebula = "Reflection Nebula"
	TypePlanetaryNebula  = "Planetary Nebula"
	TypeSupernovaRemnant = "Supernova Remnant"
	TypeDoubleStar       = "Double Star"
	TypeStarField        = "Star Field"
	TypeUnknown          = "Unknown"
)

// Filter narrows a List call. Zero values mean "no constraint".
type Filter struct {
	Types        []string `json:"types,omitempty"`
	MinMagnitude *float64 `json:"minMagnitude,omitempty"`
	MaxMagnitude *float64 `json:"maxMagnitude,omitempty"`
	Limit        int      `json:"limit,omitempty"`
}

// Match is a cone-search hit.
type Match struct {
	Target     Target  `json:"target"`
	Separation float64 `json:"separation"`
}
