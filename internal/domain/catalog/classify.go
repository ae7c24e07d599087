package catalog

import (
	"regexp"
	"strings"
)

// Classification is the outcome of naming-based type inference.
type Classification struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

var knownObjects = map[string]string{
	"M1": TypeEmissionNebula, "M8": TypeEmissionNebula, "M16": TypeEmissionNebula,
	"M17": TypeEmissionNebula, "M20": TypeEmissionNebula, "M42": TypeEmissionNebula,
	"M43": TypeEmissionNebula, "M78": TypeReflectionNebula,
	"NGC 7000": TypeEmissionNebula, "NGC 6992": TypeEmissionNebula, "NGC 6960": TypeEmissionNebula,
	"IC 1805": TypeEmissionNebula, "IC 1848": TypeEmissionNebula, "IC 434": TypeEmissionNebula,

	"M27": TypePlanetaryNebula, "M57": TypePlanetaryNebula, "M76": TypePlanetaryNebula,
	"M97": TypePlanetaryNebula, "NGC 6543": TypePlanetaryNebula, "NGC 7293": TypePlanetaryNebula,

	"M31": TypeGalaxy, "M32": TypeGalaxy, "M33": TypeGalaxy, "M51": TypeGalaxy,
	"M81": TypeGalaxy, "M82": TypeGalaxy, "M101": TypeGalaxy, "M104": TypeGalaxy,
	"NGC 253": TypeGalaxy, "NGC 891": TypeGalaxy,

	"M2": TypeGlobularCluster, "M3": TypeGlobularCluster, "M5": TypeGlobularCluster,
	"M13": TypeGlobularCluster, "M15": TypeGlobularCluster, "M22": TypeGlobularCluster,
	"M92": TypeGlobularCluster, "NGC 5139": TypeGlobularCluster,

	"M6": TypeOpenCluster, "M7": TypeOpenCluster, "M11": TypeOpenCluster,
	"M35": TypeOpenCluster, "M36": TypeOpenCluster, "M37": TypeOpenCluster,
	"M38": TypeOpenCluster, "M44": TypeOpenCluster, "M45": TypeOpenCluster,
	"M67": TypeOpenCluster, "NGC 869": TypeOpenCluster, "NGC 884": TypeOpenCluster,
}

var namePatterns = []struct {
	re         *regexp.Regexp
	typ        string
	confidence float64
}{
	{regexp.MustCompile(`(?i)^SH\s*2[-\s]*\d+`), TypeEmissionNebula, 0.9},
	{regexp.MustCompile(`(?i)^B\s*\d+`), TypeStarField, 0.7},
	{regexp.MustCompile(`(?i)^LBN\s*\d+`), TypeEmissionNebula, 0.8},
	{regexp.MustCompile(`(?i)^LDN\s*\d+`), TypeStarField, 0.7},
	{regexp.MustCompile(`(?i)^VDB\s*\d+`), TypeReflectionNebula, 0.9},
	{regexp.MustCompile(`(?i)^ABELL\s*\d+`), TypePlanetaryNebula, 0.6},
}

var (
	messierPrefix = regexp.MustCompile(`^(?:MESSIER\s*|M\s+)(\d)`)
	ngcPrefix     = regexp.MustCompile(`^NGC\s*(\d)`)
	icPrefix      = regexp.MustCompile(`^IC\s*(\d)`)
)

// NormalizeDesignation upper-cases a designation and standardises the
// Messier, NGC and IC prefixes ("messier 42" -> "M42", "ngc7000" -> "NGC 7000").
func NormalizeDesignation(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = messierPrefix.ReplaceAllString(n, "M$1")
	n = ngcPrefix.ReplaceAllString(n, "NGC $1")
	n = icPrefix.ReplaceAllString(n, "IC $1")
	return n
}

// Classify infers an object type from its designation: the well-known list
// first, then catalog naming patterns. Unrecognised names come back Unknown
// with zero confidence.
func Classify(name string) Classification {
	if strings.TrimSpace(name) == "" {
		return Classification{Type: TypeUnknown}
	}
	normalized := NormalizeDesignation(name)
	if typ, ok := knownObjects[normalized]; ok {
		return Classification{Type: typ, Confidence: 1}
	}
	for _, p := range namePatterns {
		if p.re.MatchString(normalized) {
			return Classification{Type: p.typ, Confidence: p.confidence}
		}
	}
	return Classification{Type: TypeUnknown}
}
