package astro

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassDirection maps an azimuth to a 16-point compass rose.
func CompassDirection(azimuth float64) string {
	idx := int(math.Round(normalize360(azimuth)/22.5)) % 16
	return compassPoints[idx]
}

var sexagesimalSeparators = strings.NewReplacer(
	"h", " ", "H", " ", "m", " ", "M", " ", "s", " ", "S", " ",
	"d", " ", "D", " ", "°", " ", "'", " ", "\"", " ", ":", " ", "″", " ", "′", " ",
)

// ParseRA accepts decimal hours ("5.5") or sexagesimal hours ("05 35 17.3",
// "05:35:17.3", "5h35m17.3s") and returns hours in [0,24).
func ParseRA(value string) (float64, bool) {
	fields, sign, ok := splitSexagesimal(value)
	if !ok || sign < 0 {
		return 0, false
	}
	hours, ok := combineSexagesimal(fields)
	if !ok || hours < 0 || hours >= 24 {
		return 0, false
	}
	return hours, true
}

// ParseDec accepts decimal degrees or signed sexagesimal ("-05 23 28",
// "+41:16:09", "-5d23m28s") and returns degrees in [-90,90].
func ParseDec(value string) (float64, bool) {
	fields, sign, ok := splitSexagesimal(value)
	if !ok {
		return 0, false
	}
	degrees, ok := combineSexagesimal(fields)
	if !ok || degrees > 90 {
		return 0, false
	}
	return sign * degrees, true
}

func splitSexagesimal(value string) ([]string, float64, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, 0, false
	}
	sign := 1.0
	switch trimmed[0] {
	case '-':
		sign = -1
		trimmed = trimmed[1:]
	case '+':
		trimmed = trimmed[1:]
	}
	fields := strings.Fields(sexagesimalSeparators.Replace(trimmed))
	if len(fields) == 0 || len(fields) > 3 {
		return nil, 0, false
	}
	return fields, sign, true
}

func combineSexagesimal(fields []string) (float64, bool) {
	total := 0.0
	scale := 1.0
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		if i > 0 && v >= 60 {
			return 0, false
		}
		total += v / scale
		scale *= 60
	}
	return total, true
}

// FormatRA renders hours as "05h 35m 17.30s".
func FormatRA(hours float64) string {
	h, m, s := splitUnits(normalize24(hours))
	if h == 24 {
		h = 0
	}
	return fmt.Sprintf("%02dh %02dm %05.2fs", h, m, s)
}

// FormatDec renders degrees as "-05° 23' 28.00\"".
func FormatDec(degrees float64) string {
	sign := "+"
	if degrees < 0 {
		sign = "-"
	}
	d, m, s := splitUnits(math.Abs(degrees))
	return fmt.Sprintf("%s%02d° %02d' %05.2f\"", sign, d, m, s)
}

// splitUnits rounds to hundredths of a second before splitting, so a value
// just under a minute boundary carries instead of printing 60.00.
func splitUnits(v float64) (int, int, float64) {
	const perUnit = 60 * 60 * 100
	hundredths := int64(math.Round(v * perUnit))
	whole := hundredths / perUnit
	rest := hundredths % perUnit
	return int(whole), int(rest / 6000), float64(rest%6000) / 100
}

// FormatSize renders an angular size given in arc-minutes.
func FormatSize(arcmin float64) string {
	switch {
	case arcmin >= 60:
		return fmt.Sprintf("%.1f°", arcmin/60)
	case arcmin >= 1:
		return fmt.Sprintf("%.1f'", arcmin)
	default:
		return fmt.Sprintf("%.0f\"", arcmin*60)
	}
}
