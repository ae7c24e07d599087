package catalog

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/yanqian/skyplan/internal/domain/astro"
)

// Ingestion columns: id,name,ra,dec[,type[,mag[,size[,constellation[,distance]]]]].
// RA and Dec accept decimal or sexagesimal notation. A blank type is filled
// in by Classify.
const minColumns = 4

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// ParseLine parses a single ingestion record. Comments, blank lines and
// malformed records return ok=false.
func ParseLine(line string) (Target, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Target{}, false
	}
	reader := newRecordReader(strings.NewReader(trimmed))
	record, err := reader.Read()
	if err != nil {
		return Target{}, false
	}
	return ParseRecord(record)
}

// ParseRecord converts split columns into a Target.
func ParseRecord(record []string) (Target, bool) {
	if len(record) < minColumns {
		return Target{}, false
	}
	col := func(i int) string {
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	name := col(1)
	id := col(0)
	if id == "" {
		id = Slug(name)
	}
	if id == "" {
		return Target{}, false
	}
	if strings.EqualFold(id, "id") && strings.EqualFold(col(2), "ra") {
		// header row
		return Target{}, false
	}
	if name == "" {
		name = id
	}

	ra, ok := astro.ParseRA(col(2))
	if !ok {
		return Target{}, false
	}
	dec, ok := astro.ParseDec(col(3))
	if !ok {
		return Target{}, false
	}

	target := Target{
		ID:            id,
		Name:          name,
		RA:            ra,
		Dec:           dec,
		Type:          col(4),
		Constellation: col(7),
		Distance:      col(8),
	}
	if target.Type == "" {
		target.Type = Classify(id).Type
		if target.Type == TypeUnknown {
			target.Type = Classify(name).Type
		}
	}
	if raw := col(5); raw != "" {
		mag, ok := parseFinite(raw)
		if !ok {
			return Target{}, false
		}
		target.Magnitude = &mag
	}
	if raw := col(6); raw != "" {
		size, ok := parseFinite(raw)
		if !ok || size < 0 {
			return Target{}, false
		}
		target.SizeArcmin = &size
	}
	return target, true
}

// parseFinite rejects NaN and infinities, which strconv accepts but JSON cannot encode.
func parseFinite(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ReadTargets ingests a whole document and reports how many data records
// were skipped. A bad record never aborts the batch; only read failures of
// the underlying stream are returned as errors.
func ReadTargets(r io.Reader) ([]Target, int, error) {
	reader := newRecordReader(r)
	var (
		targets []Target
		skipped int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			skipped++
			continue
		}
		if err != nil {
			return targets, skipped, err
		}
		target, ok := ParseRecord(record)
		if !ok {
			if !isHeader(record) {
				skipped++
			}
			continue
		}
		targets = append(targets, target)
	}
	return targets, skipped, nil
}

// Slug derives a stable identifier from a display name.
func Slug(name string) string {
	return strings.Trim(slugInvalid.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

func newRecordReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	return reader
}

func isHeader(record []string) bool {
	return len(record) >= 3 && strings.EqualFold(strings.TrimSpace(record[0]), "id") &&
		strings.EqualFold(strings.TrimSpace(record[2]), "ra")
}
