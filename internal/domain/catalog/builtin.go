package catalog

import (
	_ "embed"
	"strings"
	"sync"
)

//go:embed builtin.csv
var builtinCSV string

var (
	builtinOnce    sync.Once
	builtinTargets []Target
)

// Builtin returns the bundled bright deep-sky list used when no catalog
// database is configured. Callers receive their own copy.
func Builtin() []Target {
	builtinOnce.Do(func() {
		// the document is part of the binary, a parse failure is a build defect
		targets, skipped, err := ReadTargets(strings.NewReader(builtinCSV))
		if err != nil || skipped > 0 {
			panic("catalog: bundled catalog is malformed")
		}
		builtinTargets = targets
	})
	out := make([]Target, len(builtinTargets))
	for i, t := range builtinTargets {
		out[i] = t.Clone()
	}
	return out
}

// Clone detaches the optional fields from the receiver.
func (t Target) Clone() Target {
	out := t
	if t.Magnitude != nil {
		v := *t.Magnitude
		out.Magnitude = &v
	}
	if t.SizeArcmin != nil {
		v := *t.SizeArcmin
		out.SizeArcmin = &v
	}
	return out
}
