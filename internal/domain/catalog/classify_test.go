package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDesignation(t *testing.T) {
	cases := map[string]string{
		"m42":        "M42",
		"Messier 31": "M31",
		"M 13":       "M13",
		"ngc7000":    "NGC 7000",
		"NGC  253":   "NGC 253",
		"ic434":      "IC 434",
		"Mizar":      "MIZAR",
		"Icarus":     "ICARUS",
	}
	for in, want := range cases {
		require.Equal(t, want, NormalizeDesignation(in), in)
	}
}

func TestClassifyKnownObjects(t *testing.T) {
	require.Equal(t, Classification{Type: TypeEmissionNebula, Confidence: 1}, Classify("M42"))
	require.Equal(t, TypeGalaxy, Classify("messier 31").Type)
	require.Equal(t, TypePlanetaryNebula, Classify("ngc 7293").Type)
	require.Equal(t, TypeOpenCluster, Classify("NGC869").Type)
	require.Equal(t, TypeReflectionNebula, Classify("M78").Type)
}

func TestClassifyNamePatterns(t *testing.T) {
	got := Classify("Sh2-155")
	require.Equal(t, TypeEmissionNebula, got.Type)
	require.InDelta(t, 0.9, got.Confidence, 1e-9)

	require.Equal(t, TypeStarField, Classify("B 33").Type)
	require.Equal(t, TypeEmissionNebula, Classify("LBN 331").Type)
	require.Equal(t, TypeReflectionNebula, Classify("vdB 142").Type)
	require.Equal(t, TypePlanetaryNebula, Classify("Abell 21").Type)
}

func TestClassifyUnknown(t *testing.T) {
	require.Equal(t, Classification{Type: TypeUnknown}, Classify(""))
	require.Equal(t, Classification{Type: TypeUnknown}, Classify("Albireo"))
}
