package horizonstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemorySourceLoad(t *testing.T) {
	src := NewMemorySource(map[string]string{
		"backyard.txt": "# az alt\n0 10\n90 25\nbogus line\n180,5\n",
		"empty.txt":    "",
	})
	ctx := context.Background()

	profile, err := src.Load(ctx, "backyard.txt")
	require.NoError(t, err)
	require.Len(t, profile, 3)
	require.Equal(t, 25.0, profile[1].Altitude)

	flat, err := src.Load(ctx, "empty.txt")
	require.NoError(t, err)
	require.Empty(t, flat)

	_, err = src.Load(ctx, "missing.txt")
	require.Error(t, err)

	src.Put("missing.txt", "270 40")
	profile, err = src.Load(ctx, "missing.txt")
	require.NoError(t, err)
	require.Len(t, profile, 1)
}

func TestObjectKey(t *testing.T) {
	require.Equal(t, "horizons/home.txt", objectKey("horizons/", "home.txt"))
	require.Equal(t, "horizons/home.txt", objectKey("horizons", "/home.txt"))
	require.Equal(t, "home.txt", objectKey("", "home.txt"))
}

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "account.r2.cloudflarestorage.com", sanitizeEndpoint("https://account.r2.cloudflarestorage.com/bucket"))
	require.Equal(t, "localhost:9000", sanitizeEndpoint(" http://localhost:9000 "))
	require.Equal(t, "s3.amazonaws.com", sanitizeEndpoint("s3.amazonaws.com"))
}
