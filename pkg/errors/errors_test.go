package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodeCatalogError, "failed to list targets", cause)

	require.EqualError(t, err, "failed to list targets: connection refused")
	require.ErrorIs(t, err, cause)
	require.True(t, IsCode(err, CodeCatalogError))
}

func TestCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", Wrap(CodeNotFound, "observer not found", nil))
	require.Equal(t, CodeNotFound, Code(err))
	require.False(t, IsCode(err, CodeInvalidInput))
	require.Empty(t, Code(errors.New("plain")))
}
