package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPError(t *testing.T) {
	err := NewHTTPError(http.StatusNotFound, "Appointment not found")
	assert.Equal(t, "Appointment not found", err.Error())
	assert.Equal(t, http.StatusNotFound, err.Code)
}

func TestErrAccessDenied(t *testing.T) {
	err := ErrAccessDenied("Access denied")
	assert.Equal(t, http.StatusForbidden, err.Code)
	assert.Equal(t, "Access denied", err.Error())
}

func TestHTTPErrorUnwrapsThroughWrapping(t *testing.T) {
	// Handlers map service errors with errors.As, so the code must survive
	// fmt.Errorf wrapping.
	wrapped := fmt.Errorf("loading invoice: %w", ErrAccessDenied("Access denied"))

	var httpErr *HTTPError
	require.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}
