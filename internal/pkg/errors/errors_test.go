package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Is(t *testing.T) {
	rangeErr := NewRangeExceeded("Date range exceeds the maximum of 31 days.", "hint")

	assert.True(t, stderrors.Is(rangeErr, ErrRangeExceeded))
	assert.True(t, stderrors.Is(rangeErr, ErrBadInput))
	assert.False(t, stderrors.Is(NewBadInput("bad", ""), ErrRangeExceeded))
	assert.False(t, stderrors.Is(rangeErr, ErrUpstreamUnavailable))

	wrapped := fmt.Errorf("search: %w", NewResolutionFailed("no match", nil))
	assert.True(t, stderrors.Is(wrapped, ErrResolutionFailed))
}

func TestNewUpstreamUnavailable(t *testing.T) {
	cause := stderrors.New("dial tcp: connection refused")
	err := NewUpstreamUnavailable("GET /v2/discovery/results failed", cause)

	assert.Equal(t, TypeUpstreamUnavailable, err.Type)
	assert.Equal(t, "The external travel data provider is currently unavailable.", err.Message)
	assert.NotEmpty(t, err.Hint)
	assert.Equal(t, http.StatusBadGateway, err.StatusCode)
	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Error(), "connection refused")

	withoutCause := NewUpstreamUnavailable("status 503", nil)
	assert.EqualError(t, withoutCause.Unwrap(), "status 503")
}

func TestAppError_JSON(t *testing.T) {
	data, err := json.Marshal(NewBadInput("Autocomplete term cannot be empty.", ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"error_type":"bad_input","message":"Autocomplete term cannot be empty."}`, string(data))

	data, err = json.Marshal(NewResolutionFailed("Could not resolve", stderrors.New("boom")))
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "resolution_failed", body["error_type"])
	assert.Equal(t, resolutionHint, body["hint"])
}

func TestFromError(t *testing.T) {
	appErr := FromError(stderrors.New("unexpected"))
	assert.Equal(t, TypeInternal, appErr.Type)
	assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
	assert.Equal(t, "Internal server error", appErr.Message)
	assert.True(t, stderrors.Is(appErr, ErrInternalServer))

	original := NewBadInput("bad", "")
	assert.Same(t, original, FromError(fmt.Errorf("wrap: %w", original)))
}

func TestWithDetails_DoesNotMutateSentinel(t *testing.T) {
	detailed := ErrBadInput.WithDetails(map[string]interface{}{"field": "date_out"})

	assert.Nil(t, ErrBadInput.Details)
	assert.Equal(t, "date_out", detailed.Details["field"])
}
