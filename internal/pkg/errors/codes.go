package errors

import "net/http"

const (
	TypeBadInput            = "bad_input"
	TypeRangeExceeded       = "range_exceeded"
	TypeUpstreamUnavailable = "upstream_unavailable"
	TypeResolutionFailed    = "resolution_failed"
	TypeConfiguration       = "configuration_error"
	TypeInternal            = "internal_error"
)

const (
	upstreamMessage = "The external travel data provider is currently unavailable."
	upstreamHint    = "This is a temporary issue. Please try your request again in a few moments."
	resolutionHint  = "Could not find a match for the provided location. Try being more specific or check for typos."
)

// Виды ошибок для errors.Is
var (
	ErrBadInput            = New(TypeBadInput, "Invalid input", http.StatusBadRequest)
	ErrRangeExceeded       = New(TypeRangeExceeded, "Range exceeded", http.StatusBadRequest)
	ErrUpstreamUnavailable = New(TypeUpstreamUnavailable, upstreamMessage, http.StatusBadGateway)
	ErrResolutionFailed    = New(TypeResolutionFailed, "Location resolution failed", http.StatusUnprocessableEntity)
	ErrConfiguration       = New(TypeConfiguration, "Configuration error", http.StatusInternalServerError)
	ErrInternalServer      = New(TypeInternal, "Internal server error", http.StatusInternalServerError)
)

// StatusFor возвращает HTTP статус для вида ошибки
func StatusFor(errorType string) int {
	switch errorType {
	case TypeBadInput, TypeRangeExceeded:
		return http.StatusBadRequest
	case TypeUpstreamUnavailable:
		return http.StatusBadGateway
	case TypeResolutionFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
