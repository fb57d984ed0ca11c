package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError - доменная ошибка, которую видит вызывающая сторона
type AppError struct {
	Type       string                 `json:"error_type"`
	Message    string                 `json:"message"`
	Hint       string                 `json:"hint,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
	Err        error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is сравнивает ошибки по виду. range_exceeded является частным случаем bad_input.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Type == e.Type {
		return true
	}
	return t.Type == TypeBadInput && e.Type == TypeRangeExceeded
}

func New(errorType, message string, statusCode int) *AppError {
	return &AppError{
		Type:       errorType,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithDetails возвращает копию ошибки с деталями
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// NewBadInput - некорректный ввод вызывающей стороны
func NewBadInput(message, hint string) *AppError {
	err := New(TypeBadInput, message, StatusFor(TypeBadInput))
	err.Hint = hint
	return err
}

// NewRangeExceeded - диапазон дат больше допустимого
func NewRangeExceeded(message, hint string) *AppError {
	err := New(TypeRangeExceeded, message, StatusFor(TypeRangeExceeded))
	err.Hint = hint
	return err
}

// NewUpstreamUnavailable - ошибка обращения к upstream API.
// reason попадает в details, пользователю отдаётся общее сообщение.
func NewUpstreamUnavailable(reason string, cause error) *AppError {
	if cause == nil {
		cause = stderrors.New(reason)
	}
	return &AppError{
		Type:       TypeUpstreamUnavailable,
		Message:    upstreamMessage,
		Hint:       upstreamHint,
		Details:    map[string]interface{}{"reason": reason},
		StatusCode: StatusFor(TypeUpstreamUnavailable),
		Err:        cause,
	}
}

// NewResolutionFailed - не удалось определить позиции отправления/прибытия
func NewResolutionFailed(message string, cause error) *AppError {
	return &AppError{
		Type:       TypeResolutionFailed,
		Message:    message,
		Hint:       resolutionHint,
		StatusCode: StatusFor(TypeResolutionFailed),
		Err:        cause,
	}
}

// NewConfigurationError - ошибка конфигурации при старте
func NewConfigurationError(message string, cause error) *AppError {
	return &AppError{
		Type:       TypeConfiguration,
		Message:    message,
		StatusCode: StatusFor(TypeConfiguration),
		Err:        cause,
	}
}

// As извлекает *AppError из цепочки ошибок
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// FromError приводит любую ошибку к *AppError, неизвестные становятся internal_error
func FromError(err error) *AppError {
	if appErr, ok := As(err); ok {
		return appErr
	}
	return &AppError{
		Type:       ErrInternalServer.Type,
		Message:    ErrInternalServer.Message,
		StatusCode: ErrInternalServer.StatusCode,
		Err:        err,
	}
}
