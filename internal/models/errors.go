package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes for the API error taxonomy.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidID          = "INVALID_ID"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeSession            = "SESSION_ERROR"
	CodeStorage            = "STORAGE_ERROR"
)

// ErrorResponse is the uniform failure envelope returned by every endpoint.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// AppError is a classified application error carrying a user-facing message.
// The message is what ends up in the response body; the wrapped cause stays
// server-side except for storage errors, which surface the driver text.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError reports a malformed or unprocessable payload.
func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

// NewMissingFieldError reports the first missing required field by its JSON name.
func NewMissingFieldError(field string) *AppError {
	return &AppError{Code: CodeValidation, Message: "Pflichtfeld fehlt: " + field}
}

// NewInvalidIDError reports a path id that is not a positive integer.
func NewInvalidIDError() *AppError {
	return &AppError{Code: CodeInvalidID, Message: "Ungültige ID"}
}

// NewNotFoundError reports that no row matched the request.
func NewNotFoundError() *AppError {
	return &AppError{Code: CodeNotFound, Message: "Nicht gefunden"}
}

// NewUnauthorizedError reports a missing or invalid session.
func NewUnauthorizedError() *AppError {
	return &AppError{Code: CodeUnauthorized, Message: "Nicht angemeldet"}
}

// NewInvalidCredentialsError reports a failed login attempt.
func NewInvalidCredentialsError() *AppError {
	return &AppError{Code: CodeInvalidCredentials, Message: "Ungültige Zugangsdaten"}
}

// NewSessionError reports a session persistence failure during login.
func NewSessionError(err error) *AppError {
	return &AppError{Code: CodeSession, Message: "Session konnte nicht gespeichert werden", Err: err}
}

// NewStorageError wraps any other backing-store failure. The driver message is
// passed through to the client on purpose.
func NewStorageError(err error) *AppError {
	return &AppError{Code: CodeStorage, Message: err.Error(), Err: err}
}

// RespondWithError writes the standardized {ok:false, error} envelope.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var appErr *AppError
	msg := err.Error()
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	return c.Status(status).JSON(ErrorResponse{OK: false, Error: msg})
}
