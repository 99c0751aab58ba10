package services

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ValidationError is user-correctable bad input, surfaced with the
// offending field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError maps to a 404 at the HTTP boundary.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: id %d", e.Resource, e.ID)
}

func NewNotFoundError(resource string, id uint) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ExternalServiceError means a dependency outside the system refused or
// failed. It is distinct from an empty result set; Retryable hints
// whether the caller may try again later.
type ExternalServiceError struct {
	Service   string
	Message   string
	Retryable bool
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Service, e.Message)
}

const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a postgres unique-constraint
// failure, used to turn duplicate usernames/emails into ValidationErrors
// instead of opaque 500s.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	return false
}
