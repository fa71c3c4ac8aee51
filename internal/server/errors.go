// Package server provides the HTTP REST API for the career recommender.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/career-recommender/internal/db"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Wrapped errors are unwrapped.
func HTTPStatus(err error) int {
	var (
		emailErr      *ErrEmailAlreadyExists
		credErr       *ErrInvalidCredentials
		notFoundErr   *ErrUserNotFound
		validationErr *ErrValidation
	)
	switch {
	case errors.As(err, &emailErr), errors.Is(err, db.ErrEmailTaken):
		return http.StatusConflict
	case errors.As(err, &credErr):
		return http.StatusUnauthorized
	case errors.As(err, &notFoundErr), errors.Is(err, db.ErrCareerNotFound):
		return http.StatusNotFound
	case errors.As(err, &validationErr), errors.Is(err, db.ErrRecommendationExists):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
