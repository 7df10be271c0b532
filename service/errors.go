package service

import (
	"errors"
	"fmt"
	"net/http"

	"leetcoders/leetcode"
	"leetcoders/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ErrTypeValidation = "VALIDATION_ERROR"
	ErrTypeAuth       = "AUTH_ERROR"
	ErrTypeForbidden  = "FORBIDDEN"
	ErrTypeNotFound   = "NOT_FOUND"
	ErrTypeConflict   = "CONFLICT"
	ErrTypeUpstream   = "UPSTREAM_UNAVAILABLE"
	ErrTypeDB         = "DB_ERROR"
)

// AppError carries the HTTP status and error type the handler layer renders.
type AppError struct {
	Type    string
	Code    int
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	details := e.Message
	if e.Cause != nil {
		details = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("ErrorType: %s, Code: %d, Details: %s", e.Type, e.Code, details)
}

func (e *AppError) Unwrap() error { return e.Cause }

func createAppError(code int, message, errorType string, cause error) *AppError {
	return &AppError{Type: errorType, Code: code, Message: message, Cause: cause}
}

func validationError(message string) *AppError {
	return createAppError(http.StatusBadRequest, message, ErrTypeValidation, nil)
}

func authError(message string) *AppError {
	return createAppError(http.StatusUnauthorized, message, ErrTypeAuth, nil)
}

func forbiddenError(message string) *AppError {
	return createAppError(http.StatusForbidden, message, ErrTypeForbidden, nil)
}

func notFoundError(message string) *AppError {
	return createAppError(http.StatusNotFound, message, ErrTypeNotFound, nil)
}

func conflictError(message string) *AppError {
	return createAppError(http.StatusConflict, message, ErrTypeConflict, nil)
}

func dbError(message string, cause error) *AppError {
	return createAppError(http.StatusInternalServerError, message, ErrTypeDB, cause)
}

// storeError maps repository sentinels onto the caller-facing taxonomy.
func storeError(err error, notFoundMsg string) *AppError {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return notFoundError(notFoundMsg)
	case errors.Is(err, repository.ErrDuplicate):
		return createAppError(http.StatusConflict, "Resource already exists", ErrTypeConflict, err)
	default:
		return dbError("Database operation failed", err)
	}
}

// fetchError maps leetcode client failures.
func fetchError(err error) *AppError {
	if errors.Is(err, leetcode.ErrUserNotFound) {
		return createAppError(http.StatusNotFound, "User not found on LeetCode", ErrTypeNotFound, err)
	}
	return createAppError(http.StatusBadGateway, "LeetCode is unavailable", ErrTypeUpstream, err)
}

// ErrorType returns the taxonomy type of err, or DB_ERROR for anything
// that did not come through createAppError.
func ErrorType(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Type
	}
	return ErrTypeDB
}

func parseObjectID(hex, what string) (primitive.ObjectID, *AppError) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, validationError(fmt.Sprintf("Invalid %s id", what))
	}
	return id, nil
}
