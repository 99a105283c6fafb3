package errors

import "errors"

var (
	// ErrUserNotFound is returned when the targeted user id matches no row.
	ErrUserNotFound = errors.New("user not found")
	// ErrNoUsersMatched is returned when none of the ids in a batch
	// operation matched a row.
	ErrNoUsersMatched = errors.New("no users matched")
)

// ErrorResponse is the body of every non-validation error reply.
type ErrorResponse struct {
	Message string `json:"message"`
}

// FieldError describes a single failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResponse is the 400 body carrying field-level errors.
type ValidationResponse struct {
	Errors []FieldError `json:"errors"`
}
