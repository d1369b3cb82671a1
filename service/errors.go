package service

import (
	"errors"
	"fmt"
)

var (
	ErrRequiredField = errors.New("required field missing")
	ErrNotFound      = errors.New("item not found")
)

// Error is a business-rule failure. Error() returns the client-facing
// message unchanged; errors.Is matches on Kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func requiredField(msg string) error {
	return &Error{Kind: ErrRequiredField, Message: msg}
}

func taskNotFound(id int64) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("Task not found with id: %d", id)}
}
