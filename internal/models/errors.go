package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the store, the quota rules and the session service.
var (
	ErrPersistence      = errors.New("persistence error")
	ErrQuotaExceeded    = errors.New("quota exceeded")
	ErrPermissionDenied = errors.New("permission denied")
	ErrCollaborator     = errors.New("collaborator error")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyCompleted = errors.New("already completed")
	ErrInvalidInput     = errors.New("invalid input")
	ErrBusy             = errors.New("operation in progress")
)

// PersistenceError reports a failed read or write of one collection.
type PersistenceError struct {
	Op         string
	Collection string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// UserError pairs an error kind with the message shown to the user.
type UserError struct {
	Kind    error
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *UserError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func NewUserError(kind error, message string, cause error) *UserError {
	return &UserError{Kind: kind, Message: message, Err: cause}
}

// UserMessage extracts the human-readable message, falling back to err.Error().
func UserMessage(err error) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
