package view

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/gophblog/internal/client/client"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoOverlay        = errors.New("form is not open")
)

const serverHint = "Make sure the server is running."

// ViewError is what lands in the error slot: a user-facing message plus
// the underlying cause.
type ViewError struct {
	Message string
	Cause   error
}

func (e *ViewError) Error() string { return e.Message }
func (e *ViewError) Unwrap() error { return e.Cause }

// failure builds the message for a failed request. Transport failures get
// the server hint appended.
func failure(base string, err error) *ViewError {
	msg := base
	if errors.Is(err, client.ErrUnavailable) {
		msg = strings.TrimSuffix(base, ".") + ". " + serverHint
	}
	return &ViewError{Message: msg, Cause: err}
}

func authFailure(base string, err error) *ViewError {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return &ViewError{Message: "Invalid username or password", Cause: err}
	case errors.Is(err, client.ErrValidation):
		return &ViewError{Message: "Please fill in username and password", Cause: err}
	case errors.Is(err, client.ErrConflict):
		return &ViewError{Message: "Username is already taken", Cause: err}
	}
	return failure(base, err)
}
