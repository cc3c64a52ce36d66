package usecase

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyMember      = errors.New("member already active")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries the offending field so the transport layer can
// tag the 400 response with it.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Msg }
