package identity

import "errors"

var (
	// ErrMissingEmail is returned when no email address is supplied.
	ErrMissingEmail = errors.New("identity: email is required")
	// ErrInvalidEmail is returned for an address with no @.
	ErrInvalidEmail = errors.New("identity: invalid email address")
	// ErrMissingPassword is returned when no password is supplied.
	ErrMissingPassword = errors.New("identity: password is required")
	// ErrUserNotFound is returned when a user id resolves to nothing.
	ErrUserNotFound = errors.New("identity: user not found")
	// ErrOverwriteNotConfirmed is returned when an assignment would replace
	// an existing elevated role without the confirmation flag set.
	ErrOverwriteNotConfirmed = errors.New("identity: overwriting an elevated role requires confirmation")
)
