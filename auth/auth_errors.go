package auth

import "errors"

// InvalidCredentialsErr is the single error both unknown-email and
// wrong-password logins collapse to.
var InvalidCredentialsErr = errors.New("invalid email or password")

// ValidationError reports input that fails the registration policy.
// The message is safe to surface to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
