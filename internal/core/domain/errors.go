package domain

import "errors"

// Security-relevant rejections. Only the token issuer and the access guard
// produce these; everything else propagates them unchanged.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the response cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account deactivated")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrPrincipalNotFound  = errors.New("principal not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("access forbidden")
	ErrSessionNotFound    = errors.New("session not found")
)
