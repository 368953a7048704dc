// Package service holds the business logic between the HTTP surface and
// the store: the token gate every mutating call passes through, the budget
// ledger operations, and the account flow that issues tokens.
package service

import "errors"

var (
	// ErrInvalidToken is the single authorization failure. Missing token,
	// bad signature, unknown user, and stale issue time all collapse into
	// it so callers can't probe which check failed.
	ErrInvalidToken = errors.New("budget: invalid token")

	// ErrInvalidAmount reports a non-numeric income, savings, or budget
	// value. Client-correctable, distinct from auth failures.
	ErrInvalidAmount = errors.New("budget: invalid numeric value")

	// ErrDuplicateTitle reports an add with a title the user already has.
	ErrDuplicateTitle = errors.New("budget: duplicate budget title")

	// ErrInvalidCredentials covers bad username/password on login and
	// password change. Uniform like ErrInvalidToken, for the same reason.
	ErrInvalidCredentials = errors.New("budget: invalid credentials")

	// ErrUsernameTaken reports a signup with an existing username.
	ErrUsernameTaken = errors.New("budget: username already taken")

	// ErrWeakCredentials reports a signup with an unusable username or
	// password (empty, too short, too long).
	ErrWeakCredentials = errors.New("budget: unusable username or password")
)
