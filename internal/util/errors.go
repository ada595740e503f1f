// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmptyUsername      = errors.New("username cannot be empty")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidPIN         = errors.New("pin must be exactly 4 digits")
	ErrInvalidCredentials = errors.New("wrong username or pin") // Never says which part was wrong
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrSessionClosed      = errors.New("session is closed")
)

// IsError reports whether any error in err's chain matches target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
