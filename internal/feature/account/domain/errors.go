// Package domain defines domain-level errors for the account feature.
package domain

import "errors"

// Domain errors for signup and login.
// Upper layers map them to user-facing messages; none of them carries driver detail.
var (
	// ErrDuplicateAccount indicates that the username or the email is already registered.
	ErrDuplicateAccount = errors.New("username or email already exists")

	// ErrAccountNotFound indicates that no account matched the lookup.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidCredentials is returned by login for an unknown account or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrStorage indicates an infrastructure fault: the database or password hashing failed.
	// The underlying cause is logged where it happens and is not wrapped into this error.
	ErrStorage = errors.New("storage error")
)
