package repository

import "errors"

var (
	// ErrDuplicateAccount is returned by Insert when the account number is
	// already stored.
	ErrDuplicateAccount = errors.New("account number already exists")

	// ErrAccountNotFound is returned by status updates and lookups on an
	// account number the store does not hold.
	ErrAccountNotFound = errors.New("account not found")
)
