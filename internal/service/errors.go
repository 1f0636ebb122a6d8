package service

import "errors"

// Business error taxonomy shared by all services. Handlers map these to
// HTTP statuses; services never return raw persistence errors for
// expected conditions.
var (
	// ErrNotFound means a referenced id does not resolve to an existing,
	// non-deleted record.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists means a natural-key uniqueness violation
	// (country/region name, school name+region+country, task number+phase,
	// user email).
	ErrAlreadyExists = errors.New("record already exists")

	// ErrInadequateData means a role-specific required field combination
	// is missing.
	ErrInadequateData = errors.New("inadequate data")

	// ErrUnauthorized means the permission matrix denied the action or a
	// role restriction was violated.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotAllowed means a training cycle was requested before the next
	// eligible training date.
	ErrNotAllowed = errors.New("not allowed")

	// ErrInvalidCredentials means a login attempt failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
