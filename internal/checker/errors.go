package checker

import "errors"

// Domain errors for the checker package.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNoProfiles is returned by Run when no profiles were supplied.
	// Callers must validate configuration before constructing a Checker;
	// an empty profile list is a precondition violation, not a runtime
	// condition.
	ErrNoProfiles = errors.New("checker: no profiles to check")
)
