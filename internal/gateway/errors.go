package gateway

import "errors"

// Domain-specific errors for RPA gateway operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrTransport wraps every failure of an automation call: connection
	// refused, timeout, non-2xx status, or an unparseable body. It marks
	// the failure as belonging to one job, never to the process.
	ErrTransport = errors.New("gateway: transport failure")
)
