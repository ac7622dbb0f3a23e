package history

import "errors"

// ErrRunNotFound indicates that no run exists with the requested ID.
var ErrRunNotFound = errors.New("check run not found")
