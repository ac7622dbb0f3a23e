// Package logging provides structured logging for Authlens Core.
//
// It wraps log/slog with level parsing, JSON/text output selection, and
// default service/version fields so every component logs in the same shape.
//
// Never log profile session secrets, RPA API keys, or JWT secrets.
package logging
