// Package database manages the SQLite connection backing the run-history
// store.
//
// It wraps database/sql with WAL and busy-timeout configuration, a health
// check, and embedded schema migrations applied in version order, one
// transaction each.
package database
