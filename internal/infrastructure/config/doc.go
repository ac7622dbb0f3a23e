// Package config loads and validates the Authlens Core configuration.
//
// Configuration comes from a YAML file with hardcoded defaults underneath and
// AUTHLENS_* environment variable overrides on top. Validation runs once at
// load time and collects every problem into a single error, so a broken config
// is rejected before any automation run is scheduled.
//
// The profile list and concurrency limit validated here form the input
// contract of the checker package: at least one profile, each with a
// non-empty (trimmed) id, and a positive concurrency limit.
package config
