// Package checker orchestrates authorization checks across browser
// automation profiles.
//
// A Checker runs one remote automation job per profile through a Gateway,
// bounded by a concurrency limit, and aggregates every outcome into an
// order-preserving result list. Failures are isolated per job: a profile
// whose automation call fails produces a failed ProfileCheckResult and
// nothing else; the run as a whole only errors when given no profiles.
//
// The package also holds the response interpreter: total functions that
// turn an untrusted automation response into typed AuthorizationDetails,
// degrading malformed input to defaults instead of failing.
package checker
