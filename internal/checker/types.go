package checker

import "time"

// Profile is one isolated browser-automation identity to validate.
// Profiles are created from configuration and never mutated.
type Profile struct {
	// ID is the RPA profile serial or identifier. Non-empty, trimmed.
	ID string `json:"id"`

	// Label is an optional human-readable name for reports.
	Label string `json:"label,omitempty"`
}

// AuthorizationDetails is the typed projection of the variables extracted
// from one automation response. It exists only on successful jobs.
type AuthorizationDetails struct {
	// Authorized reports whether the target service currently recognises
	// the profile as logged in. Defaults to false on absent or
	// unparseable input.
	Authorized bool `json:"authorized"`

	// DisplayName is the detected account display name, nil when absent
	// or blank after trimming.
	DisplayName *string `json:"display_name,omitempty"`

	// ProfileSerial is the profile serial detected inside the browser
	// session, nil when absent or blank after trimming.
	ProfileSerial *string `json:"profile_serial,omitempty"`

	// RawVariables is the verbatim extracted variable map, kept for
	// diagnostics.
	RawVariables map[string]any `json:"raw_variables"`
}

// ProfileCheckResult is the outcome of one automation job for one profile.
//
// Exactly one result exists per input profile. Results are immutable after
// construction; failed jobs are never retried or merged.
type ProfileCheckResult struct {
	ProfileID string `json:"profile_id"`
	Label     string `json:"label,omitempty"`

	// Success reports whether the job completed and produced Details.
	Success bool `json:"success"`

	// Details is present iff Success is true.
	Details *AuthorizationDetails `json:"details,omitempty"`

	// Error is a human-readable failure message, non-empty iff Success
	// is false.
	Error string `json:"error,omitempty"`

	// StartedAt and FinishedAt bracket the attempt in UTC.
	// FinishedAt is never before StartedAt.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// RawResponse is the verbatim gateway output; an empty map when the
	// job never returned one.
	RawResponse map[string]any `json:"raw_response"`
}

// Duration returns the wall-clock time the attempt took.
func (r ProfileCheckResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
