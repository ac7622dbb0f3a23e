package history

import (
	"time"

	"github.com/authlens/authlens-core/internal/checker"
)

// Run is the durable record of one completed check run.
type Run struct {
	// ID is the run identifier (a UUID assigned when the run starts).
	ID string `json:"id"`

	// Service is the display name of the checked service.
	Service string `json:"service"`

	// StartedAt and FinishedAt bracket the whole run in UTC.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Profiles is the number of profiles checked.
	Profiles int `json:"profiles"`

	// Succeeded is the number of jobs that completed without error.
	Succeeded int `json:"succeeded"`

	// Authorized is the number of profiles found logged in.
	Authorized int `json:"authorized"`

	// Results holds one entry per input profile, in input order.
	// Omitted from run listings.
	Results []checker.ProfileCheckResult `json:"results,omitempty"`
}

// Duration returns the wall-clock time the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summarize builds a Run from a finished batch of results.
// Counts are derived from the results; StartedAt and FinishedAt span the
// earliest start and latest finish.
func Summarize(id, service string, results []checker.ProfileCheckResult) Run {
	run := Run{
		ID:       id,
		Service:  service,
		Profiles: len(results),
		Results:  results,
	}

	for i, res := range results {
		if i == 0 || res.StartedAt.Before(run.StartedAt) {
			run.StartedAt = res.StartedAt
		}
		if res.FinishedAt.After(run.FinishedAt) {
			run.FinishedAt = res.FinishedAt
		}
		if res.Success {
			run.Succeeded++
			if res.Details != nil && res.Details.Authorized {
				run.Authorized++
			}
		}
	}

	return run
}
