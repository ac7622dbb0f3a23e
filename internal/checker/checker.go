package checker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Gateway is the interface the checker needs from the gateway package.
// Implementations must be safe for concurrent use: one call runs per
// in-flight job.
type Gateway interface {
	// RunAutomation executes the step list against one profile and
	// returns the raw structured response. Any error is treated as a
	// job failure for that profile only.
	RunAutomation(ctx context.Context, profileID string, steps []map[string]any) (map[string]any, error)
}

// Scenario is the interface the checker needs from the scenario package.
// The checker never inspects step content; it only forwards the ordered
// payload to the gateway.
type Scenario interface {
	Payload() []map[string]any
}

// Logger is the interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger discards all log output.
type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}
func (noopLogger) Warn(string, ...any) {}

// Checker runs the authorization scenario across many profiles with
// bounded concurrency.
//
// The scenario and gateway are shared read-only across all concurrent jobs;
// each job owns its own result exclusively. One job's failure never affects
// another job or the run as a whole.
type Checker struct {
	gateway     Gateway
	scenario    Scenario
	profiles    []Profile
	concurrency int64
	logger      Logger

	// onResult, when set, is invoked once per finished job, from the
	// job's own goroutine. Used for progress streaming and metrics.
	onResult func(ProfileCheckResult)
}

// New creates a Checker.
//
// Concurrency values below 1 are clamped to 1 so the checker always makes
// forward progress.
func New(gw Gateway, sc Scenario, profiles []Profile, concurrency int) *Checker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Checker{
		gateway:     gw,
		scenario:    sc,
		profiles:    profiles,
		concurrency: int64(concurrency),
		logger:      noopLogger{},
	}
}

// SetLogger sets a logger for per-job progress logging.
func (c *Checker) SetLogger(logger Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// SetOnResult sets a callback invoked once per finished job.
// Must be set before Run is called. The callback may be invoked from
// multiple goroutines concurrently and must be safe for that.
func (c *Checker) SetOnResult(fn func(ProfileCheckResult)) {
	c.onResult = fn
}

// Run executes one automation job per profile and returns the complete
// result list.
//
// At most the configured number of jobs run concurrently; the rest wait
// for a free slot. Run returns only after every job has reached a terminal
// state. The returned slice has exactly one entry per input profile, in
// input order, regardless of completion order or how many jobs fail.
//
// Run itself fails only when the profile list is empty. Individual job
// failures are recorded in their result entries.
func (c *Checker) Run(ctx context.Context) ([]ProfileCheckResult, error) {
	if len(c.profiles) == 0 {
		return nil, ErrNoProfiles
	}

	c.logger.Info("starting authorization check run",
		"profiles", len(c.profiles),
		"concurrency", c.concurrency,
	)

	// Results are written by index so output order is input order, not
	// completion order.
	results := make([]ProfileCheckResult, len(c.profiles))
	sem := semaphore.NewWeighted(c.concurrency)
	var wg sync.WaitGroup

	for i, profile := range c.profiles {
		wg.Add(1)
		go func(idx int, p Profile) {
			defer wg.Done()
			results[idx] = c.runSingle(ctx, p, sem)
		}(i, profile)
	}

	// Join barrier: every scheduled job is terminal before Run returns.
	wg.Wait()

	return results, nil
}

// runSingle executes the scenario for one profile and always produces a
// result, converting any gateway error or panic into a failed entry.
func (c *Checker) runSingle(ctx context.Context, profile Profile, sem *semaphore.Weighted) (result ProfileCheckResult) {
	result = ProfileCheckResult{
		ProfileID:   profile.ID,
		Label:       profile.Label,
		StartedAt:   time.Now().UTC(),
		RawResponse: map[string]any{},
	}

	// A panicking Gateway implementation must not take the run down with
	// it; it fails this job only.
	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Details = nil
			result.Error = fmt.Sprintf("automation job panicked: %v", r)
			c.logger.Warn("automation job panicked",
				"profile_id", profile.ID,
				"panic", r,
			)
		}
		result.FinishedAt = time.Now().UTC()
		if c.onResult != nil {
			c.onResult(result)
		}
	}()

	if err := sem.Acquire(ctx, 1); err != nil {
		// Context ended while waiting for a slot; the job never started.
		result.Error = fmt.Sprintf("waiting for job slot: %v", err)
		return result
	}
	// Released on return so a panicking gateway cannot strand the slot.
	defer sem.Release(1)

	raw, err := c.gateway.RunAutomation(ctx, profile.ID, c.scenario.Payload())
	if err != nil {
		result.Error = err.Error()
		if result.Error == "" {
			result.Error = "automation job failed"
		}
		c.logger.Warn("profile check failed",
			"profile_id", profile.ID,
			"error", err,
		)
		return result
	}

	if raw != nil {
		result.RawResponse = raw
	}
	result.Details = interpretResponse(raw)
	result.Success = true

	c.logger.Info("profile check completed",
		"profile_id", profile.ID,
		"authorized", result.Details.Authorized,
	)
	return result
}
