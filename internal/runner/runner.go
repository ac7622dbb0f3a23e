package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/authlens/authlens-core/internal/checker"
	"github.com/authlens/authlens-core/internal/history"
	"github.com/authlens/authlens-core/internal/infrastructure/config"
	"github.com/authlens/authlens-core/internal/infrastructure/mqtt"
)

// Publisher is the subset of the MQTT client the runner needs.
type Publisher interface {
	PublishJSON(topic string, payload []byte, retained bool) error
}

// MetricsWriter is the subset of the InfluxDB client the runner needs.
type MetricsWriter interface {
	WriteProfileCheck(service, profileID string, success, authorized bool, duration time.Duration)
	WriteRunSummary(service string, profiles, succeeded, authorized int, duration time.Duration)
}

// EventSink receives live events during a run (the WebSocket hub).
type EventSink interface {
	Broadcast(event Event)
}

// Logger is the subset of logging.Logger the runner needs.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger discards all log output. Used when no logger is configured.
type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Sinks holds the optional destinations a run fans out to.
// Every field may be nil; a nil sink is skipped.
type Sinks struct {
	// History persists the completed run.
	History history.Repository

	// Publisher announces results on the MQTT broker.
	Publisher Publisher

	// Metrics records per-profile and per-run figures.
	Metrics MetricsWriter

	// Events streams progress to live subscribers.
	Events EventSink

	// Logger receives run progress and sink failures.
	Logger Logger
}

// Runner executes profile check runs and distributes their results.
type Runner struct {
	service     string
	gateway     checker.Gateway
	scenario    checker.Scenario
	profiles    []checker.Profile
	concurrency int
	sinks       Sinks
	logger      Logger
}

// New creates a Runner for the profiles and service named in cfg.
func New(cfg *config.Config, gateway checker.Gateway, scenario checker.Scenario, sinks Sinks) *Runner {
	profiles := make([]checker.Profile, 0, len(cfg.Profiles))
	for _, p := range cfg.Profiles {
		profiles = append(profiles, checker.Profile{ID: p.ID, Label: p.Label})
	}

	logger := sinks.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Runner{
		service:     cfg.Service.Name,
		gateway:     gateway,
		scenario:    scenario,
		profiles:    profiles,
		concurrency: cfg.Concurrency,
		sinks:       sinks,
		logger:      logger,
	}
}

// Profiles returns the profiles this runner checks, in input order.
func (r *Runner) Profiles() []checker.Profile {
	out := make([]checker.Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// Execute runs one complete check: every profile is checked through the
// gateway, each result fans out to the live sinks as it arrives, and the
// finished run is summarized and persisted.
//
// runID identifies the run; pass "" to have one generated.
//
// The returned Run is non-nil whenever the checks themselves completed,
// even if persisting to history failed; in that case the error describes
// the persistence failure.
func (r *Runner) Execute(ctx context.Context, runID string) (*history.Run, error) {
	if runID == "" {
		runID = uuid.NewString()
	}

	r.logger.Info("check run starting",
		"run_id", runID,
		"service", r.service,
		"profiles", len(r.profiles),
		"concurrency", r.concurrency,
	)

	r.emit(newEvent(EventCheckStarted, runID, r.profiles))

	chk := checker.New(r.gateway, r.scenario, r.profiles, r.concurrency)
	chk.SetLogger(r.logger)
	chk.SetOnResult(func(result checker.ProfileCheckResult) {
		r.fanOutResult(runID, result)
	})

	results, err := chk.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("executing check run %s: %w", runID, err)
	}

	run := history.Summarize(runID, r.service, results)

	r.emit(newEvent(EventCheckCompleted, runID, runSummary(run)))
	r.publishRunSummary(run)
	if r.sinks.Metrics != nil {
		r.sinks.Metrics.WriteRunSummary(r.service, run.Profiles, run.Succeeded, run.Authorized, run.Duration())
	}

	r.logger.Info("check run finished",
		"run_id", runID,
		"profiles", run.Profiles,
		"succeeded", run.Succeeded,
		"authorized", run.Authorized,
		"duration", run.Duration(),
	)

	if r.sinks.History != nil {
		if err := r.sinks.History.SaveRun(ctx, run); err != nil {
			return &run, fmt.Errorf("persisting check run %s: %w", runID, err)
		}
	}

	return &run, nil
}

// fanOutResult delivers one profile result to every live sink.
// Called from checker worker goroutines; every sink here must be
// safe for concurrent use.
func (r *Runner) fanOutResult(runID string, result checker.ProfileCheckResult) {
	r.emit(newEvent(EventProfileResult, runID, result))

	if r.sinks.Metrics != nil {
		authorized := result.Details != nil && result.Details.Authorized
		r.sinks.Metrics.WriteProfileCheck(r.service, result.ProfileID, result.Success, authorized, result.Duration())
	}

	if r.sinks.Publisher != nil {
		payload, err := json.Marshal(result)
		if err != nil {
			r.logger.Warn("encoding profile result for mqtt", "profile_id", result.ProfileID, "error", err)
			return
		}
		topic := mqtt.Topics{}.ProfileResult(result.ProfileID)
		if err := r.sinks.Publisher.PublishJSON(topic, payload, true); err != nil {
			r.logger.Warn("publishing profile result", "topic", topic, "error", err)
		}
	}
}

// publishRunSummary announces the finished run on the MQTT summary topic.
func (r *Runner) publishRunSummary(run history.Run) {
	if r.sinks.Publisher == nil {
		return
	}

	payload, err := json.Marshal(runSummary(run))
	if err != nil {
		r.logger.Warn("encoding run summary for mqtt", "run_id", run.ID, "error", err)
		return
	}
	topic := mqtt.Topics{}.RunSummary()
	if err := r.sinks.Publisher.PublishJSON(topic, payload, false); err != nil {
		r.logger.Warn("publishing run summary", "topic", topic, "error", err)
	}
}

// emit sends an event to the live stream when one is configured.
func (r *Runner) emit(event Event) {
	if r.sinks.Events != nil {
		r.sinks.Events.Broadcast(event)
	}
}

// runSummary strips per-profile results from a run for event and MQTT
// payloads; subscribers fetch full results from the API when needed.
func runSummary(run history.Run) history.Run {
	run.Results = nil
	return run
}
