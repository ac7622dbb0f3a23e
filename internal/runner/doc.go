// Package runner ties the check pipeline together: it executes a batch of
// profile checks and fans each outcome out to the configured sinks.
//
// A Runner owns one fixed configuration of gateway, scenario, and profiles
// plus optional sinks (run history, MQTT, InfluxDB, live event stream).
// Execute runs the whole pipeline once and returns the durable Run record.
// Both the CLI check command and the API's POST /checks handler drive the
// same Runner, so a run behaves identically regardless of how it was
// triggered.
//
// Sinks are best-effort: a failing broker or metrics backend is logged and
// never fails the run. Persisting the run to history is the exception,
// since losing the durable record is worth surfacing to the caller.
package runner
