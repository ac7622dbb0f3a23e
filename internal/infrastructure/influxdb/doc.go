// Package influxdb records check-run metrics in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, non-blocking batched writes, and health monitoring. Two
// measurements are written:
//
//	profile_check  one point per profile job (tags: service, profile,
//	               success; fields: authorized, duration_ms)
//	check_run      one point per completed run (tags: service; fields:
//	               profiles, succeeded, authorized, duration_ms)
//
// The sink is optional: Connect returns ErrDisabled when influxdb.enabled
// is false and the rest of the application never constructs a client.
//
// All methods are safe for concurrent use. Writes are batched according
// to config (batch_size, flush_interval) and errors surface asynchronously
// through the SetOnError callback.
package influxdb
