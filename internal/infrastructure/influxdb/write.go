package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteProfileCheck records the outcome of one profile job.
//
// The write is non-blocking; points are batched and sent asynchronously.
// Dropped silently when the client is not connected so a flaky metrics
// backend never affects check runs.
//
// Parameters:
//   - service: Display name of the checked service (e.g., "Discord")
//   - profileID: The profile that was checked
//   - success: Whether the automation job completed
//   - authorized: Whether the profile was found logged in
//   - duration: Wall-clock time the job took
func (c *Client) WriteProfileCheck(service, profileID string, success, authorized bool, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"profile_check",
		map[string]string{
			"service": service,
			"profile": profileID,
			"success": strconv.FormatBool(success),
		},
		map[string]interface{}{
			"authorized":  authorized,
			"duration_ms": float64(duration.Milliseconds()),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteRunSummary records aggregate figures for one completed check run.
//
// Parameters:
//   - service: Display name of the checked service
//   - profiles: Number of profiles checked
//   - succeeded: Number of jobs that completed without error
//   - authorized: Number of profiles found logged in
//   - duration: Wall-clock time of the whole run
func (c *Client) WriteRunSummary(service string, profiles, succeeded, authorized int, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"check_run",
		map[string]string{
			"service": service,
		},
		map[string]interface{}{
			"profiles":    profiles,
			"succeeded":   succeeded,
			"authorized":  authorized,
			"duration_ms": float64(duration.Milliseconds()),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
