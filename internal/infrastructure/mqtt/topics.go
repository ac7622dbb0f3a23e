package mqtt

import "fmt"

// Topic prefixes for the Authlens MQTT hierarchy.
const (
	// TopicPrefix is the base for all Authlens topics.
	TopicPrefix = "authlens"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "authlens/system"

	// TopicPrefixChecks is the base for check-run topics.
	TopicPrefixChecks = "authlens/checks"
)

// Topics provides builders for Authlens MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	resultTopic := topics.ProfileResult("profile-01")
//	// Returns: "authlens/checks/results/profile-01"
type Topics struct{}

// SystemStatus returns the topic for the checker's own online/offline state.
// Published retained so subscribers always see the last known state.
//
// Example: authlens/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}

// RunSummary returns the topic for completed check-run summaries.
//
// Example: authlens/checks/runs
func (Topics) RunSummary() string {
	return TopicPrefixChecks + "/runs"
}

// ProfileResult returns the topic for a single profile's check outcome.
// Published retained so the last known authorization state of each profile
// survives subscriber restarts.
//
// Example: authlens/checks/results/profile-01
func (Topics) ProfileResult(profileID string) string {
	return fmt.Sprintf("%s/results/%s", TopicPrefixChecks, profileID)
}
