// Package mqtt publishes check-run results to an MQTT broker so other
// systems (dashboards, alerting, home-grown tooling) can react to
// authorization changes without polling the API.
//
// The client is a thin publisher wrapping paho.mqtt.golang. It manages the
// broker connection with auto-reconnect, announces its own online/offline
// state on the system status topic (with a Last Will for crash detection),
// and exposes Publish with validation and timeouts. The sink is optional:
// when mqtt.enabled is false the rest of the application never constructs
// a client.
//
// Topic layout:
//
//	authlens/system/status             retained client online/offline state
//	authlens/checks/runs               summary of each completed run
//	authlens/checks/results/{profile}  per-profile outcome as it completes
package mqtt
