// Package scenario defines the ordered automation step sequences sent to
// the RPA service, and builds the authorization-check scenario from a
// service description.
//
// A Scenario is immutable data: the checker forwards it unchanged, the RPA
// service interprets it. The JavaScript probes inside the generated steps
// are opaque payload from this system's point of view.
package scenario
