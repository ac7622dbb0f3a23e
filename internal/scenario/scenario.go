package scenario

// Step is one ordered unit of remote automation work.
//
// Kind discriminates the step type for the RPA service ("gotoUrl",
// "javaScript", ...); Parameters carry step-specific configuration. The
// checker never inspects either; steps are opaque data between the builder
// and the RPA service.
type Step struct {
	Kind       string
	Parameters map[string]any
}

// Scenario is an immutable ordered sequence of automation steps.
//
// One scenario is shared read-only across all concurrent jobs of a run,
// so it is safe to alias.
type Scenario struct {
	steps []Step
}

// New creates a Scenario from an ordered step list.
// The slice is copied so later mutation by the caller cannot leak in.
func New(steps ...Step) Scenario {
	copied := make([]Step, len(steps))
	copy(copied, steps)
	return Scenario{steps: copied}
}

// Len returns the number of steps.
func (s Scenario) Len() int {
	return len(s.steps)
}

// Steps returns a copy of the ordered step list.
func (s Scenario) Steps() []Step {
	copied := make([]Step, len(s.steps))
	copy(copied, s.steps)
	return copied
}

// Payload renders the scenario in the RPA service's wire form:
// an ordered list of {"type": kind, "config": parameters} objects.
func (s Scenario) Payload() []map[string]any {
	payload := make([]map[string]any, len(s.steps))
	for i, step := range s.steps {
		params := step.Parameters
		if params == nil {
			params = map[string]any{}
		}
		payload[i] = map[string]any{
			"type":   step.Kind,
			"config": params,
		}
	}
	return payload
}
