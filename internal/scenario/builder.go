package scenario

import "fmt"

// Service describes the target web service the scenario validates.
// It is converted from config.ServiceConfig at wiring time so this package
// stays independent of the configuration layer.
type Service struct {
	Name      string
	TargetURL string

	// LoginIndicators are selectors whose presence indicates an
	// authenticated session; LogoutIndicators the opposite.
	LoginIndicators  []string
	LogoutIndicators []string

	// DisplayNameSelectors locate the account's display name or nickname.
	DisplayNameSelectors []string

	// LoginPathBlocklist lists URL path fragments that signal a login
	// page (treated as not authorized).
	LoginPathBlocklist []string
}

// Step timing constants, tuned for real browser profiles that need time to
// warm up and settle before the page can be inspected.
const (
	stabilizeWaitMS  = 2000
	pageLoadTimeout  = 45000
	settleWaitMinMS  = 3000
	settleWaitMaxMS  = 6000
)

// BuildAuthorizationScenario creates the automation scenario that evaluates
// the authorization state of one profile against the target service.
//
// The step sequence opens the target page in a fresh tab, waits for the
// interface to settle, runs three JavaScript probes that store their
// findings in named variables (service_authorized, service_display_name,
// profile_serial), and closes the browser.
func BuildAuthorizationScenario(svc Service) Scenario {
	return New(
		Step{Kind: "waitTime", Parameters: map[string]any{
			"timeoutType": "fixedValue",
			"timeout":     stabilizeWaitMS,
			"remark":      "stabilize environment",
		}},
		Step{Kind: "newPage", Parameters: map[string]any{}},
		Step{Kind: "closeOtherPage", Parameters: map[string]any{
			"keepCurrent": true,
			"remark":      "ensure single active tab",
		}},
		Step{Kind: "gotoUrl", Parameters: map[string]any{
			"url":       svc.TargetURL,
			"timeout":   pageLoadTimeout,
			"waitUntil": "load",
			"remark":    fmt.Sprintf("open %s target page", svc.Name),
		}},
		Step{Kind: "waitTime", Parameters: map[string]any{
			"timeoutType": "randomInterval",
			"timeoutMin":  settleWaitMinMS,
			"timeoutMax":  settleWaitMaxMS,
			"remark":      "allow interface to settle",
		}},
		scriptStep(loginDetectionScript(svc), "service_authorized", "detect authorization state"),
		scriptStep(displayNameScript(), "service_display_name", "capture display name"),
		scriptStep(profileSerialScript(), "profile_serial", "detect profile serial"),
		Step{Kind: "closeBrowser", Parameters: map[string]any{}},
	)
}

// scriptStep wraps a JavaScript snippet in the RPA service's javaScript
// step form, storing the snippet's return value in the named variable.
func scriptStep(content, variable, remark string) Step {
	return Step{
		Kind: "javaScript",
		Parameters: map[string]any{
			"params":   []any{},
			"content":  content,
			"variable": variable,
			"remark":   remark,
		},
	}
}
