package checker

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Variable names the automation scenario stores its findings under.
// These match the step definitions produced by the scenario package.
const (
	varAuthorized    = "service_authorized"
	varDisplayName   = "service_display_name"
	varProfileSerial = "profile_serial"
)

// ExtractVariables pulls the named-variable map out of a raw automation
// response.
//
// It looks for a map at response["data"]["variables"] first, then at a
// top-level response["variables"]. When neither is present (or not a map)
// it returns an empty map. It never fails: the worst-case outcome of a
// malformed response is "no variables", not an aborted job.
func ExtractVariables(response map[string]any) map[string]any {
	if data, ok := response["data"].(map[string]any); ok {
		if vars, ok := data["variables"].(map[string]any); ok {
			return vars
		}
	}
	if vars, ok := response["variables"].(map[string]any); ok {
		return vars
	}
	return map[string]any{}
}

// ParseBool coerces an arbitrary variable value to a boolean.
//
// Booleans pass through. Strings match (trimmed, case-insensitive) against
// {"1", "true", "yes", "y"}. Numbers are false only when zero. Everything
// else, including nil, is false. Total over any input: it never fails.
func ParseBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y":
			return true
		}
		return false
	case float64:
		return v != 0
	case float32:
		return v != 0
	case int:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case uint:
		return v != 0
	case uint64:
		return v != 0
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	default:
		return false
	}
}

// CoerceOptionalText coerces an arbitrary variable value to an optional
// trimmed string. Nil input, or input that is blank after trimming,
// yields nil.
func CoerceOptionalText(value any) *string {
	if value == nil {
		return nil
	}
	text := strings.TrimSpace(fmt.Sprintf("%v", value))
	if text == "" {
		return nil
	}
	return &text
}

// interpretResponse builds AuthorizationDetails from a raw gateway response.
// Malformed or missing variable data degrades to default values; it never
// fails the job.
func interpretResponse(response map[string]any) *AuthorizationDetails {
	vars := ExtractVariables(response)
	return &AuthorizationDetails{
		Authorized:    ParseBool(vars[varAuthorized]),
		DisplayName:   CoerceOptionalText(vars[varDisplayName]),
		ProfileSerial: CoerceOptionalText(vars[varProfileSerial]),
		RawVariables:  vars,
	}
}
