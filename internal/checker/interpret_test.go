package checker

import (
	"encoding/json"
	"testing"
)

func TestExtractVariables(t *testing.T) {
	tests := []struct {
		name     string
		response map[string]any
		want     map[string]any
	}{
		{
			name: "nested under data",
			response: map[string]any{
				"data": map[string]any{
					"variables": map[string]any{"service_authorized": "true"},
				},
			},
			want: map[string]any{"service_authorized": "true"},
		},
		{
			name:     "top level fallback",
			response: map[string]any{"variables": map[string]any{"a": 1}},
			want:     map[string]any{"a": 1},
		},
		{
			name: "data variables preferred over top level",
			response: map[string]any{
				"data":      map[string]any{"variables": map[string]any{"from": "data"}},
				"variables": map[string]any{"from": "top"},
			},
			want: map[string]any{"from": "data"},
		},
		{
			name:     "empty response",
			response: map[string]any{},
			want:     map[string]any{},
		},
		{
			name:     "empty data",
			response: map[string]any{"data": map[string]any{}},
			want:     map[string]any{},
		},
		{
			name:     "variables not a map",
			response: map[string]any{"data": map[string]any{"variables": "oops"}},
			want:     map[string]any{},
		},
		{
			name:     "data not a map falls through to top level",
			response: map[string]any{"data": 42, "variables": map[string]any{"x": true}},
			want:     map[string]any{"x": true},
		},
		{
			name:     "nil response",
			response: nil,
			want:     map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractVariables(tt.response)
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractVariables() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if gv, ok := got[k]; !ok || gv != v {
					t.Errorf("ExtractVariables()[%q] = %v, want %v", k, gv, v)
				}
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  bool
	}{
		{"nil", nil, false},
		{"bool true", true, true},
		{"bool false", false, false},
		{"string true", "true", true},
		{"string TRUE", "TRUE", true},
		{"string yes upper", "YES", true},
		{"string y", "y", true},
		{"string 1", "1", true},
		{"string padded", "  true  ", true},
		{"string nope", "nope", false},
		{"string empty", "", false},
		{"string zero", "0", false},
		{"float zero", 0.0, false},
		{"float nonzero", 3.5, true},
		{"int zero", 0, false},
		{"int nonzero", 7, true},
		{"json number zero", json.Number("0"), false},
		{"json number nonzero", json.Number("2"), true},
		{"json number garbage", json.Number("x"), false},
		{"slice", []string{"true"}, false},
		{"map", map[string]any{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseBool(tt.input); got != tt.want {
				t.Errorf("ParseBool(%#v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCoerceOptionalText(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  *string
	}{
		{"nil", nil, nil},
		{"blank", "   ", nil},
		{"empty", "", nil},
		{"trimmed", "  Bob  ", strPtr("Bob")},
		{"number", 42, strPtr("42")},
		{"bool", true, strPtr("true")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceOptionalText(tt.input)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("CoerceOptionalText(%#v) = %q, want nil", tt.input, *got)
			case tt.want != nil && got == nil:
				t.Errorf("CoerceOptionalText(%#v) = nil, want %q", tt.input, *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("CoerceOptionalText(%#v) = %q, want %q", tt.input, *got, *tt.want)
			}
		})
	}
}

func TestInterpretResponse_Defaults(t *testing.T) {
	details := interpretResponse(map[string]any{})
	if details.Authorized {
		t.Error("Authorized = true for empty response, want false")
	}
	if details.DisplayName != nil {
		t.Errorf("DisplayName = %q, want nil", *details.DisplayName)
	}
	if details.ProfileSerial != nil {
		t.Errorf("ProfileSerial = %q, want nil", *details.ProfileSerial)
	}
	if details.RawVariables == nil || len(details.RawVariables) != 0 {
		t.Errorf("RawVariables = %v, want empty map", details.RawVariables)
	}
}

func strPtr(s string) *string { return &s }
