package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/authlens/authlens-core/internal/checker"
	"github.com/authlens/authlens-core/internal/history"
)

func strptr(s string) *string { return &s }

func sampleRun() *history.Run {
	base := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	run := history.Summarize("run-1", "Discord", []checker.ProfileCheckResult{
		{
			ProfileID: "profile-01",
			Label:     "main",
			Success:   true,
			Details: &checker.AuthorizationDetails{
				Authorized:  true,
				DisplayName: strptr("Alice"),
			},
			StartedAt:  base,
			FinishedAt: base.Add(4 * time.Second),
		},
		{
			ProfileID:  "profile-02",
			Success:    false,
			Error:      "automation request failed",
			StartedAt:  base,
			FinishedAt: base.Add(time.Second),
		},
	})
	return &run
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, sampleRun()); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"PROFILE", "profile-01", "main", "yes", "Alice",
		"profile-02", "failed", "automation request failed",
		"Discord: 2 profiles, 1 succeeded, 1 authorized",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleRun()); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var decoded history.Run
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.ID != "run-1" || len(decoded.Results) != 2 {
		t.Errorf("decoded run = %+v", decoded)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "yaml", sampleRun()); err == nil {
		t.Error("Write() with unknown format expected error")
	}
}

func TestWriteDispatch(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, sampleRun()); err != nil {
		t.Fatalf("Write(json) error = %v", err)
	}
	if !json.Valid(buf.Bytes()) {
		t.Error("Write(json) did not produce JSON")
	}

	buf.Reset()
	if err := Write(&buf, FormatTable, sampleRun()); err != nil {
		t.Fatalf("Write(table) error = %v", err)
	}
	if !strings.Contains(buf.String(), "PROFILE") {
		t.Error("Write(table) did not produce a table")
	}
}
