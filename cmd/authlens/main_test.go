package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunVersion(t *testing.T) {
	if err := run(context.Background(), []string{"version"}); err != nil {
		t.Errorf("run(version) error = %v", err)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	err := run(context.Background(), []string{"frobnicate"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("run(frobnicate) error = %v, want unknown command", err)
	}
}

func TestRunCheckMissingConfig(t *testing.T) {
	err := run(context.Background(), []string{"check", "--config", "/does/not/exist.yaml"})
	if err == nil {
		t.Error("run(check) with missing config expected error")
	}
}

func writeTestConfig(t *testing.T, rpaURL string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`
service:
  name: Discord
  target_url: https://discord.com/channels/@me
rpa:
  base_url: %s
  timeout_seconds: 5
profiles:
  - id: profile-01
    label: main
concurrency: 2
history:
  enabled: true
  path: %s
`, rpaURL, filepath.Join(dir, "history.db"))
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return path
}

func TestRunCheckEndToEnd(t *testing.T) {
	rpa := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"code":0,"data":{"variables":{"service_authorized":"true","service_display_name":"Alice"}}}`)
	}))
	defer rpa.Close()

	cfgPath := writeTestConfig(t, rpa.URL)

	// Reports go to stdout; discard them for the test.
	old := os.Stdout
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("opening %s: %v", os.DevNull, err)
	}
	os.Stdout = devNull
	defer func() {
		os.Stdout = old
		devNull.Close()
	}()

	if err := run(context.Background(), []string{"check", "--config", cfgPath, "--format", "json"}); err != nil {
		t.Errorf("run(check) error = %v", err)
	}
}
