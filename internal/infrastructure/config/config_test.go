package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// validConfig is a minimal configuration that passes validation.
const validConfig = `
service:
  name: "Discord"
  target_url: "https://discord.com/channels/@me"
rpa:
  base_url: "http://127.0.0.1:50325"
  timeout_seconds: 30
profiles:
  - id: "profile-001"
    label: "main account"
  - id: "  profile-002  "
concurrency: 4
history:
  enabled: false
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Service.Name != "Discord" {
		t.Errorf("Service.Name = %q, want %q", cfg.Service.Name, "Discord")
	}
	if cfg.RPA.BaseURL != "http://127.0.0.1:50325" {
		t.Errorf("RPA.BaseURL = %q, want %q", cfg.RPA.BaseURL, "http://127.0.0.1:50325")
	}
	if cfg.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", cfg.Concurrency)
	}
	if len(cfg.Profiles) != 2 {
		t.Fatalf("len(Profiles) = %d, want 2", len(cfg.Profiles))
	}
	// Profile IDs are trimmed on load.
	if cfg.Profiles[1].ID != "profile-002" {
		t.Errorf("Profiles[1].ID = %q, want %q", cfg.Profiles[1].ID, "profile-002")
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.API.Port != 8087 {
		t.Errorf("API.Port = %d, want 8087", cfg.API.Port)
	}
	if got := cfg.GetRPATimeout().Seconds(); got != 30 {
		t.Errorf("GetRPATimeout() = %vs, want 30s", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("AUTHLENS_RPA_BASE_URL", "http://override:9000")
	t.Setenv("AUTHLENS_API_PORT", "9999")

	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.RPA.BaseURL != "http://override:9000" {
		t.Errorf("RPA.BaseURL = %q, want env override", cfg.RPA.BaseURL)
	}
	if cfg.API.Port != 9999 {
		t.Errorf("API.Port = %d, want 9999", cfg.API.Port)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing service name",
			mutate:  func(c *Config) { c.Service.Name = "" },
			wantErr: "service.name",
		},
		{
			name:    "invalid target url",
			mutate:  func(c *Config) { c.Service.TargetURL = "not-a-url" },
			wantErr: "service.target_url",
		},
		{
			name:    "no profiles",
			mutate:  func(c *Config) { c.Profiles = nil },
			wantErr: "at least one profile",
		},
		{
			name:    "blank profile id",
			mutate:  func(c *Config) { c.Profiles[0].ID = "   " },
			wantErr: "profiles[0].id",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Concurrency = 0 },
			wantErr: "concurrency",
		},
		{
			name:    "zero rpa timeout",
			mutate:  func(c *Config) { c.RPA.TimeoutSeconds = 0 },
			wantErr: "rpa.timeout_seconds",
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.Security.JWT.Secret = "short" },
			wantErr: "security.jwt.secret",
		},
		{
			name: "jwt secret without api key",
			mutate: func(c *Config) {
				c.Security.JWT.Secret = strings.Repeat("s", 32)
				c.Security.APIKey = ""
			},
			wantErr: "security.api_key",
		},
		{
			name:    "influxdb enabled without url",
			mutate:  func(c *Config) { c.InfluxDB.Enabled = true },
			wantErr: "influxdb.url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, validConfig))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}
