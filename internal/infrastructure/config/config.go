package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Authlens Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Service     ServiceConfig   `yaml:"service"`
	RPA         RPAConfig       `yaml:"rpa"`
	Profiles    []ProfileConfig `yaml:"profiles"`
	Concurrency int             `yaml:"concurrency"`
	History     HistoryConfig   `yaml:"history"`
	API         APIConfig       `yaml:"api"`
	WebSocket   WebSocketConfig `yaml:"websocket"`
	MQTT        MQTTConfig      `yaml:"mqtt"`
	InfluxDB    InfluxDBConfig  `yaml:"influxdb"`
	Logging     LoggingConfig   `yaml:"logging"`
	Security    SecurityConfig  `yaml:"security"`
}

// ServiceConfig describes the target web service whose authorization state
// is validated for each profile.
type ServiceConfig struct {
	Name      string          `yaml:"name"`
	TargetURL string          `yaml:"target_url"`
	Selectors SelectorsConfig `yaml:"selectors"`
	// LoginPathBlocklist lists URL path fragments that signal a login page
	// (their presence means the session is not authorized).
	LoginPathBlocklist []string `yaml:"login_path_blocklist"`
}

// SelectorsConfig contains the CSS selectors used by the generated
// automation scenario to identify authorization state and user info.
type SelectorsConfig struct {
	LoginIndicators  []string `yaml:"login_indicators"`
	LogoutIndicators []string `yaml:"logout_indicators"`
	DisplayName      []string `yaml:"display_name"`
}

// RPAConfig contains connection settings for the local RPA automation service.
type RPAConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ProfileConfig identifies a single browser profile to validate.
type ProfileConfig struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

// HistoryConfig contains settings for the SQLite run-history store.
type HistoryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// APIConfig contains HTTP API server settings (serve mode).
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig contains WebSocket event-stream settings.
type WebSocketConfig struct {
	MaxMessageSize int `yaml:"max_message_size"`
	PingInterval   int `yaml:"ping_interval"`
	PongTimeout    int `yaml:"pong_timeout"`
}

// MQTTConfig contains settings for the optional MQTT result sink.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings in seconds.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// InfluxDBConfig contains settings for the optional metrics sink.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SecurityConfig contains security settings for the API server.
type SecurityConfig struct {
	JWT    JWTConfig `yaml:"jwt"`
	APIKey string    `yaml:"api_key"`
}

// JWTConfig contains JWT token settings.
// When Secret is empty the API runs without authentication (local use only).
type JWTConfig struct {
	Secret          string `yaml:"secret"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: AUTHLENS_SECTION_KEY
// For example: AUTHLENS_RPA_BASE_URL, AUTHLENS_JWT_SECRET
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	// Profile IDs are trimmed before validation; surrounding whitespace in
	// config files must not create distinct identities.
	for i := range cfg.Profiles {
		cfg.Profiles[i].ID = strings.TrimSpace(cfg.Profiles[i].ID)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		RPA: RPAConfig{
			BaseURL:        "http://local.adspower.net:50325",
			TimeoutSeconds: 30,
		},
		Concurrency: 3,
		History: HistoryConfig{
			Enabled:     true,
			Path:        "./data/authlens.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8087,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			MaxMessageSize: 4096,
			PingInterval:   30,
			PongTimeout:    10,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "authlens-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Security: SecurityConfig{
			JWT: JWTConfig{
				TokenTTLMinutes: 60,
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: AUTHLENS_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// RPA service
	if v := os.Getenv("AUTHLENS_RPA_BASE_URL"); v != "" {
		cfg.RPA.BaseURL = v
	}
	if v := os.Getenv("AUTHLENS_RPA_API_KEY"); v != "" {
		cfg.RPA.APIKey = v
	}

	// History
	if v := os.Getenv("AUTHLENS_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}

	// API
	if v := os.Getenv("AUTHLENS_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("AUTHLENS_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	// MQTT
	if v := os.Getenv("AUTHLENS_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("AUTHLENS_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("AUTHLENS_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("AUTHLENS_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Security - JWT secret (always override in production serve mode)
	if v := os.Getenv("AUTHLENS_JWT_SECRET"); v != "" {
		cfg.Security.JWT.Secret = v
	}
	if v := os.Getenv("AUTHLENS_API_KEY"); v != "" {
		cfg.Security.APIKey = v
	}
}

// Validate checks the configuration for errors.
//
// Invalid input here is a configuration error: it must be rejected before
// any checker run is scheduled, never discovered mid-run.
func (c *Config) Validate() error {
	var errs []string

	// Service validation
	if c.Service.Name == "" {
		errs = append(errs, "service.name is required")
	}
	if c.Service.TargetURL == "" {
		errs = append(errs, "service.target_url is required")
	} else if u, err := url.Parse(c.Service.TargetURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, "service.target_url must be a valid http(s) URL")
	}

	// RPA validation
	if c.RPA.BaseURL == "" {
		errs = append(errs, "rpa.base_url is required")
	}
	if c.RPA.TimeoutSeconds <= 0 {
		errs = append(errs, "rpa.timeout_seconds must be positive")
	}

	// Profile validation: at least one profile, every ID non-empty after trimming.
	if len(c.Profiles) == 0 {
		errs = append(errs, "at least one profile is required")
	}
	for i, p := range c.Profiles {
		if strings.TrimSpace(p.ID) == "" {
			errs = append(errs, fmt.Sprintf("profiles[%d].id cannot be empty", i))
		}
	}

	if c.Concurrency < 1 {
		errs = append(errs, "concurrency must be a positive integer")
	}

	// History validation
	if c.History.Enabled && c.History.Path == "" {
		errs = append(errs, "history.path is required when history is enabled")
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	// MQTT validation
	if c.MQTT.Enabled && (c.MQTT.QoS < 0 || c.MQTT.QoS > 2) {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// InfluxDB validation
	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	// Security validation. An empty secret disables API auth (local use);
	// a short secret is worse than none because it looks protected.
	const minJWTSecretLength = 32
	if c.Security.JWT.Secret != "" && len(c.Security.JWT.Secret) < minJWTSecretLength {
		errs = append(errs, "security.jwt.secret must be at least 32 characters")
	}
	if c.Security.JWT.Secret != "" && c.Security.APIKey == "" {
		errs = append(errs, "security.api_key is required when security.jwt.secret is set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetRPATimeout returns the RPA call timeout as a Duration.
func (c *Config) GetRPATimeout() time.Duration {
	return time.Duration(c.RPA.TimeoutSeconds) * time.Second
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

// GetTokenTTL returns the JWT token lifetime as a Duration.
func (c *Config) GetTokenTTL() time.Duration {
	return time.Duration(c.Security.JWT.TokenTTLMinutes) * time.Minute
}
