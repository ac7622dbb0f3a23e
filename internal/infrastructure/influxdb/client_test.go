package influxdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/authlens/authlens-core/internal/infrastructure/config"
)

func TestConnectDisabled(t *testing.T) {
	_, err := Connect(config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestCloseNil(t *testing.T) {
	var client Client
	if err := client.Close(); err != nil {
		t.Errorf("Close() on zero client error = %v", err)
	}
}

func TestHealthCheckDisconnected(t *testing.T) {
	var client Client
	err := client.HealthCheck(context.Background())
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

func TestIsConnectedInitialState(t *testing.T) {
	var client Client
	if client.IsConnected() {
		t.Error("IsConnected() = true for never-connected client")
	}
}

func TestWritesDroppedWhenDisconnected(t *testing.T) {
	// Zero client has no writeAPI; writes must bail out before touching it.
	var client Client
	client.WriteProfileCheck("Discord", "profile-01", true, true, 4*time.Second)
	client.WriteRunSummary("Discord", 3, 2, 1, 10*time.Second)
	client.Flush()
}
