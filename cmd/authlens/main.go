// Authlens Core - browser profile authorization checker
//
// Authlens validates the login state of isolated browser profiles against a
// target web service by driving a local RPA automation daemon. It runs as a
// one-shot CLI check or as a long-lived API server with a live event stream.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	_ "github.com/authlens/authlens-core/migrations"

	"github.com/authlens/authlens-core/internal/api"
	"github.com/authlens/authlens-core/internal/gateway"
	"github.com/authlens/authlens-core/internal/history"
	"github.com/authlens/authlens-core/internal/infrastructure/config"
	"github.com/authlens/authlens-core/internal/infrastructure/database"
	"github.com/authlens/authlens-core/internal/infrastructure/influxdb"
	"github.com/authlens/authlens-core/internal/infrastructure/logging"
	"github.com/authlens/authlens-core/internal/infrastructure/mqtt"
	"github.com/authlens/authlens-core/internal/report"
	"github.com/authlens/authlens-core/internal/runner"
	"github.com/authlens/authlens-core/internal/scenario"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// defaultConfigPath is used when neither --config nor AUTHLENS_CONFIG is set.
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run dispatches to the requested subcommand. With no subcommand the
// one-shot check runs, matching the most common invocation.
func run(ctx context.Context, args []string) error {
	command := "check"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command = args[0]
		args = args[1:]
	}

	switch command {
	case "check":
		return runCheck(ctx, args)
	case "serve":
		return runServe(ctx, args)
	case "version":
		fmt.Printf("authlens %s (commit %s, built %s)\n", version, commit, date)
		return nil
	default:
		return fmt.Errorf("unknown command %q (want check, serve, or version)", command)
	}
}

// runCheck executes one check run and prints the report.
func runCheck(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("authlens check", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "path to config file")
	concurrency := flags.Int("concurrency", 0, "override configured worker count")
	format := flags.String("format", report.FormatTable, "report format (table or json)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, log, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *concurrency > 0 {
		cfg.Concurrency = *concurrency
	}

	r, _, cleanup, err := buildRunner(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	run, err := r.Execute(ctx, "")
	if run == nil {
		return err
	}
	if reportErr := report.Write(os.Stdout, *format, run); reportErr != nil {
		return reportErr
	}
	// A persistence failure still printed results; surface it after the report.
	return err
}

// runServe starts the API server and blocks until shutdown.
func runServe(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("authlens serve", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "path to config file")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, log, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	hub := api.NewHub(cfg.WebSocket, log)

	r, repo, cleanup, err := buildRunner(ctx, cfg, log, hub)
	if err != nil {
		return err
	}
	defer cleanup()

	server, err := api.New(api.Deps{
		Config:   cfg.API,
		WS:       cfg.WebSocket,
		Security: cfg.Security,
		Logger:   log,
		Runner:   r,
		History:  repo,
		Hub:      hub,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	return nil
}

// loadConfig loads configuration and builds the configured logger.
func loadConfig(path string) (*config.Config, *logging.Logger, error) {
	log := logging.Default()
	log.Info("starting Authlens Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	if path == "" {
		path = os.Getenv("AUTHLENS_CONFIG")
	}
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded",
		"path", path,
		"service", cfg.Service.Name,
		"profiles", len(cfg.Profiles),
	)

	return cfg, log, nil
}

// buildRunner wires the gateway, scenario, and configured sinks into a
// Runner. The history repository is returned separately so the API server
// can read past runs. The returned cleanup closes every opened connection
// in reverse order.
func buildRunner(ctx context.Context, cfg *config.Config, log *logging.Logger, hub *api.Hub) (*runner.Runner, history.Repository, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	gw := gateway.New(gateway.Config{
		BaseURL: cfg.RPA.BaseURL,
		APIKey:  cfg.RPA.APIKey,
		Timeout: cfg.GetRPATimeout(),
	})
	closers = append(closers, func() {
		if err := gw.Close(); err != nil {
			log.Error("error closing RPA gateway", "error", err)
		}
	})

	sc := scenario.BuildAuthorizationScenario(scenario.Service{
		Name:                 cfg.Service.Name,
		TargetURL:            cfg.Service.TargetURL,
		LoginIndicators:      cfg.Service.Selectors.LoginIndicators,
		LogoutIndicators:     cfg.Service.Selectors.LogoutIndicators,
		DisplayNameSelectors: cfg.Service.Selectors.DisplayName,
		LoginPathBlocklist:   cfg.Service.LoginPathBlocklist,
	})

	sinks := runner.Sinks{Logger: log}
	if hub != nil {
		sinks.Events = hub
	}

	if cfg.History.Enabled {
		db, err := database.Open(ctx, database.Config{
			Path:        cfg.History.Path,
			WALMode:     cfg.History.WALMode,
			BusyTimeout: cfg.History.BusyTimeout,
		})
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("opening history database: %w", err)
		}
		closers = append(closers, func() {
			if err := db.Close(); err != nil {
				log.Error("error closing history database", "error", err)
			}
		})

		if err := db.Migrate(ctx); err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		log.Info("run history enabled", "path", cfg.History.Path)

		sinks.History = history.NewSQLiteRepository(db)
	}

	if cfg.MQTT.Enabled {
		mqttClient, err := mqtt.Connect(cfg.MQTT)
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("connecting to MQTT: %w", err)
		}
		closers = append(closers, func() {
			if err := mqttClient.Close(); err != nil {
				log.Error("error closing MQTT", "error", err)
			}
		})
		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		sinks.Publisher = mqttClient
	}

	if cfg.InfluxDB.Enabled {
		influxClient, err := influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		closers = append(closers, func() {
			if err := influxClient.Close(); err != nil {
				log.Error("error closing InfluxDB", "error", err)
			}
		})
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)

		sinks.Metrics = influxClient
	}

	return runner.New(cfg, gw, sc, sinks), sinks.History, cleanup, nil
}
