// Fiya webservice - livestock monitoring backend
//
// This is the main entry point for the Fiya webservice. It serves the
// web client's REST API (authentication, user management, cage
// provisioning) and ingests sensor readings from cage monitors over
// MQTT, with optional InfluxDB history.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/Amdragz/fiya/migrations"

	"github.com/Amdragz/fiya/internal/api"
	"github.com/Amdragz/fiya/internal/auth"
	"github.com/Amdragz/fiya/internal/cage"
	"github.com/Amdragz/fiya/internal/infrastructure/config"
	"github.com/Amdragz/fiya/internal/infrastructure/database"
	"github.com/Amdragz/fiya/internal/infrastructure/influxdb"
	"github.com/Amdragz/fiya/internal/infrastructure/logging"
	"github.com/Amdragz/fiya/internal/infrastructure/mqtt"
	"github.com/Amdragz/fiya/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Fiya webservice",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Wire the auth service
	tokens := auth.NewTokenIssuer(
		cfg.Security.JWT.Secret,
		cfg.Security.JWT.AccessTokenTTL,
		cfg.Security.JWT.RefreshTokenTTL,
	)
	users := auth.NewUserRepository(db.DB)
	sessions := auth.NewSessionRepository(db.DB)
	authSvc := auth.NewService(users, sessions, tokens, log)

	// Connect to InfluxDB (optional)
	var history cage.HistoryWriter
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		history = telemetry.NewHistory(influxClient)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Wire the cage service
	secrets := auth.NewSecretGenerator(cfg.Security.Device.Secret)
	cageRepo := cage.NewRepository(db.DB)
	cageSvc := cage.NewService(cageRepo, cageRepo, users, secrets, history, log)

	// Connect to MQTT broker and start telemetry ingest (optional)
	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT)
		if mqttErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", mqttErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		// #nosec G115 -- QoS validated to 0..2 by config
		ingestor := telemetry.NewIngestor(cageSvc, byte(cfg.MQTT.QoS), log)
		if startErr := ingestor.Start(mqttClient); startErr != nil {
			return fmt.Errorf("starting telemetry ingest: %w", startErr)
		}
	} else {
		log.Info("MQTT disabled")
	}

	// Start the API server
	server, err := api.New(api.Deps{
		Config:  cfg.Server,
		Logger:  log,
		Auth:    authSvc,
		Cages:   cageSvc,
		DB:      db,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.Server.Host, "port", cfg.Server.Port)

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. MQTT (if enabled)
	// 3. InfluxDB (if enabled)
	// 4. Database

	log.Info("Fiya webservice stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses FIYA_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("FIYA_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
