// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/cinematch/internal/api"
	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/events"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/supervisor"
	"github.com/tomtom215/cinematch/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// adminTokenTTL bounds tokens minted with -admin-token.
const adminTokenTTL = 24 * time.Hour

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.LoggerConfig())
	metrics.SetAppInfo(version, runtime.Version())

	// Token minting mode: print an admin token for POST /catalog/reload and exit.
	if len(os.Args) > 1 && os.Args[1] == "-admin-token" {
		if err := printAdminToken(cfg); err != nil {
			logging.Fatal().Err(err).Msg("Failed to create admin token")
		}
		return
	}

	logging.Info().
		Str("version", version).
		Str("catalog_source", cfg.Catalog.Source).
		Str("environment", cfg.Server.Environment).
		Bool("admin_auth", cfg.AdminAuthEnabled()).
		Bool("events", cfg.Events.Enabled).
		Msg("Starting Cinematch")

	if !cfg.AdminAuthEnabled() {
		logging.Warn().Msg("ADMIN_JWT_SECRET not set: POST /api/v1/catalog/reload is open")
	}
	if cfg.IsProduction() && cfg.HasWildcardCORS() {
		logging.Warn().Msg("CORS allows any origin in production")
	}

	// Catalog source
	catalogComponents, err := initCatalogSource(cfg, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize catalog source")
	}
	defer func() {
		if err := catalogComponents.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog database")
		}
	}()

	// Recommendation engine
	engine, err := recommend.NewEngine(cfg.EngineConfig(), logging.With().Str("component", "engine").Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}
	engine.SetSource(catalogComponents.Source)
	engine.SetObserver(metrics.EngineObserver{})

	// Event bus (optional)
	var bus *events.Bus
	if cfg.Events.Enabled {
		bus = events.NewBus(events.BusConfig{BufferSize: cfg.Events.BufferSize}, nil)
		engine.SetPublisher(bus)
		defer func() {
			if err := bus.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing event bus")
			}
		}()
		logging.Info().Int64("buffer_size", cfg.Events.BufferSize).Msg("Event bus enabled")
	}

	// Admin authentication (optional)
	var authMiddleware *auth.Middleware
	if cfg.AdminAuthEnabled() {
		jwtManager, err := auth.NewJWTManager(cfg.Security.AdminJWTSecret, adminTokenTTL)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize admin authentication")
		}
		authMiddleware = auth.NewMiddleware(jwtManager)
	}

	// Catalog service owns every reload, including the HTTP-triggered ones.
	catalogService := services.NewCatalogService(
		engine,
		services.CatalogServiceConfigFrom(cfg),
		logging.Logger(),
	)

	handler := api.NewHandler(engine, catalogService, cfg)
	chiMiddleware := api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security))
	router := api.NewRouter(handler, chiMiddleware, authMiddleware)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Reloads may outlast the request timeout; ReloadTimeout bounds them.
		WriteTimeout: maxDuration(cfg.Server.Timeout, cfg.Recommend.ReloadTimeout) + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Create context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	tree.AddCatalogService(catalogService)
	if bus != nil {
		tree.AddMessagingService(services.NewEventListener(bus, engine, events.DefaultRouterConfig(), logging.Logger()))
		logging.Info().Msg("Event listener added to supervisor tree")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// printAdminToken writes a signed admin token to stdout.
func printAdminToken(cfg *config.Config) error {
	jwtManager, err := auth.NewJWTManager(cfg.Security.AdminJWTSecret, adminTokenTTL)
	if err != nil {
		return err
	}
	token, err := jwtManager.GenerateToken("cli", auth.RoleAdmin)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, token)
	return err
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
