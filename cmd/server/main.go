// Command server runs the tenant administration API: the control plane that
// provisions, suspends, restores, and purges schema-isolated water-utility
// tenants.
//
// Startup order:
//  1. Load .env (best effort) and environment configuration
//  2. Configure global logging (zerolog)
//  3. Open the control-plane database and run migrations
//  4. Select the schema provisioner for the active driver
//  5. Set up OpenTelemetry tracing (optional)
//  6. Build the Gin engine, register routes, and serve with graceful shutdown
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/distroapp/go-tenant-backend/internal/config"
	httpapi "github.com/distroapp/go-tenant-backend/internal/http"
	"github.com/distroapp/go-tenant-backend/internal/observability"
	"github.com/distroapp/go-tenant-backend/internal/repo"
	"github.com/distroapp/go-tenant-backend/internal/schema"
	"github.com/distroapp/go-tenant-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; real deployments configure via the environment.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	db, prov, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open control-plane store")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate control-plane store")
	}

	ctx := context.Background()
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("setup opentelemetry")
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, db, prov, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("driver", cfg.DB.Driver).
			Str("version", version).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Block until SIGINT/SIGTERM, then drain in-flight requests.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	log.Info().Msg("bye")
}

// openStore opens the configured control-plane database and pairs it with the
// matching schema provisioner. Postgres gets real CREATE/DROP SCHEMA support;
// SQLite (dev, tests) falls back to a no-op provisioner since it has no
// schema namespaces.
func openStore(cfg config.Config) (*gorm.DB, schema.Provisioner, error) {
	switch cfg.DB.Driver {
	case "postgres":
		db, err := repo.OpenPostgres(cfg.DB.DSN)
		if err != nil {
			return nil, nil, err
		}
		return db, schema.NewPostgresProvisioner(db), nil
	default:
		db, err := repo.OpenSQLite(cfg.DB.Path)
		if err != nil {
			return nil, nil, err
		}
		return db, schema.NoopProvisioner{}, nil
	}
}
