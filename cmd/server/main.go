package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"flowdex/backend/internal/api"
	"flowdex/backend/internal/catalog"
	"flowdex/backend/internal/config"
	"flowdex/backend/internal/logging"
	"flowdex/backend/internal/mcp"
	"flowdex/backend/internal/repository"
	"flowdex/backend/internal/services"
	"flowdex/backend/internal/tls"
)

func main() {
	ctx := context.Background()

	// Parse command line flags
	configFile := flag.String("config", "", "Path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Configuration loading failed: %v", err)
	}

	// Initialize logging
	logger := logging.NewLogger(cfg.Log.Level)
	logger.Info("Starting workflow catalog service",
		"data_dir", cfg.Data.Dir,
		"detail_backend", cfg.Detail.Backend,
	)

	// Load the corpus. A load failure here is fatal; once resident the
	// snapshot serves all queries without further I/O.
	snap, err := catalog.Load(cfg.Data.Dir)
	if err != nil {
		logger.Error("failed to load corpus", "error", err)
		log.Fatalf("Corpus loading failed: %v", err)
	}
	holder := catalog.NewHolder(snap)
	logger.Info("Corpus loaded", "snapshot_id", snap.ID(), "workflows", snap.Len())

	// Initialize the detail store
	details, cleanup, err := initDetailStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize detail store", "error", err)
		log.Fatalf("Detail store initialization failed: %v", err)
	}
	defer cleanup()

	// Initialize service layer
	catalogService := services.NewCatalog(cfg.Data.Dir, holder, details, logger)
	logger.Info("Service layer initialized")

	// Optional scheduled corpus reloads. A failed reload keeps serving the
	// previous snapshot.
	if cfg.Data.ReloadCron != "" {
		c := cron.New()
		_, err := c.AddFunc(cfg.Data.ReloadCron, func() {
			if err := catalogService.Reload(ctx); err != nil {
				logger.Error("scheduled corpus reload failed", "error", err)
			}
		})
		if err != nil {
			logger.Error("invalid reload cron expression", "expr", cfg.Data.ReloadCron, "error", err)
			log.Fatalf("Invalid reload cron expression: %v", err)
		}
		c.Start()
		defer c.Stop()
		logger.Info("Scheduled corpus reloads enabled", "cron", cfg.Data.ReloadCron)
	}

	// Create Echo server
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware("flowdex"))

	// Mount REST API handlers
	apiGroup := e.Group("/api/v1")
	apiServer := api.NewServer(catalogService, logger)
	api.RegisterHandlers(apiGroup, apiServer)
	e.GET("/healthz", apiServer.HandleHealth)

	logger.Info("REST API handlers mounted")

	// Mount MCP protocol handlers
	mcpServer := mcp.NewServer(catalogService)
	mcpHandlers := http.NewServeMux()
	mcp.MountHTTPHandlers(mcpHandlers, mcpServer.GetMCPServer())
	e.Any("/mcp/*", echo.WrapHandler(mcpHandlers))

	logger.Info("MCP protocol handlers mounted")

	// Create HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", addr, "tls", cfg.TLS.Enable)
		if cfg.TLS.Enable {
			if cfg.TLS.CertFile == "" || cfg.TLS.KeyFile == "" {
				logger.Error("TLS enabled but cert/key file not provided")
				serverErrors <- server.ListenAndServe()
				return
			}
			// generate if missing and hostnames provided
			if _, err := os.Stat(cfg.TLS.CertFile); os.IsNotExist(err) {
				if len(cfg.TLS.Hostnames) > 0 {
					if err := tls.GenerateSelfSignedCert(cfg.TLS.CertFile, cfg.TLS.KeyFile, cfg.TLS.Hostnames); err != nil {
						logger.Error("failed to generate self-signed cert", "error", err)
					}
				}
			}
			serverErrors <- server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	// Wait for shutdown signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		logger.Info("Shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			if err := server.Close(); err != nil {
				logger.Error("Server close error", "error", err)
			}
		}

		logger.Info("Server stopped gracefully")
	}
}

// initDetailStore opens the configured definition backend. The filesystem
// backend reads <data dir>/workflows/<id>.json; the Postgres backend serves
// blobs imported with `corpus import`.
func initDetailStore(ctx context.Context, cfg *config.Config) (repository.DetailStore, func(), error) {
	switch cfg.Detail.Backend {
	case "postgres":
		connStr := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
		)
		pool, err := pgxpool.New(ctx, connStr)
		if err != nil {
			return nil, nil, fmt.Errorf("create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		return repository.NewPostgresStore(pool), pool.Close, nil
	default:
		dir := filepath.Join(cfg.Data.Dir, catalog.DefinitionsDir)
		return repository.NewFSStore(dir), func() {}, nil
	}
}
