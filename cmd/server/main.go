package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ledgerUseCase "github.com/abdelrahman-aldesoky/bank-server/internal/domain/usecase/ledger"

	"github.com/abdelrahman-aldesoky/bank-server/internal/backup"
	"github.com/abdelrahman-aldesoky/bank-server/internal/infrastructure/adapter/api/handler"
	"github.com/abdelrahman-aldesoky/bank-server/internal/infrastructure/adapter/api/routes"
	"github.com/abdelrahman-aldesoky/bank-server/internal/infrastructure/adapter/database"
	"github.com/abdelrahman-aldesoky/bank-server/internal/infrastructure/adapter/database/migration"
	"github.com/abdelrahman-aldesoky/bank-server/internal/infrastructure/adapter/logger"
	timeProvider "github.com/abdelrahman-aldesoky/bank-server/internal/infrastructure/adapter/time"
	"github.com/abdelrahman-aldesoky/bank-server/internal/infrastructure/config"
	"github.com/abdelrahman-aldesoky/bank-server/internal/server"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.Environment == "production", cfg.Logger.Level)
	defer func() { _ = appLogger.Flush() }()

	// Setup database configuration
	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		RetryAttempts:   cfg.Database.RetryAttempts,
		RetryDelay:      cfg.Database.RetryDelay,
	}

	// Initialize time provider
	tp := timeProvider.NewRealTimeProvider()

	// Connect to the ledger store
	dbManager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() { _ = dbManager.Close() }()

	// Run migrations
	migrationMgr := migration.NewManager(dbManager.DB(), appLogger)
	if err := migrationMgr.MigrateAll(context.Background()); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Unit of work (transaction manager) and ledger engine
	uow := database.NewUnitOfWork(dbManager.DB(), appLogger, tp)
	engine := ledgerUseCase.NewEngine(uow, tp, appLogger)

	// Session dispatcher over the banking wire protocol
	tlsConfig, err := loadTLSConfig(cfg.Server)
	if err != nil {
		appLogger.Error("Failed to load TLS configuration", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	router := server.NewRouter(engine, appLogger)
	dispatcher := server.NewDispatcher(server.DispatcherConfig{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		TLS:         tlsConfig,
		MaxSessions: cfg.Server.MaxSessions,
		IdleTimeout: cfg.Server.IdleTimeout,
		Compress:    cfg.Server.Compress,
	}, router, appLogger, tp)

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	if err := dispatcher.Start(rootCtx); err != nil {
		appLogger.Error("Failed to start dispatcher", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	appLogger.Info("Bank server listening", map[string]any{
		"addr":         dispatcher.Addr().String(),
		"tls":          tlsConfig != nil,
		"max_sessions": cfg.Server.MaxSessions,
		"env":          cfg.Environment,
	})

	// Periodic ledger snapshots
	var backupMgr *backup.Manager
	if cfg.Backup.Enabled {
		backupMgr = backup.NewManager(
			database.NewSnapshotSource(dbManager.DB(), tp),
			backup.Config{
				Dir:       cfg.Backup.Dir,
				Interval:  cfg.Backup.Interval,
				Retention: cfg.Backup.Retention,
			},
			appLogger,
			tp,
		)
		go backupMgr.Run(rootCtx)
	}

	// Operational HTTP surface
	var opsServer *http.Server
	if cfg.Ops.Enabled {
		opsRouter := gin.New()
		routes.SetupMiddlewares(opsRouter, appLogger)
		routes.SetupRoutes(opsRouter, handler.NewOpsHandler(dbManager, dispatcher, tp))

		opsServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Ops.Port),
			Handler:           opsRouter,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			appLogger.Info("Ops server listening", map[string]any{"port": cfg.Ops.Port})
			if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLogger.Error("Ops server failed", map[string]any{"error": err.Error()})
			}
		}()
	}

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)
	cancelRoot()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Dispatcher forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	if opsServer != nil {
		if err := opsServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Ops server forced to shutdown", map[string]any{
				"error": err.Error(),
			})
		}
	}

	// One final snapshot so a restart can start from the latest state. It gets
	// its own deadline because a slow drain may have exhausted shutdownCtx.
	if backupMgr != nil {
		backupCtx, cancelBackup := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := backupMgr.BackupNow(backupCtx); err != nil {
			appLogger.Error("Final backup failed", map[string]any{
				"error": err.Error(),
			})
		}
		cancelBackup()
	}

	appLogger.Info("Server exited gracefully", nil)
}

// loadTLSConfig builds the listener TLS configuration, or returns nil when
// the certificate pair is not configured.
func loadTLSConfig(cfg config.ServerConfig) (*tls.Config, error) {
	if !cfg.TLSEnabled() {
		return nil, nil
	}
	cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load key pair: %w", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
