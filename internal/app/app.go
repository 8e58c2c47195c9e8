package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/feedforge/multimarket/internal/config"
	"github.com/feedforge/multimarket/internal/db"
	"github.com/feedforge/multimarket/internal/http/api"
	"github.com/feedforge/multimarket/internal/pipeline"
	"github.com/feedforge/multimarket/internal/quota"
	"github.com/feedforge/multimarket/internal/store"
	"github.com/feedforge/multimarket/internal/translator"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ConfigExists reports whether the config file is present.
func ConfigExists(configPath string) bool {
	info, errStat := os.Stat(configPath)
	return errStat == nil && !info.IsDir()
}

// RunServer boots the transformation API server with database-backed
// quota persistence.
func RunServer(ctx context.Context, cfg config.AppConfig, defaultPort int) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)

	fileCfg, errLoad := config.LoadFile(configPath)
	if errLoad != nil {
		return errLoad
	}
	components, errBuild := fileCfg.Build()
	if errBuild != nil {
		return fmt.Errorf("configuration error: %w", errBuild)
	}

	dsn, errDSN := config.LoadDatabaseDSN(configPath)
	if errDSN != nil {
		return errDSN
	}
	conn, errOpen := db.Open(dsn)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	usageStore := store.NewGormUsageStore(conn)
	quotaManager := quota.NewManager(ctx, fileCfg.QuotaLimits(), usageStore, nil)

	client := translator.NewDeepLClient(fileCfg.Translator.APIURL, config.TranslatorAPIKey(), fileCfg.Translator.Timeout.Std())
	translationService := translator.NewService(client, quotaManager, fileCfg.Translator.Attempts, fileCfg.Translator.Backoff.Std())

	pipe := pipeline.New(components.Registry, components.Resolver, components.Normalizer,
		translationService, components.Profiles, fileCfg.Workers)

	runStore := store.NewGormRunStore(conn)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	api.RegisterRoutes(engine, api.Deps{
		DB:       conn,
		Registry: components.Registry,
		Resolver: components.Resolver,
		Pipeline: pipe,
		Quota:    quotaManager,
		Runs:     runStore,
	})

	if defaultPort <= 0 {
		defaultPort = 8318
	}
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", defaultPort),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", defaultPort).Info("server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			return errShutdown
		}
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}
