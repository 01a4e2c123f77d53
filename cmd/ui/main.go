package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"house-price-service/internal/adapters/primary/http/middleware"
	"house-price-service/internal/adapters/primary/web"
	"house-price-service/internal/adapters/secondary/apiclient"
	"house-price-service/internal/adapters/secondary/artifact"
	"house-price-service/internal/adapters/secondary/predictionlog"
	"house-price-service/internal/adapters/secondary/telemetry"
	"house-price-service/internal/config"
	"house-price-service/internal/core/services"
	"house-price-service/internal/logger"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logCloser := logger.Init(cfg.Logger)
	defer logCloser.Close()

	backend, err := newBackend(cfg)
	if err != nil {
		log.Fatalf("init backend: %v", err)
	}

	ui, err := web.New(backend)
	if err != nil {
		log.Fatalf("init ui: %v", err)
	}

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())
	ui.RegisterRoutes(router)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": cfg.UI.Mode})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.UI.Host, cfg.UI.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.WithField("mode", cfg.UI.Mode).Infof("starting form UI on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down form UI...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("form UI stopped")
}

// newBackend picks where predictions come from: the API over HTTP, or the
// artifacts loaded into this process.
func newBackend(cfg *config.Config) (web.Backend, error) {
	if cfg.UI.Mode == config.UIModeRemote {
		log.WithField("api_url", cfg.UI.APIURL).Info("form UI calls the prediction API")
		return apiclient.NewClient(cfg.UI.APIURL, cfg.UI.APITimeout), nil
	}

	bundle, err := artifact.Load(artifact.Paths{
		Model:        cfg.Artifacts.ModelPath,
		Preprocessor: cfg.Artifacts.PreprocessorPath,
		Metadata:     cfg.Artifacts.MetadataPath,
	})
	if err != nil {
		return nil, fmt.Errorf("load artifacts: %w", err)
	}
	fileLog, err := predictionlog.NewFileLog(cfg.PredictionLog.Path)
	if err != nil {
		return nil, fmt.Errorf("open prediction log: %w", err)
	}

	svc := services.NewPredictionService(
		bundle.Model,
		bundle.Encoder,
		bundle.Metadata,
		bundle.RawMetadata,
		fileLog,
		telemetry.Noop{},
	)
	log.Info("form UI runs the model in-process")
	return web.NewLocalBackend(svc), nil
}
