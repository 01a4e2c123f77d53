package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"house-price-service/internal/adapters/primary/http/handlers"
	"house-price-service/internal/adapters/primary/http/middleware"
	"house-price-service/internal/adapters/secondary/artifact"
	"house-price-service/internal/adapters/secondary/postgres"
	"house-price-service/internal/adapters/secondary/predictionlog"
	"house-price-service/internal/adapters/secondary/telemetry"
	"house-price-service/internal/config"
	"house-price-service/internal/core/services"
	"house-price-service/internal/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logCloser := logger.Init(cfg.Logger)
	defer logCloser.Close()

	// Artifacts are required; the process does not start without them.
	bundle, err := artifact.Load(artifact.Paths{
		Model:        cfg.Artifacts.ModelPath,
		Preprocessor: cfg.Artifacts.PreprocessorPath,
		Metadata:     cfg.Artifacts.MetadataPath,
	})
	if err != nil {
		log.Fatalf("load artifacts: %v", err)
	}

	// Prediction log sinks
	fileLog, err := predictionlog.NewFileLog(cfg.PredictionLog.Path)
	if err != nil {
		log.Fatalf("open prediction log: %v", err)
	}
	sinks := predictionlog.Multi{fileLog}

	// Postgres sink (Optional - based on config)
	if cfg.Database.Enabled {
		pool, err := openPool(cfg.Database)
		if err != nil {
			log.Warnf("database init failed (continuing with file log only): %v", err)
		} else {
			defer pool.Close()
			sinks = append(sinks, postgres.NewPredictionLogRepository(pool))
			log.Info("database prediction log enabled")
		}
	} else {
		log.Info("database prediction log disabled")
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := telemetry.NewPrometheusRecorder(reg)

	predictionSvc := services.NewPredictionService(
		bundle.Model,
		bundle.Encoder,
		bundle.Metadata,
		bundle.RawMetadata,
		sinks,
		recorder,
	)

	h := handlers.New(predictionSvc, reg)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery(), corsMiddleware(cfg.Server.CORSAllowedOrigins))
	h.RegisterRoutes(router)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.WithField("prediction_log", fileLog.Path()).Infof("starting prediction API on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func openPool(dbCfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dbCfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	poolCfg.MaxConns = int32(dbCfg.MaxOpenConns)
	poolCfg.MinConns = int32(dbCfg.MaxIdleConns)
	poolCfg.MaxConnLifetime = dbCfg.ConnMaxLifetime

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := postgres.EnsurePredictionLogSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, middleware.HeaderRequestID)
	corsCfg.ExposeHeaders = []string{middleware.HeaderRequestID}
	return cors.New(corsCfg)
}
