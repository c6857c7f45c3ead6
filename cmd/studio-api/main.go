package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/studio-console-api/api/swagger"
	"github.com/noah-isme/studio-console-api/internal/handler"
	"github.com/noah-isme/studio-console-api/internal/middleware"
	"github.com/noah-isme/studio-console-api/internal/repository"
	"github.com/noah-isme/studio-console-api/internal/service"
	"github.com/noah-isme/studio-console-api/pkg/cache"
	"github.com/noah-isme/studio-console-api/pkg/config"
	"github.com/noah-isme/studio-console-api/pkg/firebase"
	"github.com/noah-isme/studio-console-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/studio-console-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/studio-console-api/pkg/middleware/requestid"
)

// @title Studio Console API
// @version 1.0.0
// @description Attendance, finance, trainer and package analytics for the studio console
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	fbApp, err := firebase.New(ctx, cfg.Firebase)
	if err != nil {
		logr.Sugar().Fatalw("firebase init failed", "error", err)
	}
	store, err := fbApp.Firestore(ctx)
	if err != nil {
		logr.Sugar().Fatalw("firestore init failed", "error", err)
	}
	defer store.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("redis init failed", "error", err)
	}

	metricsSvc := service.NewMetricsService()
	docs := repository.NewDocumentRepository(store, logr)

	var cacheRepo service.CacheRepository
	checks := map[string]handler.ReadinessCheck{
		"firestore": func(ctx context.Context) error { return docs.Ping(ctx, cfg.Firebase.Collections.Users) },
	}
	if redisClient != nil {
		redisRepo := repository.NewCacheRepository(redisClient, "studio", logr)
		defer redisRepo.Close() //nolint:errcheck
		cacheRepo = redisRepo
		checks["redis"] = redisRepo.Ping
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cacheRepo != nil)

	verifier, err := newVerifier(ctx, cfg, fbApp, logr)
	if err != nil {
		logr.Sugar().Fatalw("auth init failed", "error", err)
	}

	loc := cfg.Studio.Location
	snapshots := service.NewSnapshotLoader(service.SnapshotLoaderParams{
		Reader:  docs,
		Cache:   cacheSvc,
		Metrics: metricsSvc,
		Logger:  logr,
		Config: service.SnapshotLoaderConfig{
			Collections: cfg.Firebase.Collections,
			CacheTTL:    cfg.Dashboard.CacheTTL,
			Location:    loc,
		},
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{Snapshots: snapshots, Metrics: metricsSvc, Logger: logr})
	packageSvc := service.NewPackageService(service.PackageServiceParams{
		Snapshots:       snapshots,
		Writer:          docs,
		UsersCollection: cfg.Firebase.Collections.Users,
		Metrics:         metricsSvc,
		Logger:          logr,
	})
	reportSvc := service.NewReportService(dashboardSvc, service.NewExportService(logr, nil, nil), validator.New(), logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	registerRoutes(r, routeDeps{
		APIPrefix:        cfg.APIPrefix,
		DashboardEnabled: cfg.Dashboard.Enabled,
		Verifier:         verifier,
		Limiter:          middleware.NewRateLimiter(cfg.RateLimit, logr),
		Dashboard:        handler.NewDashboardHandler(dashboardSvc, loc),
		Packages:         handler.NewPackageHandler(packageSvc, loc, logr),
		Reports:          handler.NewReportHandler(reportSvc, loc),
		Metrics:          handler.NewMetricsHandler(metricsSvc, checks),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

func newVerifier(ctx context.Context, cfg *config.Config, fbApp *firebase.App, logr *zap.Logger) (service.TokenVerifier, error) {
	if cfg.Auth.Mode == config.AuthModeJWT {
		return service.NewTokenVerifier(cfg.Auth, nil, logr)
	}
	authClient, err := fbApp.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return service.NewTokenVerifier(cfg.Auth, authClient, logr)
}
