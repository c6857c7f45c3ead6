package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/studio-console-api/internal/repository"
	"github.com/noah-isme/studio-console-api/internal/service"
	"github.com/noah-isme/studio-console-api/pkg/config"
	"github.com/noah-isme/studio-console-api/pkg/firebase"
	"github.com/noah-isme/studio-console-api/pkg/logger"
)

func main() {
	once := flag.Bool("once", false, "process one batch and exit")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck
	logr = logr.With(zap.String("component", "push-relay"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fbApp, err := firebase.New(ctx, cfg.Firebase)
	if err != nil {
		logr.Fatal("firebase init failed", zap.Error(err))
	}
	store, err := fbApp.Firestore(ctx)
	if err != nil {
		logr.Fatal("firestore init failed", zap.Error(err))
	}
	defer store.Close() //nolint:errcheck
	fcm, err := fbApp.Messaging(ctx)
	if err != nil {
		logr.Fatal("messaging init failed", zap.Error(err))
	}

	metricsSvc := service.NewMetricsService()
	if *metricsAddr != "" {
		go func() {
			srv := &http.Server{Addr: *metricsAddr, Handler: metricsSvc.Handler(), ReadHeaderTimeout: 5 * time.Second}
			if err := srv.ListenAndServe(); err != nil {
				logr.Error("metrics listener stopped", zap.Error(err))
			}
		}()
	}

	relay := service.NewRelayService(service.RelayServiceParams{
		Store:   repository.NewDocumentRepository(store, logr),
		Sender:  service.NewPushSender(fcm, logr),
		Metrics: metricsSvc,
		Logger:  logr,
		Config: service.RelayConfig{
			NotificationsCollection: cfg.Firebase.Collections.Notifications,
			UsersCollection:         cfg.Firebase.Collections.Users,
			PollInterval:            cfg.Relay.PollInterval,
			BatchSize:               cfg.Relay.BatchSize,
			Workers:                 cfg.Relay.Workers,
			MaxRetries:              cfg.Relay.MaxRetries,
			RetryDelay:              cfg.Relay.RetryDelay,
			Location:                cfg.Studio.Location,
		},
	})

	if *once {
		n, err := relay.PollOnce(ctx)
		if err != nil {
			logr.Fatal("relay batch failed", zap.Error(err))
		}
		logr.Info("relay batch done", zap.Int("delivered", n))
		return
	}

	logr.Info("relay starting", zap.Duration("poll_interval", cfg.Relay.PollInterval))
	if err := relay.Run(ctx); err != nil {
		logr.Error("relay stopped with error", zap.Error(err))
	}
	logr.Info("relay stopped")
}
