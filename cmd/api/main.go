package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"shipment-tracker/internal/core/cache"
	"shipment-tracker/internal/core/config"
	"shipment-tracker/internal/core/events"
	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/core/server"
	carrieradapter "shipment-tracker/internal/features/carriers/adapters"
	notifyadapter "shipment-tracker/internal/features/notifications/adapters"
	notifyports "shipment-tracker/internal/features/notifications/ports"
	notifyservice "shipment-tracker/internal/features/notifications/service"
	shipmentadapter "shipment-tracker/internal/features/shipments/adapters"
	shipmenthandler "shipment-tracker/internal/features/shipments/handler"
	shipmentservice "shipment-tracker/internal/features/shipments/service"

	"go.uber.org/zap"
)

// eventBuffer is the per-subscriber buffer of the in-process event bus.
const eventBuffer = 256

// @title Shipment Tracker API
// @version 1.0
// @description Unified shipment tracking across DHL, FedEx, UPS and the local courier.
// @contact.name API Support
// @contact.email support@shipment-tracker.dev
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Redis and run Health Check
	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL, cfg.Redis.PoolSize, cache.WithNamespace(cfg.Redis.KeyNamespace))
	if err != nil {
		l.Fatal("Invalid Redis configuration", zap.Error(err))
	}
	defer redisCache.Close()

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	err = redisCache.Ping(pingCtx)
	cancelPing()
	if err != nil {
		l.Fatal("Redis Health Check Failed", zap.Error(err))
	}
	l.Info("Redis connection verified")

	bus := events.NewBus(eventBuffer)
	defer bus.Close()

	// Initialize Shipment Store & Carriers
	repo := shipmentadapter.NewRedisShipmentRepository(redisCache.Client())
	carriers := carrieradapter.NewRegistry(cfg.Carriers)
	l.Info("Carrier tracking enabled", zap.Any("providers", carriers.Providers()))

	// Initialize Tracking Service
	trackingSvc := shipmentservice.NewTrackingService(
		repo,
		carriers,
		shipmentadapter.NewBusEventPublisher(bus),
		redisCache,
		shipmentservice.Options{
			TrackingPrefix: cfg.Tracking.NumberPrefix,
			PollCooldown:   cfg.Tracking.PollCooldown,
		},
	)

	// Notifications must subscribe before the first request can publish.
	if cfg.Notifications.UsersURL != "" {
		directory := notifyadapter.NewHTTPUserDirectory(cfg.Notifications.UsersURL, cfg.Notifications.UsersToken, cfg.Notifications.Timeout)

		var sender notifyports.Sender = notifyadapter.NewLogSender()
		if cfg.Notifications.NotifyURL != "" {
			sender = notifyadapter.NewWebhookSender(cfg.Notifications.NotifyURL, cfg.Notifications.NotifyToken, cfg.Notifications.Timeout)
		} else {
			l.Warn("NOTIFY_URL not set, notifications will only be logged")
		}

		dispatcher := notifyservice.NewDispatcher(directory, sender, redisCache, cfg.Notifications.DedupeTTL)
		if err := notifyservice.NewWorker(bus, dispatcher).Start(ctx); err != nil {
			l.Fatal("Failed to start notification worker", zap.Error(err))
		}
	} else {
		l.Warn("USERS_URL not set, buyer notifications disabled")
	}

	sweeper := shipmentservice.NewSweeper(trackingSvc, repo, cfg.Tracking.SweepInterval, cfg.Tracking.SweepConcurrency)
	go sweeper.Run(ctx)

	srv := server.New(cfg)

	// Register Routes
	shipmenthandler.NewShipmentHandler(trackingSvc).RegisterRoutes(srv.App)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Run()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			l.Fatal("Server failed to start", zap.Error(err))
		}
	case <-ctx.Done():
		if err := srv.Shutdown(); err != nil {
			l.Error("Server shutdown failed", zap.Error(err))
		}
	}
	l.Info("Application stopped")
}
