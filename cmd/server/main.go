package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/draymaster/hos-planner-service/internal/cache"
	"github.com/draymaster/hos-planner-service/internal/config"
	"github.com/draymaster/hos-planner-service/internal/events"
	"github.com/draymaster/hos-planner-service/internal/geocode"
	"github.com/draymaster/hos-planner-service/internal/httpapi"
	"github.com/draymaster/hos-planner-service/internal/logger"
	"github.com/draymaster/hos-planner-service/internal/routing"
	"github.com/draymaster/hos-planner-service/internal/trip"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Service.Name, cfg.Service.Environment, cfg.Service.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Infow("Starting service",
		"service", cfg.Service.Name,
		"version", Version,
		"build_time", BuildTime,
		"environment", cfg.Service.Environment,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cacheClient *cache.Client
	if cfg.Cache.Enabled {
		cacheClient, err = cache.New(ctx, cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB, cfg.Cache.TTL, log)
		if err != nil {
			log.WithError(err).Warn("Redis cache unavailable, continuing without it")
			cacheClient = nil
		} else {
			defer cacheClient.Close()
			log.Info("Connected to Redis cache")
		}
	}

	var publisher trip.EventPublisher
	if cfg.Kafka.Enabled {
		producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		defer producer.Close()
		publisher = producer
		log.Info("Kafka producer initialized")
	} else {
		log.Info("Kafka publishing disabled")
	}

	geocoder := geocode.New(geocode.Config{
		BaseURL:   cfg.Geocoder.BaseURL,
		UserAgent: cfg.Geocoder.UserAgent,
		Timeout:   cfg.Geocoder.Timeout,
	}, cacheClient, log)

	router := routing.New(routing.Config{
		BaseURL: cfg.Router.BaseURL,
		Timeout: cfg.Router.Timeout,
	}, cacheClient, log)

	tripService := trip.NewService(geocoder, router, publisher, log)

	server := httpapi.NewServer(tripService, log)

	httpServer := &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infow("HTTP server listening", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutdown signal received, draining in-flight requests")
	server.SetReady(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}

	log.Info("Service stopped")
}
