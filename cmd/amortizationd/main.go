package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bibbank/bib/services/amortization-service/internal/application/usecase"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/port"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/service"
	"github.com/bibbank/bib/services/amortization-service/internal/infrastructure/config"
	"github.com/bibbank/bib/services/amortization-service/internal/infrastructure/kafka"
	"github.com/bibbank/bib/services/amortization-service/internal/infrastructure/metrics"
	pgRepo "github.com/bibbank/bib/services/amortization-service/internal/infrastructure/persistence/postgres"
	grpcPresentation "github.com/bibbank/bib/services/amortization-service/internal/presentation/grpc"
	"github.com/bibbank/bib/services/amortization-service/internal/presentation/rest"
	"github.com/bibbank/bib/services/amortization-service/pkg/auth"
	pkgkafka "github.com/bibbank/bib/services/amortization-service/pkg/kafka"
	"github.com/bibbank/bib/services/amortization-service/pkg/observability"
	pkgpostgres "github.com/bibbank/bib/services/amortization-service/pkg/postgres"
)

func main() {
	if err := run(); err != nil {
		slog.Error("amortization-service failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.ServiceName,
	})

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("starting amortization-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"benchmark_store", cfg.DB.Enabled(),
		"kafka", cfg.Kafka.Enabled(),
	)

	// Initialize tracing.
	if cfg.Telemetry.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.Telemetry.OTLPEndpoint,
			Insecure:    cfg.Telemetry.OTLPInsecure,
			SampleRatio: cfg.Telemetry.SampleRatio,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
		}
	}

	// Initialize metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return fmt.Errorf("initialize metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck // best-effort meter shutdown

	recorder, err := metrics.NewRecorder(meterProvider)
	if err != nil {
		return fmt.Errorf("create metric instruments: %w", err)
	}

	checks := map[string]rest.ReadinessCheck{}

	// Benchmark rate store (optional).
	var benchmarks port.BenchmarkRateRepository
	if cfg.DB.Enabled() {
		dbCfg := pkgpostgres.Config{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			User:     cfg.DB.User,
			Password: cfg.DB.Password,
			Database: cfg.DB.Name,
			SSLMode:  cfg.DB.SSLMode,
		}

		dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
		dbCancel()
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
		logger.Info("connected to database")

		if err := pkgpostgres.RunMigrations(dbCfg.DSN(), cfg.DB.MigrationsPath, pkgpostgres.Up); err != nil {
			logger.Warn("migration warning", "error", err)
		}

		benchmarks = pgRepo.NewBenchmarkRateRepo(pool)
		checks["postgres"] = pool.Ping
	} else {
		logger.Info("DB_HOST not set, benchmark rate store disabled")
	}

	// Event publisher.
	var publisher port.EventPublisher
	if cfg.Kafka.Enabled() {
		producer := pkgkafka.NewProducer(pkgkafka.Config{
			Brokers: cfg.Kafka.Brokers,
			TLS:     cfg.Kafka.TLS,
		})
		defer producer.Close()
		publisher = kafka.NewKafkaEventPublisher(producer, cfg.Kafka.Topic, logger)
	} else {
		logger.Info("KAFKA_BROKERS not set, domain events are logged only")
		publisher = kafka.NewLogEventPublisher(logger)
	}

	// Wire use cases.
	calculator := service.NewScheduleCalculator(cfg.Calculation)
	calculateUC := usecase.NewCalculateScheduleUseCase(calculator, benchmarks, publisher, recorder, logger)
	aprUC := usecase.NewComputeAPRUseCase(calculator, benchmarks, recorder)

	var saveBenchmarkUC *usecase.SaveBenchmarkRatesUseCase
	var getBenchmarkUC *usecase.GetBenchmarkRatesUseCase
	if benchmarks != nil {
		saveBenchmarkUC = usecase.NewSaveBenchmarkRatesUseCase(benchmarks, publisher, logger)
		getBenchmarkUC = usecase.NewGetBenchmarkRatesUseCase(benchmarks)
	}

	// JWT service (validation-only: public key preferred, secret as fallback).
	jwtCfg := auth.JWTConfig{Issuer: cfg.Auth.Issuer}
	switch {
	case cfg.Auth.PublicKey != "":
		jwtCfg.PublicKeyPEM = cfg.Auth.PublicKey
	case cfg.Auth.PublicKeyFile != "":
		keyData, err := auth.LoadKeyFromFile(cfg.Auth.PublicKeyFile)
		if err != nil {
			return fmt.Errorf("load JWT public key file: %w", err)
		}
		jwtCfg.PublicKeyPEM = string(keyData)
	default:
		jwtCfg.Secret = cfg.Auth.Secret
	}
	jwtSvc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		return fmt.Errorf("initialize JWT service: %w", err)
	}

	// gRPC server.
	handler := grpcPresentation.NewHandler(calculateUC, aprUC, saveBenchmarkUC, getBenchmarkUC, logger)
	grpcServer, err := grpcPresentation.NewServer(handler, logger, jwtSvc, grpcPresentation.ServerConfig{
		ServiceName:  cfg.ServiceName,
		CertFile:     cfg.TLS.CertFile,
		KeyFile:      cfg.TLS.KeyFile,
		ClientCAFile: cfg.TLS.ClientCAFile,
		Reflection:   cfg.GRPCReflection,
	})
	if err != nil {
		return fmt.Errorf("create gRPC server: %w", err)
	}

	// HTTP server (health checks and metrics).
	mux := http.NewServeMux()
	rest.NewHealthHandler(cfg.ServiceName, logger, checks).RegisterRoutes(mux)
	rest.RegisterMetrics(mux, metricsHandler)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", "error", serveErr)
	}

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("amortization-service stopped")
	return serveErr
}
