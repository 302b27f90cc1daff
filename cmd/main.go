package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	getAvailabilityHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_availability"
	toggleAvailabilityHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/toggle_availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/config"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore/instrumented"
	availabilityRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/availability"
	rosterRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/roster"
	sharedDocRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/shareddoc"
	rosterServiceClient "github.com/m04kA/SMC-AvailabilityService/internal/integrations/rosterservice"
	rosterService "github.com/m04kA/SMC-AvailabilityService/internal/service/roster"
	getAvailabilityUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_availability"
	toggleAvailabilityUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/toggle_availability"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/retry"
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AvailabilityService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var blobRecorder instrumented.Recorder
	var writeRecorder toggleAvailabilityUC.WriteRecorder

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		blobRecorder = metricsCollector
		writeRecorder = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к blob store
	store, closeStore, err := openBlobStore(cfg, blobRecorder, log)
	if err != nil {
		log.Fatal("Failed to open blob store: %v", err)
	}
	defer closeStore()

	scheduleStore := blobstore.WithNamespace(store, cfg.Storage.ScheduleNamespace)
	authStore := blobstore.WithNamespace(store, cfg.Storage.AuthNamespace)
	log.Info("Blob store ready (driver=%s, schedule=%s, auth=%s)",
		cfg.Storage.Driver, cfg.Storage.ScheduleNamespace, cfg.Storage.AuthNamespace)

	// Инициализируем репозитории
	recordRepository := availabilityRepo.NewRepository(scheduleStore)
	sharedRepository := sharedDocRepo.NewRepository(scheduleStore)

	// Источник ростера: whitelist в хранилище или внешний сервис
	var rosterSource rosterService.Source
	switch cfg.Roster.Source {
	case config.RosterSourceHTTP:
		rosterSource = rosterServiceClient.NewClient(
			cfg.Roster.URL,
			time.Duration(cfg.Roster.Timeout)*time.Second,
			log,
		)
		log.Info("Roster source: HTTP (url=%s, timeout=%ds)", cfg.Roster.URL, cfg.Roster.Timeout)
	default:
		rosterSource = rosterRepo.NewRepository(authStore, cfg.Roster.WhitelistKey)
		log.Info("Roster source: blob (key=%s)", cfg.Roster.WhitelistKey)
	}

	// Инициализируем сервисы
	rosterSvc := rosterService.NewService(rosterSource, cfg.Roster.RoleOverrides, log)

	// Инициализируем use cases
	strategy, err := toggleAvailabilityUC.ParseStrategy(cfg.Availability.Strategy)
	if err != nil {
		log.Fatal("Invalid availability strategy: %v", err)
	}

	// Чтение идет из того же источника, куда пишет выбранная стратегия
	readSource := getAvailabilityUC.SourceRecords
	if strategy == toggleAvailabilityUC.StrategyShared {
		readSource = getAvailabilityUC.SourceShared
	}

	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		rosterSvc,
		recordRepository,
		sharedRepository,
		getAvailabilityUC.Options{
			Source:        readSource,
			Concurrency:   cfg.Availability.ReadConcurrency,
			ReportOrphans: cfg.Availability.ReportOrphans,
		},
		log,
	)

	retryCfg := cfg.Availability.Retry
	policy := retry.DefaultPolicy()
	policy.MaxAttempts = retryCfg.MaxAttempts
	policy.BaseDelay = retryCfg.BaseDelay()
	policy.Step = retryCfg.Step()
	policy.Jitter = retryCfg.Jitter()

	toggleAvailabilityUseCase := toggleAvailabilityUC.NewUseCase(
		rosterSvc,
		recordRepository,
		getAvailabilityUseCase,
		sharedRepository,
		toggleAvailabilityUC.Config{
			Strategy: strategy,
			Retry:    policy,
		},
		writeRecorder,
		log,
	)
	log.Info("Write strategy: %s (max attempts=%d)", strategy, policy.MaxAttempts)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	toggleAvailability := toggleAvailabilityHandler.NewHandler(toggleAvailabilityUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PROTECTED ROUTES (требуют сессию)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(middleware.AuthConfig{
		Secret:     []byte(cfg.Auth.JWTSecret),
		CookieName: cfg.Auth.CookieName,
	}))

	// Сводная доступность по всем слотам
	protected.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Изменение собственной доступности
	protected.HandleFunc("/availability", toggleAvailability.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
