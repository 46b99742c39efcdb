package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	createSlotsHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/create_slots"
	deleteSlotsHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/delete_slots"
	getSlotsHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/get_slots"
	healthHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/health"
	reassignSlotsHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/reassign_slots"
	"github.com/m04kA/SMC-SlotService/internal/api/middleware"
	"github.com/m04kA/SMC-SlotService/internal/config"
	"github.com/m04kA/SMC-SlotService/internal/infra/migrations"
	slotRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-SlotService/internal/infra/storage/slotmem"
	slotsService "github.com/m04kA/SMC-SlotService/internal/service/slots"
	generateSlotsUC "github.com/m04kA/SMC-SlotService/internal/usecase/generate_slots"
	"github.com/m04kA/SMC-SlotService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotService/pkg/logger"
	"github.com/m04kA/SMC-SlotService/pkg/metrics"
	"github.com/m04kA/SMC-SlotService/pkg/txmanager"
)

// slotStore полный набор операций хранилища, нужный use case и сервису
type slotStore interface {
	generateSlotsUC.SlotRepository
	slotsService.SlotRepository
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	cfg, log, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer log.Close()

	log.Info("Starting SMC-SlotService...")

	location, err := cfg.Scheduling.Location()
	if err != nil {
		return err
	}
	log.Info("Clinic timezone: %s", location)

	// Метрики (если включены); nil-коллектор безопасен для всех компонентов
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	stopMetricsCh := make(chan struct{})
	defer close(stopMetricsCh)

	// Хранилище слотов
	var (
		store     slotStore
		txManager slotsService.TransactionManager
		pinger    healthHandler.Pinger
	)

	switch cfg.Database.Storage {
	case config.StorageMemory:
		store = slotmem.NewRepository()
		txManager = txmanager.Noop{}
		log.Warn("Using in-memory slot storage, data is not persisted")

	default:
		db, err := openDB(cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()

		if cfg.Database.MigrationsOnStart {
			migrator, err := migrations.NewMigrator(db, log)
			if err != nil {
				return fmt.Errorf("init migrator: %w", err)
			}
			if err := migrator.Up(ctx); err != nil {
				return err
			}
		}

		var wrappedDB *dbmetrics.DB
		if cfg.Metrics.Enabled {
			wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
			log.Info("Database metrics collection started")
		} else {
			wrappedDB = dbmetrics.Wrap(db, nil)
		}

		store = slotRepo.NewRepository(wrappedDB)
		txManager = txmanager.NewTransactionManager(wrappedDB)
		pinger = wrappedDB
	}

	// Use cases и сервисы
	generateSlotsUseCase := generateSlotsUC.NewUseCase(store, txManager, location, metricsCollector, log)
	slotSvc := slotsService.NewService(store, txManager, location, metricsCollector, log)

	// Handlers
	getSlots := getSlotsHandler.NewHandler(slotSvc, location, log)
	createSlots := createSlotsHandler.NewHandler(generateSlotsUseCase, slotSvc, location, log)
	deleteSlots := deleteSlotsHandler.NewHandler(slotSvc, log)
	reassignSlots := reassignSlotsHandler.NewHandler(slotSvc, log)
	health := healthHandler.NewHandler(pinger, cfg.Database.Storage, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      newRouter(cfg, metricsCollector, log, getSlots, createSlots, deleteSlots, reassignSlots, health),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Ожидаем сигнал завершения или падение сервера
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}

func newRouter(
	cfg *config.Config,
	metricsCollector *metrics.Metrics,
	log *logger.Logger,
	getSlots *getSlotsHandler.Handler,
	createSlots *createSlotsHandler.Handler,
	deleteSlots *deleteSlotsHandler.Handler,
	reassignSlots *reassignSlotsHandler.Handler,
	health *healthHandler.Handler,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Recover(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Выборка слотов и поиск одного слота
	api.HandleFunc("/slots", getSlots.Handle).Methods(http.MethodGet)

	// Одиночное создание и пакетная генерация
	api.HandleFunc("/slots", createSlots.Handle).Methods(http.MethodPost)

	// Удаление по ID или по дню врача
	api.HandleFunc("/slots", deleteSlots.Handle).Methods(http.MethodDelete)

	// Переназначение свободных слотов
	api.HandleFunc("/slots", reassignSlots.Handle).Methods(http.MethodPatch)

	return r
}
