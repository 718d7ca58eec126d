package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authhandler "github.com/vetstock/vetstock-backend/internal/auth/handler"
	"github.com/vetstock/vetstock-backend/internal/auth/jwt"
	authmiddleware "github.com/vetstock/vetstock-backend/internal/auth/middleware"
	authrepository "github.com/vetstock/vetstock-backend/internal/auth/repository"
	authservice "github.com/vetstock/vetstock-backend/internal/auth/service"
	"github.com/vetstock/vetstock-backend/internal/inventory/events"
	"github.com/vetstock/vetstock-backend/internal/inventory/handler"
	"github.com/vetstock/vetstock-backend/internal/inventory/repository"
	"github.com/vetstock/vetstock-backend/internal/inventory/service"
	"github.com/vetstock/vetstock-backend/migrations"
	"github.com/vetstock/vetstock-backend/pkg/config"
	"github.com/vetstock/vetstock-backend/pkg/database"
	"github.com/vetstock/vetstock-backend/pkg/httputil"
	"github.com/vetstock/vetstock-backend/pkg/logger"
	"github.com/vetstock/vetstock-backend/pkg/messaging"
)

func main() {
	// Fails fast in production if required config is missing
	cfg, err := config.LoadWithValidation("vetstock")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("vetstock", cfg.Server.Environment)
	log.Info().Msg("starting VetStock API")

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(migrations.FS); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	// RabbitMQ is optional: without a URL the publisher stays nil and
	// events are skipped
	var rmq *messaging.RabbitMQ
	var publisher *events.InventoryEventPublisher
	if cfg.RabbitMQ.URL != "" {
		rmq, err = messaging.New(&cfg.RabbitMQ, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()

		publisher, err = events.NewInventoryEventPublisher(rmq, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
	} else {
		log.Info().Msg("no RabbitMQ URL configured, event publishing disabled")
	}

	// Repositories
	facilityRepo := repository.NewFacilityRepository(db)
	medicineRepo := repository.NewMedicineRepository(db)
	usageRepo := repository.NewUsageRepository(db, medicineRepo)
	sessionRepo := authrepository.NewSessionRepository(db)

	// Services
	inventoryService := service.NewInventoryService(facilityRepo, medicineRepo, usageRepo, publisher, log)
	jwtManager := jwt.NewManager(&cfg.Auth)
	authService := authservice.NewAuthService(sessionRepo, jwtManager, &cfg.Auth, log)

	// Handlers
	authHandler := authhandler.NewAuthHandler(authService, &cfg.Auth, log)
	facilityHandler := handler.NewFacilityHandler(inventoryService, log)
	medicineHandler := handler.NewMedicineHandler(inventoryService, log)
	dashboardHandler := handler.NewDashboardHandler(inventoryService, log)
	alertHandler := handler.NewAlertHandler(inventoryService, log)
	exportHandler := handler.NewExportHandler(inventoryService, log)

	requireSession := authmiddleware.RequireSession(authService, &cfg.Auth)

	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		health := map[string]interface{}{
			"status":   "healthy",
			"service":  "vetstock",
			"database": db.Health(req.Context()),
		}
		if rmq != nil {
			health["rabbitmq"] = rmq.Health()
		}
		httputil.JSON(w, http.StatusOK, health)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/check", authHandler.Check)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireSession)

			r.Route("/facilities", func(r chi.Router) {
				r.Get("/", facilityHandler.List)
				r.Post("/", facilityHandler.Create)
				r.Get("/{id}", facilityHandler.Get)
				r.Put("/{id}", facilityHandler.Update)
				r.Delete("/{id}", facilityHandler.Delete)
			})

			r.Route("/medicines", func(r chi.Router) {
				r.Get("/", medicineHandler.List)
				r.Post("/", medicineHandler.Create)
				r.Get("/{id}", medicineHandler.Get)
				r.Put("/{id}", medicineHandler.Update)
				r.Delete("/{id}", medicineHandler.Delete)
				r.Get("/{id}/usage", medicineHandler.ListUsage)
				r.Post("/{id}/usage", medicineHandler.RecordUsage)
			})

			r.Get("/dashboard/stats", dashboardHandler.Stats)
			r.Get("/alerts", alertHandler.List)

			r.Route("/reports", func(r chi.Router) {
				r.Get("/inventory/pdf", exportHandler.InventoryPDF)
				r.Get("/inventory/xlsx", exportHandler.InventoryXLSX)
			})
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
