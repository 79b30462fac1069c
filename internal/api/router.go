package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"safeTrip/internal/api/handlers/http/admin"
	"safeTrip/internal/api/handlers/http/public"
	"safeTrip/internal/api/handlers/http/system"
	"safeTrip/internal/config"
	"safeTrip/internal/metrics"
	"safeTrip/internal/middleware"
	"safeTrip/internal/service"
)

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger, svc *service.Service, verifier middleware.TokenVerifier, store system.Pinger) *Server {
	publicHandler := public.NewHandler(logger, svc.Places, svc.Safety, svc.Locations, svc.Emergency, svc.Incidents, svc.Contacts)
	adminHandler := admin.NewHandler(logger, svc.Stats)
	systemHandler := system.NewHandler(logger, store)

	r := InitRouter(ctx, cfg, publicHandler, adminHandler, systemHandler, verifier, logger)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}
}

func InitRouter(
	ctx context.Context,
	cfg *config.Config,
	publicHandler *public.Handler,
	adminHandler *admin.Handler,
	systemHandler *system.Handler,
	verifier middleware.TokenVerifier,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Http.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Client-Info", "apikey"},
		MaxAge:         300,
	}))

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		// ADMIN
		api.Route("/admin", func(ar chi.Router) {
			ar.Use(middleware.APIKeyMiddleware(cfg.APIKey))
			ar.Use(middleware.Limit(ctx, 2, 5, 10*time.Minute, logger))
			ar.Get("/stats", adminHandler.AdminStats)
		})

		// EMERGENCY: never throttled, identity optional
		api.With(middleware.OptionalIdentity(verifier, logger)).
			Post("/emergency", publicHandler.EmergencyDispatch)

		// PUBLIC
		api.Group(func(pr chi.Router) {
			pr.Use(middleware.Limit(ctx, 10, 20, 5*time.Minute, logger))

			pr.With(middleware.OptionalIdentity(verifier, logger)).Get("/places", publicHandler.PlacesNearby)
			pr.Post("/places", publicHandler.PlaceCreate)

			pr.Group(func(ur chi.Router) {
				ur.Use(middleware.RequireIdentity(verifier, logger))
				ur.Post("/locations", publicHandler.LocationRecord)
				ur.Post("/incidents", publicHandler.IncidentReport)
				ur.Get("/emergency-contacts", publicHandler.EmergencyContacts)
			})
		})

		// SYSTEM
		api.Get("/health", systemHandler.SystemHealth)
	})

	return r
}

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
