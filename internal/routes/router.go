package routes

import (
	"log/slog"

	"levelup_api/internal/controllers"
	"levelup_api/internal/middleware"
	"levelup_api/internal/services"
	"levelup_api/internal/storage"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	Cors             []string
	EnforceOwnership bool
}

func SetupRouter(
	log *slog.Logger,
	storage *storage.Storage,
	authMiddleware *middleware.AuthMiddleware,
	catalog services.CatalogFetcher,
	opts Options,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.Cors,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	eventController := controllers.NewEventController(
		services.NewEventService(storage, log, opts.EnforceOwnership), log)
	gameController := controllers.NewGameController(
		services.NewGameService(storage, log, catalog), log)
	gameTypeController := controllers.NewGameTypeController(
		services.NewGameTypeService(storage, log), log)
	gamerController := controllers.NewGamerController(
		services.NewGamerService(storage, log), log)
	healthController := controllers.NewHealthController(storage, log)

	r.Get("/health", healthController.Check)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/events", func(r chi.Router) {
			r.With(authMiddleware.OptionalIdentity).Get("/{id}", eventController.Retrieve)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireIdentity)

				r.Get("/", eventController.List)
				r.Post("/", eventController.Create)
				r.Put("/{id}", eventController.Update)
				r.Delete("/{id}", eventController.Destroy)
				r.Post("/{id}/signup", eventController.Signup)
				r.Delete("/{id}/leave", eventController.Leave)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireIdentity)

			r.Post("/register", gamerController.Register)
			r.Post("/checkuser", gamerController.CheckUser)
			r.Get("/gamers/me", gamerController.Me)

			r.Route("/games", func(r chi.Router) {
				r.Get("/", gameController.List)
				r.Post("/", gameController.Create)
				r.Post("/import", gameController.Import)
				r.Get("/{id}", gameController.Retrieve)
				r.Put("/{id}", gameController.Update)
				r.Delete("/{id}", gameController.Destroy)
			})

			r.Route("/gametypes", func(r chi.Router) {
				r.Get("/", gameTypeController.List)
				r.Get("/{id}", gameTypeController.Retrieve)
			})
		})
	})

	return r
}
