package routes

import (
	"time"

	"github.com/courtside/tournament-service/handlers"
	"github.com/courtside/tournament-service/middleware"
	"github.com/courtside/tournament-service/models"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	JWTSecret   []byte
	CORSOrigins []string
}

func SetupRoutes(
	router *chi.Mux,
	cfg Config,
	tournamentHandler *handlers.TournamentHandler,
	healthHandler *handlers.HealthHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Metrics)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	// Global cap mirrors the upstream gateway policy.
	router.Use(httprate.LimitByIP(100, 15*time.Minute))

	router.Get("/health", healthHandler.SimpleHandler)
	router.Get("/health/detailed", healthHandler.DetailedHandler)
	router.Method("GET", "/metrics", promhttp.Handler())

	router.Route("/api/tournaments", func(r chi.Router) {
		// Public reads.
		r.Get("/", tournamentHandler.ListHandler)
		r.Get("/{tournamentID}", tournamentHandler.GetByIDHandler)
		r.Get("/{tournamentID}/teams", tournamentHandler.GetWithTeamsHandler)
		r.Get("/{tournamentID}/stats", tournamentHandler.StatsHandler)

		// Invoked by team-roster flows after a roster change.
		r.Post("/{tournamentID}/refresh-team-count", tournamentHandler.RefreshTeamCountHandler)

		// Organizer-only writes.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(cfg.JWTSecret))
			r.Use(middleware.RequireRole(models.RoleOrganisateur, models.RoleAdmin))

			r.With(httprate.LimitByIP(5, time.Hour)).
				Post("/organizer/{organizerID}", tournamentHandler.CreateHandler)
			r.With(httprate.LimitByIP(20, 15*time.Minute)).
				Patch("/{tournamentID}", tournamentHandler.UpdateHandler)
			r.Delete("/{tournamentID}", tournamentHandler.DeleteHandler)

			r.Patch("/{tournamentID}/draft", tournamentHandler.DraftHandler)
			r.Patch("/{tournamentID}/publish", tournamentHandler.PublishHandler)
			r.Patch("/{tournamentID}/start", tournamentHandler.StartHandler)
			r.Patch("/{tournamentID}/finish", tournamentHandler.FinishHandler)
			r.Patch("/{tournamentID}/cancel", tournamentHandler.CancelHandler)

			r.Post("/{tournamentID}/logo", tournamentHandler.UploadLogoHandler)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
