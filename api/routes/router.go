package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ananyakrishnan/safarnama-backend/api/controllers"
	"github.com/ananyakrishnan/safarnama-backend/api/middleware"
	"github.com/ananyakrishnan/safarnama-backend/internal/auth"
	"github.com/ananyakrishnan/safarnama-backend/internal/dictation"
	"github.com/ananyakrishnan/safarnama-backend/internal/trips"
	"github.com/ananyakrishnan/safarnama-backend/internal/users"
	"github.com/ananyakrishnan/safarnama-backend/pkg/auth/session"
	"github.com/ananyakrishnan/safarnama-backend/pkg/config"
	"github.com/ananyakrishnan/safarnama-backend/pkg/db"
	"github.com/ananyakrishnan/safarnama-backend/pkg/logger"
	"github.com/ananyakrishnan/safarnama-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	authService auth.Service,
	usersRepo *users.Repository,
	tripService trips.Service,
	dictationService dictation.Service,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Logging(logg))
	r.Use(middleware.CORS())

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Get("/health/live", controllers.HealthLive(cfg))
	r.Get("/health/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).
			Post("/register", controllers.AuthRegister(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.AuthLogin(authService, logg))

		// Refresh authenticates with the rotated refresh token itself, so the
		// expired access token travels in the body rather than the Authorization
		// header.
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
			r.Post("/logout", controllers.AuthLogout(authService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Get("/me", controllers.Me(usersRepo, logg))
		r.Put("/me/language", controllers.MeUpdateLanguage(usersRepo, logg))

		r.Route("/trips", func(r chi.Router) {
			r.Post("/", controllers.TripsCreate(tripService, logg))
			r.Get("/", controllers.TripsList(tripService, logg))

			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", controllers.TripsGet(tripService, logg))
				r.Patch("/", controllers.TripsUpdate(tripService, logg))
				r.Post("/complete", controllers.TripsComplete(tripService, logg))
				r.Post("/reactivate", controllers.TripsReactivate(tripService, logg))

				r.Route("/days", func(r chi.Router) {
					r.Post("/", controllers.DaysAdd(tripService, logg))

					r.Route("/{dayNumber}", func(r chi.Router) {
						r.Patch("/", controllers.DaysUpdate(tripService, logg))
						r.Put("/logistics", controllers.DaysSetLogistics(tripService, logg))
						r.Put("/meals/{meal}", controllers.DaysSetMeal(tripService, logg))
						r.Post("/dictations", controllers.DictationsCreate(dictationService, cfg.Dictation, logg))
						r.Post("/sections/{sectionID}/image", controllers.SectionsAttachImage(tripService, logg))
					})
				})
			})
		})
	})

	return r
}
