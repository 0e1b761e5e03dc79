package patientcare

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Kavinnandha/patient-care/internal/config"
	"github.com/Kavinnandha/patient-care/internal/http/handlers/auth/login"
	"github.com/Kavinnandha/patient-care/internal/http/handlers/auth/logout"
	"github.com/Kavinnandha/patient-care/internal/http/handlers/auth/me"
	"github.com/Kavinnandha/patient-care/internal/http/handlers/auth/refresh"
	"github.com/Kavinnandha/patient-care/internal/http/handlers/auth/register"
	glucosecreate "github.com/Kavinnandha/patient-care/internal/http/handlers/glucose/create"
	glucoselist "github.com/Kavinnandha/patient-care/internal/http/handlers/glucose/list"
	"github.com/Kavinnandha/patient-care/internal/http/handlers/health"
	"github.com/Kavinnandha/patient-care/internal/http/middlewarectx"
	"github.com/Kavinnandha/patient-care/internal/lib/rabbitmq"
	"github.com/Kavinnandha/patient-care/internal/ratelimit"
	authservice "github.com/Kavinnandha/patient-care/internal/services/auth"
	glucoseservice "github.com/Kavinnandha/patient-care/internal/services/glucose"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authService *authservice.AuthService, glucoseService *glucoseservice.GlucoseService,
	welcomePublisher *rabbitmq.WelcomePublisher) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	loginLimiter := ratelimit.New(cfg.LoginMaxAttempts, cfg.LoginWindow)
	registerLimiter := ratelimit.New(cfg.RegisterMaxAttempts, cfg.RegisterWindow)

	var notifier register.Notifier
	if welcomePublisher != nil {
		notifier = welcomePublisher
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки со своими окнами частоты запросов
		r.With(middlewarectx.FixedWindowMiddleware(logger, registerLimiter,
			"Too many registration attempts, please try again after 1 hour")).
			Post("/register", register.New(logger, authService, notifier).ServeHTTP)
		r.With(middlewarectx.FixedWindowMiddleware(logger, loginLimiter,
			"Too many login attempts, please try again after 15 minutes")).
			Post("/login", login.New(logger, authService).ServeHTTP)
		r.Post("/refresh", refresh.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/me", me.New(logger, authService).ServeHTTP)
			r.Post("/logout", logout.New(logger, authService).ServeHTTP)
			r.Post("/glucose", glucosecreate.New(logger, glucoseService).ServeHTTP)
			r.Get("/glucose/list", glucoselist.New(logger, glucoseService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
