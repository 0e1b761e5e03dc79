// Package patientcare собирает основное HTTP-приложение: хранилище,
// миграции, redis, сервисы и маршруты.
package patientcare

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/Kavinnandha/patient-care/internal/cache"
	"github.com/Kavinnandha/patient-care/internal/config"
	customjwt "github.com/Kavinnandha/patient-care/internal/lib/jwt"
	"github.com/Kavinnandha/patient-care/internal/lib/rabbitmq"
	"github.com/Kavinnandha/patient-care/internal/lib/sl"
	"github.com/Kavinnandha/patient-care/internal/migrations"
	authservice "github.com/Kavinnandha/patient-care/internal/services/auth"
	glucoseservice "github.com/Kavinnandha/patient-care/internal/services/glucose"
	"github.com/Kavinnandha/patient-care/internal/storage"
)

type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *storage.Storage
	rabbitConn *amqp.Connection
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := customjwt.NewJWTMaker(
		cfg.AccessSecretKey, cfg.RefreshSecretKey,
		cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
	)

	authService := authservice.NewAuthService(db, cacheRedis, jwtMaker)
	glucoseService := glucoseservice.NewGlucoseService(db, cacheRedis, logger)

	// почтовый воркер не обязателен для работы API, без брокера регистрация
	// просто не публикует приветственное событие
	var rabbitConn *amqp.Connection
	var welcomePublisher *rabbitmq.WelcomePublisher
	if cfg.RabbitURL != "" {
		rabbitConn, err = rabbitmq.Connect(cfg.RabbitURL, 5, 3*time.Second)
		if err != nil {
			logger.Warn("rabbitmq unavailable, welcome emails disabled", sl.Err(err))
		} else {
			ch, chErr := rabbitmq.SetupChannel(rabbitConn, cfg.RabbitExchange, rabbitmq.GetNotificationQueues())
			if chErr != nil {
				logger.Warn("rabbitmq channel setup failed, welcome emails disabled", sl.Err(chErr))
			} else {
				welcomePublisher = rabbitmq.NewWelcomePublisher(ch, cfg.RabbitExchange)
			}
		}
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, authService, glucoseService, welcomePublisher)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		rabbitConn: rabbitConn,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.rabbitConn != nil {
			_ = a.rabbitConn.Close()
		}
		a.db.DB.Close()
		return err
	}
}
