// Package hsass собирает HTTP-приложение: хранилище, кеш, брокер событий,
// сервисы и маршруты.
package hsass

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/adarsh1278/HSass-backend/internal/cache"
	"github.com/adarsh1278/HSass-backend/internal/config"
	"github.com/adarsh1278/HSass-backend/internal/http/session"
	"github.com/adarsh1278/HSass-backend/internal/lib/jwt"
	"github.com/adarsh1278/HSass-backend/internal/lib/metrics"
	"github.com/adarsh1278/HSass-backend/internal/lib/password"
	"github.com/adarsh1278/HSass-backend/internal/lib/rabbitmq"
	"github.com/adarsh1278/HSass-backend/internal/lib/sl"
	"github.com/adarsh1278/HSass-backend/internal/migrations"
	authservice "github.com/adarsh1278/HSass-backend/internal/services/auth"
	planservice "github.com/adarsh1278/HSass-backend/internal/services/plan"
	"github.com/adarsh1278/HSass-backend/internal/services/provisioning"
	"github.com/adarsh1278/HSass-backend/internal/services/scheduler"
	"github.com/adarsh1278/HSass-backend/internal/services/tenant"
	"github.com/adarsh1278/HSass-backend/internal/storage/repository"
)

// Publisher публикует доменные события.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// Services — сервисы, из которых строятся маршруты.
type Services struct {
	Auth         *authservice.Service
	Provisioning *provisioning.Service
	Plans        *planservice.Service
	Tenants      *tenant.Service
}

type App struct {
	server    *http.Server
	scheduler *scheduler.Service
	logger    *slog.Logger
	db        *repository.Storage
	cache     *cache.Cache
	closers   []func() error
}

// New подключает зависимости, применяет миграции и собирает маршрутизатор.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "hsass.New"

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := &App{
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}

	publisher, err := app.connectPublisher(cfg.RabbitMQ)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	tokens := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authSvc := authservice.New(db, tokens, password.Hasher{}, m, logger)

	services := Services{
		Auth:         authSvc,
		Provisioning: provisioning.New(db, password.Hasher{}, authSvc, publisher, m, logger),
		Plans:        planservice.New(db, cacheRedis, publisher, cfg.PlanCacheTTL, logger),
		Tenants:      tenant.New(db, logger),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, RouteDeps{
		Logger:      logger,
		Services:    services,
		DB:          db.DB,
		Metrics:     m,
		Cookie:      session.New(cfg.CookieName, cfg.CookieMaxAge, cfg.IsProd()),
		RateLimit:   cfg.RateLimit,
		StackTraces: !cfg.IsProd(),
	})

	app.scheduler = scheduler.New(db, publisher, m, cfg.ExpirySweepInterval, logger)
	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// connectPublisher подключается к RabbitMQ. Если брокер отключён в конфиге,
// события отбрасываются.
func (a *App) connectPublisher(cfg config.RabbitMQ) (Publisher, error) {
	if !cfg.Enabled {
		a.logger.Info("rabbitmq disabled, domain events will be dropped")
		return rabbitmq.NoopPublisher{}, nil
	}

	conn, err := rabbitmq.Connect(cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupExchange(conn, cfg.Exchange, rabbitmq.AuditQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch, cfg.Exchange)
	a.closers = append(a.closers, publisher.Close, conn.Close)

	a.logger.Info("rabbitmq connected", slog.String("exchange", cfg.Exchange))
	return publisher, nil
}

func (a *App) close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("failed to close broker resource", sl.Err(err))
		}
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", sl.Err(err))
	}
}

// Run запускает HTTP сервер и планировщик истечения подписок и корректно
// останавливает их при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return a.scheduler.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		return a.server.Shutdown(timeoutCtx)
	})
	return g.Wait()
}
