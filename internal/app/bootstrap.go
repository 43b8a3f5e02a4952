package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/makbarsyahwana/logistic-gateway/config"
	"github.com/makbarsyahwana/logistic-gateway/internal/audit"
	"github.com/makbarsyahwana/logistic-gateway/internal/backend"
	"github.com/makbarsyahwana/logistic-gateway/internal/cache/query"
	"github.com/makbarsyahwana/logistic-gateway/internal/ports"
	"github.com/makbarsyahwana/logistic-gateway/internal/repo/postgres"
	"github.com/makbarsyahwana/logistic-gateway/internal/session"
	"github.com/makbarsyahwana/logistic-gateway/internal/storage/file"
	web "github.com/makbarsyahwana/logistic-gateway/internal/transport/http"
	"github.com/makbarsyahwana/logistic-gateway/internal/usecase"
	"github.com/makbarsyahwana/logistic-gateway/pkg/logger"
	"github.com/makbarsyahwana/logistic-gateway/pkg/metrics"
	"github.com/makbarsyahwana/logistic-gateway/pkg/telemetry"
)

// App — собранное приложение и его внешние интерфейсы.
type App struct {
	Logger          ports.Logger
	HTTPServer      *http.Server
	Sessions        *session.Store
	gracefulTimeout time.Duration
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// newSessionStorage — выбор долговременного хранилища сессии по конфигу.
// Возвращает хранилище и функцию закрытия (для postgres — пул).
func newSessionStorage(ctx context.Context, cfg *config.Config) (ports.SessionStorage, func(), error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Session.Driver)) {
	case "", "file":
		storage, err := file.New(cfg.Session.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("file session storage: %w", err)
		}
		return storage, func() {}, nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres session storage: %w", err)
		}
		return postgres.NewSessionStorage(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown session driver %q", cfg.Session.Driver)
	}
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Долговременное хранилище сессии (file или postgres).
	storage, closeStorage, err := newSessionStorage(ctx, cfg)
	if err != nil {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
		return nil, func() {}, err
	}

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}

	// Клиент бэкенда: токен читается из хранилища на каждый запрос.
	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, backend.TokenFromStorage(storage, logg), logg)

	// Сессия восстанавливается из хранилища до приёма трафика.
	sessions := session.NewStore(client, storage, logg)
	sessions.Hydrate(ctx)

	// Кэш запросов и аудит.
	queryCache := query.New(cfg.Cache.Capacity, cfg.Cache.TTL)

	var publisher ports.AuditPublisher = audit.Noop{}
	if cfg.Audit.Enabled {
		publisher = audit.NewPublisher(cfg.Audit.Brokers, cfg.Audit.Topic, logg)
		logg.Infof(ctx, "audit publisher enabled topic=%s brokers=%v", cfg.Audit.Topic, cfg.Audit.Brokers)
	}

	// Прикладной слой: актор аудита — текущий пользователь сессии.
	orderService := usecase.NewOrderService(client, queryCache, publisher, logg, func() string {
		if user, ok := sessions.Current(); ok {
			return user.Email
		}
		return ""
	})

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	httpHandler := web.NewHandler(orderService, sessions, logg, cfg.HTTP.HandlerTimeout)
	router := web.NewRouter(httpHandler, "./web", otelServiceName)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		Sessions:        sessions,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		if aerr := publisher.Close(); aerr != nil {
			logg.Warnf(ctx, "audit publisher close error: %v", aerr)
		}
		closeStorage()
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}

	return app, cleanup, nil
}

// Run — запускает HTTP-сервер, ждёт отмены контекста или ошибки и останавливает его.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		a.Logger.Warnf(ctx, "http server error: %v", err)
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	a.Logger.Infof(ctx, "gateway stopped")
	return nil
}
