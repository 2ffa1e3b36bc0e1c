package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"currency-converter-live/internal/config"
	"currency-converter-live/internal/converter"
	"currency-converter-live/internal/handler"
	"currency-converter-live/internal/middleware"
	"currency-converter-live/internal/model"
	"currency-converter-live/internal/presenter"
	"currency-converter-live/internal/transport"
	"currency-converter-live/pkg/events"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Application struct {
	config    *config.Config
	router    *gin.Engine
	logger    *zap.Logger
	client    *converter.Client
	state     *presenter.Store
	publisher *events.RedisPublisher
	server    *http.Server
}

func New(cfg *config.Config) (*Application, error) {
	logger, err := NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return NewWithLogger(cfg, logger), nil
}

// NewWithLogger собирает приложение с готовым логгером
func NewWithLogger(cfg *config.Config, logger *zap.Logger) *Application {
	var publisher *events.RedisPublisher
	if cfg.Redis.Channel != "" {
		p, err := events.NewRedisPublisher(cfg.Redis, logger)
		if err != nil {
			logger.Error("Failed to create Redis publisher", zap.Error(err))
			// Продолжаем без Redis
		} else {
			publisher = p
		}
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
		logger.Info("Running in RELEASE mode")
	} else if cfg.Server.Mode == "test" {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
		logger.Info("Running in DEBUG mode")
	}

	state := presenter.NewStore()
	observers := state.Observers()
	if publisher != nil {
		observers = converter.Fanout(observers, publisher.Observers())
	}
	client := NewClient(cfg, logger, observers)

	app := &Application{
		config:    cfg,
		router:    gin.New(),
		logger:    logger,
		client:    client,
		state:     state,
		publisher: publisher,
	}
	app.setupMiddleware()
	app.setupRouter(handler.NewCurrencyHandler(client, state))

	logger.Info("Application initialized",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.String("exchange_api_url", cfg.API.BaseURL),
		zap.Duration("refresh_interval", cfg.Converter.RefreshInterval),
		zap.Bool("redis_connected", publisher != nil),
	)
	return app
}

// NewClient создаёт клиента конвертации по конфигурации
func NewClient(cfg *config.Config, logger *zap.Logger, observers converter.Observers, opts ...converter.Option) *converter.Client {
	base := []converter.Option{
		converter.WithBaseURL(cfg.API.BaseURL),
		converter.WithInterval(cfg.Converter.RefreshInterval),
		converter.WithTransport(transport.NewHTTPTransport(cfg.API.Timeout, logger)),
		converter.WithLogger(logger),
		converter.WithObservers(observers),
		converter.WithParams(model.ConversionRequest{
			Amount: cfg.Converter.DefaultAmount,
			From:   model.CurrencyCode(cfg.Converter.DefaultFrom),
			To:     model.CurrencyCode(cfg.Converter.DefaultTo),
		}),
	}
	if cfg.Converter.LatestOnly {
		base = append(base, converter.WithLatestOnly())
	}
	return converter.New(append(base, opts...)...)
}

// NewLogger выбирает формат и уровень zap по конфигурации
func NewLogger(cfg *config.LoggingConfig) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error
	if cfg.Format == "json" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	switch cfg.Level {
	case "debug":
		logger = logger.WithOptions(zap.IncreaseLevel(zap.DebugLevel))
	case "info":
		logger = logger.WithOptions(zap.IncreaseLevel(zap.InfoLevel))
	case "warn":
		logger = logger.WithOptions(zap.IncreaseLevel(zap.WarnLevel))
	case "error":
		logger = logger.WithOptions(zap.IncreaseLevel(zap.ErrorLevel))
	}
	return logger, nil
}

func (a *Application) Router() http.Handler {
	return a.router
}

func (a *Application) setupMiddleware() {
	a.router.Use(middleware.RecoveryMiddleware(a.logger))
	a.router.Use(middleware.LoggingMiddleware(a.logger))
	a.router.Use(middleware.CORSMiddleware())
	a.logger.Debug("Middleware configured")
}

func (a *Application) setupRouter(h *handler.CurrencyHandler) {
	var redisHealth handler.HealthChecker
	if a.publisher != nil {
		redisHealth = a.publisher
	}
	a.router.GET("/health", handler.HealthCheck(redisHealth))

	apiV1 := a.router.Group("/api/v1")
	apiV1.GET("/currencies", h.Currencies)
	apiV1.GET("/conversion", h.State)
	apiV1.PUT("/conversion/amount", h.SetAmount)
	apiV1.PUT("/conversion/from", h.SetFrom)
	apiV1.PUT("/conversion/to", h.SetTo)
	apiV1.POST("/auto-update/start", h.StartAutoUpdate)
	apiV1.POST("/auto-update/stop", h.StopAutoUpdate)

	a.logger.Debug("Routes configured",
		zap.String("health", "GET /health"),
		zap.String("conversion", "GET /api/v1/conversion"),
		zap.String("auto_update", "POST /api/v1/auto-update/{start,stop}"),
	)
}

// Start делает первый запрос и включает автообновление, если оно разрешено
func (a *Application) Start() {
	a.client.Refresh()
	if a.config.Converter.AutoUpdate {
		a.client.StartAutoUpdate()
	}
}

func (a *Application) Run() error {
	a.server = &http.Server{
		Addr:         a.config.Server.Addr(),
		Handler:      a.router,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	// Канал для ошибки сервера
	serverErr := make(chan error, 1)

	go func() {
		a.logger.Info("Server starting",
			zap.String("address", a.server.Addr),
			zap.String("mode", a.config.Server.Mode),
		)

		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	a.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		a.Shutdown()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case sig := <-quit:
		a.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		a.Shutdown()
		return nil
	}
}

// Shutdown останавливает сервер, клиента и Redis
func (a *Application) Shutdown() {
	a.logger.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			a.logger.Error("Failed to shutdown HTTP server", zap.Error(err))
		}
	}

	// Таймер и запросы клиента не должны пережить экран
	a.client.Close()
	a.client.Wait()

	if a.publisher != nil {
		a.publisher.Close()
	}

	a.logger.Info("Server stopped gracefully")
	_ = a.logger.Sync()
}
