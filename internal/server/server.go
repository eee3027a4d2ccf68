package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"example.com/bankquest/backend/internal/ai"
	"example.com/bankquest/backend/internal/auth"
	"example.com/bankquest/backend/internal/config"
	"example.com/bankquest/backend/internal/handlers"
	"example.com/bankquest/backend/internal/notifications"
	"example.com/bankquest/backend/internal/profile"
	"example.com/bankquest/backend/internal/repository"
)

// New собирает HTTP-сервер Echo с роутами и зависимостями.
func New(cfg config.Config, logger *slog.Logger, store repository.Store) (*echo.Echo, error) {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	aiClient, err := ai.NewClient(cfg.AI.Provider, ai.ClientOptions{
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		Timeout:     cfg.AI.Timeout,
		MaxTokens:   cfg.AI.MaxOutputTokens,
		Temperature: cfg.AI.Temperature,
	})
	if err != nil {
		return nil, err
	}

	aiService := ai.NewService(aiClient, cfg.AI.Timeout, logger)
	assembler := profile.NewAssembler(profile.Options{
		BalanceURL:        cfg.Upstream.BalanceURL,
		HistoryURL:        cfg.Upstream.HistoryURL,
		Timeout:           cfg.Upstream.Timeout,
		DemoUserID:        cfg.Upstream.DemoUserID,
		SyntheticFallback: cfg.Upstream.SyntheticFallback,
		RecentLimit:       cfg.Upstream.RecentLimit,
	}, store, logger)
	notificationHub := notifications.NewHub()
	generationLogs := &handlers.GenerationLogger{
		Store:    store,
		Provider: cfg.AI.Provider,
		Model:    cfg.AI.Model,
	}

	registerRoutes(
		e,
		cfg.Version,
		handlers.NewProfileHandler(assembler),
		handlers.NewGoalHandler(aiService, store, notificationHub, generationLogs),
		handlers.NewChallengeHandler(aiService, assembler, store, notificationHub, generationLogs),
		handlers.NewGamificationHandler(aiService, assembler, generationLogs),
		handlers.NewNotificationHandler(notificationHub),
		auth.RequireAuthorization(),
		rateLimiter(cfg.RateLimit),
	)

	return e, nil
}

// NewHTTPServer создает net/http сервер с заданными таймаутами.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.String("request_id", v.RequestID),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			msg := "request completed"
			if v.Status >= http.StatusInternalServerError {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, msg, attrs...)
				return nil
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, msg, attrs...)
			return nil
		},
	})
}

// rateLimiter ограничивает частоту входящих API-запросов с одного IP.
func rateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	limit := rate.Limit(float64(cfg.PerMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     cfg.Burst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiter(store)
}
