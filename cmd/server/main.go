package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stripe/stripe-go/v82"

	"github.com/cmarinek/red-square-broadcast/internal/config"
	"github.com/cmarinek/red-square-broadcast/internal/database"
	"github.com/cmarinek/red-square-broadcast/internal/handler"
	"github.com/cmarinek/red-square-broadcast/internal/jobs"
	"github.com/cmarinek/red-square-broadcast/internal/lib/logger/sl"
	"github.com/cmarinek/red-square-broadcast/internal/metrics"
	"github.com/cmarinek/red-square-broadcast/internal/middleware"
	"github.com/cmarinek/red-square-broadcast/internal/objectstore"
	"github.com/cmarinek/red-square-broadcast/internal/payment"
	"github.com/cmarinek/red-square-broadcast/internal/queue"
	"github.com/cmarinek/red-square-broadcast/internal/repository"
	"github.com/cmarinek/red-square-broadcast/internal/router"
	"github.com/cmarinek/red-square-broadcast/internal/service"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.Load()
	log := setupLogger(cfg.Env)
	log.Info("starting api", slog.String("env", cfg.Env), slog.String("port", cfg.Port))

	if err := run(cfg, log); err != nil {
		log.Error("api stopped with error", sl.Err(err))
		os.Exit(1)
	}
	log.Info("api stopped")
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DB.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		log.Warn("redis unavailable, cache and rate limit disabled")
	} else {
		defer rdb.Close()
	}

	m := metrics.New()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	profiles := repository.NewProfileRepo(db)
	screenRepo := repository.NewScreenRepo(db)
	contents := repository.NewContentRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	payments := repository.NewPaymentRepo(db)
	notifications := repository.NewNotificationRepo(db)
	stats := repository.NewStatsRepo(db)

	store, err := newObjectStore(ctx, cfg.Upload)
	if err != nil {
		return err
	}
	charger := newCharger(cfg.Payment)
	log.Info("payments configured", slog.String("charger", charger.Name()), slog.String("currency", cfg.Payment.Currency))

	// A nil *queue.Publisher must not reach the service as a non-nil interface.
	var publisher service.EventPublisher
	if cfg.AMQPURL != "" {
		publisher = queue.NewPublisher(cfg.AMQPURL)
	} else {
		log.Warn("RABBITMQ_URL not set, confirmed bookings will not be settled")
	}

	roles := service.NewRoles(log, profiles, screenRepo)
	screens := service.NewScreens(log, screenRepo)
	uploads := service.NewUploads(log, screenRepo, contents, store, cfg.Upload.MaxBytes)
	bookings := service.NewBookings(log, screenRepo, contents, bookingRepo, charger, publisher, m, cfg.Payment.Currency)
	admin := service.NewAdmin(log, profiles, screenRepo, bookingRepo, stats)
	settlements := service.NewSettlements(log, payments, m)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(requestLogger(log, m))
	e.Use(middleware.NewTokenBucket(log, config.LoadRateLimitConfig(), rdb))

	e.GET("/metrics", echo.WrapHandler(m.Handler()))
	if disk, ok := store.(*objectstore.DiskStore); ok && strings.HasPrefix(cfg.Upload.PublicBaseURL, "/") {
		e.Static(cfg.Upload.PublicBaseURL, disk.Dir())
	}

	if cfg.Payment.StripeSecretKey != "" {
		if cfg.Payment.StripeWebhookSecret == "" {
			log.Warn("STRIPE_WEBHOOK_SECRET not set, checkout bookings will stay pending")
		} else {
			router.RegisterWebhooks(e, handler.NewStripeWebhookHandler(log, cfg.Payment.StripeWebhookSecret, bookings))
		}
	}

	screenHandler := handler.NewScreenHandler(log, screens)
	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(log, cfg, users, tokens, roles))
	router.RegisterPublic(e, screenHandler, middleware.NewRedisCache(log, config.LoadCacheConfig(), rdb))
	router.RegisterProtected(e, cfg.JWTSecret, roles, router.Protected{
		Screens:  screenHandler,
		Bookings: handler.NewBookingHandler(log, uploads, bookings, cfg.Payment.SimulatedDelay+5*time.Second),
		Admin:    handler.NewAdminHandler(log, admin),
		Account:  handler.NewAccountHandler(log, roles, notifications),
	})

	scheduler, err := jobs.Start(log, cfg.Jobs.CompletionInterval, bookings)
	if err != nil {
		return err
	}

	consumerDone := make(chan struct{})
	if cfg.AMQPURL != "" {
		go func() {
			defer close(consumerDone)
			queue.NewConsumer(log, cfg.AMQPURL, settlements).Run(ctx)
		}()
	} else {
		close(consumerDone)
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err = <-serveErr:
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", sl.Err(err))
	}
	if err := scheduler.Shutdown(); err != nil {
		log.Error("scheduler shutdown failed", sl.Err(err))
	}
	<-consumerDone
	return err
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}

func newObjectStore(ctx context.Context, cfg config.UploadConfig) (objectstore.Store, error) {
	if cfg.Bucket != "" {
		return objectstore.NewS3Store(ctx, cfg.Bucket, cfg.Region, cfg.PresignTTL)
	}
	return objectstore.NewDiskStore(cfg.LocalDir, cfg.PublicBaseURL), nil
}

func newCharger(cfg config.PaymentConfig) payment.Charger {
	if cfg.StripeSecretKey != "" {
		return payment.NewStripeCharger(stripe.NewClient(cfg.StripeSecretKey), cfg.SuccessURL, cfg.CancelURL)
	}
	return payment.NewSimulatedCharger(cfg.SimulatedDelay)
}

// requestLogger writes one access log line per request and counts it by
// route and status.
func requestLogger(log *slog.Logger, m *metrics.Metrics) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogRoutePath: true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			m.HTTPRequests.WithLabelValues(v.Method, v.RoutePath, strconv.Itoa(v.Status)).Inc()
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, sl.Err(v.Error))
				log.LogAttrs(c.Request().Context(), slog.LevelError, "request", attrs...)
				return nil
			}
			log.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			return nil
		},
	})
}
