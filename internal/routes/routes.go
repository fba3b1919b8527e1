package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/paydash/paydash/internal/auth"
	"github.com/paydash/paydash/internal/config"
	"github.com/paydash/paydash/internal/identity"
	"github.com/paydash/paydash/internal/middleware"
	"github.com/paydash/paydash/internal/payments"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Services holds the constructed domain services so the bootstrap can reuse
// them for one-time initialization.
type Services struct {
	Identity *identity.Service
	Payments *payments.Service
}

// Setup configures middlewares and all application routes, returning the
// wired services.
func Setup(app *fiber.App, d Deps) (Services, error) {
	// Postgres and Redis may only be absent in development.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return Services{}, fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return Services{}, fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.RequestLog(d.Logger))

	RegisterHealthRoutes(app, d)

	var (
		userRepo     identity.Repository
		paymentStore payments.Store
		err          error
	)
	if d.DB != nil {
		if userRepo, err = identity.NewPostgresRepository(context.Background(), d.DB); err != nil {
			return Services{}, err
		}
		if paymentStore, err = payments.NewPostgresStore(context.Background(), d.DB); err != nil {
			return Services{}, err
		}
	} else {
		userRepo = identity.NewMemoryRepository()
		paymentStore = payments.NewMemoryStore()
	}

	identitySvc := identity.NewService(userRepo, d.Logger)
	paymentSvc := payments.NewService(paymentStore)

	tokens := auth.NewTokenManager(d.Cfg.JWTSecret, d.Cfg.JWTIssuer, d.Cfg.TokenTTL)
	authSvc := auth.NewService(identitySvc, tokens)

	authHandler := auth.NewHandler(authSvc)
	identityHandler := identity.NewHandler(identitySvc)
	paymentHandler := payments.NewHandler(paymentSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals(middleware.RequestIDKey).(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes.
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Protected routes: authentication first, then per-route role checks.
	authenticate := middleware.Authenticate(tokens)
	protected := api.Group("", authenticate)

	var idempotency fiber.Handler
	if d.Cache != nil {
		idempotency = middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	}
	RegisterPaymentRoutes(protected, paymentHandler, idempotency)
	RegisterUserRoutes(protected, identityHandler)

	return Services{Identity: identitySvc, Payments: paymentSvc}, nil
}
