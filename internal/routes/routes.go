package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/8bitCyborg/demoCredit/internal/auth"
	"github.com/8bitCyborg/demoCredit/internal/config"
	"github.com/8bitCyborg/demoCredit/internal/funding"
	"github.com/8bitCyborg/demoCredit/internal/identity"
	"github.com/8bitCyborg/demoCredit/internal/ledger"
	"github.com/8bitCyborg/demoCredit/internal/metrics"
	"github.com/8bitCyborg/demoCredit/internal/middleware"
	"github.com/8bitCyborg/demoCredit/internal/notification"
	"github.com/8bitCyborg/demoCredit/internal/payments"
	"github.com/8bitCyborg/demoCredit/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though config also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Metrics())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// Storage backends, in-memory in development without a database.
	var store ledger.Store
	var userRepo identity.Repository
	if d.DB != nil {
		store = ledger.NewPostgresStore(d.DB)
		userRepo = identity.NewPostgresRepository(d.DB)
	} else {
		store = ledger.NewInMemory()
		userRepo = identity.NewMemoryRepository()
	}

	// Services
	var screener identity.Screener
	var verifier funding.Verifier
	if d.Cfg.AdjutorSecret != "" {
		screener = identity.NewHTTPScreener(d.Cfg.AdjutorBaseURL, d.Cfg.AdjutorSecret, d.Logger)
		verifier = funding.NewHTTPVerifier(d.Cfg.AdjutorBaseURL, d.Cfg.AdjutorSecret)
	}

	identitySvc := identity.NewService(userRepo, store, screener)
	authSvc := auth.NewService(d.Cfg)
	notifier := notification.NewLoggerNotifier(d.Logger)

	fundingSvc := funding.NewService(store, verifier, nil, d.Logger)
	paymentSvc := payments.NewService(store, notifier)
	walletSvc := wallet.NewService(store)

	authHandler := auth.NewHandler(identitySvc, authSvc)
	fundingHandler := funding.NewHandler(fundingSvc)
	paymentHandler := payments.NewHandler(paymentSvc)
	walletHandler := wallet.NewHandler(walletSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Protected routes
	protected := api.Group("", middleware.JWTAuth(d.Cfg))
	RegisterWalletRoutes(protected, walletHandler)
	RegisterFundingRoutes(protected, fundingHandler)
	RegisterPaymentRoutes(protected, paymentHandler)

	return nil
}
