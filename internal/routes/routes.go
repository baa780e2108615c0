package routes

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/signalpost/signalpost/internal/auth"
	"github.com/signalpost/signalpost/internal/category"
	"github.com/signalpost/signalpost/internal/config"
	"github.com/signalpost/signalpost/internal/identity"
	"github.com/signalpost/signalpost/internal/middleware"
	"github.com/signalpost/signalpost/internal/notification"
	"github.com/signalpost/signalpost/internal/otp"
	"github.com/signalpost/signalpost/internal/post"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger

	// Notifier overrides the default logging notifier when set.
	Notifier notification.Notifier
}

// Setup configures middlewares and all application routes. When DB or Cache
// is nil (tests, local experiments) in-memory fallbacks are used instead.
func Setup(app *fiber.App, d Deps) error {
	if !isDev(d.Cfg.AppEnv) {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	var identityRepo identity.Repository
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
	}

	var challenges otp.Store
	if d.Cache != nil {
		challenges = otp.NewRedisStore(d.Cache)
	} else {
		challenges = otp.NewMemoryStore()
	}

	notifier := d.Notifier
	if notifier == nil {
		notifier = notification.NewLoggerNotifier(d.Logger)
	}

	identitySvc := identity.NewService(identityRepo, challenges, notifier, identity.Options{
		RegistrationTTL: d.Cfg.RegistrationOTPTTL,
		ResetTTL:        d.Cfg.ResetOTPTTL,
		MaxAttempts:     d.Cfg.OTPMaxAttempts,
		EchoCode:        d.Cfg.DebugEchoOTP,
	})
	tokenSvc := auth.NewTokenService(d.Cfg.JWTSecret, d.Cfg.AccessTokenTTL)

	var categoryRepo category.Repository
	var postRepo post.Repository
	if d.DB != nil {
		categoryRepo = category.NewPostgresRepository(d.DB)
		postRepo = post.NewPostgresRepository(d.DB)
	} else {
		categoryRepo = category.NewMemoryRepository()
		postRepo = post.NewMemoryRepository()
	}
	categorySvc := category.NewService(categoryRepo)
	postSvc := post.NewService(postRepo, identityRepo, categoryRepo)

	identityHandler := identity.NewHandler(identitySvc)
	authHandler := auth.NewHandler(identitySvc, tokenSvc)
	categoryHandler := category.NewHandler(categorySvc)
	postHandler := post.NewHandler(postSvc)

	api := app.Group("/api/v1")

	RegisterAccountRoutes(api, identityHandler, authHandler)
	RegisterCategoryRoutes(api, categoryHandler)
	RegisterPostRoutes(api, postHandler)

	jwtmw := middleware.JWTAuth(tokenSvc, identityRepo)
	RegisterProfileRoute(api.Group("", jwtmw), identityRepo)

	return nil
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
