package routes

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/scootgate/scootgate/internal/account"
	"github.com/scootgate/scootgate/internal/booking"
	"github.com/scootgate/scootgate/internal/challenge"
	"github.com/scootgate/scootgate/internal/cipher"
	"github.com/scootgate/scootgate/internal/config"
	"github.com/scootgate/scootgate/internal/feedback"
	"github.com/scootgate/scootgate/internal/fleet"
	"github.com/scootgate/scootgate/internal/logging"
	"github.com/scootgate/scootgate/internal/middleware"
	"github.com/scootgate/scootgate/internal/notification"
	"github.com/scootgate/scootgate/internal/provider"
	"github.com/scootgate/scootgate/internal/record"
	"github.com/scootgate/scootgate/internal/support"
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
	// Enforce DB/Redis presence outside of dev, even though main also checks.
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
	app.Use(middleware.Audit(logging.Component(d.Logger, "http")))

	RegisterHealthRoutes(app, d)

	// Stores fall back to memory in dev without backing services.
	var records record.Store
	var pending account.PendingStore
	var publisher notification.Publisher
	if d.Cache != nil {
		records = record.NewRedisStore(d.Cache)
		pending = account.NewRedisPendingStore(d.Cache)
		publisher = notification.NewRedisPublisher(d.Cache)
	} else {
		records = record.NewMemoryStore()
		pending = account.NewMemoryPendingStore()
		publisher = notification.NewLoggerPublisher(logging.Component(d.Logger, "notification"))
	}
	dispatcher := notification.NewDispatcher(publisher, logging.Component(d.Logger, "notification"))

	var creds provider.CredentialStore
	var fleetRepo fleet.Repository
	var bookingRepo booking.Repository
	var ticketRepo support.Repository
	var feedbackRepo feedback.Repository
	if d.DB != nil {
		creds = provider.NewPostgresCredentialStore(d.DB)
		fleetRepo = fleet.NewPostgresRepository(d.DB)
		bookingRepo = booking.NewPostgresRepository(d.DB)
		ticketRepo = support.NewPostgresRepository(d.DB)
		feedbackRepo = feedback.NewPostgresRepository(d.DB)
	} else {
		creds = provider.NewMemoryCredentialStore()
		fleetRepo = fleet.NewMemoryRepository()
		bookingRepo = booking.NewMemoryRepository()
		ticketRepo = support.NewMemoryRepository()
		feedbackRepo = feedback.NewMemoryRepository()
	}

	gen, err := cipher.NewGenerator(d.Cfg.CipherShift)
	if err != nil {
		return err
	}
	sequencer := challenge.NewSequencer(records, gen, logging.Component(d.Logger, "challenge"))
	idp := provider.NewLocal(creds, sequencer, provider.Options{
		JWTSecret:           d.Cfg.JWTSecret,
		AccessTokenTTL:      d.Cfg.AccessTokenTTL,
		ChallengeSessionTTL: d.Cfg.ChallengeSessionTTL,
		MaxAttempts:         d.Cfg.MaxChallengeAttempts,
	}, logging.Component(d.Logger, "provider"))

	accountSvc := account.NewService(idp, records, pending, dispatcher, d.Cfg.PendingSignupTTL, logging.Component(d.Logger, "account"))
	fleetSvc := fleet.NewService(fleetRepo)
	bookingSvc := booking.NewService(bookingRepo, fleetSvc, dispatcher, logging.Component(d.Logger, "booking"))
	ticketSvc := support.NewService(ticketRepo, bookingSvc, fleetSvc, dispatcher, logging.Component(d.Logger, "support"))
	feedbackSvc := feedback.NewService(feedbackRepo, logging.Component(d.Logger, "feedback"))
	assistant := support.NewAssistant(bookingSvc, ticketSvc, logging.Component(d.Logger, "assistant"))

	accountHandler := account.NewHandler(accountSvc)
	fleetHandler := fleet.NewHandler(fleetSvc)
	bookingHandler := booking.NewHandler(bookingSvc)
	feedbackHandler := feedback.NewHandler(feedbackSvc)
	assistHandler := support.NewHandler(assistant)

	api := app.Group("/api/v1")

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, accountHandler, rateLimiter)
	RegisterAssistRoutes(api, assistHandler)
	RegisterFleetPublicRoutes(api, fleetHandler)

	// Protected routes
	jwtmw := middleware.JWTAuth(idp)
	protected := api.Group("", jwtmw)
	RegisterFleetOperatorRoutes(protected, fleetHandler)
	RegisterBookingRoutes(protected, bookingHandler, d)
	RegisterFeedbackRoutes(protected, feedbackHandler)

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
