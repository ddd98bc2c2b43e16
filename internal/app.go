// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "rewards-ledger/internal/api"
	"rewards-ledger/internal/api/handler"
	"rewards-ledger/internal/config"
	"rewards-ledger/internal/metrics"
	"rewards-ledger/internal/notify"
	"rewards-ledger/internal/repository"
	"rewards-ledger/internal/repository/sqlstore"
	"rewards-ledger/internal/service"
	"rewards-ledger/internal/util"
	"rewards-ledger/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config  *config.AppConfig
	Logger  *slog.Logger
	DB      *sqlx.DB
	Metrics *metrics.Ledger

	// Repositories
	UserRepository       repository.UserRepository
	ReferralRepository   repository.ReferralRepository
	WithdrawalRepository repository.WithdrawalRepository

	// Services
	LedgerService     service.LedgerService
	ReferralService   service.ReferralService
	BonusService      service.BonusService
	WithdrawalService service.WithdrawalService
	AdminService      service.AdminService

	Notifier notify.Notifier

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		app.Logger = util.GetLogger()
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(util.LogOptions{Level: cfg.LogLevel, File: cfg.LogFile})
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.", "db_driver", cfg.DB.Driver)

	// 3. Connect to Database
	database, err := db.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, app.DB); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		app.Logger.Info("Database schema is up to date.")
	}

	// 4. Initialize Repositories
	app.UserRepository = sqlstore.NewUserRepository()
	app.ReferralRepository = sqlstore.NewReferralRepository()
	app.WithdrawalRepository = sqlstore.NewWithdrawalRepository()
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	// Pass the concrete db.BeginTx, db.CommitTx, db.RollbackTx functions from pkg/db
	app.Metrics = metrics.New()
	deps := service.Deps{
		DBBeginner:  app.DB, // This is the DBTxBeginner
		DBExecutor:  app.DB, // This is the DBExecutor
		Users:       app.UserRepository,
		Referrals:   app.ReferralRepository,
		Withdrawals: app.WithdrawalRepository,
		BeginTx:     db.BeginTx,
		CommitTx:    db.CommitTx,
		RollbackTx:  db.RollbackTx,
		Retry:       cfg.Retry,
		Logger:      app.Logger,
		Metrics:     app.Metrics,
	}
	app.LedgerService = service.NewLedgerService(deps)
	app.ReferralService = service.NewReferralService(deps)
	app.BonusService = service.NewBonusService(deps)
	app.WithdrawalService = service.NewWithdrawalService(deps, cfg.Catalog)
	app.AdminService = service.NewAdminService(deps, cfg.CreditTimeout)
	app.Notifier = notify.NewLogNotifier(app.Logger)
	app.Logger.Info("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	handlers := router.Handlers{
		Users:   handler.NewUserHandler(app.LedgerService, app.ReferralService, cfg.ReferralBonus, app.Notifier, app.Logger),
		Rewards: handler.NewRewardHandler(app.BonusService, app.WithdrawalService, cfg.DailyBonus, app.Logger),
		Admin:   handler.NewAdminHandler(app.LedgerService, app.AdminService, app.Notifier, app.Logger),
		Metrics: app.Metrics.Handler(),
	}
	app.HTTPHandler = router.NewRouter(handlers, router.RouterConfig{
		AdminToken: cfg.AdminToken,
		RateLimit: router.RateLimit{
			RequestsPerMinute: cfg.RateLimitPerMinute,
			Burst:             cfg.RateLimitBurst,
		},
	}, app.Logger)
	if cfg.AdminToken == "" {
		app.Logger.Warn("ADMIN_TOKEN is empty, admin routes are disabled.")
	}
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
