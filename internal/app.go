// internal/app.go
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"atm-ledger/internal/config"
	"atm-ledger/internal/console"
	"atm-ledger/internal/repository"
	"atm-ledger/internal/repository/memory"
	"atm-ledger/internal/service"
	"atm-ledger/internal/util"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger

	// Repositories
	AccountRepository repository.AccountRepository

	// Services
	ATMService service.ATMService

	// Front end
	Console *console.Console
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components. The console reads
// from in and writes to out.
func (app *Application) Initialize(ctx context.Context, in io.Reader, out io.Writer) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	return app.InitializeWithConfig(ctx, cfg, in, out)
}

// InitializeWithConfig is Initialize with an already loaded configuration.
func (app *Application) InitializeWithConfig(ctx context.Context, cfg *config.AppConfig, in io.Reader, out io.Writer) error {
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(util.LogOptions{Level: cfg.LogLevel, Format: cfg.LogFormat})
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Initialize Repositories
	app.AccountRepository = memory.NewAccountRepository()
	app.Logger.Info("Account store initialized.")

	// 4. Initialize Services
	app.ATMService = service.NewATMService(app.AccountRepository, app.Logger)
	app.Logger.Info("Services initialized.")

	// 5. Seed the demo account
	if cfg.Demo.Enabled {
		account, err := app.ATMService.Register(ctx, cfg.Demo.Username, cfg.Demo.PIN, cfg.Demo.Balance)
		if err != nil {
			return fmt.Errorf("failed to seed demo account: %w", err)
		}
		app.Logger.Info("Demo account seeded.", "account_id", account.ID, "username", account.Username)
	}

	// 6. Initialize the console front end
	app.Console = console.New(app.ATMService, in, out, cfg.Currency, app.Logger)
	app.Logger.Info("Console initialized.")

	return nil
}

// Run blocks until the console session ends or ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	if app.Console == nil {
		return fmt.Errorf("application not initialized")
	}
	return app.Console.Run(ctx)
}

// Shutdown releases application resources. All state is in memory, so this
// only records that the process is going away.
func (app *Application) Shutdown(ctx context.Context) error {
	if app.Logger == nil {
		return nil
	}
	count := 0
	if app.AccountRepository != nil {
		n, err := app.AccountRepository.CountAccounts(ctx)
		if err != nil {
			app.Logger.Error("Failed to count accounts during shutdown", "error", err)
		} else {
			count = n
		}
	}
	app.Logger.Info("Application shut down gracefully.", "accounts", count)
	return nil
}
