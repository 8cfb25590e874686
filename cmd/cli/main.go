package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/communityroots/mutualaid/cmd/cli/commands"
	"github.com/communityroots/mutualaid/internal/config"
	"github.com/communityroots/mutualaid/pkg/memstore"
	"github.com/communityroots/mutualaid/pkg/postgres"
	"github.com/communityroots/mutualaid/pkg/utils/logging"
)

var (
	env string
	app = &commands.AppContext{}
	db  *postgres.DB
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mutualaid",
		Short: "Community Roots CLI - Manage volunteer shifts and coverage",
		Long:  `A CLI tool for managing volunteer shifts, availability, recurring patterns, and shift swaps.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if db != nil {
				db.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	// Add all commands
	rootCmd.AddCommand(commands.CreateShiftCmd(app))
	rootCmd.AddCommand(commands.SignUpCmd(app))
	rootCmd.AddCommand(commands.CancelSignupCmd(app))
	rootCmd.AddCommand(commands.StartShiftCmd(app))
	rootCmd.AddCommand(commands.CompleteShiftCmd(app))
	rootCmd.AddCommand(commands.CancelShiftCmd(app))
	rootCmd.AddCommand(commands.BrowseShiftsCmd(app))
	rootCmd.AddCommand(commands.CreatePatternCmd(app))
	rootCmd.AddCommand(commands.TogglePatternCmd(app))
	rootCmd.AddCommand(commands.AddAvailabilityCmd(app))
	rootCmd.AddCommand(commands.DeactivateSlotCmd(app))
	rootCmd.AddCommand(commands.ReserveBookingCmd(app))
	rootCmd.AddCommand(commands.ReleaseBookingCmd(app))
	rootCmd.AddCommand(commands.CheckAvailabilityCmd(app))
	rootCmd.AddCommand(commands.AvailableWindowsCmd(app))
	rootCmd.AddCommand(commands.QuerySlotsCmd(app))
	rootCmd.AddCommand(commands.RequestSwapCmd(app))
	rootCmd.AddCommand(commands.AcceptSwapCmd(app))
	rootCmd.AddCommand(commands.DeclineSwapCmd(app))
	rootCmd.AddCommand(commands.CancelSwapCmd(app))
	rootCmd.AddCommand(commands.FindSwapPartnersCmd(app))
	rootCmd.AddCommand(commands.PublishShiftCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, and the backing store
func initApp() error {
	var err error
	app.Ctx = context.Background()

	// Initialize logger
	app.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	// Connect the backing store. Without a database URL the scheduler runs
	// against the in-memory store.
	if app.Cfg.Database.URL == "" {
		app.Logger.Info("No database configured, using in-memory store")
		app.Store = memstore.New()
		return nil
	}

	app.Logger.Info("Connecting to database")
	db, err = postgres.NewDB(app.Ctx, app.Cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	app.Logger.Info("Running database migrations")
	if err := db.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Logger.Debug("Database ready")

	app.Store = db
	return nil
}
