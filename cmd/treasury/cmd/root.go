// Package cmd provides the treasury CLI commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/masjid_treasury/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/masjid_treasury/internal/core/ports/services"
	"github.com/SscSPs/masjid_treasury/internal/core/services"
	"github.com/SscSPs/masjid_treasury/internal/platform/config"
	"github.com/SscSPs/masjid_treasury/internal/platform/seed"
	"github.com/SscSPs/masjid_treasury/internal/repositories/database/bolt"
	"github.com/SscSPs/masjid_treasury/internal/repositories/database/pgsql"
	"github.com/SscSPs/masjid_treasury/pkg/database"
	"github.com/spf13/cobra"
)

var debug bool

// systemActor performs seeding and offline reports.
var systemActor = domain.NewActor("system", domain.CapTreasurer, domain.CapAuditor)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "treasury",
	Short: "Mosque treasury ledger",
	Long: `treasury runs the double-entry fund ledger of a mosque treasury.

Income and expenses move through a verify/approve/post workflow and are
posted as balanced journal entries tagged with their fund (General, Zakat,
Sadaqah, Lillah, Amanah).

Example:
  treasury serve
  treasury migrate up
  treasury seed
  treasury report trial-balance --as-of 2024-03-31`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(reportCmd)
}

// runtime is an opened store with the services over it.
type runtime struct {
	cfg      *config.Config
	chart    *seed.Chart
	services *portssvc.ServiceContainer
	close    func()
}

// openRuntime loads the chart seed, opens the configured store and wires the services.
func openRuntime(ctx context.Context, cfg *config.Config) (*runtime, error) {
	chart, err := seed.Load(cfg.ChartSeedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart seed: %w", err)
	}

	rt := &runtime{cfg: cfg, chart: chart}
	var repos portsrepo.RepositoryProvider
	switch cfg.StoreDriver {
	case config.DriverPgsql:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return nil, err
		}
		repos = pgsql.NewRepositoryProvider(pool)
		rt.close = func() { database.ClosePgxPool(pool) }
	default:
		store, err := database.OpenBoltStore(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		repos = bolt.NewRepositoryProvider(store)
		rt.close = func() {
			if err := store.Close(); err != nil {
				slog.Error("Failed to close bolt store", slog.String("error", err.Error()))
			}
		}
	}

	rt.services, err = services.NewServiceContainer(services.ContainerConfig{
		ApprovalPolicy: cfg.ApprovalPolicy,
		Rules:          chart.Rules,
		Clock:          services.SystemClock{},
	}, repos)
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("failed to build services: %w", err)
	}
	return rt, nil
}

// seedChart creates the funds and accounts from the seed that are missing.
func (rt *runtime) seedChart(ctx context.Context) error {
	created, err := rt.services.Chart.Seed(ctx, rt.chart.Funds, rt.chart.Accounts, systemActor)
	if err != nil {
		return fmt.Errorf("failed to seed chart: %w", err)
	}
	slog.Info("Chart of accounts ready", slog.Int("created", created), slog.Int("accounts", len(rt.chart.Accounts)))
	return nil
}
