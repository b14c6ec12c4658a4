package cmd

import (
	"fmt"

	"github.com/SscSPs/masjid_treasury/internal/platform/config"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the funds and accounts of the chart seed",
	Long: `Create the funds and accounts listed in CHART_SEED_PATH (or the built-in
mosque chart) that do not exist yet. Existing ones are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		rt, err := openRuntime(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer rt.close()
		return rt.seedChart(cmd.Context())
	},
}
