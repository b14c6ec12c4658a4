package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/platform/config"
	"github.com/spf13/cobra"
)

var (
	asOf       string
	donorsFrom string
	donorsTo   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print financial reports",
}

var trialBalanceCmd = &cobra.Command{
	Use:   "trial-balance",
	Short: "Print the trial balance",
	Long: `Print the trial balance of all posted entries up to a date.

Example:
  treasury report trial-balance --as-of 2024-03-31`,
	RunE: runTrialBalance,
}

var donorsCmd = &cobra.Command{
	Use:   "donors",
	Short: "Print posted income per payer",
	Long: `Print posted income grouped by payer, largest total first.

Example:
  treasury report donors --from 2024-01-01 --to 2024-03-31`,
	RunE: runDonors,
}

func init() {
	trialBalanceCmd.Flags().StringVar(&asOf, "as-of", "", "report date (YYYY-MM-DD, default today)")
	donorsCmd.Flags().StringVar(&donorsFrom, "from", "", "start date (YYYY-MM-DD, default first entry)")
	donorsCmd.Flags().StringVar(&donorsTo, "to", "", "end date (YYYY-MM-DD, default today)")
	reportCmd.AddCommand(trialBalanceCmd, donorsCmd)
}

// parseDateFlag parses a YYYY-MM-DD flag. An empty value gives the zero time,
// which the reporting service reads as today.
func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: use YYYY-MM-DD", name, value)
	}
	return parsed, nil
}

func runTrialBalance(cmd *cobra.Command, args []string) error {
	date, err := parseDateFlag("as-of", asOf)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	rt, err := openRuntime(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	tb, err := rt.services.Reporting.TrialBalance(cmd.Context(), date, systemActor)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Trial Balance as of %s ===\n", tb.AsOf.Format(time.DateOnly))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Code\tAccount\tDebit\tCredit\t")
	for _, row := range tb.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", row.AccountCode, row.AccountName, row.NetDebit.StringFixed(2), row.NetCredit.StringFixed(2))
	}
	fmt.Fprintf(w, "\tTotal\t%s\t%s\t\n", tb.TotalNetDebit.StringFixed(2), tb.TotalNetCredit.StringFixed(2))
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()
	return nil
}

func runDonors(cmd *cobra.Command, args []string) error {
	to, err := parseDateFlag("to", donorsTo)
	if err != nil {
		return err
	}
	var from *time.Time
	if donorsFrom != "" {
		f, err := parseDateFlag("from", donorsFrom)
		if err != nil {
			return err
		}
		from = &f
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	rt, err := openRuntime(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	summary, err := rt.services.Reporting.DonorSummary(cmd.Context(), from, to, systemActor)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Donor Summary to %s ===\n", summary.To.Format(time.DateOnly))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Payer\tCount\tTotal\t")
	for _, row := range summary.Rows {
		fmt.Fprintf(w, "%s\t%d\t%s\t\n", row.Party, row.Count, row.Total.StringFixed(2))
	}
	fmt.Fprintf(w, "Total\t\t%s\t\n", summary.Total.StringFixed(2))
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()
	return nil
}
