package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"walletdash/internal/models"
	"walletdash/internal/money"
	"walletdash/internal/services/donut"
	"walletdash/internal/sinks"
)

func newSummaryCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print balance, income, expense and the category legend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, flags, donut.Options{})
			if err != nil {
				return err
			}

			summary := s.dash.Summary()
			layout := s.dash.Layout(s.cfg.Chart.Size)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if s.dash.IsDemo() {
				fmt.Fprintln(w, "(sample data)")
			}
			fmt.Fprintf(w, "Balance\t%s\n", money.Format(summary.Balance))
			fmt.Fprintf(w, "Income\t%s\n", money.Format(summary.Income))
			fmt.Fprintf(w, "Expense\t%s\n", money.Format(summary.Expense))
			fmt.Fprintf(w, "Spending\t%s\n", layout.TotalText)
			for _, item := range layout.Legend {
				fmt.Fprintf(w, "  %s\t%s\n", item.Color, item.Label)
			}
			return w.Flush()
		},
	}
}

func newListCommand(flags *globalFlags) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print transactions matching a filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := models.ParseFilterKey(filter)
			if key == models.FilterAll && strings.ToLower(strings.TrimSpace(filter)) != string(models.FilterAll) {
				return fmt.Errorf("unknown filter %q (want all, income or expense)", filter)
			}

			s, err := openSession(cmd, flags, donut.Options{})
			if err != nil {
				return err
			}

			var list sinks.List
			s.dash.Render(&sinks.RenderSinks{Transactions: &list}, key)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, item := range list.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", item.Icon, item.Title, item.Subtitle, item.AmountText)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&filter, "filter", string(models.FilterAll), "all, income or expense")

	return cmd
}
