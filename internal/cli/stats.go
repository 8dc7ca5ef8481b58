package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tansive/libdesk/internal/library"
)

// barWidth is the widest bar drawn by loans-per-day.
const barWidth = 40

func rangeFromFlags(cmd *cobra.Command) library.Range {
	var r library.Range
	r.From, _ = cmd.Flags().GetString("from")
	r.To, _ = cmd.Flags().GetString("to")
	return r
}

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "First day, YYYY-MM-DD (default 29 days ago)")
	cmd.Flags().String("to", "", "Last day, YYYY-MM-DD (default today)")
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Library statistics (administrators)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var statsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Loan and user totals for a date range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := current.library.ParseRange(rangeFromFlags(cmd))
		if err != nil {
			return err
		}
		sum, err := current.library.StatsSummary(cmd.Context(), r)
		if err != nil {
			return err
		}
		return printResult(cmd, sum, func(w io.Writer) error {
			headerLabel.Fprintf(w, "%s to %s\n", r.From, r.To)
			t := newTable(w)
			t.row("Loans:", strconv.FormatInt(sum.TotalLoans, 10))
			t.row("Overdue loans:", strconv.FormatInt(sum.OverdueLoans, 10))
			t.row("New users:", strconv.FormatInt(sum.NewUsers, 10))
			t.row("Active users:", strconv.FormatInt(sum.ActiveUsers, 10))
			if err := t.flush(); err != nil {
				return err
			}
			if len(sum.MostPopularBooks) == 0 {
				return nil
			}
			fmt.Fprintln(w)
			headerLabel.Fprintln(w, "Most popular")
			t = newTable(w, "title", "loans")
			for _, b := range sum.MostPopularBooks {
				t.row(b.Title, strconv.FormatInt(b.LoansCount, 10))
			}
			return t.flush()
		})
	},
}

var statsLoansPerDayCmd = &cobra.Command{
	Use:   "loans-per-day",
	Short: "Daily loan counts for a date range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		days, err := current.library.LoansPerDay(cmd.Context(), rangeFromFlags(cmd))
		if err != nil {
			return err
		}
		return printResult(cmd, days, func(w io.Writer) error {
			var peak int64
			for _, d := range days {
				peak = max(peak, d.LoansCount)
			}
			t := newTable(w, "day", "loans", "")
			for _, d := range days {
				bar := ""
				if peak > 0 {
					bar = strings.Repeat("#", int(d.LoansCount*barWidth/peak))
				}
				t.row(d.Day, strconv.FormatInt(d.LoansCount, 10), bar)
			}
			return t.flush()
		})
	},
}

func init() {
	addRangeFlags(statsSummaryCmd)
	addRangeFlags(statsLoansPerDayCmd)

	statsCmd.AddCommand(statsSummaryCmd, statsLoansPerDayCmd)
	rootCmd.AddCommand(statsCmd)
}
