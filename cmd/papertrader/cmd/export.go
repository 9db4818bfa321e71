package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"papertrader/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <portfolio|history|metrics>",
	Short: "Export portfolio, history, or metrics as CSV",
	Long: `Export a read-only view of the session as CSV.

Examples:
  papertrader export portfolio --out portfolio.csv
  papertrader export history --out trade_history.csv
  papertrader export metrics`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"portfolio", "history", "metrics"},
	RunE:      runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	sess, _, closer, err := newSession()
	if err != nil {
		return err
	}
	defer closer()

	out := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if err := sess.RefreshQuotes(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "(live quotes unavailable)")
	}

	state := sess.State()
	quotes := sess.Quotes()

	switch args[0] {
	case "portfolio":
		return export.WritePortfolio(out, state, quotes, time.Now())
	case "history":
		return export.WriteTradeHistory(out, state.History)
	case "metrics":
		return export.WriteMetrics(out, sess.Metrics())
	default:
		return fmt.Errorf("unknown export target %q", args[0])
	}
}
