package cmd

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the trade log",
	Long:  `Show every recorded trade in order of occurrence.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func decimalInt(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func runHistory(cmd *cobra.Command, args []string) error {
	sess, _, closer, err := newSession()
	if err != nil {
		return err
	}
	defer closer()

	state := sess.State()
	if len(state.History) == 0 {
		fmt.Println("No trades recorded.")
		return nil
	}

	fmt.Printf("%-20s %-14s %-5s %6s %10s %10s %-6s %10s  %s\n",
		"Date", "Ticker", "Act", "Qty", "Price", "Comm", "Signal", "P&L", "Notes")
	for _, rec := range state.History {
		pnl := "-"
		if rec.PnL != nil {
			pnl = rec.PnL.StringFixed(2)
		}
		fmt.Printf("%-20s %-14s %-5s %6d %10s %10s %-6s %10s  %s\n",
			rec.Time.Format(time.DateTime), rec.Ticker, rec.Action, rec.Qty,
			rec.Price.StringFixed(2), rec.Commission.StringFixed(2),
			rec.Signal, pnl, rec.Notes)
	}
	return nil
}
