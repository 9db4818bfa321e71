package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"papertrader/export"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show portfolio performance metrics",
	Long: `Show realized and unrealized P&L, win rate, Sharpe ratio, maximum
drawdown, and the best and worst open positions. Metrics that are not
yet defined (for example the Sharpe ratio before two exits) display
as "-".`,
	Args: cobra.NoArgs,
	RunE: runMetrics,
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}

func runMetrics(cmd *cobra.Command, args []string) error {
	sess, _, closer, err := newSession()
	if err != nil {
		return err
	}
	defer closer()

	if err := sess.RefreshQuotes(context.Background()); err != nil {
		fmt.Println("(live quotes unavailable, unrealized P&L may be stale)")
	}

	sum := sess.Metrics()

	fmt.Println("==================================================")
	fmt.Println(" Portfolio Metrics")
	fmt.Println("==================================================")
	fmt.Printf("Total Portfolio Value: %s\n", sum.TotalValue.StringFixed(2))
	fmt.Printf("Realized P&L:          %s\n", sum.RealizedPnL.StringFixed(2))
	fmt.Printf("Unrealized P&L:        %s\n", sum.UnrealizedPnL.StringFixed(2))
	fmt.Printf("Win Rate:              %s\n", export.FormatPercent(sum.WinRate, sum.HasWinRate))
	fmt.Printf("Sharpe Ratio:          %s\n", export.FormatRatio(sum.Sharpe, sum.HasSharpe))
	fmt.Printf("Max Drawdown:          %s\n", export.FormatPercent(sum.MaxDrawdown, true))
	fmt.Printf("Best Stock:            %s\n", export.FormatStock(sum.Best, sum.HasBest))
	fmt.Printf("Worst Stock:           %s\n", export.FormatStock(sum.Worst, sum.HasWorst))
	return nil
}
