package cmd

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show open positions",
	Long: `Show every open position with its live price, unrealized P&L,
return percentage, and days held. Positions without a live quote are
shown at their average price.`,
	Args: cobra.NoArgs,
	RunE: runPortfolio,
}

func init() {
	rootCmd.AddCommand(portfolioCmd)
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	sess, _, closer, err := newSession()
	if err != nil {
		return err
	}
	defer closer()

	if err := sess.RefreshQuotes(context.Background()); err != nil {
		fmt.Println("(live quotes unavailable, showing average prices)")
	}

	state := sess.State()
	quotes := sess.Quotes()

	if len(state.Positions) == 0 {
		fmt.Println("No open positions.")
		fmt.Printf("Cash: %s\n", state.Cash.StringFixed(2))
		return nil
	}

	tickers := state.Tickers()
	sort.Strings(tickers)

	fmt.Printf("%-14s %8s %12s %12s %12s %9s %6s\n",
		"Ticker", "Qty", "Avg Price", "Curr Price", "P&L", "Return%", "Days")
	now := time.Now()
	for _, ticker := range tickers {
		pos := state.Positions[ticker]
		price, ok := quotes.Get(ticker)
		curr, pnl, ret := "-", "-", "-"
		if ok {
			diff := price.Sub(pos.AvgPrice)
			curr = price.StringFixed(2)
			pnl = diff.Mul(decimalInt(pos.Qty)).StringFixed(2)
			ret = diff.Div(pos.AvgPrice).Mul(decimalInt(100)).StringFixed(2)
		}
		days := int(now.Sub(pos.OpenedAt).Hours() / 24)
		fmt.Printf("%-14s %8d %12s %12s %12s %9s %6d\n",
			pos.Ticker, pos.Qty, pos.AvgPrice.StringFixed(2), curr, pnl, ret, days)
	}

	fmt.Printf("\nCash: %s\n", state.Cash.StringFixed(2))
	return nil
}
