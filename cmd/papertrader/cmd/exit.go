package cmd

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"papertrader/ledger"
)

var exitPrice string

var exitCmd = &cobra.Command{
	Use:   "exit <ticker>",
	Short: "Close an open position",
	Long: `Close the whole position for an instrument.

By default the exit settles at the instrument's own freshly fetched
close. Pass --price to settle at an explicit price instead, e.g. when
the feed is down.

Examples:
  papertrader exit TCS.NS
  papertrader exit TCS.NS --price 3875.50`,
	Args: cobra.ExactArgs(1),
	RunE: runExit,
}

func init() {
	rootCmd.AddCommand(exitCmd)
	exitCmd.Flags().StringVarP(&exitPrice, "price", "p", "", "settle at this price instead of the live close")
}

func runExit(cmd *cobra.Command, args []string) error {
	sess, _, closer, err := newSession()
	if err != nil {
		return err
	}
	defer closer()

	ctx := context.Background()
	ticker := args[0]

	var rec ledger.Record
	if exitPrice != "" {
		price, err := decimal.NewFromString(exitPrice)
		if err != nil {
			return fmt.Errorf("parse price %q: %w", exitPrice, err)
		}
		rec, err = sess.Exit(ctx, ticker, price)
		if err != nil {
			return err
		}
	} else {
		rec, err = sess.ExitAtMarket(ctx, ticker)
		if err != nil {
			return err
		}
	}

	fmt.Printf("Exited %d %s @ %s, P&L %s\n",
		rec.Qty, rec.Ticker, rec.Price.StringFixed(2), rec.PnL.StringFixed(2))
	fmt.Printf("Cash: %s\n", sess.State().Cash.StringFixed(2))
	return nil
}
