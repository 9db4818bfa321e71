package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var buyCmd = &cobra.Command{
	Use:   "buy <ticker>",
	Short: "Buy an instrument when its signal allows it",
	Long: `Fetch a snapshot for the instrument and, when it evaluates to a buy
signal, invest the configured fraction of cash at the snapshot close.

The order is rejected when the signal is not a buy, when the sized
notional falls under the minimum per trade, or when the total cost
exceeds the cash balance.

Examples:
  papertrader buy INFY.NS`,
	Args: cobra.ExactArgs(1),
	RunE: runBuy,
}

func init() {
	rootCmd.AddCommand(buyCmd)
}

func runBuy(cmd *cobra.Command, args []string) error {
	sess, _, closer, err := newSession()
	if err != nil {
		return err
	}
	defer closer()

	ctx := context.Background()
	snap, _, err := sess.Quote(ctx, args[0])
	if err != nil {
		return err
	}

	rec, err := sess.Buy(ctx, snap)
	if err != nil {
		return err
	}

	fmt.Printf("Bought %d %s @ %s (commission %s)\n",
		rec.Qty, rec.Ticker, rec.Price.StringFixed(2), rec.Commission.StringFixed(2))
	fmt.Printf("Cash: %s\n", sess.State().Cash.StringFixed(2))
	return nil
}
