package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var quoteCmd = &cobra.Command{
	Use:   "quote <ticker>",
	Short: "Fetch a price snapshot and show its signal",
	Long: `Fetch the latest close, 9-day moving average, and 14-day RSI for an
instrument and show the trade signal they produce.

Examples:
  papertrader quote RELIANCE.NS`,
	Args: cobra.ExactArgs(1),
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) error {
	sess, _, closer, err := newSession()
	if err != nil {
		return err
	}
	defer closer()

	snap, sig, err := sess.Quote(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Ticker:  %s\n", snap.Ticker)
	fmt.Printf("Close:   %s\n", snap.Close.StringFixed(2))
	fmt.Printf("9d MA:   %s\n", snap.MA.StringFixed(2))
	fmt.Printf("14d RSI: %s\n", snap.RSI.StringFixed(2))
	fmt.Printf("Signal:  %s\n", sig)
	return nil
}
