package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	washsale "github.com/Cmf1125/wash-sale-tracker"
	"github.com/Cmf1125/wash-sale-tracker/renderer"
	"github.com/google/subcommands"
)

// sellCmd holds the flags for the 'sell' subcommand.
type sellCmd struct {
	date     string
	symbol   string
	quantity string
	price    string
	account  string
	force    bool
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a share sale and evaluate the wash-sale rule" }
func (*sellCmd) Usage() string {
	return `wst sell -s <symbol> -q <quantity> -p <price> [-d <date>] [-a <account>] [-force]

  Records a sale, consumes tax lots first-in-first-out, and reports the
  realized result per lot with any disallowed wash-sale losses. With -force
  the sale is recorded even when it exceeds the tracked shares, which is
  useful when back-filling incomplete history.

Usage Examples:
$ wst sell -s AAPL -q 40 -p 189.20
$ wst sell -s AAPL -q 500 -p 150 -d 2023-01-10 -force

`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Ticker symbol to sell.")
	f.StringVar(&c.quantity, "q", "", "Number of shares.")
	f.StringVar(&c.price, "p", "", "Price per share.")
	f.StringVar(&c.date, "d", "", "Trade date. Defaults to today.")
	f.StringVar(&c.account, "a", "", "Optional account label.")
	f.BoolVar(&c.force, "force", false, "Record the sale even if it exceeds tracked shares.")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	trade, status := parseTradeFlags(washsale.TxSell, c.date, c.symbol, c.quantity, c.price, c.account)
	if status != subcommands.ExitSuccess {
		return status
	}

	engine, err := openEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	result, err := engine.RecordTransaction(trade, washsale.RecordOptions{ForceImport: c.force})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording sale: %v\n", err)
		return subcommands.ExitFailure
	}

	if result.WashSale != nil {
		printMarkdown(renderer.WashSale(result.Transaction, result.WashSale))
	}
	if !result.Shortfall.IsZero() {
		fmt.Fprintf(os.Stderr, "Warning: %s shares were not covered by tracked lots.\n", result.Shortfall)
	}
	if result.Warning != nil {
		safe, _ := engine.SafeToSellDate(result.Transaction.Symbol)
		printMarkdown(renderer.SellWarning(result.Warning, safe))
	}
	return saveEngine(engine)
}
