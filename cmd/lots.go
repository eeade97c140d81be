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

type lotsCmd struct {
	symbol string
	asOf   string
}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "show open tax lots, now or as of a past date" }
func (*lotsCmd) Usage() string {
	return `wst lots [-s <symbol>] [-d <date>]

  Shows open tax lots in purchase order. With -d, reconstructs the lots as
  they stood at the start of that date, applying only the trades and splits
  that had already happened.

Usage Examples:
$ wst lots -s AAPL
$ wst lots -s AAPL -d 2024-06-30

`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Only show lots for this symbol.")
	f.StringVar(&c.asOf, "d", "", "Reconstruct lots as of this date.")
}

func (c *lotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, err := openEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if c.asOf != "" {
		if c.symbol == "" {
			fmt.Fprintln(os.Stderr, "Error: -d requires -s.")
			return subcommands.ExitUsageError
		}
		on, err := washsale.ParseDate(c.asOf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
		title := fmt.Sprintf("Lots of %s as of %s", c.symbol, on)
		printMarkdown(renderer.Lots(title, engine.LotsAsOf(c.symbol, on)))
		return subcommands.ExitSuccess
	}

	lots := engine.OpenLots(c.symbol)
	printMarkdown(renderer.Lots("Open Lots", lots))
	return subcommands.ExitSuccess
}
