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

// splitCmd groups the split subactions: add, rm, list.
type splitCmd struct {
	symbol string
	date   string
	ratio  string
}

func (*splitCmd) Name() string     { return "split" }
func (*splitCmd) Synopsis() string { return "manage stock splits" }
func (*splitCmd) Usage() string {
	return `wst split add -s <symbol> -d <date> -r <ratio>
wst split rm <id>
wst split list [-s <symbol>]

  Records, removes, or lists stock splits. Adding or removing a split
  rebuilds every lot from the ledger, so cost basis always reflects the
  current split table. A 4:1 split has ratio 4; a 1:10 reverse split has
  ratio 0.1.

Usage Examples:
$ wst split add -s AAPL -d 2020-08-31 -r 4
$ wst split list -s AAPL
$ wst split rm 01755091200000000000-3f2a1b9c

`
}

func (c *splitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Ticker symbol.")
	f.StringVar(&c.date, "d", "", "Split effective date.")
	f.StringVar(&c.ratio, "r", "", "Shares received per share held.")
}

func (c *splitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	action := f.Arg(0)
	engine, err := openEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	switch action {
	case "add":
		return c.add(engine)
	case "rm":
		return c.remove(engine, f.Arg(1))
	case "list", "":
		printMarkdown(renderer.Splits(engine.ListSplits(c.symbol)))
		return subcommands.ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown split action %q.\n", action)
		return subcommands.ExitUsageError
	}
}

func (c *splitCmd) add(engine *washsale.Engine) subcommands.ExitStatus {
	if c.symbol == "" || c.date == "" || c.ratio == "" {
		fmt.Fprintln(os.Stderr, "Error: split add requires -s, -d and -r.")
		return subcommands.ExitUsageError
	}
	on, err := washsale.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	ratio, err := washsale.ParseQuantity(c.ratio)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing ratio: %v\n", err)
		return subcommands.ExitUsageError
	}
	split, err := engine.AddSplit(c.symbol, on, ratio)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding split: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %s:1 split of %s on %s (id %s)\n", split.Ratio, split.Symbol, split.Date, split.ID)
	return saveEngine(engine)
}

func (c *splitCmd) remove(engine *washsale.Engine, id string) subcommands.ExitStatus {
	if id == "" {
		fmt.Fprintln(os.Stderr, "Error: split rm requires a split id.")
		return subcommands.ExitUsageError
	}
	if !engine.RemoveSplit(id) {
		fmt.Fprintf(os.Stderr, "Error: no split with id %q.\n", id)
		return subcommands.ExitFailure
	}
	fmt.Printf("Removed split %s and rebuilt lots.\n", id)
	return saveEngine(engine)
}
