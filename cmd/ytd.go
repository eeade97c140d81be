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

type ytdCmd struct {
	year int
}

func (*ytdCmd) Name() string     { return "ytd" }
func (*ytdCmd) Synopsis() string { return "year-to-date realized gains, losses and wash sales" }
func (*ytdCmd) Usage() string {
	return `wst ytd [-y <year>]

  Summarizes realized gains and losses for the year, with the number of wash
  sales and the total disallowed losses. Every sale is re-evaluated against
  the full ledger, so purchases recorded after a sale are taken into account.
`
}

func (c *ytdCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "y", 0, "Report on this year instead of the current one.")
}

func (c *ytdCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, err := openEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var stats *washsale.YearStats
	if c.year != 0 {
		stats, err = engine.YearStatsFor(c.year)
	} else {
		stats, err = engine.YearToDateStats()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing year stats: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.YearStats(stats))
	return subcommands.ExitSuccess
}
