package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Cmf1125/wash-sale-tracker/renderer"
	"github.com/google/subcommands"
)

type positionsCmd struct{}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "show current holdings per symbol" }
func (*positionsCmd) Usage() string {
	return `wst positions

  Shows the open position per symbol: total shares, the weighted average
  cost per share, and the total cost basis.
`
}

func (*positionsCmd) SetFlags(f *flag.FlagSet) {}

func (c *positionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, err := openEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Positions(engine.CurrentPositions()))
	return subcommands.ExitSuccess
}
