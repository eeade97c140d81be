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

// washCheckCmd re-evaluates a past sale against the current ledger.
type washCheckCmd struct{}

func (*washCheckCmd) Name() string     { return "wash-check" }
func (*washCheckCmd) Synopsis() string { return "re-evaluate a recorded sale for wash-sale status" }
func (*washCheckCmd) Usage() string {
	return `wst wash-check <transaction-id>

  Re-evaluates a recorded sale against everything the ledger knows today.
  A sale that was clean when recorded becomes a wash sale when a purchase
  lands inside the 30-day window after it.
`
}

func (*washCheckCmd) SetFlags(f *flag.FlagSet) {}

func (c *washCheckCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id := f.Arg(0)
	if id == "" {
		fmt.Fprintln(os.Stderr, "Error: wash-check requires a transaction id.")
		return subcommands.ExitUsageError
	}

	engine, err := openEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var sale washsale.Transaction
	found := false
	for tx := range engine.Ledger().Transactions() {
		if tx.ID == id {
			sale, found = tx, true
			break
		}
	}
	if !found {
		fmt.Fprintf(os.Stderr, "Error: no transaction with id %q.\n", id)
		return subcommands.ExitFailure
	}

	status, err := engine.TransactionWashSaleStatus(sale)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error evaluating sale: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.WashSale(sale, status))
	return subcommands.ExitSuccess
}
