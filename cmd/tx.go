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

type txCmd struct {
	symbol string
	kind   string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions in the ledger" }
func (*txCmd) Usage() string {
	return `wst tx [-s <symbol>] [-t buy|sell]

  Lists ledger transactions in chronological order, optionally filtered by
  symbol or trade type.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Only list trades for this symbol.")
	f.StringVar(&c.kind, "t", "", "Only list trades of this type (buy or sell).")
}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, err := openEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var filters []func(washsale.Transaction) bool
	if c.symbol != "" {
		filters = append(filters, washsale.BySymbol(c.symbol))
	}
	if c.kind != "" {
		kind, err := washsale.ParseTxType(c.kind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		filters = append(filters, washsale.ByType(kind))
	}

	var txs []washsale.Transaction
	for tx := range engine.Ledger().Transactions(filters...) {
		txs = append(txs, tx)
	}
	printMarkdown(renderer.Transactions(txs))
	return subcommands.ExitSuccess
}
