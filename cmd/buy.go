package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	washsale "github.com/Cmf1125/wash-sale-tracker"
	"github.com/google/subcommands"
)

// buyCmd holds the flags for the 'buy' subcommand.
type buyCmd struct {
	date     string
	symbol   string
	quantity string
	price    string
	account  string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a share purchase" }
func (*buyCmd) Usage() string {
	return `wst buy -s <symbol> -q <quantity> -p <price> [-d <date>] [-a <account>]

  Records a purchase in the ledger and opens a new tax lot.

Usage Examples:
$ wst buy -s AAPL -q 100 -p 150.25
$ wst buy -s MSFT -q 10 -p 410 -d 2024-03-15 -a ira

`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Ticker symbol to buy.")
	f.StringVar(&c.quantity, "q", "", "Number of shares.")
	f.StringVar(&c.price, "p", "", "Price per share.")
	f.StringVar(&c.date, "d", "", "Trade date. Defaults to today.")
	f.StringVar(&c.account, "a", "", "Optional account label.")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	trade, status := parseTradeFlags(washsale.TxBuy, c.date, c.symbol, c.quantity, c.price, c.account)
	if status != subcommands.ExitSuccess {
		return status
	}

	engine, err := openEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	result, err := engine.RecordTransaction(trade, washsale.RecordOptions{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording buy: %v\n", err)
		return subcommands.ExitFailure
	}

	tx := result.Transaction
	fmt.Printf("Bought %s %s @ %s on %s (total %s)\n", tx.Quantity, tx.Symbol, tx.Price, tx.Date, tx.Total())
	return saveEngine(engine)
}

// parseTradeFlags validates the common trade flags and builds the transaction.
func parseTradeFlags(kind washsale.TxType, date, symbol, quantity, price, account string) (washsale.Transaction, subcommands.ExitStatus) {
	var zero washsale.Transaction
	if symbol == "" || quantity == "" || price == "" {
		fmt.Fprintln(os.Stderr, "Error: -s, -q and -p are required.")
		return zero, subcommands.ExitUsageError
	}
	on, err := parseDateFlag(date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return zero, subcommands.ExitUsageError
	}
	qty, err := washsale.ParseQuantity(quantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity: %v\n", err)
		return zero, subcommands.ExitUsageError
	}
	unit, err := washsale.ParseMoney(price, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing price: %v\n", err)
		return zero, subcommands.ExitUsageError
	}
	if kind == washsale.TxBuy {
		return washsale.NewBuy(on, symbol, qty, unit, account), subcommands.ExitSuccess
	}
	return washsale.NewSell(on, symbol, qty, unit, account), subcommands.ExitSuccess
}
