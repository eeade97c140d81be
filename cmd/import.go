package cmd

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	washsale "github.com/Cmf1125/wash-sale-tracker"
	"github.com/google/subcommands"
)

// importCmd bulk-loads trades from a CSV export.
type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "bulk-load trades from a CSV file" }
func (*importCmd) Usage() string {
	return `wst import <file.csv>

  Loads historical trades from a CSV file with columns
  date,type,symbol,quantity,price[,account]. Sells exceeding the tracked
  shares are recorded with a reported shortfall, and wash-sale evaluation
  is skipped; run 'wst ytd' afterwards to evaluate the loaded history.
`
}

func (*importCmd) SetFlags(f *flag.FlagSet) {}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path := f.Arg(0)
	if path == "" {
		fmt.Fprintln(os.Stderr, "Error: import requires a CSV file.")
		return subcommands.ExitUsageError
	}

	file, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", path, err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	engine, err := openEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	imported, skipped, err := importCSV(engine, file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", path, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Imported %d trade(s), skipped %d row(s).\n", imported, skipped)
	return saveEngine(engine)
}

// importCSV reads trade rows and records them with ForceImport. Malformed
// rows are skipped with a warning so one bad line does not abort a whole
// brokerage export.
func importCSV(engine *washsale.Engine, r io.Reader) (imported, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read CSV header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "type", "symbol", "quantity", "price"} {
		if _, ok := col[required]; !ok {
			return 0, 0, fmt.Errorf("missing required column %q", required)
		}
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: line %d: %v\n", line, err)
			skipped++
			continue
		}

		trade, err := parseTradeRow(record, col)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: line %d: %v\n", line, err)
			skipped++
			continue
		}

		result, err := engine.RecordTransaction(trade, washsale.RecordOptions{ForceImport: true})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: line %d: %v\n", line, err)
			skipped++
			continue
		}
		if !result.Shortfall.IsZero() {
			fmt.Fprintf(os.Stderr, "Warning: line %d: %s shares of %s not covered by tracked lots\n",
				line, result.Shortfall, result.Transaction.Symbol)
		}
		imported++
	}
	return imported, skipped, nil
}

func parseTradeRow(record []string, col map[string]int) (washsale.Transaction, error) {
	var zero washsale.Transaction
	field := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	on, err := washsale.ParseDate(field("date"))
	if err != nil {
		return zero, err
	}
	kind, err := washsale.ParseTxType(field("type"))
	if err != nil {
		return zero, err
	}
	qty, err := washsale.ParseQuantity(field("quantity"))
	if err != nil {
		return zero, err
	}
	price, err := washsale.ParseMoney(field("price"), "")
	if err != nil {
		return zero, err
	}
	if kind == washsale.TxBuy {
		return washsale.NewBuy(on, field("symbol"), qty, price, field("account")), nil
	}
	return washsale.NewSell(on, field("symbol"), qty, price, field("account")), nil
}
