// Package renderer turns engine results into markdown reports. Each renderer
// returns a string that the CLI pipes through its terminal markdown printer.
package renderer

import (
	"fmt"
	"strings"

	washsale "github.com/Cmf1125/wash-sale-tracker"
)

// Positions renders the current open positions as a markdown table.
func Positions(positions []washsale.Position) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Current Positions\n\n")
	if len(positions) == 0 {
		fmt.Fprint(&b, "No open positions.\n")
		return b.String()
	}
	fmt.Fprintln(&b, "| Symbol | Shares | Avg Cost | Cost Basis |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	for _, p := range positions {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", p.Symbol, p.Shares, p.AverageCost, p.CostBasis)
	}
	return b.String()
}

// Lots renders share lots as a markdown table, one row per lot.
func Lots(title string, lots []washsale.ShareLot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(lots) == 0 {
		fmt.Fprint(&b, "No open lots.\n")
		return b.String()
	}
	fmt.Fprintln(&b, "| Symbol | Purchased | Remaining | Original | Cost/Share | Cost Basis |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|")
	for _, lot := range lots {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			lot.Symbol, lot.PurchaseDate, lot.RemainingQuantity, lot.OriginalQuantity,
			lot.CostPerShare, lot.CostBasis())
	}
	return b.String()
}

// Transactions renders ledger entries, newest last.
func Transactions(txs []washsale.Transaction) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Transactions\n\n")
	if len(txs) == 0 {
		fmt.Fprint(&b, "No transactions recorded.\n")
		return b.String()
	}
	fmt.Fprintln(&b, "| Date | Type | Symbol | Quantity | Price | Total |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|")
	for _, tx := range txs {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			tx.Date, tx.Type, tx.Symbol, tx.Quantity, tx.Price, tx.Total())
	}
	return b.String()
}

// Splits renders the recorded stock splits.
func Splits(splits []washsale.StockSplit) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Stock Splits\n\n")
	if len(splits) == 0 {
		fmt.Fprint(&b, "No splits recorded.\n")
		return b.String()
	}
	fmt.Fprintln(&b, "| ID | Symbol | Date | Ratio |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|")
	for _, s := range splits {
		fmt.Fprintf(&b, "| %s | %s | %s | %s:1 |\n", s.ID, s.Symbol, s.Date, s.Ratio)
	}
	return b.String()
}
