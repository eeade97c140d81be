package renderer

import (
	"fmt"
	"strings"

	washsale "github.com/Cmf1125/wash-sale-tracker"
)

// WashSale renders the lot-by-lot outcome of a sale, flagging the lot sales
// whose loss the wash-sale rule disallows.
func WashSale(tx washsale.Transaction, status *washsale.WashSaleStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Sale of %s %s on %s\n\n", tx.Quantity, tx.Symbol, tx.Date)

	fmt.Fprintln(&b, "| Lot Purchased | Shares | Cost Basis | Proceeds | P&L | Wash Sale |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|:---|")
	for _, ls := range status.LotSales {
		flag := ""
		if ls.IsWashSale {
			flag = "**disallowed**"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			ls.PurchaseDate, ls.SharesFromLot, ls.CostBasis, ls.Proceeds, ls.PnL.SignedString(), flag)
	}
	fmt.Fprintln(&b)

	if status.HasViolation {
		fmt.Fprintf(&b, "Wash sale: %s of losses are disallowed.", status.DisallowedLoss)
		fmt.Fprint(&b, " Buys within 30 days of this sale triggered the rule:\n\n")
		for _, ls := range status.LotSales {
			for _, buy := range ls.ConflictingBuys {
				fmt.Fprintf(&b, "- %s bought %s @ %s\n", buy.Date, buy.Quantity, buy.Price)
			}
		}
	} else {
		fmt.Fprint(&b, "No wash sale: no conflicting purchases within the 30-day window.\n")
	}
	return b.String()
}

// SellWarning renders the advisory shown after a sell when recent purchases
// could turn a future loss into a wash sale.
func SellWarning(w *washsale.SellWarning, safe washsale.Date) string {
	var b strings.Builder
	fmt.Fprintf(&b, "> **Warning**: %d purchase(s) of %s in the last 30 days.\n", len(w.RecentBuys), w.Symbol)
	fmt.Fprintf(&b, "> Selling %s at a loss before %s may trigger the wash-sale rule.\n", w.Symbol, safe)
	return b.String()
}

// YearStats renders the per-year realized summary.
func YearStats(stats *washsale.YearStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Realized Summary %d\n\n", stats.Year)
	fmt.Fprintln(&b, "| Metric | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Sales | %d |\n", stats.Sales)
	fmt.Fprintf(&b, "| Total gains | %s |\n", stats.TotalGains.SignedString())
	fmt.Fprintf(&b, "| Total losses | %s |\n", stats.TotalLosses.SignedString())
	fmt.Fprintf(&b, "| Net realized P&L | %s |\n", stats.NetPnL.SignedString())
	fmt.Fprintf(&b, "| Wash sales | %d |\n", stats.WashSaleCount)
	fmt.Fprintf(&b, "| Disallowed losses | %s |\n", stats.DisallowedLosses)
	return b.String()
}
