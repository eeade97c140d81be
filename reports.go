package washsale

import "fmt"

// TransactionWashSaleStatus recomputes the wash-sale outcome of a recorded
// sell from a point-in-time view: lots are reconstructed as of the sell date
// (earlier entries plus the sell date's own entries that replay before the
// sale, ignoring later activity and later splits) and the
// history offered to the evaluator is bounded by the sell's own ±30-day
// window, so the analysis never sees anything beyond what the rule needs.
func (e *Engine) TransactionWashSaleStatus(tx Transaction) (*WashSaleStatus, error) {
	if tx.Type != TxSell {
		return nil, fmt.Errorf("wash-sale status applies to sell transactions, got %q", tx.Type)
	}
	// The snapshot is expressed in terms as of the sell date, the same terms
	// the sale was traded in, so no further adjustment applies.
	snapshot := e.lotsAsOf(tx.Symbol, tx.Date)
	// Entries on the sell's own date that replay before it (same-day buys,
	// and same-day sells recorded earlier) are part of the holdings this sale
	// actually traded against; a same-day round trip has no lots otherwise.
	for _, prior := range e.ledger.sameDayPredecessors(tx) {
		switch prior.Type {
		case TxBuy:
			snapshot.Add(newLot(prior, Adjustment{Ratio: Q(1)}))
		case TxSell:
			snapshot.AllocateSale(tx.Symbol, prior.Quantity, prior.Price, AllowPartial)
		}
	}
	alloc, err := snapshot.AllocateSale(tx.Symbol, tx.Quantity, tx.Price, AllowPartial)
	if err != nil {
		return nil, err
	}
	history := e.ledger.WindowTransactions(tx.Symbol, washSaleWindow(tx.Date))
	for i := range alloc.LotSales {
		evaluateLotSale(&alloc.LotSales[i], tx.Date, history)
	}
	return aggregateWashSales(alloc.LotSales), nil
}

// YearStats aggregates realized P&L over the sell transactions of one
// calendar year. Each sell is evaluated against a point-in-time lot snapshot
// rather than the live store, so the figures stay date-consistent no matter
// what was recorded since.
type YearStats struct {
	Year             int
	Sales            int
	TotalGains       Money
	TotalLosses      Money
	NetPnL           Money
	WashSaleCount    int
	DisallowedLosses Money
}

// YearStatsFor computes the stats for an arbitrary calendar year.
func (e *Engine) YearStatsFor(year int) (*YearStats, error) {
	stats := &YearStats{Year: year}
	window := YearRange(year)
	for tx := range e.ledger.Transactions(ByType(TxSell)) {
		if !window.Contains(tx.Date) {
			continue
		}
		status, err := e.TransactionWashSaleStatus(tx)
		if err != nil {
			return nil, fmt.Errorf("could not analyze sale on %s: %w", tx.Date, err)
		}
		stats.Sales++
		for _, ls := range status.LotSales {
			if ls.PnL.IsNegative() {
				stats.TotalLosses = stats.TotalLosses.Add(ls.PnL)
			} else {
				stats.TotalGains = stats.TotalGains.Add(ls.PnL)
			}
			stats.NetPnL = stats.NetPnL.Add(ls.PnL)
		}
		if status.HasViolation {
			stats.WashSaleCount++
			stats.DisallowedLosses = stats.DisallowedLosses.Add(status.DisallowedLoss)
		}
	}
	return stats, nil
}

// YearToDateStats computes the stats for the current calendar year.
func (e *Engine) YearToDateStats() (*YearStats, error) {
	return e.YearStatsFor(Today().Year())
}
