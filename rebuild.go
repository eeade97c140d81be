package washsale

// RebuildIssue reports a sell that could not be fully allocated during a
// replay. Issues are diagnostics, not faults: the source data (manual entry,
// messy broker CSVs) is not guaranteed internally consistent, and the engine
// stays usable with a best-effort state.
type RebuildIssue struct {
	TransactionID string
	Symbol        string
	Date          Date
	Shortfall     Quantity
}

// RebuildReport summarizes a full rebuild of the lot store.
type RebuildReport struct {
	LotsCreated   int
	SalesReplayed int
	Issues        []RebuildIssue
}

// Rebuild clears the live lot store and replays the entire ledger in
// chronological order (same-date ties replay buys before sells), re-creating
// lots for buys and re-running the FIFO allocator for sells. Lots come out
// expressed in present-day terms: every buy and sell is adjusted by the
// cumulative ratio of splits dated after its own trade date.
//
// It runs after any structural change: split registration or removal, bulk
// import, or consistency repair on load.
func (e *Engine) Rebuild() *RebuildReport {
	e.lots = NewLotStore()
	report := &RebuildReport{}
	for _, tx := range e.ledger.replayOrder() {
		switch tx.Type {
		case TxBuy:
			adj := e.splits.AdjustmentFor(tx.Symbol, tx.Date)
			e.lots.Add(newLot(tx, adj))
			report.LotsCreated++
		case TxSell:
			adj := e.splits.AdjustmentFor(tx.Symbol, tx.Date)
			alloc, err := e.lots.AllocateSale(tx.Symbol, tx.Quantity.Mul(adj.Ratio), tx.Price.Div(adj.Ratio), AllowPartial)
			if err != nil {
				// AllowPartial never fails; keep the replay going regardless.
				continue
			}
			report.SalesReplayed++
			if alloc.Shortfall.IsPositive() {
				report.Issues = append(report.Issues, RebuildIssue{
					TransactionID: tx.ID,
					Symbol:        tx.Symbol,
					Date:          tx.Date,
					Shortfall:     alloc.Shortfall,
				})
				e.log.Warn().
					Str("symbol", tx.Symbol).
					Str("date", tx.Date.String()).
					Str("shortfall", alloc.Shortfall.String()).
					Msg("rebuild: sell could not be fully allocated")
			}
		}
	}
	e.log.Debug().
		Int("lots", report.LotsCreated).
		Int("sales", report.SalesReplayed).
		Int("issues", len(report.Issues)).
		Msg("lot store rebuilt")
	return report
}

// lotsAsOf rebuilds a throwaway lot store for one symbol as of a date,
// replaying only ledger entries dated strictly before it: the snapshot
// answers "what existed walking into this date", excluding the date's own
// activity. Only splits effective before the date contribute, so the snapshot
// never reflects later trades, later splits, or later imported corrections.
func (e *Engine) lotsAsOf(symbol string, on Date) *LotStore {
	store := NewLotStore()
	for _, tx := range e.ledger.SymbolTransactions(symbol, on) {
		adj := e.splits.adjustment(symbol, tx.Date, on)
		switch tx.Type {
		case TxBuy:
			store.Add(newLot(tx, adj))
		case TxSell:
			// Tolerate shortfalls: a point-in-time view must not fail on
			// inconsistent history.
			store.AllocateSale(symbol, tx.Quantity.Mul(adj.Ratio), tx.Price.Div(adj.Ratio), AllowPartial)
		}
	}
	return store
}

// LotsAsOf returns the open lots for a symbol as they existed walking into
// the given date, in FIFO order.
func (e *Engine) LotsAsOf(symbol string, on Date) []ShareLot {
	return e.lotsAsOf(symbol, on).Snapshot(symbol)
}
