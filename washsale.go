package washsale

// WashSaleWindowDays is the number of days on each side of a loss sale in
// which a same-symbol purchase disallows the loss (the 61-day window,
// boundaries included).
const WashSaleWindowDays = 30

// WashSaleStatus is the wash-sale outcome of one sell transaction: the union
// over its constituent lot sales. DisallowedLoss sums flagged lot sales only;
// unflagged lot sales in the same transaction remain deductible.
type WashSaleStatus struct {
	HasViolation   bool
	DisallowedLoss Money
	LotSales       []LotSale
}

// washSaleWindow returns the inclusive ±30-day window around a sell date.
func washSaleWindow(sellDate Date) Range {
	return NewRange(sellDate.Add(-WashSaleWindowDays), sellDate.Add(WashSaleWindowDays))
}

// evaluateLotSale flags the lot sale as a wash sale when it realizes a loss
// and the history view contains a conflicting same-symbol purchase within the
// ±30-day window. The purchase that created the lot itself is not a conflict.
//
// The history view is caller-supplied and point-in-time limited: the evaluator
// never sees transactions beyond the view, which keeps historical and import
// analysis blind to trades that had not yet happened.
func evaluateLotSale(ls *LotSale, sellDate Date, history []Transaction) {
	if !ls.PnL.IsNegative() {
		return // not a loss, nothing to disallow
	}
	window := washSaleWindow(sellDate)
	for _, tx := range history {
		if tx.Type != TxBuy || tx.Symbol != ls.Symbol {
			continue
		}
		if tx.ID == ls.PurchaseTxID {
			continue
		}
		if window.Contains(tx.Date) {
			ls.IsWashSale = true
			ls.ConflictingBuys = append(ls.ConflictingBuys, tx)
		}
	}
	if ls.IsWashSale {
		ls.DisallowedLoss = ls.PnL.Neg()
	}
}

// aggregateWashSales merges per-lot outcomes into the transaction-level status.
func aggregateWashSales(lotSales []LotSale) *WashSaleStatus {
	status := &WashSaleStatus{LotSales: lotSales}
	for _, ls := range lotSales {
		if ls.IsWashSale {
			status.HasViolation = true
			status.DisallowedLoss = status.DisallowedLoss.Add(ls.DisallowedLoss)
		}
	}
	return status
}

// SellWarning is the advisory, forward-looking notice shown at live entry
// time: purchases in the prior 30 days put a sale at risk of becoming a wash
// sale if it realizes a loss. It disallows nothing by itself.
type SellWarning struct {
	Symbol     string
	RecentBuys []Transaction // same-symbol buys within the prior 30 days
}

// recentBuyWarning scans for same-symbol buys in [on-30, on]. It returns nil
// when there is nothing to warn about.
func recentBuyWarning(ledger *Ledger, symbol string, on Date) *SellWarning {
	window := NewRange(on.Add(-WashSaleWindowDays), on)
	var recent []Transaction
	for _, tx := range ledger.WindowTransactions(symbol, window) {
		if tx.Type == TxBuy {
			recent = append(recent, tx)
		}
	}
	if len(recent) == 0 {
		return nil
	}
	return &SellWarning{Symbol: symbol, RecentBuys: recent}
}
