package washsale

import (
	"fmt"
	"iter"
	"sort"
)

// Ledger is the append-only, date-sorted list of normalized buy/sell records.
// It is the source of truth from which share lots are rebuilt.
//
// Transactions are always consulted sorted by (date, id); callers must not
// rely on raw insertion order.
type Ledger struct {
	transactions []Transaction
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{transactions: make([]Transaction, 0)}
}

// Record normalizes and validates a transaction, assigns its id, and inserts
// it in chronological position. It returns the normalized transaction. No
// mutation occurs when validation fails.
func (l *Ledger) Record(tx Transaction) (Transaction, error) {
	tx = tx.normalize()
	if err := tx.Validate(); err != nil {
		return tx, fmt.Errorf("invalid %s transaction on %s: %w", tx.Type, tx.Date, err)
	}
	tx.ID = newID()
	l.Append(tx)
	return tx, nil
}

// Append appends already-normalized transactions and maintains the
// chronological order of the ledger. It is used when decoding persisted state;
// new trades go through Record.
func (l *Ledger) Append(txs ...Transaction) {
	l.transactions = append(l.transactions, txs...)
	l.sort()
}

// sort orders the ledger by (date, id). Identifiers embed their creation time,
// so same-day ties resolve in recording order.
func (l *Ledger) sort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		a, b := l.transactions[i], l.transactions[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		return a.ID < b.ID
	})
}

// Len returns the number of recorded transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions returns an iterator over transactions in (date, id) order that
// match every given filter. No filters means every transaction.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range l.transactions {
			accept := true
			for _, filter := range filters {
				if !filter(tx) {
					accept = false
					break
				}
			}
			if !accept {
				continue
			}
			if !yield(tx) {
				return
			}
		}
	}
}

// AcceptAll is a filter that accepts every transaction.
func AcceptAll(Transaction) bool { return true }

// BySymbol returns a filter that accepts transactions for the given symbol.
func BySymbol(symbol string) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Symbol == symbol }
}

// ByType returns a filter that accepts transactions of the given type.
func ByType(t TxType) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Type == t }
}

// SymbolTransactions returns the transactions for a symbol dated strictly
// before the cutoff, in replay order. A zero cutoff means no cutoff.
func (l *Ledger) SymbolTransactions(symbol string, before Date) []Transaction {
	var txs []Transaction
	for _, tx := range l.transactions {
		if tx.Symbol != symbol {
			continue
		}
		if !before.IsZero() && !tx.Date.Before(before) {
			// The ledger is sorted by date, so it is safe to break.
			break
		}
		txs = append(txs, tx)
	}
	replaySort(txs)
	return txs
}

// WindowTransactions returns the transactions for a symbol dated within the
// given range, boundaries included.
func (l *Ledger) WindowTransactions(symbol string, window Range) []Transaction {
	var txs []Transaction
	for _, tx := range l.transactions {
		if tx.Date.After(window.To) {
			break
		}
		if tx.Symbol == symbol && window.Contains(tx.Date) {
			txs = append(txs, tx)
		}
	}
	return txs
}

// LastBuyDate returns the date of the most recent buy for a symbol.
func (l *Ledger) LastBuyDate(symbol string) (Date, bool) {
	for i := len(l.transactions) - 1; i >= 0; i-- {
		tx := l.transactions[i]
		if tx.Type == TxBuy && tx.Symbol == symbol {
			return tx.Date, true
		}
	}
	return Date{}, false
}

// replayOrder returns a copy of all transactions in replay order: (date, buys
// before sells, id). Prioritizing buys within a day lets same-day round-trips
// replay without spurious insufficient-shares conditions.
func (l *Ledger) replayOrder() []Transaction {
	txs := make([]Transaction, len(l.transactions))
	copy(txs, l.transactions)
	replaySort(txs)
	return txs
}

// replaySort sorts transactions by (date, buys-first, id).
func replaySort(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return replayBefore(txs[i], txs[j])
	})
}

// replayBefore reports whether a replays before b: dates compare first, buys
// precede sells within a date, ids break remaining ties.
func replayBefore(a, b Transaction) bool {
	if a.Date != b.Date {
		return a.Date.Before(b.Date)
	}
	if a.Type != b.Type {
		return a.Type == TxBuy
	}
	return a.ID < b.ID
}

// sameDayPredecessors returns the same-symbol transactions dated on tx's own
// date that replay before it. A strictly-before snapshot plus these entries
// reconstructs the holdings a transaction actually traded against.
func (l *Ledger) sameDayPredecessors(tx Transaction) []Transaction {
	var txs []Transaction
	for _, other := range l.transactions {
		if other.Date.After(tx.Date) {
			break
		}
		if other.Symbol != tx.Symbol || other.Date != tx.Date || other.ID == tx.ID {
			continue
		}
		if replayBefore(other, tx) {
			txs = append(txs, other)
		}
	}
	replaySort(txs)
	return txs
}
