package washsale

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Engine is the accounting core for one user session: the ledger of trades,
// the live lot store derived from it, and the split registry. All mutation is
// single-writer and synchronous; readers (positions, as-of snapshots) are pure
// but must not run concurrently with a rebuild.
type Engine struct {
	ledger *Ledger
	lots   *LotStore
	splits *SplitRegistry
	store  Store
	log    zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's diagnostic logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine loads state from the store (nil for an empty in-memory engine)
// and rebuilds the live lot store from the ledger. Rebuilding on load doubles
// as consistency repair: persisted lots are advisory, the ledger is the
// source of truth.
func NewEngine(store Store, opts ...Option) (*Engine, error) {
	e := &Engine{
		ledger: NewLedger(),
		lots:   NewLotStore(),
		splits: NewSplitRegistry(),
		store:  store,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if store != nil {
		state, err := store.Load()
		if err != nil {
			return nil, fmt.Errorf("could not load state: %w", err)
		}
		e.ledger.Append(state.Transactions...)
		e.splits.Load(state.StockSplits...)
	}
	e.Rebuild()
	return e, nil
}

// Save writes the full state through the injected store.
func (e *Engine) Save() error {
	if e.store == nil {
		return fmt.Errorf("engine has no store configured")
	}
	if err := e.store.Save(e.State()); err != nil {
		return fmt.Errorf("could not save state: %w", err)
	}
	return nil
}

// State snapshots the engine's full state for persistence or export.
func (e *Engine) State() *State {
	var txs []Transaction
	for tx := range e.ledger.Transactions(AcceptAll) {
		txs = append(txs, tx)
	}
	return &State{
		Transactions: txs,
		ShareLots:    e.lots.All(),
		StockSplits:  e.splits.List(""),
	}
}

// Ledger exposes the transaction log for reporting collaborators.
func (e *Engine) Ledger() *Ledger { return e.ledger }

// RecordOptions tunes RecordTransaction.
type RecordOptions struct {
	// ForceImport tolerates FIFO shortfalls instead of rejecting oversells,
	// and skips wash-sale evaluation: historical bulk loads should not fire
	// live-style warnings.
	ForceImport bool
}

// RecordResult is the outcome of recording one trade.
type RecordResult struct {
	Transaction Transaction
	WashSale    *WashSaleStatus // nil for buys and for force imports
	Warning     *SellWarning    // advisory only, live sells
	Shortfall   Quantity        // shares missing under ForceImport
}

// RecordTransaction is the single mutation entry point for new trades. Buys
// create a lot; sells run the FIFO allocator against the live lot store and,
// for live entry, evaluate each consumed lot for wash-sale conflicts. A
// strict-mode oversell fails atomically: the ledger is not modified.
func (e *Engine) RecordTransaction(trade Transaction, opts RecordOptions) (*RecordResult, error) {
	trade = trade.normalize()
	if err := trade.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s transaction on %s: %w", trade.Type, trade.Date, err)
	}

	// Trades dated in the past compare against lots held in present terms,
	// so express the trade in the same split-adjusted terms first.
	adj := e.splits.AdjustmentFor(trade.Symbol, trade.Date)
	policy := Strict
	if opts.ForceImport {
		policy = AllowPartial
	}

	if trade.Type == TxSell && policy == Strict {
		// Refuse the oversell before touching the ledger.
		available := e.lots.Available(trade.Symbol)
		if available.LessThan(trade.Quantity.Mul(adj.Ratio)) {
			return nil, fmt.Errorf("%w: selling %s %s but only %s held",
				ErrInsufficientShares, trade.Quantity.Mul(adj.Ratio), trade.Symbol, available)
		}
	}

	tx, err := e.ledger.Record(trade)
	if err != nil {
		return nil, err
	}
	result := &RecordResult{Transaction: tx}

	switch tx.Type {
	case TxBuy:
		e.lots.Add(newLot(tx, adj))
	case TxSell:
		alloc, err := e.lots.AllocateSale(tx.Symbol, tx.Quantity.Mul(adj.Ratio), tx.Price.Div(adj.Ratio), policy)
		if err != nil {
			return nil, err
		}
		result.Shortfall = alloc.Shortfall
		if !opts.ForceImport {
			history := e.ledger.WindowTransactions(tx.Symbol, washSaleWindow(tx.Date))
			for i := range alloc.LotSales {
				evaluateLotSale(&alloc.LotSales[i], tx.Date, history)
			}
			result.WashSale = aggregateWashSales(alloc.LotSales)
			result.Warning = recentBuyWarning(e.ledger, tx.Symbol, tx.Date)
		}
	}

	e.log.Info().
		Str("type", string(tx.Type)).
		Str("symbol", tx.Symbol).
		Str("date", tx.Date.String()).
		Str("quantity", tx.Quantity.String()).
		Msg("recorded transaction")
	return result, nil
}

// AddSplit registers a stock split and rebuilds the lot store so every lot
// reflects it retroactively. The stored transactions are untouched; the split
// contributes to computed adjustments only.
func (e *Engine) AddSplit(symbol string, on Date, ratio Quantity) (StockSplit, error) {
	split, err := e.splits.Add(symbol, on, ratio)
	if err != nil {
		return StockSplit{}, err
	}
	report := e.Rebuild()
	e.log.Info().
		Str("symbol", symbol).
		Str("date", on.String()).
		Str("ratio", ratio.String()).
		Int("issues", len(report.Issues)).
		Msg("split registered")
	return split, nil
}

// RemoveSplit deletes a split by id and rebuilds, exactly reversing the
// split's effect on every derived lot. It returns false for an unknown id.
func (e *Engine) RemoveSplit(id string) bool {
	if !e.splits.Remove(id) {
		return false
	}
	e.Rebuild()
	return true
}

// ListSplits returns the registered splits for a symbol, or all of them when
// symbol is empty.
func (e *Engine) ListSplits(symbol string) []StockSplit {
	return e.splits.List(symbol)
}

// OpenLots returns the open lots for a symbol, or every open lot when symbol
// is empty, in (symbol, purchase date, id) order.
func (e *Engine) OpenLots(symbol string) []ShareLot {
	if symbol == "" {
		return e.lots.All()
	}
	return e.lots.Snapshot(symbol)
}

// SafeToSellDate returns the first date a sale of the symbol cannot conflict
// with its most recent purchase: last buy date + 31 days. It returns false
// when the symbol was never purchased.
func (e *Engine) SafeToSellDate(symbol string) (Date, bool) {
	last, ok := e.ledger.LastBuyDate(symbol)
	if !ok {
		return Date{}, false
	}
	return last.Add(WashSaleWindowDays + 1), true
}
