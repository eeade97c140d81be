package washsale

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrInsufficientShares is returned by strict allocation when the open lots of
// a symbol cannot cover the requested quantity. No mutation occurs.
var ErrInsufficientShares = errors.New("insufficient shares")

// ShareLot is a block of shares from a single purchase, tracked separately for
// cost-basis purposes. Quantities and cost are expressed in the terms the
// owning store was built for: the live store holds present-day, split-adjusted
// numbers; an as-of snapshot holds numbers as of its date.
type ShareLot struct {
	ID                    string // derived from the originating buy transaction
	Symbol                string
	PurchaseDate          Date // fixes FIFO order
	OriginalQuantity      Quantity
	RemainingQuantity     Quantity
	CostPerShare          Money
	PurchaseTransactionID string
	AppliedSplits         []string // ids of splits folded into the adjusted numbers
}

// newLot creates a lot from a buy transaction, folding in the given split
// adjustment so the lot is expressed in the store's reference terms.
func newLot(tx Transaction, adj Adjustment) *ShareLot {
	quantity := tx.Quantity.Mul(adj.Ratio)
	lot := &ShareLot{
		ID:                    tx.ID,
		Symbol:                tx.Symbol,
		PurchaseDate:          tx.Date,
		OriginalQuantity:      quantity,
		RemainingQuantity:     quantity,
		CostPerShare:          tx.Price.Div(adj.Ratio),
		PurchaseTransactionID: tx.ID,
	}
	for _, split := range adj.Splits {
		lot.AppliedSplits = append(lot.AppliedSplits, split.ID)
	}
	return lot
}

// CostBasis returns the remaining cost basis of the lot.
func (l *ShareLot) CostBasis() Money { return l.CostPerShare.Mul(l.RemainingQuantity) }

// MarshalJSON implements the json.Marshaler interface for ShareLot.
func (l ShareLot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", "lot")
	w.Append("id", l.ID)
	w.Append("symbol", l.Symbol)
	w.Append("purchaseDate", l.PurchaseDate)
	w.Append("originalQuantity", l.OriginalQuantity)
	w.Append("remainingQuantity", l.RemainingQuantity)
	w.Append("costPerShare", l.CostPerShare.Decimal())
	w.Optional("currency", l.CostPerShare.Currency())
	w.Append("purchaseTransactionId", l.PurchaseTransactionID)
	w.Optional("appliedSplits", l.AppliedSplits)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for ShareLot.
func (l *ShareLot) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID                    string          `json:"id"`
		Symbol                string          `json:"symbol"`
		PurchaseDate          Date            `json:"purchaseDate"`
		OriginalQuantity      Quantity        `json:"originalQuantity"`
		RemainingQuantity     Quantity        `json:"remainingQuantity"`
		CostPerShare          decimal.Decimal `json:"costPerShare"`
		Currency              string          `json:"currency"`
		PurchaseTransactionID string          `json:"purchaseTransactionId"`
		AppliedSplits         []string        `json:"appliedSplits"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*l = ShareLot{
		ID:                    temp.ID,
		Symbol:                temp.Symbol,
		PurchaseDate:          temp.PurchaseDate,
		OriginalQuantity:      temp.OriginalQuantity,
		RemainingQuantity:     temp.RemainingQuantity,
		CostPerShare:          M(temp.CostPerShare, temp.Currency),
		PurchaseTransactionID: temp.PurchaseTransactionID,
		AppliedSplits:         temp.AppliedSplits,
	}
	return nil
}

// AllocationPolicy selects how the FIFO allocator reacts to overselling.
type AllocationPolicy int

const (
	// Strict refuses to oversell: allocation fails atomically with
	// ErrInsufficientShares and no lot is touched.
	Strict AllocationPolicy = iota
	// AllowPartial consumes everything available and reports a shortfall.
	// Used for bulk imports of messy historical broker data.
	AllowPartial
)

// LotSale is the portion of one sell drawn from one lot. It is recomputed on
// demand and never persisted independently.
type LotSale struct {
	LotID           string
	Symbol          string
	PurchaseDate    Date
	PurchaseTxID    string
	SharesFromLot   Quantity
	CostBasis       Money
	Proceeds        Money
	PnL             Money
	IsWashSale      bool
	DisallowedLoss  Money
	ConflictingBuys []Transaction // purchases inside the window that triggered the rule
}

// Allocation is the result of allocating one sell across lots.
type Allocation struct {
	LotSales  []LotSale
	Shortfall Quantity // shares requested but not available (AllowPartial only)
}

// TotalPnL sums the per-lot profit and loss.
func (a *Allocation) TotalPnL() Money {
	var total Money
	for _, ls := range a.LotSales {
		total = total.Add(ls.PnL)
	}
	return total
}

// LotStore is the in-memory collection of share lots, indexed by symbol. Lots
// of a symbol are kept in FIFO order: ascending purchase date, ties broken by
// lot id (creation order).
type LotStore struct {
	lots map[string][]*ShareLot
}

// NewLotStore creates an empty lot store.
func NewLotStore() *LotStore {
	return &LotStore{lots: make(map[string][]*ShareLot)}
}

// Add inserts a lot keeping the symbol's FIFO order.
func (s *LotStore) Add(lot *ShareLot) {
	lots := append(s.lots[lot.Symbol], lot)
	sort.SliceStable(lots, func(i, j int) bool {
		if lots[i].PurchaseDate != lots[j].PurchaseDate {
			return lots[i].PurchaseDate.Before(lots[j].PurchaseDate)
		}
		return lots[i].ID < lots[j].ID
	})
	s.lots[lot.Symbol] = lots
}

// Open returns the symbol's lots that still have remaining shares, oldest first.
func (s *LotStore) Open(symbol string) []*ShareLot {
	var open []*ShareLot
	for _, lot := range s.lots[symbol] {
		if lot.RemainingQuantity.IsPositive() {
			open = append(open, lot)
		}
	}
	return open
}

// Available returns the total remaining shares held for a symbol.
func (s *LotStore) Available(symbol string) Quantity {
	total := Q(0)
	for _, lot := range s.Open(symbol) {
		total = total.Add(lot.RemainingQuantity)
	}
	return total
}

// Symbols returns the symbols with at least one open lot, sorted.
func (s *LotStore) Symbols() []string {
	symbols := slices.Collect(maps.Keys(s.lots))
	slices.Sort(symbols)
	var held []string
	for _, symbol := range symbols {
		if len(s.Open(symbol)) > 0 {
			held = append(held, symbol)
		}
	}
	return held
}

// Snapshot returns copies of the symbol's open lots in FIFO order.
func (s *LotStore) Snapshot(symbol string) []ShareLot {
	var lots []ShareLot
	for _, lot := range s.Open(symbol) {
		lots = append(lots, *lot)
	}
	return lots
}

// All returns copies of every open lot, ordered by symbol then FIFO.
func (s *LotStore) All() []ShareLot {
	var lots []ShareLot
	for _, symbol := range s.Symbols() {
		lots = append(lots, s.Snapshot(symbol)...)
	}
	return lots
}

// AllocateSale consumes a sell of quantity shares at price per share against
// the symbol's open lots, oldest purchased first. Quantity and price must be
// expressed in the store's reference terms; callers fold the split
// adjustment in beforehand.
//
// Under Strict policy an oversell fails with ErrInsufficientShares before any
// lot is touched. Under AllowPartial everything available is consumed and the
// missing shares are reported as Allocation.Shortfall.
func (s *LotStore) AllocateSale(symbol string, quantity Quantity, price Money, policy AllocationPolicy) (*Allocation, error) {
	available := s.Available(symbol)
	if policy == Strict && available.LessThan(quantity) {
		return nil, fmt.Errorf("%w: selling %s %s but only %s held", ErrInsufficientShares, quantity, symbol, available)
	}

	alloc := &Allocation{}
	remaining := quantity
	for _, lot := range s.Open(symbol) {
		if remaining.IsZero() {
			break
		}
		consumed := minQuantity(remaining, lot.RemainingQuantity)
		costBasis := lot.CostPerShare.Mul(consumed)
		proceeds := price.Mul(consumed)

		alloc.LotSales = append(alloc.LotSales, LotSale{
			LotID:         lot.ID,
			Symbol:        symbol,
			PurchaseDate:  lot.PurchaseDate,
			PurchaseTxID:  lot.PurchaseTransactionID,
			SharesFromLot: consumed,
			CostBasis:     costBasis,
			Proceeds:      proceeds,
			PnL:           proceeds.Sub(costBasis),
		})

		lot.RemainingQuantity = lot.RemainingQuantity.Sub(consumed)
		remaining = remaining.Sub(consumed)
	}

	if remaining.IsPositive() {
		alloc.Shortfall = remaining
	}
	s.prune(symbol)
	return alloc, nil
}

// prune drops fully consumed lots to bound memory.
func (s *LotStore) prune(symbol string) {
	lots := s.lots[symbol][:0]
	for _, lot := range s.lots[symbol] {
		if lot.RemainingQuantity.IsPositive() {
			lots = append(lots, lot)
		}
	}
	if len(lots) == 0 {
		delete(s.lots, symbol)
		return
	}
	s.lots[symbol] = lots
}
