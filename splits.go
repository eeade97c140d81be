package washsale

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// StockSplit records a share split for a symbol. A ratio greater than 1 is a
// forward split (2 = 2-for-1); a ratio below 1 is a reverse split (0.1 =
// 1-for-10). Stored transactions and lots keep their original as-traded
// numbers; splits only ever contribute to computed adjustments.
type StockSplit struct {
	ID        string
	Symbol    string
	Date      Date      // the split's effective date
	Ratio     Quantity  // share multiplier; price divides by the same factor
	AppliedAt time.Time // when the user registered the split, not when it took effect
}

// MarshalJSON implements the json.Marshaler interface for StockSplit.
func (s StockSplit) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", "split")
	w.Append("id", s.ID)
	w.Append("symbol", s.Symbol)
	w.Append("date", s.Date)
	w.Append("ratio", s.Ratio)
	w.Append("appliedAt", s.AppliedAt.UTC().Format(time.RFC3339))
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for StockSplit.
func (s *StockSplit) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID        string          `json:"id"`
		Symbol    string          `json:"symbol"`
		Date      Date            `json:"date"`
		Ratio     decimal.Decimal `json:"ratio"`
		AppliedAt string          `json:"appliedAt"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	appliedAt, err := time.Parse(time.RFC3339, temp.AppliedAt)
	if err != nil {
		return fmt.Errorf("invalid appliedAt timestamp %q: %w", temp.AppliedAt, err)
	}
	*s = StockSplit{ID: temp.ID, Symbol: temp.Symbol, Date: temp.Date, Ratio: Q(temp.Ratio), AppliedAt: appliedAt}
	return nil
}

// Adjustment is the cumulative multiplicative effect of a set of splits:
// share counts multiply by Ratio, per-share prices divide by it.
type Adjustment struct {
	Ratio  Quantity
	Splits []StockSplit // contributing splits in chronological order
}

// SplitRegistry is the ordered collection of stock splits per symbol.
type SplitRegistry struct {
	splits map[string][]StockSplit // per symbol, ascending by date then id
}

// NewSplitRegistry creates an empty registry.
func NewSplitRegistry() *SplitRegistry {
	return &SplitRegistry{splits: make(map[string][]StockSplit)}
}

// Add registers a split. It rejects a non-positive ratio, and rejects a second
// split for the same symbol dated within 24 hours of an existing one (the
// duplicate guard). The boolean result reports acceptance; the error carries
// the reason.
func (r *SplitRegistry) Add(symbol string, on Date, ratio Quantity) (StockSplit, error) {
	if !ratio.IsPositive() {
		return StockSplit{}, fmt.Errorf("split ratio must be positive, got %s", ratio)
	}
	for _, existing := range r.splits[symbol] {
		delta := on.time().Sub(existing.Date.time())
		if delta < 0 {
			delta = -delta
		}
		if delta < 24*time.Hour {
			return StockSplit{}, fmt.Errorf("duplicate split: %s already has a split on %s", symbol, existing.Date)
		}
	}
	split := StockSplit{
		ID:        newID(),
		Symbol:    symbol,
		Date:      on,
		Ratio:     ratio,
		AppliedAt: time.Now().UTC(),
	}
	r.insert(split)
	return split, nil
}

// insert places a split keeping the symbol's chronological order.
func (r *SplitRegistry) insert(split StockSplit) {
	splits := append(r.splits[split.Symbol], split)
	sort.SliceStable(splits, func(i, j int) bool {
		if splits[i].Date != splits[j].Date {
			return splits[i].Date.Before(splits[j].Date)
		}
		return splits[i].ID < splits[j].ID
	})
	r.splits[split.Symbol] = splits
}

// Load re-registers persisted splits, bypassing the duplicate guard.
func (r *SplitRegistry) Load(splits ...StockSplit) {
	for _, split := range splits {
		r.insert(split)
	}
}

// Remove deletes a split by id. It returns false when the id is unknown.
func (r *SplitRegistry) Remove(id string) bool {
	for symbol, splits := range r.splits {
		for i, split := range splits {
			if split.ID == id {
				r.splits[symbol] = append(splits[:i:i], splits[i+1:]...)
				if len(r.splits[symbol]) == 0 {
					delete(r.splits, symbol)
				}
				return true
			}
		}
	}
	return false
}

// Get returns a split by id.
func (r *SplitRegistry) Get(id string) (StockSplit, bool) {
	for _, splits := range r.splits {
		for _, split := range splits {
			if split.ID == id {
				return split, true
			}
		}
	}
	return StockSplit{}, false
}

// List returns splits for a symbol in chronological order, or every split
// (ordered by symbol then date) when symbol is empty.
func (r *SplitRegistry) List(symbol string) []StockSplit {
	if symbol != "" {
		return slices.Clone(r.splits[symbol])
	}
	symbols := slices.Collect(maps.Keys(r.splits))
	slices.Sort(symbols)
	var all []StockSplit
	for _, s := range symbols {
		all = append(all, r.splits[s]...)
	}
	return all
}

// AdjustmentFor computes the cumulative ratio of all splits for the symbol
// dated strictly after asOf. A record created on asOf shown in present terms
// multiplies its share count by the returned ratio and divides its per-share
// price by it; the stored record itself is never mutated.
func (r *SplitRegistry) AdjustmentFor(symbol string, asOf Date) Adjustment {
	return r.adjustment(symbol, asOf, Date{})
}

// adjustment computes the cumulative ratio of splits dated strictly after
// 'after' and, when horizon is non-zero, strictly before 'horizon'. The
// horizon is what keeps point-in-time reconstruction blind to later splits.
func (r *SplitRegistry) adjustment(symbol string, after, horizon Date) Adjustment {
	adj := Adjustment{Ratio: Q(1)}
	for _, split := range r.splits[symbol] {
		if !split.Date.After(after) {
			continue
		}
		if !horizon.IsZero() && !split.Date.Before(horizon) {
			break
		}
		adj.Ratio = adj.Ratio.Mul(split.Ratio)
		adj.Splits = append(adj.Splits, split)
	}
	return adj
}
