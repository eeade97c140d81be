package washsale

import "testing"

func TestSplitRegistry_DuplicateGuard(t *testing.T) {
	r := NewSplitRegistry()
	if _, err := r.Add("AAPL", MustParseDate("2024-02-01"), Q(2)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := r.Add("AAPL", MustParseDate("2024-02-01"), Q(3)); err == nil {
		t.Error("Add() accepted a same-day duplicate split")
	}
	// A different symbol on the same day is fine.
	if _, err := r.Add("GOOG", MustParseDate("2024-02-01"), Q(2)); err != nil {
		t.Errorf("Add() rejected a different symbol: %v", err)
	}
	// A day apart is 24 hours away, outside the guard.
	if _, err := r.Add("AAPL", MustParseDate("2024-02-02"), Q(3)); err != nil {
		t.Errorf("Add() rejected a next-day split: %v", err)
	}
}

func TestSplitRegistry_RejectsNonPositiveRatio(t *testing.T) {
	r := NewSplitRegistry()
	if _, err := r.Add("AAPL", MustParseDate("2024-02-01"), Q(0)); err == nil {
		t.Error("Add() accepted a zero ratio")
	}
	if _, err := r.Add("AAPL", MustParseDate("2024-02-01"), Q(-2)); err == nil {
		t.Error("Add() accepted a negative ratio")
	}
}

func TestAdjustmentFor_StrictlyAfter(t *testing.T) {
	r := NewSplitRegistry()
	if _, err := r.Add("AAPL", MustParseDate("2024-02-01"), Q(2)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	testCases := []struct {
		name  string
		asOf  string
		ratio Quantity
	}{
		{"before the split", "2024-01-15", Q(2)},
		{"on the split date", "2024-02-01", Q(1)}, // strictly after: same-day does not contribute
		{"after the split", "2024-02-02", Q(1)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			adj := r.AdjustmentFor("AAPL", MustParseDate(tc.asOf))
			if !adj.Ratio.Equal(tc.ratio) {
				t.Errorf("AdjustmentFor(%s) ratio = %s, want %s", tc.asOf, adj.Ratio, tc.ratio)
			}
		})
	}
}

func TestAdjustmentFor_CompoundsChronologically(t *testing.T) {
	r := NewSplitRegistry()
	if _, err := r.Add("AAPL", MustParseDate("2024-02-01"), Q(2)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := r.Add("AAPL", MustParseDate("2024-06-01"), Q(0.5)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	adj := r.AdjustmentFor("AAPL", MustParseDate("2024-01-01"))
	if !adj.Ratio.Equal(Q(1)) {
		t.Errorf("compound ratio = %s, want 1 (2 * 0.5)", adj.Ratio)
	}
	if len(adj.Splits) != 2 {
		t.Fatalf("contributing splits = %d, want 2", len(adj.Splits))
	}
	if adj.Splits[0].Date.After(adj.Splits[1].Date) {
		t.Error("contributing splits are not in chronological order")
	}
}

func TestAdjustment_HorizonExcludesLaterSplits(t *testing.T) {
	r := NewSplitRegistry()
	if _, err := r.Add("AAPL", MustParseDate("2024-02-01"), Q(2)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := r.Add("AAPL", MustParseDate("2024-06-01"), Q(4)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	// A view as of 2024-03-01 must not see the June split.
	adj := r.adjustment("AAPL", MustParseDate("2024-01-01"), MustParseDate("2024-03-01"))
	if !adj.Ratio.Equal(Q(2)) {
		t.Errorf("horizon-bounded ratio = %s, want 2", adj.Ratio)
	}
}

func TestSplitRegistry_Remove(t *testing.T) {
	r := NewSplitRegistry()
	split, err := r.Add("AAPL", MustParseDate("2024-02-01"), Q(2))
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if !r.Remove(split.ID) {
		t.Fatal("Remove() returned false for a known id")
	}
	if r.Remove(split.ID) {
		t.Error("Remove() returned true for an already-removed id")
	}
	if got := r.List("AAPL"); len(got) != 0 {
		t.Errorf("List() after removal = %d splits, want 0", len(got))
	}
}
