package washsale

import (
	"errors"
	"testing"
)

func TestLedger_Record_Normalizes(t *testing.T) {
	l := NewLedger()
	tx, err := l.Record(NewBuy(MustParseDate("2024-01-01"), " aapl ", Q(10), M(150.0, ""), "ira"))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if tx.Symbol != "AAPL" {
		t.Errorf("symbol not normalized, got %q", tx.Symbol)
	}
	if tx.Price.Currency() != DefaultCurrency {
		t.Errorf("currency not defaulted, got %q", tx.Price.Currency())
	}
	if tx.ID == "" {
		t.Error("id was not assigned")
	}
	if !tx.Total().Equal(USD(1500)) {
		t.Errorf("Total() = %s, want 1500", tx.Total().Decimal())
	}
}

func TestLedger_Record_Validation(t *testing.T) {
	testCases := []struct {
		name  string
		trade Transaction
	}{
		{"zero quantity", NewBuy(MustParseDate("2024-01-01"), "AAPL", Q(0), USD(100), "")},
		{"negative quantity", NewSell(MustParseDate("2024-01-01"), "AAPL", Q(-5), USD(100), "")},
		{"zero price", NewBuy(MustParseDate("2024-01-01"), "AAPL", Q(10), USD(0), "")},
		{"negative price", NewBuy(MustParseDate("2024-01-01"), "AAPL", Q(10), USD(-1), "")},
		{"missing symbol", NewBuy(MustParseDate("2024-01-01"), "  ", Q(10), USD(100), "")},
		{"bad type", Transaction{Type: "short", Symbol: "AAPL", Quantity: Q(10), Price: USD(100), Date: MustParseDate("2024-01-01")}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLedger()
			if _, err := l.Record(tc.trade); err == nil {
				t.Fatal("Record() accepted an invalid transaction")
			}
			if l.Len() != 0 {
				t.Errorf("ledger mutated on validation failure, len = %d", l.Len())
			}
		})
	}
}

func TestLedger_SortedByDateThenID(t *testing.T) {
	l := NewLedger()
	// Record out of chronological order.
	for _, on := range []string{"2024-03-01", "2024-01-01", "2024-02-01"} {
		if _, err := l.Record(testBuy(on, "AAPL", 1, 100)); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	var dates []string
	for tx := range l.Transactions(AcceptAll) {
		dates = append(dates, tx.Date.String())
	}
	want := []string{"2024-01-01", "2024-02-01", "2024-03-01"}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("transactions out of order: got %v, want %v", dates, want)
		}
	}
}

func TestLedger_ReplayOrder_BuysBeforeSells(t *testing.T) {
	l := NewLedger()
	// A same-day round-trip: the sell is recorded first.
	if _, err := l.Record(testSell("2024-05-01", "AAPL", 10, 110)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if _, err := l.Record(testBuy("2024-05-01", "AAPL", 10, 100)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	order := l.replayOrder()
	if order[0].Type != TxBuy || order[1].Type != TxSell {
		t.Errorf("replay order = [%s %s], want buy before sell", order[0].Type, order[1].Type)
	}
}

func TestLedger_SymbolTransactions_StrictCutoff(t *testing.T) {
	l := NewLedger()
	for _, on := range []string{"2024-01-01", "2024-02-01", "2024-03-01"} {
		if _, err := l.Record(testBuy(on, "AAPL", 1, 100)); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	got := l.SymbolTransactions("AAPL", MustParseDate("2024-02-01"))
	if len(got) != 1 || got[0].Date.String() != "2024-01-01" {
		t.Errorf("cutoff is not strict: got %d transactions", len(got))
	}
}

func TestErrInsufficientShares_Wrapped(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.RecordTransaction(testSell("2024-01-02", "AAPL", 10, 100), RecordOptions{})
	if !errors.Is(err, ErrInsufficientShares) {
		t.Errorf("error = %v, want ErrInsufficientShares", err)
	}
}
