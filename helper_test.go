package washsale

import "testing"

// USD is a helper for tests to create dollar money from a const.
func USD(v float64) Money { return M(v, "USD") }

// testBuy and testSell build trades the way the CLI would hand them over.
func testBuy(on, symbol string, quantity int, price float64) Transaction {
	return NewBuy(MustParseDate(on), symbol, Q(quantity), USD(price), "")
}

func testSell(on, symbol string, quantity int, price float64) Transaction {
	return NewSell(MustParseDate(on), symbol, Q(quantity), USD(price), "")
}

// newTestEngine creates an empty in-memory engine.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(nil)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

// mustRecord records a trade and fails the test on error.
func mustRecord(t *testing.T, e *Engine, trade Transaction) *RecordResult {
	t.Helper()
	result, err := e.RecordTransaction(trade, RecordOptions{})
	if err != nil {
		t.Fatalf("RecordTransaction(%s %s %s) error = %v", trade.Type, trade.Quantity, trade.Symbol, err)
	}
	return result
}
