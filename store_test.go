package washsale

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStore_MissingFileIsEmptyState(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope.jsonl"))
	state, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(state.Transactions)+len(state.ShareLots)+len(state.StockSplits) != 0 {
		t.Errorf("missing file loaded non-empty state: %+v", state)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger", "trades.jsonl")

	store := NewFileStore(path)
	e, err := NewEngine(store)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	mustRecord(t, e, testBuy("2024-01-10", "aapl", 100, 150.25))
	mustRecord(t, e, testSell("2024-02-10", "AAPL", 40, 180))
	if _, err := e.AddSplit("AAPL", MustParseDate("2024-03-01"), Q(2)); err != nil {
		t.Fatalf("AddSplit() error = %v", err)
	}
	if err := e.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded, err := NewEngine(NewFileStore(path))
	if err != nil {
		t.Fatalf("NewEngine(reload) error = %v", err)
	}
	if reloaded.Ledger().Len() != 2 {
		t.Fatalf("reloaded ledger length = %d, want 2", reloaded.Ledger().Len())
	}
	if splits := reloaded.ListSplits("AAPL"); len(splits) != 1 || !splits[0].Ratio.Equal(Q(2)) {
		t.Fatalf("reloaded splits = %+v, want one 2:1 split", splits)
	}

	want := e.CurrentPositions()
	got := reloaded.CurrentPositions()
	if len(got) != 1 || !got[0].Shares.Equal(want[0].Shares) || !got[0].CostBasis.Equal(want[0].CostBasis) {
		t.Errorf("reloaded positions = %+v, want %+v", got, want)
	}
}

func TestEncodeState_LineFormat(t *testing.T) {
	e := newTestEngine(t)
	mustRecord(t, e, testBuy("2024-01-10", "AAPL", 100, 150))
	if _, err := e.AddSplit("AAPL", MustParseDate("2024-03-01"), Q(2)); err != nil {
		t.Fatalf("AddSplit() error = %v", err)
	}

	var sb strings.Builder
	if err := EncodeState(&sb, e.State()); err != nil {
		t.Fatalf("EncodeState() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("encoded %d lines, want 3 (buy, split, lot):\n%s", len(lines), sb.String())
	}
	for i, prefix := range []string{`{"command":"buy"`, `{"command":"split"`, `{"command":"lot"`} {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d = %s, want prefix %s", i, lines[i], prefix)
		}
	}
}

func TestDecodeState_RejectsUnknownCommand(t *testing.T) {
	_, err := DecodeState(strings.NewReader(`{"command": "dividend"}` + "\n"))
	if err == nil {
		t.Error("DecodeState() accepted an unknown command")
	}
}
