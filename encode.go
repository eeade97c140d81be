package washsale

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeState decodes a stream of JSONL records into a State. Each line is a
// JSON object tagged by its "command" field: buy, sell, split, or lot.
func DecodeState(r io.Reader) (*State, error) {
	state := &State{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Command string `json:"command"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify command in line %q: %w", string(lineBytes), err)
		}

		switch identifier.Command {
		case string(TxBuy), string(TxSell):
			var tx Transaction
			if err := json.Unmarshal(lineBytes, &tx); err != nil {
				return nil, fmt.Errorf("could not parse %s transaction %q: %w", identifier.Command, string(lineBytes), err)
			}
			state.Transactions = append(state.Transactions, tx)
		case "split":
			var split StockSplit
			if err := json.Unmarshal(lineBytes, &split); err != nil {
				return nil, fmt.Errorf("could not parse split %q: %w", string(lineBytes), err)
			}
			state.StockSplits = append(state.StockSplits, split)
		case "lot":
			var lot ShareLot
			if err := json.Unmarshal(lineBytes, &lot); err != nil {
				return nil, fmt.Errorf("could not parse lot %q: %w", string(lineBytes), err)
			}
			state.ShareLots = append(state.ShareLots, lot)
		default:
			return nil, fmt.Errorf("unknown command %q in line %q", identifier.Command, string(lineBytes))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read state: %w", err)
	}
	return state, nil
}

// EncodeState writes the state as JSONL: transactions first, then splits,
// then lots, each on its own line.
func EncodeState(w io.Writer, state *State) error {
	bw := bufio.NewWriter(w)
	encode := func(v any) error {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := bw.Write(b); err != nil {
			return err
		}
		return bw.WriteByte('\n')
	}

	for _, tx := range state.Transactions {
		if err := encode(tx); err != nil {
			return fmt.Errorf("could not encode transaction %s: %w", tx.ID, err)
		}
	}
	for _, split := range state.StockSplits {
		if err := encode(split); err != nil {
			return fmt.Errorf("could not encode split %s: %w", split.ID, err)
		}
	}
	for _, lot := range state.ShareLots {
		if err := encode(lot); err != nil {
			return fmt.Errorf("could not encode lot %s: %w", lot.ID, err)
		}
	}
	return bw.Flush()
}
