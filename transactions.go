package washsale

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TxType is a typed string identifying the side of a trade.
type TxType string

const (
	TxBuy  TxType = "buy"
	TxSell TxType = "sell"
)

// ParseTxType parses a string into a TxType.
func ParseTxType(s string) (TxType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return TxBuy, nil
	case "sell":
		return TxSell, nil
	default:
		return "", fmt.Errorf("unknown transaction type: %q", s)
	}
}

// Transaction is a normalized buy or sell record. Once recorded in a Ledger it
// is never mutated; split adjustments are computed as views over the original
// as-traded quantity and price.
type Transaction struct {
	ID       string // assigned at insertion, lexicographically sortable by creation time
	Type     TxType
	Symbol   string // normalized uppercase ticker
	Quantity Quantity
	Price    Money // price per share at trade time
	Date     Date
	Account  string // optional free-text account label
}

// NewBuy creates a buy transaction. The id is assigned when the transaction is
// recorded in a ledger.
func NewBuy(on Date, symbol string, quantity Quantity, price Money, account string) Transaction {
	return Transaction{Type: TxBuy, Symbol: symbol, Quantity: quantity, Price: price, Date: on, Account: account}
}

// NewSell creates a sell transaction.
func NewSell(on Date, symbol string, quantity Quantity, price Money, account string) Transaction {
	return Transaction{Type: TxSell, Symbol: symbol, Quantity: quantity, Price: price, Date: on, Account: account}
}

// Total returns the aggregate trade value, quantity * price.
func (t Transaction) Total() Money { return t.Price.Mul(t.Quantity) }

// normalize uppercases the symbol, defaults the currency, and defaults a zero
// date to today.
func (t Transaction) normalize() Transaction {
	t.Symbol = strings.ToUpper(strings.TrimSpace(t.Symbol))
	if t.Price.Currency() == "" {
		t.Price = M(t.Price.Decimal(), DefaultCurrency)
	}
	if t.Date.IsZero() {
		t.Date = Today()
	}
	return t
}

// Validate checks the transaction for correctness. It is called by the ledger
// boundary before any mutation.
func (t Transaction) Validate() error {
	var errs error
	if t.Type != TxBuy && t.Type != TxSell {
		errs = errors.Join(errs, fmt.Errorf("unsupported transaction type %q", t.Type))
	}
	if t.Symbol == "" {
		errs = errors.Join(errs, errors.New("symbol is missing"))
	}
	if !t.Quantity.IsPositive() {
		errs = errors.Join(errs, fmt.Errorf("quantity must be positive, got %s", t.Quantity))
	}
	if !t.Price.IsPositive() {
		errs = errors.Join(errs, fmt.Errorf("price must be positive, got %s", t.Price.Decimal()))
	}
	return errs
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", t.Type)
	w.Append("date", t.Date)
	w.Append("id", t.ID)
	w.Append("symbol", t.Symbol)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price.Decimal())
	w.Optional("currency", t.Price.Currency())
	w.Optional("account", t.Account)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Transaction.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		Command  TxType          `json:"command"`
		Date     Date            `json:"date"`
		ID       string          `json:"id"`
		Symbol   string          `json:"symbol"`
		Quantity Quantity        `json:"quantity"`
		Price    decimal.Decimal `json:"price"`
		Currency string          `json:"currency"`
		Account  string          `json:"account"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = Transaction{
		ID:       temp.ID,
		Type:     temp.Command,
		Symbol:   temp.Symbol,
		Quantity: temp.Quantity,
		Price:    M(temp.Price, temp.Currency),
		Date:     temp.Date,
		Account:  temp.Account,
	}
	return nil
}
