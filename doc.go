// Package washsale tracks securities trades and computes IRS wash-sale
// disallowances, realized gains and losses, and split-adjusted cost basis for
// a retail trader.
//
// The engine keeps an append-only ledger of buy/sell records, derives FIFO
// share lots from it, and evaluates the 61-day wash-sale window against
// point-in-time views of the ledger so historical analysis never sees trades
// that had not yet happened. Stock splits never mutate stored records: all
// split adjustment is computed on demand and folded into lots during a full
// rebuild.
//
// Wash-sale matching is by ticker symbol only. Options, ETFs tracking the
// same index, and share-class equivalents are not treated as substantially
// identical; that judgment is out of scope.
package washsale
