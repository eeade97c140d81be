package washsale

// Position aggregates a symbol's open lots: total shares held and the
// weighted-average cost per share. Positions are derived, never stored, and
// recomputed from the live lot store on every query.
type Position struct {
	Symbol      string
	Shares      Quantity
	AverageCost Money // sum(remaining * costPerShare) / sum(remaining)
	CostBasis   Money
	Lots        []ShareLot
}

// CurrentPositions aggregates the non-zero lots of the live lot store into
// per-symbol positions, sorted by symbol. Pure read, safe to call any time
// outside of a rebuild.
func (e *Engine) CurrentPositions() []Position {
	var positions []Position
	for _, symbol := range e.lots.Symbols() {
		lots := e.lots.Snapshot(symbol)
		shares := Q(0)
		var costBasis Money
		for _, lot := range lots {
			shares = shares.Add(lot.RemainingQuantity)
			costBasis = costBasis.Add(lot.CostPerShare.Mul(lot.RemainingQuantity))
		}
		positions = append(positions, Position{
			Symbol:      symbol,
			Shares:      shares,
			AverageCost: costBasis.Div(shares),
			CostBasis:   costBasis,
			Lots:        lots,
		})
	}
	return positions
}
