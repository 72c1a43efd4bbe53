package solver

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// PriceGraph assigns clearing prices one swap at a time. Prices are expressed
// in the numeraire fixed by the first seeded pair of each connected component.
type PriceGraph struct {
	prices map[common.Address]*uint256.Int
}

func NewPriceGraph() *PriceGraph {
	return &PriceGraph{prices: make(map[common.Address]*uint256.Int)}
}

// Price returns the clearing price of token, if assigned.
func (g *PriceGraph) Price(token common.Address) (*uint256.Int, bool) {
	p, ok := g.prices[token]
	return p, ok
}

// Has reports whether token is already priced.
func (g *PriceGraph) Has(token common.Address) bool {
	_, ok := g.prices[token]
	return ok
}

func (g *PriceGraph) Len() int {
	return len(g.prices)
}

// Touches reports whether either token of pair is already priced.
func (g *PriceGraph) Touches(pair TokenPair) bool {
	return g.Has(pair.Sell) || g.Has(pair.Buy)
}

// Prices returns a copy of the price map.
func (g *PriceGraph) Prices() map[common.Address]*uint256.Int {
	out := make(map[common.Address]*uint256.Int, len(g.prices))
	for t, p := range g.prices {
		out[t] = p.Clone()
	}
	return out
}

// Insert prices the edge sell -> buy that exchanged sellAmount for buyAmount.
// An edge between two priced tokens is rejected with ErrPriceCycle. On any
// error the graph is left unchanged.
func (g *PriceGraph) Insert(sell, buy common.Address, sellAmount, buyAmount *uint256.Int) error {
	sellPrice, sellPriced := g.prices[sell]
	buyPrice, buyPriced := g.prices[buy]

	switch {
	case sellPriced && buyPriced:
		return fmt.Errorf("%w: %s and %s", ErrPriceCycle, sell.Hex(), buy.Hex())
	case sellPriced:
		p, err := mulDiv(sellPrice, sellAmount, buyAmount)
		if err != nil {
			return fmt.Errorf("price %s from %s: %w", buy.Hex(), sell.Hex(), err)
		}
		if p.IsZero() {
			return fmt.Errorf("price %s from %s: %w: truncates to zero", buy.Hex(), sell.Hex(), ErrArithmetic)
		}
		g.prices[buy] = p
	case buyPriced:
		p, err := mulDiv(buyPrice, buyAmount, sellAmount)
		if err != nil {
			return fmt.Errorf("price %s from %s: %w", sell.Hex(), buy.Hex(), err)
		}
		if p.IsZero() {
			return fmt.Errorf("price %s from %s: %w: truncates to zero", sell.Hex(), buy.Hex(), ErrArithmetic)
		}
		g.prices[sell] = p
	default:
		if sellAmount.IsZero() || buyAmount.IsZero() {
			return fmt.Errorf("seed %s/%s: %w: zero amount", sell.Hex(), buy.Hex(), ErrArithmetic)
		}
		g.prices[sell] = buyAmount.Clone()
		g.prices[buy] = sellAmount.Clone()
	}
	return nil
}
