package solver

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/btree"
	"github.com/holiman/uint256"

	"github.com/aman-zulfiqar/cow-dexag-solver/internal/constants"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/models"
)

// TokenPair is a directed (sell, buy) token pair.
type TokenPair struct {
	Sell common.Address
	Buy  common.Address
}

func (p TokenPair) Reverse() TokenPair {
	return TokenPair{Sell: p.Buy, Buy: p.Sell}
}

// String names known tokens by symbol, others by hex address.
func (p TokenPair) String() string {
	return constants.Symbol(p.Sell) + "->" + constants.Symbol(p.Buy)
}

func (p TokenPair) less(o TokenPair) bool {
	if c := bytes.Compare(p.Sell[:], o.Sell[:]); c != 0 {
		return c < 0
	}
	return bytes.Compare(p.Buy[:], o.Buy[:]) < 0
}

// Flow is the total volume moving along one directed pair.
type Flow struct {
	Sold   *uint256.Int
	Bought *uint256.Int
}

func (f Flow) String() string {
	return fmt.Sprintf("(%s, %s)", f.Sold.Dec(), f.Bought.Dec())
}

type flowEntry struct {
	pair TokenPair
	flow Flow
}

// FlowBook maps directed pairs to flows, iterated in ascending pair order.
// Books returned by AggregateFlows and NetCowVolume are not modified afterwards.
type FlowBook struct {
	tree *btree.BTreeG[flowEntry]
}

func newFlowBook() *FlowBook {
	return &FlowBook{
		tree: btree.NewG(16, func(a, b flowEntry) bool { return a.pair.less(b.pair) }),
	}
}

func (b *FlowBook) set(pair TokenPair, flow Flow) {
	b.tree.ReplaceOrInsert(flowEntry{pair: pair, flow: flow})
}

// Get returns the flow recorded for pair.
func (b *FlowBook) Get(pair TokenPair) (Flow, bool) {
	e, ok := b.tree.Get(flowEntry{pair: pair})
	return e.flow, ok
}

// Has reports whether the book holds a flow for pair.
func (b *FlowBook) Has(pair TokenPair) bool {
	return b.tree.Has(flowEntry{pair: pair})
}

func (b *FlowBook) Len() int {
	return b.tree.Len()
}

// Ascend calls fn for every pair in ascending order until fn returns false.
func (b *FlowBook) Ascend(fn func(pair TokenPair, flow Flow) bool) {
	b.tree.Ascend(func(e flowEntry) bool {
		return fn(e.pair, e.flow)
	})
}

// Pairs returns all pairs in ascending order.
func (b *FlowBook) Pairs() []TokenPair {
	out := make([]TokenPair, 0, b.Len())
	b.Ascend(func(pair TokenPair, _ Flow) bool {
		out = append(out, pair)
		return true
	})
	return out
}

// AggregateFlows sums sub-trades per directed pair. Sums are overflow checked
// and the result does not depend on the order of trades.
func AggregateFlows(trades []models.SubTrade) (*FlowBook, error) {
	book := newFlowBook()
	for _, t := range trades {
		pair := TokenPair{Sell: t.SellToken, Buy: t.BuyToken}
		sold, bought := orZero(t.SellAmount), orZero(t.BuyAmount)

		prev, ok := book.Get(pair)
		if !ok {
			book.set(pair, Flow{Sold: sold.Clone(), Bought: bought.Clone()})
			continue
		}

		totalSold, err := checkedAdd(prev.Sold, sold)
		if err != nil {
			return nil, fmt.Errorf("aggregate %s sold: %w", pair, err)
		}
		totalBought, err := checkedAdd(prev.Bought, bought)
		if err != nil {
			return nil, fmt.Errorf("aggregate %s bought: %w", pair, err)
		}
		book.set(pair, Flow{Sold: totalSold, Bought: totalBought})
	}
	return book, nil
}
