package solver

import (
	"fmt"

	"github.com/holiman/uint256"
)

// NetCowVolume cancels opposing volume on every unordered token pair and
// returns the residual flows that still need external liquidity. For each
// pair at most one direction survives, with a zero counter-amount when
// netting happened. A one-sided flow that sells nothing needs no liquidity
// and is dropped.
func NetCowVolume(flows *FlowBook) (*FlowBook, error) {
	residual := newFlowBook()
	seen := make(map[TokenPair]struct{})

	var err error
	flows.Ascend(func(pair TokenPair, flow Flow) bool {
		reverse := pair.Reverse()
		if _, ok := seen[reverse]; ok {
			return true
		}
		seen[pair] = struct{}{}

		opposite, ok := flows.Get(reverse)
		if !ok {
			if !flow.Sold.IsZero() {
				residual.set(pair, flow)
			}
			return true
		}

		// The lower pair is tried as the A->B side first; the other
		// labeling only decides when the first has no strict winner.
		out, amount, ok, nerr := netPair(pair, flow, opposite)
		if nerr == nil && !ok {
			out, amount, ok, nerr = netPair(reverse, opposite, flow)
		}
		if nerr != nil {
			err = nerr
			return false
		}
		if !ok {
			err = fmt.Errorf("%w: %s %s against %s %s", ErrAmbiguousCow, pair, flow, reverse, opposite)
			return false
		}
		residual.set(out, Flow{Sold: amount, Bought: new(uint256.Int)})
		return true
	})
	if err != nil {
		return nil, err
	}
	return residual, nil
}

// netPair nets ab against its opposite ba, reading pair as A->B. It reports
// false when neither strict comparison holds for this labeling.
func netPair(pair TokenPair, ab, ba Flow) (TokenPair, *uint256.Int, bool, error) {
	switch {
	case ab.Bought.Gt(ba.Sold):
		amount, err := checkedSub(ab.Bought, ba.Sold)
		if err != nil {
			return TokenPair{}, nil, false, fmt.Errorf("net %s: %w", pair, err)
		}
		return pair.Reverse(), amount, true, nil
	case ab.Sold.Gt(ba.Bought):
		amount, err := checkedSub(ab.Sold, ba.Bought)
		if err != nil {
			return TokenPair{}, nil, false, fmt.Errorf("net %s: %w", pair, err)
		}
		return pair, amount, true, nil
	}
	return TokenPair{}, nil, false, nil
}
