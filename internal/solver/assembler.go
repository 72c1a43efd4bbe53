package solver

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/aman-zulfiqar/cow-dexag-solver/internal/erc20"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/models"
)

// clearedAmounts returns what the pair of swap actually clears: the resolved
// amounts plus the raw flow running the opposite way, which was netted
// against it. A residual with no raw flow behind it is an internal error.
func clearedAmounts(flows *FlowBook, swap models.ResolvedSwap) (sold, bought *uint256.Int, err error) {
	pair := TokenPair{Sell: swap.SellToken, Buy: swap.BuyToken}
	if !flows.Has(pair) {
		return nil, nil, fmt.Errorf("%w: %s", ErrInconsistentFlow, pair)
	}

	sold, bought = orZero(swap.SellAmount), orZero(swap.BuyAmount)
	opposite, ok := flows.Get(pair.Reverse())
	if !ok {
		return sold.Clone(), bought.Clone(), nil
	}

	if sold, err = checkedAdd(sold, opposite.Bought); err != nil {
		return nil, nil, fmt.Errorf("clear %s: %w", pair, err)
	}
	if bought, err = checkedAdd(bought, opposite.Sold); err != nil {
		return nil, nil, fmt.Errorf("clear %s: %w", pair, err)
	}
	return sold, bought, nil
}

// swapInteractions returns the approval of the swap's spender over the sold
// amount, followed by the swap call itself.
func swapInteractions(swap models.ResolvedSwap) []models.InteractionData {
	value := new(uint256.Int)
	if swap.Value != nil {
		value = swap.Value.Clone()
	}
	return []models.InteractionData{
		{
			Target:   swap.SellToken,
			Value:    new(uint256.Int),
			CallData: erc20.ApproveCalldata(swap.AllowanceTarget, orZero(swap.SellAmount)),
		},
		{
			Target:   swap.To,
			Value:    value,
			CallData: append([]byte(nil), swap.Data...),
		},
	}
}

// foldSwaps feeds swaps through the scheduler into a fresh price graph and
// collects the calls of every swap it inserted, in insertion order.
func foldSwaps(flows *FlowBook, swaps []models.ResolvedSwap, strict bool) (*PriceGraph, []models.InteractionData, error) {
	graph := NewPriceGraph()
	calls := make([]models.InteractionData, 0, 2*len(swaps))
	sched := NewScheduler(swaps, strict)

	for {
		swap, ok, err := sched.Next(graph)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			break
		}

		sold, bought, err := clearedAmounts(flows, swap)
		if err != nil {
			return nil, nil, err
		}
		if err := graph.Insert(swap.SellToken, swap.BuyToken, sold, bought); err != nil {
			return nil, nil, err
		}
		calls = append(calls, swapInteractions(swap)...)
	}
	return graph, calls, nil
}

// assemble builds the settlement: prices, calls and every matched order
// executed at its full requested amounts.
func assemble(graph *PriceGraph, calls []models.InteractionData, matched map[int]models.OrderModel) *models.SettledBatchAuctionModel {
	out := models.NewSettledBatchAuction()
	out.Prices = graph.Prices()
	out.InteractionData = calls
	for i, order := range matched {
		out.Orders[i] = models.ExecutedOrderModel{
			ExecSellAmount: orZero(order.SellAmount).Clone(),
			ExecBuyAmount:  orZero(order.BuyAmount).Clone(),
		}
	}
	return out
}
