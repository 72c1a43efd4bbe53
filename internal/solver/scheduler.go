package solver

import (
	"fmt"

	"github.com/aman-zulfiqar/cow-dexag-solver/internal/models"
)

// Scheduler hands out resolved swaps so that each one, after the first,
// shares a token with the already priced set whenever such a swap remains.
// Among eligible swaps the earliest in input order wins.
type Scheduler struct {
	pending []models.ResolvedSwap
	strict  bool
}

func NewScheduler(swaps []models.ResolvedSwap, strict bool) *Scheduler {
	pending := make([]models.ResolvedSwap, len(swaps))
	copy(pending, swaps)
	return &Scheduler{pending: pending, strict: strict}
}

func (s *Scheduler) Len() int {
	return len(s.pending)
}

// Next removes and returns the next swap to fold into graph. It returns false
// once nothing is pending. In strict mode, a swap that would seed a second
// price anchor is refused with ErrDisconnectedPrices.
func (s *Scheduler) Next(graph *PriceGraph) (models.ResolvedSwap, bool, error) {
	if len(s.pending) == 0 {
		return models.ResolvedSwap{}, false, nil
	}

	pick := -1
	for i, swap := range s.pending {
		if graph.Touches(TokenPair{Sell: swap.SellToken, Buy: swap.BuyToken}) {
			pick = i
			break
		}
	}

	if pick < 0 {
		if s.strict && graph.Len() > 0 {
			next := s.pending[0]
			return models.ResolvedSwap{}, false, fmt.Errorf("%w: %s->%s shares no token with %d priced tokens",
				ErrDisconnectedPrices, next.SellToken.Hex(), next.BuyToken.Hex(), graph.Len())
		}
		pick = 0
	}

	swap := s.pending[pick]
	s.pending = append(s.pending[:pick], s.pending[pick+1:]...)
	return swap, true, nil
}
