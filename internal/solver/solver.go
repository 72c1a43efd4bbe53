// Package solver builds batch-auction settlements: it routes orders through a
// quote aggregator, nets opposing flow, resolves the residual through an
// external swap source and derives one consistent set of clearing prices.
package solver

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/aman-zulfiqar/cow-dexag-solver/internal/constants"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/models"
)

// QuoteAggregator decomposes an order fill into sub-trades.
type QuoteAggregator interface {
	Quote(ctx context.Context, req models.QuoteRequest) (*models.Route, error)
}

// SwapResolver turns a residual flow into an executable swap.
type SwapResolver interface {
	Resolve(ctx context.Context, sellToken, buyToken common.Address, sellAmount *uint256.Int) (*models.ResolvedSwap, error)
}

type Config struct {
	MaxOrders             int
	QuoteTimeout          time.Duration
	SwapTimeout           time.Duration
	MaxConcurrentRequests int
	StrictConnectivity    bool
	Logger                *logrus.Logger
}

// Options override Config for a single solve.
type Options struct {
	StrictConnectivity *bool
}

type Solver struct {
	quotes   QuoteAggregator
	resolver SwapResolver
	cfg      Config
	logger   *logrus.Logger
}

func New(quotes QuoteAggregator, resolver SwapResolver, cfg Config) *Solver {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.MaxOrders <= 0 {
		cfg.MaxOrders = constants.DefaultMaxOrders
	}
	if cfg.QuoteTimeout <= 0 {
		cfg.QuoteTimeout = constants.DefaultQuoteTimeout
	}
	if cfg.SwapTimeout <= 0 {
		cfg.SwapTimeout = constants.DefaultSwapTimeout
	}
	if cfg.MaxConcurrentRequests <= 0 {
		cfg.MaxConcurrentRequests = cfg.MaxOrders
	}
	return &Solver{
		quotes:   quotes,
		resolver: resolver,
		cfg:      cfg,
		logger:   cfg.Logger,
	}
}

func (s *Solver) Solve(ctx context.Context, auction *models.BatchAuctionModel) (*models.SettledBatchAuctionModel, error) {
	return s.SolveWithOptions(ctx, auction, Options{})
}

// SolveWithOptions always returns a settlement. On error it is the empty
// settlement and the error says why; errors.Is(err, ErrSwapResolution)
// separates an unavailable swap source from internal inconsistencies.
func (s *Solver) SolveWithOptions(ctx context.Context, auction *models.BatchAuctionModel, opts Options) (*models.SettledBatchAuctionModel, error) {
	if auction == nil || len(auction.Orders) == 0 {
		return models.NewSettledBatchAuction(), nil
	}

	strict := s.cfg.StrictConnectivity
	if opts.StrictConnectivity != nil {
		strict = *opts.StrictConnectivity
	}

	log := s.logger.WithFields(logrus.Fields{
		"solve_id": uuid.NewString(),
		"orders":   len(auction.Orders),
	})

	matched, trades := s.quoteOrders(ctx, log, auction)
	if len(matched) == 0 {
		log.Debug("no fulfillable orders")
		return models.NewSettledBatchAuction(), nil
	}

	flows, err := AggregateFlows(trades)
	if err != nil {
		return models.NewSettledBatchAuction(), err
	}
	logFlows(log, "before cow merge", flows)

	residual, err := NetCowVolume(flows)
	if err != nil {
		return models.NewSettledBatchAuction(), err
	}
	logFlows(log, "after cow merge", residual)

	swaps, err := s.resolveResiduals(ctx, residual)
	if err != nil {
		log.WithError(err).Warn("swap resolution failed, returning empty settlement")
		return models.NewSettledBatchAuction(), err
	}

	graph, calls, err := foldSwaps(flows, swaps, strict)
	if err != nil {
		return models.NewSettledBatchAuction(), err
	}

	out := assemble(graph, calls, matched)
	log.WithFields(logrus.Fields{
		"matched":      len(out.Orders),
		"prices":       len(out.Prices),
		"interactions": len(out.InteractionData),
	}).Info("settlement built")
	return out, nil
}

type quoteResult struct {
	index  int
	order  models.OrderModel
	trades []models.SubTrade
}

// quoteOrders routes at most MaxOrders orders, lowest index first. Failed or
// unprofitable quotes only drop their order.
func (s *Solver) quoteOrders(ctx context.Context, log *logrus.Entry, auction *models.BatchAuctionModel) (map[int]models.OrderModel, []models.SubTrade) {
	indices := make([]int, 0, len(auction.Orders))
	for i := range auction.Orders {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	if len(indices) > s.cfg.MaxOrders {
		indices = indices[:s.cfg.MaxOrders]
	}

	results := make([]*quoteResult, len(indices))
	g := new(errgroup.Group)
	g.SetLimit(s.cfg.MaxConcurrentRequests)

	for slot, idx := range indices {
		slot, idx := slot, idx
		order := auction.Orders[idx]
		req := models.QuoteRequest{
			Index:        idx,
			Order:        order,
			SellDecimals: auction.TokenDecimals(order.SellToken, constants.DefaultDecimals),
			BuyDecimals:  auction.TokenDecimals(order.BuyToken, constants.DefaultDecimals),
		}
		g.Go(func() error {
			qctx, cancel := context.WithTimeout(ctx, s.cfg.QuoteTimeout)
			defer cancel()

			route, err := s.quotes.Quote(qctx, req)
			if err != nil {
				log.WithError(err).WithField("order", idx).Debug("could not get quote for order")
				return nil
			}
			if route == nil || route.DestAmount == nil || !route.DestAmount.Gt(orZero(order.BuyAmount)) {
				log.WithField("order", idx).Debug("quote does not beat limit")
				return nil
			}
			if len(route.SubTrades) == 0 {
				log.WithField("order", idx).Debug("quote has no sub-trades")
				return nil
			}

			trades := make([]models.SubTrade, 0, len(route.SubTrades))
			for _, t := range route.SubTrades {
				t.SellToken = NormalizeToken(t.SellToken)
				t.BuyToken = NormalizeToken(t.BuyToken)
				trades = append(trades, t)
			}
			results[slot] = &quoteResult{index: idx, order: order, trades: trades}
			return nil
		})
	}
	_ = g.Wait()

	matched := make(map[int]models.OrderModel)
	var trades []models.SubTrade
	for _, r := range results {
		if r == nil {
			continue
		}
		matched[r.index] = r.order
		trades = append(trades, r.trades...)
	}
	return matched, trades
}

// resolveResiduals resolves every residual pair concurrently. The first
// failure cancels the rest. Swaps come back in ascending pair order.
func (s *Solver) resolveResiduals(ctx context.Context, residual *FlowBook) ([]models.ResolvedSwap, error) {
	pairs := residual.Pairs()
	swaps := make([]models.ResolvedSwap, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrentRequests)

	for i, pair := range pairs {
		i, pair := i, pair
		flow, _ := residual.Get(pair)
		g.Go(func() error {
			rctx, cancel := context.WithTimeout(gctx, s.cfg.SwapTimeout)
			defer cancel()

			swap, err := s.resolver.Resolve(rctx, pair.Sell, pair.Buy, flow.Sold)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrSwapResolution, pair, err)
			}
			if swap == nil {
				return fmt.Errorf("%w: %s: empty response", ErrSwapResolution, pair)
			}
			resolved := *swap
			resolved.SellToken = pair.Sell
			resolved.BuyToken = pair.Buy
			swaps[i] = resolved
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return swaps, nil
}

func logFlows(log *logrus.Entry, msg string, book *FlowBook) {
	if !log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	book.Ascend(func(pair TokenPair, flow Flow) bool {
		log.WithFields(logrus.Fields{
			"pair": pair.String(),
			"flow": flow.String(),
		}).Debug(msg)
		return true
	})
}
