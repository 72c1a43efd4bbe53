// Package paraswap routes whole orders through the ParaSwap price API and
// reports each exchange leg as a sub-trade.
package paraswap

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/aman-zulfiqar/cow-dexag-solver/internal/apiclient"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/models"
)

const DefaultBaseURL = "https://apiv5.paraswap.io"

var ErrNoRoute = errors.New("paraswap: no route")

type Client struct {
	api         *apiclient.Client
	chainID     uint64
	excludeDEXs []string
}

func NewClient(api *apiclient.Client, chainID uint64, excludeDEXs []string) *Client {
	return &Client{api: api, chainID: chainID, excludeDEXs: excludeDEXs}
}

func (c *Client) Price(ctx context.Context, req PriceRequest) (*PriceResponse, error) {
	if req.Amount == nil || req.Amount.IsZero() {
		return nil, fmt.Errorf("amount is required")
	}
	side := req.Side
	if side == "" {
		side = SideSell
	}

	q := url.Values{}
	q.Set("srcToken", req.SrcToken.Hex())
	q.Set("destToken", req.DestToken.Hex())
	q.Set("srcDecimals", strconv.Itoa(int(req.SrcDecimals)))
	q.Set("destDecimals", strconv.Itoa(int(req.DestDecimals)))
	q.Set("amount", req.Amount.Dec())
	q.Set("side", side)
	q.Set("network", strconv.FormatUint(c.chainID, 10))
	if len(c.excludeDEXs) > 0 {
		q.Set("excludeDEXS", strings.Join(c.excludeDEXs, ","))
	}

	var out PriceResponse
	if err := c.api.GetJSON(ctx, "/prices", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Quote prices order and splits the best route into one sub-trade per
// exchange leg.
func (c *Client) Quote(ctx context.Context, req models.QuoteRequest) (*models.Route, error) {
	side, amount := SideSell, req.Order.SellAmount
	if !req.Order.IsSellOrder {
		side, amount = SideBuy, req.Order.BuyAmount
	}

	resp, err := c.Price(ctx, PriceRequest{
		SrcToken:     req.Order.SellToken,
		DestToken:    req.Order.BuyToken,
		SrcDecimals:  req.SellDecimals,
		DestDecimals: req.BuyDecimals,
		Amount:       amount,
		Side:         side,
	})
	if err != nil {
		return nil, err
	}
	return resp.PriceRoute.Route()
}

// Route converts the first best route into sub-trades.
func (r *PriceRoute) Route() (*models.Route, error) {
	if len(r.BestRoute) == 0 || r.DestAmount == nil {
		return nil, ErrNoRoute
	}

	var trades []models.SubTrade
	for _, swap := range r.BestRoute[0].Swaps {
		for _, ex := range swap.SwapExchanges {
			if ex.SrcAmount == nil || ex.DestAmount == nil {
				return nil, fmt.Errorf("paraswap: %s leg without amounts", ex.Exchange)
			}
			trades = append(trades, models.SubTrade{
				SellToken:  swap.SrcToken,
				BuyToken:   swap.DestToken,
				SellAmount: ex.SrcAmount,
				BuyAmount:  ex.DestAmount,
			})
		}
	}
	return &models.Route{SubTrades: trades, DestAmount: r.DestAmount}, nil
}
