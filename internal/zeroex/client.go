// Package zeroex resolves residual flows into executable swaps through the
// 0x swap API.
package zeroex

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/aman-zulfiqar/cow-dexag-solver/internal/apiclient"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/models"
)

const (
	DefaultBaseURL = "https://api.0x.org"
	APIKeyHeader   = "0x-api-key"
)

type Client struct {
	api         *apiclient.Client
	slippageBps uint16
}

func NewClient(api *apiclient.Client, slippageBps uint16) *Client {
	return &Client{api: api, slippageBps: slippageBps}
}

// slippagePercentage renders bps as the fraction 0x expects (10 -> "0.001").
func slippagePercentage(bps uint16) string {
	return strconv.FormatFloat(float64(bps)/10000, 'f', -1, 64)
}

func (c *Client) Swap(ctx context.Context, query SwapQuery) (*SwapResponse, error) {
	if query.SellAmount == nil || query.SellAmount.IsZero() {
		return nil, fmt.Errorf("sellAmount is required")
	}

	q := url.Values{}
	q.Set("sellToken", query.SellToken.Hex())
	q.Set("buyToken", query.BuyToken.Hex())
	q.Set("sellAmount", query.SellAmount.Dec())
	q.Set("slippagePercentage", slippagePercentage(query.SlippageBps))
	q.Set("skipValidation", "true")

	var out SwapResponse
	if err := c.api.GetJSON(ctx, "/swap/v1/quote", q, &out); err != nil {
		return nil, err
	}
	if out.SellAmount == nil || out.BuyAmount == nil {
		return nil, fmt.Errorf("zeroex: quote without amounts")
	}
	return &out, nil
}

// Resolve sells sellAmount of sellToken for buyToken.
func (c *Client) Resolve(ctx context.Context, sellToken, buyToken common.Address, sellAmount *uint256.Int) (*models.ResolvedSwap, error) {
	resp, err := c.Swap(ctx, SwapQuery{
		SellToken:   sellToken,
		BuyToken:    buyToken,
		SellAmount:  sellAmount,
		SlippageBps: c.slippageBps,
	})
	if err != nil {
		return nil, err
	}

	value := resp.Value
	if value == nil {
		value = new(uint256.Int)
	}
	return &models.ResolvedSwap{
		SellToken:       sellToken,
		BuyToken:        buyToken,
		SellAmount:      resp.SellAmount,
		BuyAmount:       resp.BuyAmount,
		To:              resp.To,
		Value:           value,
		Data:            resp.Data,
		AllowanceTarget: resp.AllowanceTarget,
	}, nil
}
