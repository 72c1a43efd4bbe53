package models

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// SubTrade is one leg of a quoted route.
type SubTrade struct {
	SellToken  common.Address
	BuyToken   common.Address
	SellAmount *uint256.Int
	BuyAmount  *uint256.Int
}

// QuoteRequest asks a quote aggregator to route a whole order.
type QuoteRequest struct {
	Index        int
	Order        OrderModel
	SellDecimals uint8
	BuyDecimals  uint8
}

// Route is the aggregator's decomposition of an order fill.
type Route struct {
	SubTrades  []SubTrade
	DestAmount *uint256.Int
}

// ResolvedSwap is a concrete, executable external swap.
type ResolvedSwap struct {
	SellToken       common.Address
	BuyToken        common.Address
	SellAmount      *uint256.Int
	BuyAmount       *uint256.Int
	To              common.Address
	Value           *uint256.Int
	Data            hexutil.Bytes
	AllowanceTarget common.Address
}

// Solve statuses recorded in SolveRecord.Status.
const (
	SolveStatusSolved = "solved"
	SolveStatusEmpty  = "empty"
	SolveStatusFailed = "failed"
)

// SolveRecord summarizes one solve for history storage and publication.
type SolveRecord struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Status        string    `json:"status"`
	Orders        int       `json:"orders"`
	MatchedOrders int       `json:"matched_orders"`
	Tokens        int       `json:"tokens"`
	Interactions  int       `json:"interactions"`
	Error         string    `json:"error,omitempty"`
	DurationMs    int64     `json:"duration_ms"`
}

func (r *SolveRecord) String() string {
	return fmt.Sprintf("%s status=%s orders=%d matched=%d tokens=%d interactions=%d",
		r.ID, r.Status, r.Orders, r.MatchedOrders, r.Tokens, r.Interactions)
}
