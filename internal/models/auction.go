// ============================================================================
// models/auction.go - Batch auction wire model
// ============================================================================
package models

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// BatchAuctionModel is the solver input: every order of the batch keyed by its
// index plus the metadata of every token the orders touch.
type BatchAuctionModel struct {
	Tokens   map[common.Address]TokenInfoModel `json:"tokens"`
	Orders   map[int]OrderModel                `json:"orders"`
	Metadata *MetadataModel                    `json:"metadata,omitempty"`
}

type MetadataModel struct {
	Environment *string `json:"environment,omitempty"`
	AuctionID   *int64  `json:"auction_id,omitempty"`
}

type OrderModel struct {
	SellToken        common.Address `json:"sell_token"`
	BuyToken         common.Address `json:"buy_token"`
	SellAmount       *uint256.Int   `json:"sell_amount"`
	BuyAmount        *uint256.Int   `json:"buy_amount"` // minimum for sell orders
	AllowPartialFill bool           `json:"allow_partial_fill"`
	IsSellOrder      bool           `json:"is_sell_order"`
	Fee              FeeModel       `json:"fee"`
	Cost             CostModel      `json:"cost"`
	IsLiquidityOrder bool           `json:"is_liquidity_order"`
}

type FeeModel struct {
	Amount *uint256.Int   `json:"amount"`
	Token  common.Address `json:"token"`
}

type CostModel struct {
	Amount *uint256.Int   `json:"amount"`
	Token  common.Address `json:"token"`
}

type TokenInfoModel struct {
	Decimals          *uint8       `json:"decimals,omitempty"`
	Alias             *string      `json:"alias,omitempty"`
	ExternalPrice     *float64     `json:"external_price,omitempty"`
	NormalizePriority *uint64      `json:"normalize_priority,omitempty"`
	InternalBuffer    *uint256.Int `json:"internal_buffer,omitempty"`
}

// SettledBatchAuctionModel is the solver output. The zero value (after
// NewSettledBatchAuction) is the "no trade" answer.
type SettledBatchAuctionModel struct {
	Orders          map[int]ExecutedOrderModel      `json:"orders"`
	Prices          map[common.Address]*uint256.Int `json:"prices"`
	InteractionData []InteractionData               `json:"interaction_data"`
}

type ExecutedOrderModel struct {
	ExecSellAmount *uint256.Int `json:"exec_sell_amount"`
	ExecBuyAmount  *uint256.Int `json:"exec_buy_amount"`
}

// InteractionData is one on-chain call of the settlement.
type InteractionData struct {
	Target   common.Address `json:"target"`
	Value    *uint256.Int   `json:"value"`
	CallData hexutil.Bytes  `json:"call_data"`
}

func NewSettledBatchAuction() *SettledBatchAuctionModel {
	return &SettledBatchAuctionModel{
		Orders:          make(map[int]ExecutedOrderModel),
		Prices:          make(map[common.Address]*uint256.Int),
		InteractionData: []InteractionData{},
	}
}

// IsEmpty reports whether the settlement trades nothing.
func (s *SettledBatchAuctionModel) IsEmpty() bool {
	return s == nil || (len(s.Orders) == 0 && len(s.Prices) == 0 && len(s.InteractionData) == 0)
}

// TokenDecimals returns the decimals recorded for token, or def when the
// auction carries no metadata for it.
func (b *BatchAuctionModel) TokenDecimals(token common.Address, def uint8) uint8 {
	if b == nil {
		return def
	}
	info, ok := b.Tokens[token]
	if !ok || info.Decimals == nil {
		return def
	}
	return *info.Decimals
}
