package paraswap

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const (
	SideSell = "SELL"
	SideBuy  = "BUY"
)

type PriceRequest struct {
	SrcToken     common.Address
	DestToken    common.Address
	SrcDecimals  uint8
	DestDecimals uint8
	Amount       *uint256.Int
	Side         string // SELL | BUY
}

type PriceResponse struct {
	PriceRoute PriceRoute `json:"priceRoute"`
}

type PriceRoute struct {
	SrcToken   common.Address `json:"srcToken"`
	DestToken  common.Address `json:"destToken"`
	SrcAmount  *uint256.Int   `json:"srcAmount"`
	DestAmount *uint256.Int   `json:"destAmount"`
	BestRoute  []BestRoute    `json:"bestRoute"`
	GasCost    string         `json:"gasCost,omitempty"`
	Side       string         `json:"side,omitempty"`
}

type BestRoute struct {
	Percent float64 `json:"percent"`
	Swaps   []Swap  `json:"swaps"`
}

type Swap struct {
	SrcToken      common.Address `json:"srcToken"`
	SrcDecimals   uint8          `json:"srcDecimals"`
	DestToken     common.Address `json:"destToken"`
	DestDecimals  uint8          `json:"destDecimals"`
	SwapExchanges []SwapExchange `json:"swapExchanges"`
}

type SwapExchange struct {
	Exchange   string       `json:"exchange"`
	SrcAmount  *uint256.Int `json:"srcAmount"`
	DestAmount *uint256.Int `json:"destAmount"`
	Percent    float64      `json:"percent"`
}
