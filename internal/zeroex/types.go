package zeroex

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

type SwapQuery struct {
	SellToken   common.Address
	BuyToken    common.Address
	SellAmount  *uint256.Int
	SlippageBps uint16
}

type SwapResponse struct {
	Price            string         `json:"price"`
	GuaranteedPrice  string         `json:"guaranteedPrice,omitempty"`
	To               common.Address `json:"to"`
	Data             hexutil.Bytes  `json:"data"`
	Value            *uint256.Int   `json:"value"`
	SellAmount       *uint256.Int   `json:"sellAmount"`
	BuyAmount        *uint256.Int   `json:"buyAmount"`
	SellTokenAddress common.Address `json:"sellTokenAddress"`
	BuyTokenAddress  common.Address `json:"buyTokenAddress"`
	AllowanceTarget  common.Address `json:"allowanceTarget"`
}
