package solver

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/aman-zulfiqar/cow-dexag-solver/internal/models"
)

var (
	tokenA = common.HexToAddress("0x000000000000000000000000000000000000000a")
	tokenB = common.HexToAddress("0x000000000000000000000000000000000000000b")
	tokenC = common.HexToAddress("0x000000000000000000000000000000000000000c")
	tokenD = common.HexToAddress("0x000000000000000000000000000000000000000d")

	spender = common.HexToAddress("0xDef1C0ded9bec7F1a1670819833240f027b25EfF")
)

func u(n uint64) *uint256.Int {
	return uint256.NewInt(n)
}

func trade(sell, buy common.Address, sellAmount, buyAmount uint64) models.SubTrade {
	return models.SubTrade{
		SellToken:  sell,
		BuyToken:   buy,
		SellAmount: u(sellAmount),
		BuyAmount:  u(buyAmount),
	}
}

func resolved(sell, buy common.Address, sellAmount, buyAmount uint64) models.ResolvedSwap {
	return models.ResolvedSwap{
		SellToken:       sell,
		BuyToken:        buy,
		SellAmount:      u(sellAmount),
		BuyAmount:       u(buyAmount),
		To:              spender,
		Value:           new(uint256.Int),
		Data:            []byte{0xde, 0xad},
		AllowanceTarget: spender,
	}
}
