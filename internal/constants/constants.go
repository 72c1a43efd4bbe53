package constants

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Redis keys
const (
	RedisKeyRecentSolutions = "solutions:recent"
)

// Redis Pub/Sub channels
const (
	PubSubChannelSolutions     = "solutions:all"
	PubSubChannelStatusPrefix  = "solutions:status:"
	PubSubChannelStatusPattern = "solutions:status:*"
)

// Limits
const (
	MaxRecentSolutions = 100
	DefaultMaxOrders   = 5 // orders considered per solve
	DefaultDecimals    = 18
)

// Upstream request defaults
const (
	DefaultQuoteTimeout = 1 * time.Second
	DefaultSwapTimeout  = 1 * time.Second
	DefaultSlippageBps  = 10
	UserAgent           = "gp-v2-services/2.0.0"
)

// Token addresses
var (
	// NativeToken is the sentinel aggregators use for the chain's native asset.
	NativeToken = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")
	// WrappedNativeToken is WETH on mainnet.
	WrappedNativeToken = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
)

// Well-known mainnet tokens, named in flow logs and solve errors.
var TokenSymbols = map[common.Address]string{
	common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"): "DAI",
	common.HexToAddress("0x6810e776880C02933D47DB1b9fc05908e5386b96"): "GNO",
	common.HexToAddress("0xba100000625a3754423978a60c9317c58a424e3D"): "BAL",
	common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"): "USDC",
	common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"): "WETH",
}

// Symbol returns the known symbol of token, or its hex address.
func Symbol(token common.Address) string {
	if s, ok := TokenSymbols[token]; ok {
		return s
	}
	return token.Hex()
}
