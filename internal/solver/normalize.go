package solver

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/aman-zulfiqar/cow-dexag-solver/internal/constants"
)

// NormalizeToken maps the native asset sentinel to its wrapped token so both
// net and price as one token.
func NormalizeToken(token common.Address) common.Address {
	if token == constants.NativeToken {
		return constants.WrappedNativeToken
	}
	return token
}
