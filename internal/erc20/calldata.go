// Package erc20 encodes the few ERC-20 calls a settlement needs.
package erc20

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// ApproveSelector is the 4-byte selector of approve(address,uint256).
var ApproveSelector = crypto.Keccak256([]byte("approve(address,uint256)"))[:4]

// ApproveCalldata encodes approve(spender, amount).
func ApproveCalldata(spender common.Address, amount *uint256.Int) hexutil.Bytes {
	out := make([]byte, 0, 4+32+32)
	out = append(out, ApproveSelector...)
	out = append(out, common.LeftPadBytes(spender.Bytes(), 32)...)

	if amount == nil {
		amount = new(uint256.Int)
	}
	word := amount.Bytes32()
	out = append(out, word[:]...)
	return out
}
