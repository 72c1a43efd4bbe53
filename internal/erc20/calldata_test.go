package erc20

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveSelector(t *testing.T) {
	assert.Equal(t, "0x095ea7b3", hexutil.Encode(ApproveSelector))
}

func TestApproveCalldata(t *testing.T) {
	spender := common.HexToAddress("0xDef1C0ded9bec7F1a1670819833240f027b25EfF")
	data := ApproveCalldata(spender, uint256.NewInt(1000))

	require.Len(t, data, 68)
	assert.Equal(t, "0x095ea7b3", hexutil.Encode(data[:4]))
	assert.Equal(t, common.LeftPadBytes(spender.Bytes(), 32), []byte(data[4:36]))
	assert.Equal(t, uint64(1000), new(uint256.Int).SetBytes(data[36:]).Uint64())
}

func TestApproveCalldataNilAmount(t *testing.T) {
	data := ApproveCalldata(common.Address{}, nil)
	require.Len(t, data, 68)
	assert.True(t, new(uint256.Int).SetBytes(data[36:]).IsZero())
}
