package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aman-zulfiqar/cow-dexag-solver/internal/constants"
)

func TestNormalizeToken(t *testing.T) {
	assert.Equal(t, constants.WrappedNativeToken, NormalizeToken(constants.NativeToken))
	assert.Equal(t, constants.WrappedNativeToken, NormalizeToken(constants.WrappedNativeToken))
	assert.Equal(t, tokenA, NormalizeToken(tokenA))
}
