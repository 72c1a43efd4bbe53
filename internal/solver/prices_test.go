package solver

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceGraph_SeedsBothTokens(t *testing.T) {
	g := NewPriceGraph()
	require.NoError(t, g.Insert(tokenA, tokenB, u(2), u(4)))

	pa, _ := g.Price(tokenA)
	pb, _ := g.Price(tokenB)
	assert.Equal(t, u(4), pa)
	assert.Equal(t, u(2), pb)
}

func TestPriceGraph_SellPricedTruncates(t *testing.T) {
	g := NewPriceGraph()
	require.NoError(t, g.Insert(tokenC, tokenA, u(10), u(1)))

	// price[B] = 10 * 4 / 6
	require.NoError(t, g.Insert(tokenA, tokenB, u(4), u(6)))
	pb, ok := g.Price(tokenB)
	require.True(t, ok)
	assert.Equal(t, u(6), pb)
}

func TestPriceGraph_BuyPriced(t *testing.T) {
	g := NewPriceGraph()
	require.NoError(t, g.Insert(tokenC, tokenB, u(7), u(1)))

	// price[A] = 7 * 9 / 4
	require.NoError(t, g.Insert(tokenA, tokenB, u(4), u(9)))
	pa, ok := g.Price(tokenA)
	require.True(t, ok)
	assert.Equal(t, u(15), pa)
}

func TestPriceGraph_CycleLeavesMapUnchanged(t *testing.T) {
	g := NewPriceGraph()
	require.NoError(t, g.Insert(tokenA, tokenB, u(2), u(4)))
	require.NoError(t, g.Insert(tokenB, tokenC, u(3), u(1)))
	before := g.Prices()

	err := g.Insert(tokenC, tokenA, u(5), u(5))
	assert.ErrorIs(t, err, ErrPriceCycle)
	assert.Equal(t, before, g.Prices())
}

func TestPriceGraph_ZeroAmounts(t *testing.T) {
	g := NewPriceGraph()
	assert.ErrorIs(t, g.Insert(tokenA, tokenB, u(0), u(4)), ErrArithmetic)
	assert.Equal(t, 0, g.Len())

	require.NoError(t, g.Insert(tokenA, tokenB, u(2), u(4)))
	assert.ErrorIs(t, g.Insert(tokenA, tokenC, u(2), u(0)), ErrArithmetic)
	assert.False(t, g.Has(tokenC))
}

func TestPriceGraph_Overflow(t *testing.T) {
	g := NewPriceGraph()
	require.NoError(t, g.Insert(tokenA, tokenB, u(1), new(uint256.Int).SetAllOne()))

	err := g.Insert(tokenA, tokenC, u(2), u(1))
	assert.ErrorIs(t, err, ErrArithmetic)
	assert.False(t, g.Has(tokenC))
}

func TestPriceGraph_PricesIsACopy(t *testing.T) {
	g := NewPriceGraph()
	require.NoError(t, g.Insert(tokenA, tokenB, u(2), u(4)))

	out := g.Prices()
	out[tokenA].SetUint64(99)
	pa, _ := g.Price(tokenA)
	assert.Equal(t, u(4), pa)
}
