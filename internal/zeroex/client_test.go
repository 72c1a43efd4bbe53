package zeroex

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-zulfiqar/cow-dexag-solver/internal/apiclient"
)

var (
	gno  = common.HexToAddress("0x6810e776880C02933D47DB1b9fc05908e5386b96")
	weth = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	exch = common.HexToAddress("0xDef1C0ded9bec7F1a1670819833240f027b25EfF")
)

const quoteBody = `{
  "price": "0.0123",
  "to": "0xDef1C0ded9bec7F1a1670819833240f027b25EfF",
  "data": "0xd9627aa4",
  "value": "0",
  "sellAmount": "1000000000000000000",
  "buyAmount": "12300000000000000",
  "sellTokenAddress": "0x6810e776880c02933d47db1b9fc05908e5386b96",
  "buyTokenAddress": "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
  "allowanceTarget": "0xDef1C0ded9bec7F1a1670819833240f027b25EfF"
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	api := apiclient.NewClient(apiclient.ClientConfig{
		Name:    "zeroex",
		BaseURL: srv.URL,
		Headers: map[string]string{APIKeyHeader: "key"},
		Timeout: time.Second,
		Logger:  logger,
	})
	return NewClient(api, 10)
}

func TestResolve(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/swap/v1/quote", r.URL.Path)
		assert.Equal(t, gno.Hex(), q.Get("sellToken"))
		assert.Equal(t, weth.Hex(), q.Get("buyToken"))
		assert.Equal(t, "1000000000000000000", q.Get("sellAmount"))
		assert.Equal(t, "0.001", q.Get("slippagePercentage"))
		assert.Equal(t, "true", q.Get("skipValidation"))
		assert.Equal(t, "key", r.Header.Get(APIKeyHeader))
		_, _ = w.Write([]byte(quoteBody))
	})

	amount, err := uint256.FromDecimal("1000000000000000000")
	require.NoError(t, err)

	swap, err := c.Resolve(context.Background(), gno, weth, amount)
	require.NoError(t, err)

	assert.Equal(t, gno, swap.SellToken)
	assert.Equal(t, weth, swap.BuyToken)
	assert.Equal(t, amount, swap.SellAmount)
	assert.Equal(t, uint64(12300000000000000), swap.BuyAmount.Uint64())
	assert.Equal(t, exch, swap.To)
	assert.Equal(t, exch, swap.AllowanceTarget)
	assert.True(t, swap.Value.IsZero())
	assert.Equal(t, []byte{0xd9, 0x62, 0x7a, 0xa4}, []byte(swap.Data))
}

func TestResolve_UpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":100,"reason":"Validation Failed"}`))
	})

	_, err := c.Resolve(context.Background(), gno, weth, uint256.NewInt(1))
	var httpErr *apiclient.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Contains(t, httpErr.Error(), "Validation Failed")
}

func TestResolve_MissingAmounts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"to":"0xDef1C0ded9bec7F1a1670819833240f027b25EfF","data":"0x"}`))
	})

	_, err := c.Resolve(context.Background(), gno, weth, uint256.NewInt(1))
	assert.Error(t, err)
}

func TestSlippagePercentage(t *testing.T) {
	assert.Equal(t, "0.001", slippagePercentage(10))
	assert.Equal(t, "0.005", slippagePercentage(50))
	assert.Equal(t, "0", slippagePercentage(0))
}
