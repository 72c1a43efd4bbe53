package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-zulfiqar/cow-dexag-solver/internal/apiclient"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/cache"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/flags"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/paraswap"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/server"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/solver"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/zeroex"
)

const (
	testAPIKey = "test-api-key-integration"
	daiHex     = "0x6b175474e89094c44da98b954eedeac495271d0f"
	gnoHex     = "0x6810e776880c02933d47db1b9fc05908e5386b96"
	exchHex    = "0xdef1c0ded9bec7f1a1670819833240f027b25eff"
)

// paraswapStub routes GNO->DAI 5->8 and DAI->GNO 6->3 as single legs.
func paraswapStub(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		src, dst := r.URL.Query().Get("srcToken"), r.URL.Query().Get("destToken")
		srcAmount, destAmount := "5", "8"
		if strings.EqualFold(src, daiHex) {
			srcAmount, destAmount = "6", "3"
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"priceRoute": map[string]any{
				"destAmount": destAmount,
				"bestRoute": []any{map[string]any{
					"percent": 100,
					"swaps": []any{map[string]any{
						"srcToken":  src,
						"destToken": dst,
						"swapExchanges": []any{map[string]any{
							"exchange":   "UniswapV2",
							"srcAmount":  srcAmount,
							"destAmount": destAmount,
						}},
					}},
				}},
			},
		})
	}))
}

// zeroexStub sells the 2 DAI residual for 3 GNO.
func zeroexStub(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("sellAmount"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"to":              exchHex,
			"data":            "0xd9627aa4",
			"value":           "0",
			"sellAmount":      "2",
			"buyAmount":       "3",
			"allowanceTarget": exchHex,
		})
	}))
}

func setupIntegrationTest(t *testing.T) (*httptest.Server, *redis.Client) {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr: redisAddr,
		DB:   2, // Use different DB for integration tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for integration tests: %v", err)
	}
	_ = redisClient.FlushDB(ctx).Err()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ps := paraswapStub(t)
	zx := zeroexStub(t)

	quotes := paraswap.NewClient(apiclient.NewClient(apiclient.ClientConfig{
		Name: "paraswap", BaseURL: ps.URL, Timeout: time.Second, Logger: logger,
	}), 1, []string{"ParaSwapPool4"})
	swaps := zeroex.NewClient(apiclient.NewClient(apiclient.ClientConfig{
		Name: "zeroex", BaseURL: zx.URL, Timeout: time.Second, Logger: logger,
	}), 10)

	flagStore, err := flags.NewStore(redisClient)
	require.NoError(t, err)

	srv, err := server.NewServer(server.ServerDeps{
		Handlers: &server.Handlers{
			Solver: solver.New(quotes, swaps, solver.Config{Logger: logger}),
			Cache:  cache.NewRedisCacheFromClient(redisClient, logger),
			Flags:  flagStore,
			Logger: logger,
		},
		Config: server.ServerConfig{Addr: ":0", APIKey: testAPIKey, DevMode: true},
	})
	require.NoError(t, err)

	api := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		api.Close()
		ps.Close()
		zx.Close()
		_ = redisClient.FlushDB(context.Background()).Err()
		_ = redisClient.Close()
	})
	return api, redisClient
}

func makeRequest(t *testing.T, method, url string, body interface{}, expectedStatus int) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, expectedStatus, resp.StatusCode, "Expected status %d, got %d", expectedStatus, resp.StatusCode)
	return resp
}

func TestIntegration_SolveCowAndRecent(t *testing.T) {
	api, _ := setupIntegrationTest(t)

	auction := map[string]any{
		"tokens": map[string]any{daiHex: map[string]any{}, gnoHex: map[string]any{}},
		"orders": map[string]any{
			"0": map[string]any{"sell_token": gnoHex, "buy_token": daiHex, "sell_amount": "5", "buy_amount": "7", "is_sell_order": true},
			"1": map[string]any{"sell_token": daiHex, "buy_token": gnoHex, "sell_amount": "6", "buy_amount": "2", "is_sell_order": true},
		},
	}
	resp := makeRequest(t, http.MethodPost, api.URL+"/v1/solve", auction, http.StatusOK)
	defer resp.Body.Close()

	var out struct {
		Orders          map[string]any    `json:"orders"`
		Prices          map[string]string `json:"prices"`
		InteractionData []map[string]any  `json:"interaction_data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	// residual DAI->GNO 2 resolved to 3, cleared together with GNO->DAI 5->8
	assert.Equal(t, map[string]string{daiHex: "8", gnoHex: "10"}, out.Prices)
	assert.Len(t, out.Orders, 2)
	require.Len(t, out.InteractionData, 2)
	assert.Equal(t, daiHex, out.InteractionData[0]["target"])
	assert.Equal(t, exchHex, out.InteractionData[1]["target"])

	resp = makeRequest(t, http.MethodGet, api.URL+"/v1/solutions/recent", nil, http.StatusOK)
	defer resp.Body.Close()
	var recent server.RecentSolutionsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&recent))
	require.Len(t, recent.Items, 1)
	assert.Equal(t, "solved", recent.Items[0].Status)
}

func TestIntegration_FlagsCRUD(t *testing.T) {
	api, _ := setupIntegrationTest(t)

	resp := makeRequest(t, http.MethodPost, api.URL+"/v1/flags", map[string]any{"key": "test.flag", "value": true}, http.StatusOK)
	defer resp.Body.Close()
	var created flags.Flag
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "test.flag", created.Key)
	assert.True(t, created.Value)

	resp = makeRequest(t, http.MethodPut, api.URL+"/v1/flags/test.flag", map[string]any{"value": false}, http.StatusOK)
	defer resp.Body.Close()

	resp = makeRequest(t, http.MethodGet, api.URL+"/v1/flags/test.flag", nil, http.StatusOK)
	defer resp.Body.Close()
	var got flags.Flag
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.False(t, got.Value)

	resp = makeRequest(t, http.MethodDelete, api.URL+"/v1/flags/test.flag", nil, http.StatusNoContent)
	defer resp.Body.Close()
	resp = makeRequest(t, http.MethodGet, api.URL+"/v1/flags/test.flag", nil, http.StatusNotFound)
	defer resp.Body.Close()
}
