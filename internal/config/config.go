package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/aman-zulfiqar/cow-dexag-solver/internal/constants"
)

type Config struct {
	// API settings
	APIAddr  string
	APIKey   string
	DevMode  bool
	LogLevel string
	SolveRPS float64

	// Redis settings
	RedisAddr string

	// ClickHouse settings
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	// Upstream settings
	ChainID             uint64
	ParaswapBaseURL     string
	ParaswapExcludeDEXs []string
	ZeroExBaseURL       string
	ZeroExAPIKey        string
	MaxRetries          int
	RetryBackoff        time.Duration
	UpstreamRPS         float64

	// Solver settings
	QuoteTimeout          time.Duration
	SwapTimeout           time.Duration
	MaxOrders             int
	SlippageBps           int
	MaxConcurrentRequests int
	StrictConnectivity    bool
}

func Load() *Config {
	return &Config{
		// API
		APIAddr:  getEnv("API_ADDR", ":8090"),
		APIKey:   getEnv("API_KEY", ""),
		DevMode:  getBoolEnv("DEV_MODE", false),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		SolveRPS: getFloatEnv("SOLVE_RPS", 2),

		// Redis
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),

		// ClickHouse
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "solver"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),

		// Upstreams
		ChainID:             uint64(getIntEnv("CHAIN_ID", 1)),
		ParaswapBaseURL:     getEnv("PARASWAP_BASE_URL", "https://apiv5.paraswap.io"),
		ParaswapExcludeDEXs: getListEnv("PARASWAP_EXCLUDE_DEXS", []string{"ParaSwapPool4"}),
		ZeroExBaseURL:       getEnv("ZEROEX_BASE_URL", "https://api.0x.org"),
		ZeroExAPIKey:        getEnv("ZEROEX_API_KEY", ""),
		MaxRetries:          getIntEnv("MAX_RETRIES", 0),
		RetryBackoff:        getDurationEnv("RETRY_BACKOFF", 200*time.Millisecond),
		UpstreamRPS:         getFloatEnv("UPSTREAM_RPS", 10),

		// Solver
		QuoteTimeout:          getDurationEnv("QUOTE_TIMEOUT", constants.DefaultQuoteTimeout),
		SwapTimeout:           getDurationEnv("SWAP_TIMEOUT", constants.DefaultSwapTimeout),
		MaxOrders:             getIntEnv("MAX_ORDERS", constants.DefaultMaxOrders),
		SlippageBps:           getIntEnv("SLIPPAGE_BPS", constants.DefaultSlippageBps),
		MaxConcurrentRequests: getIntEnv("MAX_CONCURRENT_REQUESTS", 8),
		StrictConnectivity:    getBoolEnv("STRICT_CONNECTIVITY", false),
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	if strings.TrimSpace(c.APIAddr) == "" {
		err = multierr.Append(err, fmt.Errorf("API_ADDR is required"))
	}
	if _, lerr := logrus.ParseLevel(c.LogLevel); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("LOG_LEVEL: %w", lerr))
	}
	if c.ChainID == 0 {
		err = multierr.Append(err, fmt.Errorf("CHAIN_ID must be positive"))
	}
	if strings.TrimSpace(c.ParaswapBaseURL) == "" {
		err = multierr.Append(err, fmt.Errorf("PARASWAP_BASE_URL is required"))
	}
	if strings.TrimSpace(c.ZeroExBaseURL) == "" {
		err = multierr.Append(err, fmt.Errorf("ZEROEX_BASE_URL is required"))
	}
	if c.MaxRetries < 0 {
		err = multierr.Append(err, fmt.Errorf("MAX_RETRIES must not be negative"))
	}
	if c.QuoteTimeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("QUOTE_TIMEOUT must be positive"))
	}
	if c.SwapTimeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("SWAP_TIMEOUT must be positive"))
	}
	if c.MaxOrders <= 0 {
		err = multierr.Append(err, fmt.Errorf("MAX_ORDERS must be positive"))
	}
	if c.SlippageBps < 0 || c.SlippageBps > 10000 {
		err = multierr.Append(err, fmt.Errorf("SLIPPAGE_BPS must be within [0, 10000]"))
	}
	if c.MaxConcurrentRequests <= 0 {
		err = multierr.Append(err, fmt.Errorf("MAX_CONCURRENT_REQUESTS must be positive"))
	}
	if c.SolveRPS < 0 || c.UpstreamRPS < 0 {
		err = multierr.Append(err, fmt.Errorf("rate limits must not be negative"))
	}
	return err
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getFloatEnv(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getListEnv(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
