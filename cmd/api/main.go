package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/cow-dexag-solver/internal/apiclient"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/cache"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/config"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/flags"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/paraswap"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/server"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/solver"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/zeroex"
)

// env bootstrap function
func loadEnv(logger *logrus.Logger) {
	// Get the project root directory (where go.mod is)
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

// newSolver wires the paraswap quote aggregator and the 0x swap resolver.
func newSolver(cfg *config.Config, logger *logrus.Logger) *solver.Solver {
	quotes := paraswap.NewClient(apiclient.NewClient(apiclient.ClientConfig{
		Name:         "paraswap",
		BaseURL:      cfg.ParaswapBaseURL,
		Timeout:      cfg.QuoteTimeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		RPS:          cfg.UpstreamRPS,
		Logger:       logger,
	}), cfg.ChainID, cfg.ParaswapExcludeDEXs)

	var headers map[string]string
	if cfg.ZeroExAPIKey != "" {
		headers = map[string]string{zeroex.APIKeyHeader: cfg.ZeroExAPIKey}
	}
	swaps := zeroex.NewClient(apiclient.NewClient(apiclient.ClientConfig{
		Name:         "zeroex",
		BaseURL:      cfg.ZeroExBaseURL,
		Headers:      headers,
		Timeout:      cfg.SwapTimeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		RPS:          cfg.UpstreamRPS,
		Logger:       logger,
	}), uint16(cfg.SlippageBps))

	return solver.New(quotes, swaps, solver.Config{
		MaxOrders:             cfg.MaxOrders,
		QuoteTimeout:          cfg.QuoteTimeout,
		SwapTimeout:           cfg.SwapTimeout,
		MaxConcurrentRequests: cfg.MaxConcurrentRequests,
		StrictConnectivity:    cfg.StrictConnectivity,
		Logger:                logger,
	})
}

// main is the entry point for the API server
// It initializes all dependencies and starts the HTTP server with graceful shutdown
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	// load .env BEFORE anything reads os.Getenv
	loadEnv(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	h := &server.Handlers{
		Solver:             newSolver(cfg, logger),
		StrictConnectivity: cfg.StrictConnectivity,
		SolveTimeout:       cfg.QuoteTimeout + cfg.SwapTimeout + 5*time.Second,
		DevMode:            cfg.DevMode,
		Logger:             logger,
	}

	// Redis backs recent solutions, pub/sub and feature flags. The solver
	// runs without it.
	rclient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rclient.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("redis unavailable, solutions will not be recorded")
		_ = rclient.Close()
	} else {
		defer rclient.Close()
		h.Cache = cache.NewRedisCacheFromClient(rclient, logger)

		flagStore, err := flags.NewStore(rclient)
		if err != nil {
			logger.WithError(err).Fatal("failed to create flags store")
		}
		h.Flags = flagStore
	}

	store, err := cache.NewClickHouseStore(ctx, cache.ClickHouseConfig{
		Addr:     cfg.ClickHouseAddr,
		Database: cfg.ClickHouseDatabase,
		Username: cfg.ClickHouseUsername,
		Password: cfg.ClickHousePassword,
	}, logger)
	if err != nil {
		logger.WithError(err).Warn("clickhouse unavailable, solution history disabled")
	} else {
		defer store.Close()
		h.Store = store
	}

	srv, err := server.NewServer(server.ServerDeps{
		Handlers: h,
		Config: server.ServerConfig{
			Addr:     cfg.APIAddr,
			DevMode:  cfg.DevMode,
			APIKey:   cfg.APIKey,
			SolveRPS: cfg.SolveRPS,
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create http server")
	}

	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
		_ = srv.Shutdown(context.Background())
	}()

	logger.WithFields(logrus.Fields{
		"addr":       cfg.APIAddr,
		"chain_id":   cfg.ChainID,
		"max_orders": cfg.MaxOrders,
	}).Info("solver api starting")
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("api server failed")
	}

	// Wait for in-flight solves to drain
	waitCtx, waitCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer waitCancel()
	if err := srv.WaitClosed(waitCtx); err != nil {
		logger.WithError(err).Warn("shutdown did not complete")
	}
}
