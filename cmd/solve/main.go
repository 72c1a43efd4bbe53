// Command solve reads a batch auction as JSON from a file or stdin and
// prints the settlement.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/cow-dexag-solver/internal/apiclient"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/config"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/models"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/paraswap"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/solver"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/zeroex"
)

func main() {
	strict := flag.Bool("strict", false, "fail when a residual swap is not connected to priced tokens")
	timeout := flag.Duration("timeout", 30*time.Second, "overall solve deadline")
	flag.Parse()

	// Logs go to stderr so stdout carries only the settlement
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	in := io.Reader(os.Stdin)
	if path := flag.Arg(0); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			logger.WithError(err).Fatal("failed to open auction")
		}
		defer f.Close()
		in = f
	}

	var auction models.BatchAuctionModel
	if err := json.NewDecoder(in).Decode(&auction); err != nil {
		logger.WithError(err).Fatal("failed to decode auction")
	}

	var headers map[string]string
	if cfg.ZeroExAPIKey != "" {
		headers = map[string]string{zeroex.APIKeyHeader: cfg.ZeroExAPIKey}
	}
	s := solver.New(
		paraswap.NewClient(apiclient.NewClient(apiclient.ClientConfig{
			Name:         "paraswap",
			BaseURL:      cfg.ParaswapBaseURL,
			Timeout:      cfg.QuoteTimeout,
			MaxRetries:   cfg.MaxRetries,
			RetryBackoff: cfg.RetryBackoff,
			RPS:          cfg.UpstreamRPS,
			Logger:       logger,
		}), cfg.ChainID, cfg.ParaswapExcludeDEXs),
		zeroex.NewClient(apiclient.NewClient(apiclient.ClientConfig{
			Name:         "zeroex",
			BaseURL:      cfg.ZeroExBaseURL,
			Headers:      headers,
			Timeout:      cfg.SwapTimeout,
			MaxRetries:   cfg.MaxRetries,
			RetryBackoff: cfg.RetryBackoff,
			RPS:          cfg.UpstreamRPS,
			Logger:       logger,
		}), uint16(cfg.SlippageBps)),
		solver.Config{
			MaxOrders:             cfg.MaxOrders,
			QuoteTimeout:          cfg.QuoteTimeout,
			SwapTimeout:           cfg.SwapTimeout,
			MaxConcurrentRequests: cfg.MaxConcurrentRequests,
			StrictConnectivity:    cfg.StrictConnectivity || *strict,
			Logger:                logger,
		},
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	out, err := s.Solve(ctx, &auction)
	if err != nil && !errors.Is(err, solver.ErrSwapResolution) {
		logger.WithError(err).Fatal("solve failed")
	}
	if err != nil {
		logger.WithError(err).Warn("no settlement, swap resolution failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.WithError(err).Fatal("failed to encode settlement")
	}
}
