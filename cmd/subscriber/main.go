package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/cow-dexag-solver/internal/cache"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/config"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/constants"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/models"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	rc, err := cache.NewRedisCache(cfg.RedisAddr, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to redis")
	}
	defer rc.Close()

	pubsub := cache.NewPubSubManager(rc.Client(), logger)
	logger.Info("starting solution subscriber")

	// Every recorded solve
	go func() {
		err := pubsub.Subscribe(ctx, constants.PubSubChannelSolutions, func(rec *models.SolveRecord) {
			logger.WithFields(logrus.Fields{
				"id":           rec.ID,
				"status":       rec.Status,
				"orders":       rec.Orders,
				"matched":      rec.MatchedOrders,
				"tokens":       rec.Tokens,
				"interactions": rec.Interactions,
				"duration_ms":  rec.DurationMs,
			}).Info("solution")
		})
		if err != nil {
			logger.WithError(err).Error("solutions subscription ended")
		}
	}()

	// Failures only, through the per-status channels
	go func() {
		err := pubsub.PSubscribe(ctx, constants.PubSubChannelStatusPattern, func(rec *models.SolveRecord) {
			if rec.Status == models.SolveStatusFailed {
				logger.WithFields(logrus.Fields{"id": rec.ID, "error": rec.Error}).Warn("solve failed")
			}
		})
		if err != nil {
			logger.WithError(err).Error("status subscription ended")
		}
	}()

	logger.Info("subscriber running, press Ctrl+C to stop")
	<-sigCh
	logger.Info("shutting down subscriber")
}
