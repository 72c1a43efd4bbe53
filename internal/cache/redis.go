package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/cow-dexag-solver/internal/constants"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/models"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/storage"
)

var _ storage.SolutionCache = (*RedisCache)(nil)

type RedisCache struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewRedisCache(addr string, logger *logrus.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisCacheFromClient(client, logger), nil
}

func NewRedisCacheFromClient(client *redis.Client, logger *logrus.Logger) *RedisCache {
	if logger == nil {
		logger = logrus.New()
	}
	return &RedisCache{client: client, logger: logger}
}

// Client exposes the underlying connection so other stores can share it.
func (r *RedisCache) Client() *redis.Client {
	return r.client
}

func (r *RedisCache) AddRecentSolution(ctx context.Context, rec *models.SolveRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal solve record: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, constants.RedisKeyRecentSolutions, data)
	pipe.LTrim(ctx, constants.RedisKeyRecentSolutions, 0, constants.MaxRecentSolutions-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("add recent solution: %w", err)
	}
	return nil
}

func (r *RedisCache) GetRecentSolutions(ctx context.Context, limit int64) ([]*models.SolveRecord, error) {
	if limit <= 0 || limit > constants.MaxRecentSolutions {
		limit = constants.MaxRecentSolutions
	}

	vals, err := r.client.LRange(ctx, constants.RedisKeyRecentSolutions, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("get recent solutions: %w", err)
	}

	out := make([]*models.SolveRecord, 0, len(vals))
	for _, v := range vals {
		var rec models.SolveRecord
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			r.logger.WithError(err).Warn("skipping malformed solve record")
			continue
		}
		out = append(out, &rec)
	}
	return out, nil
}

// PublishSolution publishes rec on the firehose and its status channel.
func (r *RedisCache) PublishSolution(ctx context.Context, rec *models.SolveRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal solve record: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Publish(ctx, constants.PubSubChannelSolutions, data)
	pipe.Publish(ctx, constants.PubSubChannelStatusPrefix+rec.Status, data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish solution: %w", err)
	}
	return nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
