package cache

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/cow-dexag-solver/internal/models"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/storage"
)

var _ storage.SolutionStore = (*ClickHouseStore)(nil)

const createSolutionsTable = `
	CREATE TABLE IF NOT EXISTS solutions (
		id             String,
		timestamp      DateTime64(3),
		status         LowCardinality(String),
		orders         UInt32,
		matched_orders UInt32,
		tokens         UInt32,
		interactions   UInt32,
		error          String,
		duration_ms    Int64
	) ENGINE = MergeTree()
	ORDER BY (timestamp, id)
`

type ClickHouseConfig struct {
	Addr     string
	Database string
	Username string
	Password string
}

type ClickHouseStore struct {
	conn   driver.Conn
	logger *logrus.Logger
}

func NewClickHouseStore(ctx context.Context, cfg ClickHouseConfig, logger *logrus.Logger) (*ClickHouseStore, error) {
	if logger == nil {
		logger = logrus.New()
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}
	if err := conn.Exec(ctx, createSolutionsTable); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create solutions table: %w", err)
	}

	logger.WithField("addr", cfg.Addr).Info("connected to ClickHouse")
	return &ClickHouseStore{conn: conn, logger: logger}, nil
}

func (c *ClickHouseStore) InsertSolution(ctx context.Context, rec *models.SolveRecord) error {
	query := `
		INSERT INTO solutions (
			id, timestamp, status, orders, matched_orders,
			tokens, interactions, error, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := c.conn.Exec(ctx, query,
		rec.ID,
		rec.Timestamp,
		rec.Status,
		uint32(rec.Orders),
		uint32(rec.MatchedOrders),
		uint32(rec.Tokens),
		uint32(rec.Interactions),
		rec.Error,
		rec.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("failed to insert solution: %w", err)
	}
	return nil
}

func (c *ClickHouseStore) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *ClickHouseStore) Close() error {
	return c.conn.Close()
}
