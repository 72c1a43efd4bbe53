package storage

import (
	"context"
	"io"

	"github.com/aman-zulfiqar/cow-dexag-solver/internal/models"
)

// SolutionCache keeps the most recent solve records and fans them out to
// subscribers.
type SolutionCache interface {
	// AddRecentSolution pushes a record onto the bounded recent list
	AddRecentSolution(ctx context.Context, rec *models.SolveRecord) error

	// GetRecentSolutions returns up to limit records, newest first
	GetRecentSolutions(ctx context.Context, limit int64) ([]*models.SolveRecord, error)

	// PublishSolution publishes a record on the solutions channels
	PublishSolution(ctx context.Context, rec *models.SolveRecord) error

	Ping(ctx context.Context) error

	io.Closer
}

// SolutionStore persists solve records for analytics.
type SolutionStore interface {
	InsertSolution(ctx context.Context, rec *models.SolveRecord) error

	Ping(ctx context.Context) error

	io.Closer
}

// SolutionHandler processes records received from a subscription.
type SolutionHandler func(*models.SolveRecord)
