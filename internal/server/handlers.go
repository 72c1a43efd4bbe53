package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/cow-dexag-solver/internal/flags"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/models"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/solver"
	"github.com/aman-zulfiqar/cow-dexag-solver/internal/storage"
)

// SettlementSolver builds a settlement for one batch auction.
type SettlementSolver interface {
	SolveWithOptions(ctx context.Context, auction *models.BatchAuctionModel, opts solver.Options) (*models.SettledBatchAuctionModel, error)
}

// FlagStore is the feature flag backend.
type FlagStore interface {
	Upsert(ctx context.Context, key string, value bool) (*flags.Flag, error)
	Get(ctx context.Context, key string) (*flags.Flag, error)
	Bool(ctx context.Context, key string, def bool) (bool, error)
	List(ctx context.Context) ([]*flags.Flag, error)
	Delete(ctx context.Context, key string) error
}

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Solver             SettlementSolver      // Settlement builder
	Cache              storage.SolutionCache // Recent solutions and pub/sub (optional)
	Store              storage.SolutionStore // Solution history (optional)
	Flags              FlagStore             // Runtime switches (optional)
	StrictConnectivity bool                  // Default when the flag is unset
	SolveTimeout       time.Duration
	DevMode            bool // Enable detailed error responses in development
	Logger             *logrus.Logger
}

// err returns a standardized JSON error response
// In dev mode, includes additional error details for debugging
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

// withTimeout creates a context with timeout, defaulting to 10 seconds if duration <= 0
func (h *Handlers) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// Health reports liveness and the reachability of the configured backends
func (h *Handlers) Health(c echo.Context) error {
	resp := HealthResponse{OK: true}
	ctx, cancel := h.withTimeout(c.Request().Context(), time.Second)
	defer cancel()
	if h.Cache != nil {
		resp.Redis = h.Cache.Ping(ctx) == nil
	}
	if h.Store != nil {
		resp.ClickHouse = h.Store.Ping(ctx) == nil
	}
	return c.JSON(http.StatusOK, resp)
}

// Solve builds a settlement for the posted batch auction.
// An unavailable swap source yields the empty settlement with 200; any other
// solve failure is a 422.
func (h *Handlers) Solve(c echo.Context) error {
	var auction models.BatchAuctionModel
	if err := c.Bind(&auction); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid batch auction", map[string]any{"err": err.Error()})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), h.SolveTimeout)
	defer cancel()

	opts := solver.Options{}
	if h.Flags != nil {
		strict, err := h.Flags.Bool(ctx, flags.StrictConnectivity, h.StrictConnectivity)
		if err != nil {
			h.Logger.WithError(err).Warn("reading strict connectivity flag, using default")
		}
		opts.StrictConnectivity = &strict
	}

	start := time.Now()
	out, err := h.Solver.SolveWithOptions(ctx, &auction, opts)
	rec := newSolveRecord(&auction, out, err, time.Since(start))
	h.record(rec)

	switch {
	case err == nil:
		return c.JSON(http.StatusOK, out)
	case errors.Is(err, solver.ErrSwapResolution):
		return c.JSON(http.StatusOK, models.NewSettledBatchAuction())
	default:
		return h.err(c, http.StatusUnprocessableEntity, "solve failed", map[string]any{"err": err.Error(), "id": rec.ID})
	}
}

func newSolveRecord(auction *models.BatchAuctionModel, out *models.SettledBatchAuctionModel, err error, took time.Duration) *models.SolveRecord {
	rec := &models.SolveRecord{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		Status:     models.SolveStatusSolved,
		Orders:     len(auction.Orders),
		DurationMs: took.Milliseconds(),
	}
	if out != nil {
		rec.MatchedOrders = len(out.Orders)
		rec.Tokens = len(out.Prices)
		rec.Interactions = len(out.InteractionData)
	}
	switch {
	case err != nil:
		rec.Status = models.SolveStatusFailed
		rec.Error = err.Error()
	case out.IsEmpty():
		rec.Status = models.SolveStatusEmpty
	}
	return rec
}

// record stores and publishes rec; failures are logged and never reach the caller.
func (h *Handlers) record(rec *models.SolveRecord) {
	log := h.Logger.WithField("solve", rec.String())
	if h.Cache == nil && h.Store == nil {
		log.Debug("solve finished")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if h.Cache != nil {
		if err := h.Cache.AddRecentSolution(ctx, rec); err != nil {
			log.WithError(err).Warn("failed to cache solve record")
		}
		if err := h.Cache.PublishSolution(ctx, rec); err != nil {
			log.WithError(err).Warn("failed to publish solve record")
		}
	}
	if h.Store != nil {
		if err := h.Store.InsertSolution(ctx, rec); err != nil {
			log.WithError(err).Warn("failed to store solve record")
		}
	}
}

// RecentSolutions returns the most recent solve records with optional limit parameter
// Accepts limit query parameter (default: 20, range: 1-100)
func (h *Handlers) RecentSolutions(c echo.Context) error {
	if h.Cache == nil {
		return h.err(c, http.StatusServiceUnavailable, "solution cache is not configured", nil)
	}

	limit := 20
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "must be an integer"})
		}
		limit = n
	}
	if limit < 1 || limit > 100 {
		return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "min 1 max 100"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Cache.GetRecentSolutions(ctx, int64(limit))
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to get solutions", nil)
	}
	return c.JSON(http.StatusOK, RecentSolutionsResponse{Items: items})
}
