package server

import "github.com/aman-zulfiqar/cow-dexag-solver/internal/models"

// ErrorResponse represents a standardized error response format
type ErrorResponse struct {
	Error   string `json:"error"`             // Human-readable error message
	Code    int    `json:"code"`              // HTTP status code
	Details any    `json:"details,omitempty"` // Additional error details (dev mode only)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK         bool `json:"ok"`
	Redis      bool `json:"redis"`
	ClickHouse bool `json:"clickhouse"`
}

// RecentSolutionsResponse lists recent solve records, newest first
type RecentSolutionsResponse struct {
	Items []*models.SolveRecord `json:"items"`
}

// FlagUpsertRequest represents a request to create or update a feature flag
type FlagUpsertRequest struct {
	Key   string `json:"key"`   // Flag key (must match regex pattern)
	Value bool   `json:"value"` // Flag value (true/false)
}

// FlagUpdateRequest represents a request to update an existing feature flag
type FlagUpdateRequest struct {
	Value bool `json:"value"` // New flag value
}
