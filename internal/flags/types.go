package flags

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("flag not found")

// Solver flags read on every solve.
const (
	// StrictConnectivity makes a solve fail instead of seeding a second,
	// disconnected price anchor.
	StrictConnectivity = "solver.strict_connectivity"
)

type Flag struct {
	Key       string    `json:"key"`
	Value     bool      `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
