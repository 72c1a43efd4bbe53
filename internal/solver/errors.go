package solver

import "errors"

var (
	// ErrAmbiguousCow is returned when opposing flows on a pair cancel exactly
	// or neither side strictly dominates.
	ErrAmbiguousCow = errors.New("cow netting ambiguous: opposing flows cancel")

	// ErrPriceCycle is returned when a swap would connect two already priced tokens.
	ErrPriceCycle = errors.New("price cycle: both tokens already priced")

	// ErrArithmetic covers overflow, underflow and division by zero.
	ErrArithmetic = errors.New("arithmetic error")

	// ErrInconsistentFlow means a resolved swap does not match the aggregated flows.
	ErrInconsistentFlow = errors.New("resolved swap has no aggregated flow")

	// ErrDisconnectedPrices is returned in strict mode when the next swap
	// would seed a second, disconnected price anchor.
	ErrDisconnectedPrices = errors.New("price graph disconnected")

	// ErrSwapResolution wraps any external swap resolution failure.
	ErrSwapResolution = errors.New("swap resolution failed")
)
