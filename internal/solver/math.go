package solver

import (
	"fmt"

	"github.com/holiman/uint256"
)

// checkedAdd returns x + y or an ErrArithmetic on overflow.
func checkedAdd(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, fmt.Errorf("%w: %s + %s overflows", ErrArithmetic, x.Dec(), y.Dec())
	}
	return z, nil
}

// checkedSub returns x - y or an ErrArithmetic on underflow.
func checkedSub(x, y *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, fmt.Errorf("%w: %s - %s underflows", ErrArithmetic, x.Dec(), y.Dec())
	}
	return z, nil
}

// mulDiv returns x * y / d, truncating. The product must fit in 256 bits.
func mulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, fmt.Errorf("%w: division by zero", ErrArithmetic)
	}
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, fmt.Errorf("%w: %s * %s overflows", ErrArithmetic, x.Dec(), y.Dec())
	}
	return z.Div(z, d), nil
}

func orZero(x *uint256.Int) *uint256.Int {
	if x == nil {
		return new(uint256.Int)
	}
	return x
}
