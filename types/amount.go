// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// MaxPrecision is the largest number of fractional decimal digits an
// asset amount may carry.
const MaxPrecision = 255

var (
	// ErrAmountOverflow is returned when an addition or a precision
	// rescale would exceed the maximum representable value.
	ErrAmountOverflow = errors.New("amount overflow")

	// ErrAmountUnderflow is returned when a subtraction would produce
	// a negative amount.
	ErrAmountUnderflow = errors.New("amount underflow")
)

// Amount is an unsigned fixed-point decimal. The unscaled value is a
// 256 bit unsigned integer and the precision is the number of
// fractional decimal digits. Amounts are immutable; arithmetic returns
// new values. An amount is never negative.
type Amount struct {
	value     uint256.Int
	precision uint8
}

// NewAmount returns the zero amount at the given precision.
func NewAmount(precision uint8) Amount {
	return Amount{precision: precision}
}

// ParseAmount parses a decimal string such as "12.34". The precision of
// the result is the number of digits after the decimal point.
func ParseAmount(s string) (Amount, error) {
	if s == "" {
		return Amount{}, errors.New("empty amount")
	}
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
		if fracPart == "" {
			return Amount{}, fmt.Errorf("malformed amount %q", s)
		}
	}
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > MaxPrecision {
		return Amount{}, fmt.Errorf("amount %q exceeds max precision", s)
	}
	digits := intPart + fracPart
	for _, c := range digits {
		if c < '0' || c > '9' {
			return Amount{}, fmt.Errorf("malformed amount %q", s)
		}
	}
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}
	v, err := uint256.FromDecimal(digits)
	if err != nil {
		return Amount{}, fmt.Errorf("malformed amount %q: %w", s, err)
	}
	return Amount{value: *v, precision: uint8(len(fracPart))}, nil
}

// Precision returns the number of fractional decimal digits.
func (a Amount) Precision() uint8 {
	return a.precision
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a.value.IsZero()
}

// Rescale returns the amount converted to the given precision. Raising
// the precision multiplies the unscaled value, which can overflow.
// Lowering the precision is not supported and returns an error since it
// would truncate value.
func (a Amount) Rescale(precision uint8) (Amount, error) {
	if precision == a.precision {
		return a, nil
	}
	if precision < a.precision {
		return Amount{}, fmt.Errorf("cannot rescale amount from precision %d to %d", a.precision, precision)
	}
	v := a.value
	for i := a.precision; i < precision; i++ {
		var overflow bool
		_, overflow = v.MulOverflow(&v, uint256.NewInt(10))
		if overflow {
			return Amount{}, ErrAmountOverflow
		}
	}
	return Amount{value: v, precision: precision}, nil
}

func align(a, b Amount) (Amount, Amount, error) {
	p := a.precision
	if b.precision > p {
		p = b.precision
	}
	ra, err := a.Rescale(p)
	if err != nil {
		return Amount{}, Amount{}, err
	}
	rb, err := b.Rescale(p)
	if err != nil {
		return Amount{}, Amount{}, err
	}
	return ra, rb, nil
}

// Add returns a+b at the wider of the two precisions.
func (a Amount) Add(b Amount) (Amount, error) {
	ra, rb, err := align(a, b)
	if err != nil {
		return Amount{}, err
	}
	var sum uint256.Int
	if _, overflow := sum.AddOverflow(&ra.value, &rb.value); overflow {
		return Amount{}, ErrAmountOverflow
	}
	return Amount{value: sum, precision: ra.precision}, nil
}

// Sub returns a-b at the wider of the two precisions.
func (a Amount) Sub(b Amount) (Amount, error) {
	ra, rb, err := align(a, b)
	if err != nil {
		return Amount{}, err
	}
	if ra.value.Lt(&rb.value) {
		return Amount{}, ErrAmountUnderflow
	}
	var diff uint256.Int
	diff.Sub(&ra.value, &rb.value)
	return Amount{value: diff, precision: ra.precision}, nil
}

// Cmp compares two amounts, aligning precisions. It returns -1, 0 or 1.
// Comparison fails only if aligning the precisions overflows.
func (a Amount) Cmp(b Amount) (int, error) {
	ra, rb, err := align(a, b)
	if err != nil {
		return 0, err
	}
	return ra.value.Cmp(&rb.value), nil
}

// String renders the amount as a decimal string carrying exactly
// Precision fractional digits, e.g. "2.00" at precision 2. This is the
// persisted representation.
func (a Amount) String() string {
	digits := a.value.Dec()
	if a.precision == 0 {
		return digits
	}
	p := int(a.precision)
	if len(digits) <= p {
		digits = strings.Repeat("0", p-len(digits)+1) + digits
	}
	return digits[:len(digits)-p] + "." + digits[len(digits)-p:]
}
