// Package bigmath provides checked arbitrary-precision arithmetic over
// unsigned token amounts and 18-digit fixed-point percentages.
//
// It exists because the teacher module's own actors/abi/big package is
// internal to that module rather than a fetchable import: this package
// reproduces the same idiom (a thin checked wrapper over math/big.Int)
// for this module's own U128 reward-amount and percentage values.
package bigmath

import (
	"fmt"
	"math/big"
)

// Amount is an unsigned arbitrary-precision integer, used for reward
// token quantities (the spec's U128). It never goes negative; every
// operation that would produce a negative result returns an error
// instead of wrapping or saturating silently.
type Amount struct {
	i *big.Int
}

// Zero returns the additive identity.
func Zero() Amount { return Amount{i: big.NewInt(0)} }

// NewAmount builds an Amount from an int64. Panics on negative input;
// used for literal constants and for the schedule evaluator's
// elapsed/duration values, never for parsing user input.
func NewAmount(v int64) Amount {
	if v < 0 {
		panic(fmt.Sprintf("bigmath: negative literal amount %d", v))
	}
	return Amount{i: big.NewInt(v)}
}

// ParseAmount parses a decimal string into an Amount, as the spec's
// "integer amounts are unsigned 128-bit" wire representation requires.
func ParseAmount(s string) (Amount, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, fmt.Errorf("bigmath: invalid integer amount %q", s)
	}
	if v.Sign() < 0 {
		return Amount{}, fmt.Errorf("bigmath: amount %q must not be negative", s)
	}
	return Amount{i: v}, nil
}

func (a Amount) String() string {
	if a.i == nil {
		return "0"
	}
	return a.i.String()
}

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool { return a.big().Sign() == 0 }

// Sign returns -1, 0 or 1; present for parity with the teacher's
// TokenAmount API even though this type never holds a negative value.
func (a Amount) Sign() int { return a.big().Sign() }

func (a Amount) big() *big.Int {
	if a.i == nil {
		return big.NewInt(0)
	}
	return a.i
}

// Add returns a+b.
func (a Amount) Add(b Amount) Amount {
	return Amount{i: new(big.Int).Add(a.big(), b.big())}
}

// Sub returns a-b, or an error if the result would be negative.
func (a Amount) Sub(b Amount) (Amount, error) {
	r := new(big.Int).Sub(a.big(), b.big())
	if r.Sign() < 0 {
		return Amount{}, fmt.Errorf("bigmath: %s - %s underflows", a, b)
	}
	return Amount{i: r}, nil
}

// SubSaturating returns max(0, a-b). The claim calculator uses it for
// a slot's new-claimable amount, max(0, vested - already claimed),
// where a slot paid a rounding compensation can hold more than its
// plain vested amount.
func (a Amount) SubSaturating(b Amount) Amount {
	r := new(big.Int).Sub(a.big(), b.big())
	if r.Sign() < 0 {
		return Zero()
	}
	return Amount{i: r}
}

// Cmp reports -1, 0 or 1 comparing a to b.
func (a Amount) Cmp(b Amount) int { return a.big().Cmp(b.big()) }

// LessThan reports a < b.
func (a Amount) LessThan(b Amount) bool { return a.Cmp(b) < 0 }

// GreaterThan reports a > b.
func (a Amount) GreaterThan(b Amount) bool { return a.Cmp(b) > 0 }

// Min returns the smaller of a and b.
func Min(a, b Amount) Amount {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b Amount) Amount {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// MulDiv computes floor(a*num/den) without ever materializing an
// intermediate that could overflow a fixed-width type, staged exactly
// as spec.md §4.2 prescribes:
//
//	(a/den)*num + ((a%den)*num)/den
//
// math/big.Int has no fixed width and so cannot itself overflow, but
// the staged form is kept anyway: it is the form pinned by the
// original implementation's saturating-arithmetic regression tests,
// and collapsing it to the naive (a*num)/den would silently diverge
// from that pinned behavior the moment this package's Amount is ever
// backed by a fixed-width type (e.g. a future uint128 swap-in).
func (a Amount) MulDiv(num, den Amount) (Amount, error) {
	if den.big().Sign() == 0 {
		return Amount{}, fmt.Errorf("bigmath: division by zero denominator")
	}
	if num.big().Sign() < 0 || den.big().Sign() < 0 {
		return Amount{}, fmt.Errorf("bigmath: MulDiv requires non-negative operands")
	}
	whole := new(big.Int)
	rem := new(big.Int)
	whole.QuoRem(a.big(), den.big(), rem)

	whole.Mul(whole, num.big())
	rem.Mul(rem, num.big())
	rem.Quo(rem, den.big())

	return Amount{i: whole.Add(whole, rem)}, nil
}

// Equal reports whether a and b represent the same value.
func (a Amount) Equal(b Amount) bool { return a.Cmp(b) == 0 }

// MarshalJSON encodes the amount as a decimal string, matching
// spec.md §6: "integer amounts are unsigned 128-bit" transported as
// decimal strings rather than native JSON numbers (which cannot carry
// 128 bits without loss).
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON decodes a quoted decimal string into the amount.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("bigmath: amount must be a quoted decimal string, got %s", data)
	}
	parsed, err := ParseAmount(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
