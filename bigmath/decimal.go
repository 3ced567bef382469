package bigmath

import (
	"fmt"
	"math/big"
)

// DecimalPrecision is the number of fractional digits carried by a
// Decimal, matching spec.md §6: "percentages are fixed-point decimals
// with 18 fractional digits."
const DecimalPrecision = 18

var decimalScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(DecimalPrecision), nil)

// Decimal is a fixed-point value scaled by 10^18, built the same way
// the teacher's monies.go builds BigFrac: a plain *big.Int carrying an
// implicit denominator, rather than reaching for an arbitrary-precision
// decimal library. A general decimal type would bring its own rounding
// modes and variable scale; this spec needs exactly one scale (18) and
// exact truncating division, so the teacher's own idiom is kept instead
// (see DESIGN.md for the considered-and-dropped ericlagergren/decimal).
type Decimal struct {
	scaled *big.Int // value * 10^18
}

// DecimalZero is the additive identity.
func DecimalZero() Decimal { return Decimal{scaled: big.NewInt(0)} }

// DecimalOne is exactly 1.0, i.e. Decimal::one() in spec.md §4.1.
func DecimalOne() Decimal { return Decimal{scaled: new(big.Int).Set(decimalScale)} }

// ParseDecimal parses an 18-fractional-digit decimal string such as
// "0.500000000000000000" into a Decimal. Only used for wire input;
// internal code constructs Decimal via arithmetic, never string
// round-tripping.
func ParseDecimal(s string) (Decimal, error) {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		return Decimal{}, fmt.Errorf("bigmath: percentage %q must not be negative", s)
	}
	intPart := s
	fracPart := ""
	for i, r := range s {
		if r == '.' {
			intPart = s[:i]
			fracPart = s[i+1:]
			break
		}
	}
	if len(fracPart) > DecimalPrecision {
		return Decimal{}, fmt.Errorf("bigmath: %q exceeds %d fractional digits", s, DecimalPrecision)
	}
	for len(fracPart) < DecimalPrecision {
		fracPart += "0"
	}
	if intPart == "" {
		intPart = "0"
	}
	whole, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return Decimal{}, fmt.Errorf("bigmath: invalid decimal %q", s)
	}
	frac, ok := new(big.Int).SetString(fracPart, 10)
	if !ok {
		return Decimal{}, fmt.Errorf("bigmath: invalid decimal %q", s)
	}
	scaled := new(big.Int).Mul(whole, decimalScale)
	scaled.Add(scaled, frac)
	if neg {
		scaled.Neg(scaled)
	}
	return Decimal{scaled: scaled}, nil
}

func (d Decimal) value() *big.Int {
	if d.scaled == nil {
		return big.NewInt(0)
	}
	return d.scaled
}

func (d Decimal) String() string {
	v := new(big.Int).Set(d.value())
	whole := new(big.Int)
	frac := new(big.Int)
	whole.QuoRem(v, decimalScale, frac)
	if frac.Sign() < 0 {
		frac.Neg(frac)
	}
	return fmt.Sprintf("%s.%0*s", whole.String(), DecimalPrecision, frac.String())
}

// IsZero reports whether the decimal is exactly zero.
func (d Decimal) IsZero() bool { return d.value().Sign() == 0 }

// IsPositive reports d > 0.
func (d Decimal) IsPositive() bool { return d.value().Sign() > 0 }

// GreaterThanOne reports d > 1.
func (d Decimal) GreaterThanOne() bool { return d.value().Cmp(decimalScale) > 0 }

// Add returns d+o.
func (d Decimal) Add(o Decimal) Decimal {
	return Decimal{scaled: new(big.Int).Add(d.value(), o.value())}
}

// Equal reports whether d and o represent the same value.
func (d Decimal) Equal(o Decimal) bool { return d.value().Cmp(o.value()) == 0 }

// MulAmount applies the percentage to amount, returning
// floor(amount * d) staged via Amount.MulDiv so the multiply and
// divide never silently overflow — spec.md §4.2: "applied to the
// allocation amount (not to the fraction) to avoid precision loss."
func (d Decimal) MulAmount(amount Amount) (Amount, error) {
	num := Amount{i: new(big.Int).Set(d.value())}
	den := Amount{i: new(big.Int).Set(decimalScale)}
	return amount.MulDiv(num, den)
}

// MarshalJSON encodes the decimal as an 18-fractional-digit string,
// matching spec.md §6: "percentages are fixed-point decimals with 18
// fractional digits."
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a quoted decimal string into d.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("bigmath: percentage must be a quoted decimal string, got %s", data)
	}
	parsed, err := ParseDecimal(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Fraction returns the (numerator, denominator) pair representing d,
// for callers that need to compose it with a further ratio (the
// schedule evaluator's elapsed/duration ratio) before a single staged
// MulDiv, rather than rounding twice.
func (d Decimal) Fraction() (num, den Amount) {
	return Amount{i: new(big.Int).Set(d.value())}, Amount{i: new(big.Int).Set(decimalScale)}
}
