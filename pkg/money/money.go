// Package money implements fixed-point monetary arithmetic with precision 20
// and scale 3. Division rounds half-even; sums and differences are exact.
package money

import (
	"database/sql/driver"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits carried by every Money value.
const Scale = 3

// maxIntegerDigits bounds the integer part so the full value fits in
// NUMERIC(20, 3).
const maxIntegerDigits = 17

// Money is an immutable fixed-point decimal amount.
type Money struct {
	dec decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{}

// One is the identity conversion rate.
var One = FromInt(1)

// New parses a decimal string into Money, rounding half-even to 3 fractional
// digits.
func New(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", s, err)
	}
	return fromDecimal(d)
}

// MustNew is New that panics on invalid input. For constants and tests.
func MustNew(s string) Money {
	m, err := New(s)
	if err != nil {
		panic(err)
	}
	return m
}

// FromInt converts an integer number of whole units.
func FromInt(n int64) Money {
	return Money{dec: decimal.NewFromInt(n)}
}

func fromDecimal(d decimal.Decimal) (Money, error) {
	d = d.RoundBank(Scale)
	if intDigits(d) > maxIntegerDigits {
		return Money{}, fmt.Errorf("money overflows precision 20 scale 3: %s", d)
	}
	return Money{dec: d}, nil
}

func intDigits(d decimal.Decimal) int {
	s := d.Abs().Truncate(0).String()
	if s == "0" {
		return 0
	}
	return len(s)
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{dec: m.dec.Add(other.dec)}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{dec: m.dec.Sub(other.dec)}
}

// Mul returns m * other rounded half-even to 3 fractional digits.
func (m Money) Mul(other Money) Money {
	return Money{dec: m.dec.Mul(other.dec).RoundBank(Scale)}
}

// Div returns m / other rounded half-even to 3 fractional digits.
func (m Money) Div(other Money) Money {
	return Money{dec: m.dec.Div(other.dec).RoundBank(Scale)}
}

// Inverse returns 1 / m.
func (m Money) Inverse() Money {
	return One.Div(m)
}

// Cmp compares m and other: -1 if m < other, 0 if equal, +1 if m > other.
func (m Money) Cmp(other Money) int {
	return m.dec.Cmp(other.dec)
}

// Equal reports whether m and other represent the same amount.
func (m Money) Equal(other Money) bool {
	return m.dec.Cmp(other.dec) == 0
}

// LessThan reports m < other.
func (m Money) LessThan(other Money) bool {
	return m.dec.Cmp(other.dec) < 0
}

// GreaterThan reports m > other.
func (m Money) GreaterThan(other Money) bool {
	return m.dec.Cmp(other.dec) > 0
}

// GreaterThanOrEqual reports m >= other.
func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.dec.Cmp(other.dec) >= 0
}

// IsNegative reports m < 0.
func (m Money) IsNegative() bool {
	return m.dec.IsNegative()
}

// IsPositive reports m > 0.
func (m Money) IsPositive() bool {
	return m.dec.IsPositive()
}

// IsZero reports m == 0.
func (m Money) IsZero() bool {
	return m.dec.IsZero()
}

// String renders the canonical wire form "d.ddd" with exactly 3 fractional
// digits.
func (m Money) String() string {
	return m.dec.StringFixed(Scale)
}

// MarshalJSON serializes Money as a JSON string to avoid float rounding on
// the wire.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// UnmarshalJSON accepts either a quoted decimal string or a bare JSON number.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	parsed, err := New(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer so Money binds as NUMERIC.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = Zero
		return nil
	case string:
		parsed, err := New(v)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	case []byte:
		parsed, err := New(string(v))
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	case int64:
		*m = FromInt(v)
		return nil
	case float64:
		parsed, err := fromDecimal(decimal.NewFromFloat(v))
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Money", src)
	}
}
