package catalog

import (
	"fmt"
	"math"
	"strconv"
)

// Money is an amount in cents.
type Money int64

// Dollars builds Money from a decimal amount, rounding to the nearest cent.
func Dollars(d float64) Money {
	return Money(math.Round(d * 100))
}

// Float returns the amount in dollars.
func (m Money) Float() float64 {
	return float64(m) / 100
}

// Mul scales the amount by an integer quantity.
func (m Money) Mul(n int) Money {
	return m * Money(n)
}

// Percent returns p percent of m, rounded half away from zero.
func (m Money) Percent(p int) Money {
	return Money(math.Round(float64(m) * float64(p) / 100))
}

// String renders the amount with two decimals, no grouping.
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the amount as a decimal number of dollars.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("money: %w", err)
	}
	*m = Dollars(f)
	return nil
}
