package number

import (
	"github.com/shopspring/decimal"
)

// Decimal parse v, zero on malformed input
func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// Positive reports whether d is a usable holding amount. Zero is not a
// tracked position; an empty position is expressed by removing the holding.
func Positive(d decimal.Decimal) bool {
	return d.Sign() > 0
}

// Values amount * unit price
func Values(amount, price decimal.Decimal) decimal.Decimal {
	return amount.Mul(price)
}
