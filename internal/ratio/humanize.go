// Package ratio renders daily averages as reduced "N every D days" fractions.
package ratio

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// maxDenominator bounds the decimal scaling. One extra step past it is allowed
// so an average with four decimals still gets a denominator of 10000.
const maxDenominator = 1000

var ten = decimal.NewFromInt(10)

// Humanize converts an average per day into "{numerator} every {denominator} days".
//
//	Humanize(1)     == "1 every 1 days"
//	Humanize(0.5)   == "1 every 2 days"
//	Humanize(0.333) == "333 every 1000 days"
func Humanize(average float64) string {
	n, d := Fraction(average)
	return fmt.Sprintf("%d every %d days", n, d)
}

// Fraction returns the reduced numerator and denominator used by Humanize.
// NaN and infinities have no fraction and come back as 0/1.
func Fraction(average float64) (numerator, denominator int64) {
	if math.IsNaN(average) || math.IsInf(average, 0) {
		return 0, 1
	}

	scaled := decimal.NewFromFloat(average)
	denominator = 1
	for !scaled.IsInteger() && denominator <= maxDenominator {
		scaled = scaled.Mul(ten)
		denominator *= 10
	}

	// anything left past the last step is dropped by rounding
	numerator = scaled.Round(0).IntPart()
	if g := GCD(numerator, denominator); g > 1 {
		numerator /= g
		denominator /= g
	}
	return numerator, denominator
}
