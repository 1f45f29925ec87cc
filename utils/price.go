package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParsePrice reads a price typed into a number field. The longest numeric
// prefix is used, so "12abc" reads as 12. Anything without one reads as 0.
func ParsePrice(s string) float64 {
	num := leadingNumber.FindString(strings.TrimSpace(s))
	if num == "" {
		return 0
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	return FinitePrice(v)
}

// FinitePrice maps NaN and infinities to 0.
func FinitePrice(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
