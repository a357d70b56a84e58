package model

import (
	"math"
	"strconv"
)

// Percent is a confidence on the 0-100 scale with one decimal place
type Percent float64

// ToPercent converts a [0,1] confidence to the percentage scale, rounded to one decimal
func ToPercent(confidence float64) Percent {
	return RoundPercent(confidence * 100)
}

// RoundPercent rounds a percentage value to one decimal
func RoundPercent(v float64) Percent {
	return Percent(math.Round(v*10) / 10)
}

// Float returns the raw value
func (p Percent) Float() float64 {
	return float64(p)
}

// MarshalJSON always writes exactly one decimal so output is stable across runs
func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(p), 'f', 1, 64)), nil
}
