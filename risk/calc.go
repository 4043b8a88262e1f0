package risk

import (
	"math"

	"github.com/shopspring/decimal"
)

// RR is the reward to risk ratio of two distances in the same units.
func RR(stopDistance, targetDistance float64) float64 {
	risk := math.Abs(stopDistance)
	if risk == 0 {
		return 0
	}
	return math.Abs(targetDistance) / risk
}

// RiskPct expresses amount as a percentage of balance.
func RiskPct(amount, balance float64) float64 {
	return amount / balance * 100
}

// Round2 rounds half away from zero to two decimal places. NaN and
// infinities are returned unchanged.
func Round2(x float64) float64 {
	if !finite(x) {
		return x
	}
	f, _ := decimal.NewFromFloat(x).Round(2).Float64()
	return f
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
