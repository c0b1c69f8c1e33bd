package depth

import (
	"fmt"
	"math"
	"strconv"
)

// LabelFunc formats a price for display next to a brush handle.
// It returns false when no label should be shown.
type LabelFunc func(price float64) (string, bool)

// PercentLabels returns a LabelFunc that shows the signed percentage
// distance of a price from current.
func PercentLabels(current float64) LabelFunc {
	return func(price float64) (string, bool) {
		if current == 0 || !isFinite(current) || !isFinite(price) {
			return "", false
		}
		pct := (price - current) / current * 100
		if math.Abs(pct) < 0.005 {
			return "0.00%", true
		}
		return fmt.Sprintf("%+.2f%%", pct), true
	}
}

// PriceLabels returns a LabelFunc that shows the price itself.
func PriceLabels(price float64) (string, bool) {
	if !isFinite(price) {
		return "", false
	}
	return formatFloat(price), true
}

// formatCoord renders a pixel coordinate with at most two decimals.
func formatCoord(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// formatTick renders an axis tick value with just enough precision for
// the tick step.
func formatTick(v, step float64) string {
	decimals := 0
	if step > 0 && isFinite(step) {
		decimals = max(0, int(-math.Floor(math.Log10(step)+1e-9)))
	}
	if math.Abs(v) >= 1e6 && decimals == 0 {
		return formatFloat(v)
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if s == "-0" {
		s = "0"
	}
	return s
}

// formatFloat renders a number compactly, using SI suffixes for large values.
func formatFloat(v float64) string {
	av := math.Abs(v)
	switch {
	case av >= 1e9:
		return round2(v/1e9) + "G"
	case av >= 1e6:
		return round2(v/1e6) + "M"
	case av >= 1e4:
		return round2(v/1e3) + "k"
	case av == 0:
		return "0"
	case av < 1e-3:
		return strconv.FormatFloat(v, 'e', 2, 64)
	default:
		return strconv.FormatFloat(v, 'g', 6, 64)
	}
}

func round2(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
