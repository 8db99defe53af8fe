package aggregate

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Number coerces a raw cell into a non-negative finite value
// Empty, NA, unparsable, negative and out of range inputs all become 0
func Number(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "NA") {
		return 0
	}
	// exports occasionally carry thousands separators
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return 0
	}
	// magnitude outside float64 range; Float64 would also build the exact power of ten first
	mag := int64(d.Exponent()) + int64(len(d.Coefficient().String()))
	if mag > maxMagnitude || mag < minMagnitude {
		return 0
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}

// decimal digits before the point, for values float64 can hold
const (
	maxMagnitude = 309
	minMagnitude = -324
)
