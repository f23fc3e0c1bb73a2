package engine

import (
	"math"
	"strconv"
	"strings"
)

// ParseUpperBound extracts the numeric upper bound from an interval label
// such as `(6, 11]`. Labels are free-form strings from an external
// data-preparation step, so parsing is tolerant: the second return value is
// false on any failure (missing comma, non-numeric remainder, empty string)
// and the caller skips the row instead of erroring.
func ParseUpperBound(label string) (float64, bool) {
	s := strings.NewReplacer(`"`, "", `'`, "").Replace(label)
	_, upper, found := strings.Cut(s, ",")
	if !found {
		return 0, false
	}
	upper = strings.Trim(upper, ")] \t")
	v, err := strconv.ParseFloat(upper, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
