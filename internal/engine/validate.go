package engine

import (
	"fmt"
	"math"

	"github.com/liqdesk/spread-revenue/pkg/model"
)

// ValidateLadder checks a ladder's structural and value invariants before it
// is handed to the revenue computation. It never fails for the conditions it
// is designed to check: it always returns a (possibly empty) list of
// human-readable descriptions, and an empty list means the ladder is usable.
//
// Missing numeric values (NaN, the typed-record stand-in for an empty cell)
// suppress the positivity check for that field: comparing a missing value
// against zero would be meaningless.
func ValidateLadder(ladder model.Ladder) []string {
	var errs []string
	if len(ladder) == 0 {
		return []string{"order book is empty: at least one level is required"}
	}

	sizeMissing := false
	spreadMissing := false
	for _, lvl := range ladder {
		if math.IsNaN(lvl.Size) {
			sizeMissing = true
		}
		if math.IsNaN(lvl.SpreadCost) {
			spreadMissing = true
		}
	}
	if sizeMissing {
		errs = append(errs, "size: missing values present, fill in every level")
	}
	if spreadMissing {
		errs = append(errs, "spread cost: missing values present, fill in every level")
	}

	for _, lvl := range ladder {
		if !sizeMissing && lvl.Size <= 0 {
			errs = append(errs, fmt.Sprintf("level %d: size must be > 0, got %g", lvl.LevelID, lvl.Size))
		}
		if !spreadMissing && lvl.SpreadCost <= 0 {
			errs = append(errs, fmt.Sprintf("level %d: spread cost must be > 0, got %g", lvl.LevelID, lvl.SpreadCost))
		}
	}

	// Consumption order is the order of appearance; out-of-order or duplicate
	// level IDs would make the cumulative-capacity semantics ambiguous, so
	// they are rejected up front instead of silently producing wrong
	// assignments.
	prev := 0
	for _, lvl := range ladder {
		if lvl.LevelID <= 0 {
			errs = append(errs, fmt.Sprintf("level %d: level id must be a positive integer", lvl.LevelID))
			continue
		}
		if lvl.LevelID <= prev {
			errs = append(errs, fmt.Sprintf("level %d: level ids must be unique and ascending", lvl.LevelID))
		}
		prev = lvl.LevelID
	}

	return errs
}
