package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liqdesk/spread-revenue/pkg/model"
)

func validLadder() model.Ladder {
	return model.Ladder{
		{LevelID: 1, Size: 1, SpreadCost: 31},
		{LevelID: 2, Size: 6, SpreadCost: 42},
		{LevelID: 3, Size: 11, SpreadCost: 57},
	}
}

func TestValidateLadder_Valid(t *testing.T) {
	assert.Empty(t, ValidateLadder(validLadder()))
}

func TestValidateLadder_Empty(t *testing.T) {
	errs := ValidateLadder(model.Ladder{})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "empty")
}

func TestValidateLadder_NonPositiveValues(t *testing.T) {
	ladder := model.Ladder{
		{LevelID: 1, Size: 0, SpreadCost: 31},
		{LevelID: 2, Size: 6, SpreadCost: -42},
	}
	errs := ValidateLadder(ladder)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "size must be > 0")
	assert.Contains(t, errs[1], "spread cost must be > 0")
}

func TestValidateLadder_MissingSuppressesPositivityCheck(t *testing.T) {
	// A missing size cannot be compared against zero, so the positivity
	// check for size is skipped entirely; spread checks still run.
	ladder := model.Ladder{
		{LevelID: 1, Size: math.NaN(), SpreadCost: 31},
		{LevelID: 2, Size: -5, SpreadCost: 0},
	}
	errs := ValidateLadder(ladder)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "size: missing values")
	assert.Contains(t, errs[1], "spread cost must be > 0")
}

func TestValidateLadder_LevelIDOrder(t *testing.T) {
	cases := []struct {
		name   string
		ladder model.Ladder
	}{
		{"duplicate ids", model.Ladder{
			{LevelID: 1, Size: 1, SpreadCost: 31},
			{LevelID: 1, Size: 6, SpreadCost: 42},
		}},
		{"descending ids", model.Ladder{
			{LevelID: 2, Size: 1, SpreadCost: 31},
			{LevelID: 1, Size: 6, SpreadCost: 42},
		}},
		{"non positive id", model.Ladder{
			{LevelID: 0, Size: 1, SpreadCost: 31},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotEmpty(t, ValidateLadder(tc.ladder))
		})
	}
}
