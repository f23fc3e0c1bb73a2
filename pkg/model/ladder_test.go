package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLadderCumulativeSizes(t *testing.T) {
	ladder := Ladder{
		{LevelID: 1, Size: 1, SpreadCost: 31},
		{LevelID: 2, Size: 6, SpreadCost: 42},
		{LevelID: 3, Size: 11, SpreadCost: 57},
	}
	assert.Equal(t, []float64{1, 7, 18}, ladder.CumulativeSizes())
	assert.Equal(t, 18.0, ladder.TotalDepth())
}

func TestLadderCumulativeSizes_Empty(t *testing.T) {
	assert.Empty(t, Ladder{}.CumulativeSizes())
	assert.Zero(t, Ladder{}.TotalDepth())
}
