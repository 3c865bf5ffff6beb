package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankCompetitionTies(t *testing.T) {
	ranked := Rank([]Scored{
		{ID: "A", Score: 20},
		{ID: "B", Score: 20},
		{ID: "C", Score: 18},
	})
	require.Len(t, ranked, 3)

	lookup := RankLookup([]Scored{
		{ID: "A", Score: 20},
		{ID: "B", Score: 20},
		{ID: "C", Score: 18},
	})
	// Tied entries share the rank; the next distinct score skips past the
	// tie count, so C is third, not second.
	assert.Equal(t, 1, lookup["A"])
	assert.Equal(t, 1, lookup["B"])
	assert.Equal(t, 3, lookup["C"])
}

func TestRankOrderIndependentForTies(t *testing.T) {
	forward := RankLookup([]Scored{{ID: "A", Score: 17.5}, {ID: "B", Score: 17.5}})
	backward := RankLookup([]Scored{{ID: "B", Score: 17.5}, {ID: "A", Score: 17.5}})
	assert.Equal(t, forward, backward)
	assert.Equal(t, 1, forward["A"])
	assert.Equal(t, 1, forward["B"])
}

func TestRankNearEqualScoresTie(t *testing.T) {
	// Scores within the comparison epsilon count as equal.
	lookup := RankLookup([]Scored{
		{ID: "A", Score: 15.0005},
		{ID: "B", Score: 15.0},
		{ID: "C", Score: 14.0},
	})
	assert.Equal(t, 1, lookup["A"])
	assert.Equal(t, 1, lookup["B"])
	assert.Equal(t, 3, lookup["C"])
}

func TestRankEmpty(t *testing.T) {
	assert.Nil(t, Rank(nil))
	assert.Nil(t, RankLookup(nil))
}

func TestRankDescendingChain(t *testing.T) {
	ranked := Rank([]Scored{
		{ID: "low", Score: 10},
		{ID: "high", Score: 19},
		{ID: "mid", Score: 15},
	})
	require.Len(t, ranked, 3)
	assert.Equal(t, "high", ranked[0].ID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "mid", ranked[1].ID)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Equal(t, "low", ranked[2].ID)
	assert.Equal(t, 3, ranked[2].Rank)
}
