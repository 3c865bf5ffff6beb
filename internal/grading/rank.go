package grading

import (
	"math"
	"sort"
)

// scoreEpsilon guards float comparisons when deciding ties.
const scoreEpsilon = 0.001

// Scored is a participant entering the ranking. Callers must have dropped
// participants without a score already; nil scores never reach this layer.
type Scored struct {
	ID    string
	Score float64
}

// Ranked is a participant with its assigned competition rank.
type Ranked struct {
	ID    string
	Score float64
	Rank  int
}

// Rank assigns standard competition ranks: entries are sorted by score
// descending, tied scores share a rank, and the next distinct score takes a
// rank equal to one plus the number of entries strictly above it, so
// [20, 20, 18] ranks as 1, 1, 3. Ties break by ID only for output order; the
// rank itself ignores input order.
func Rank(scores []Scored) []Ranked {
	if len(scores) == 0 {
		return nil
	}
	sorted := make([]Scored, len(scores))
	copy(sorted, scores)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].ID < sorted[j].ID
	})

	ranked := make([]Ranked, len(sorted))
	currentRank := 1
	for i, s := range sorted {
		if i > 0 && math.Abs(sorted[i-1].Score-s.Score) > scoreEpsilon {
			currentRank = i + 1
		}
		ranked[i] = Ranked{ID: s.ID, Score: s.Score, Rank: currentRank}
	}
	return ranked
}

// RankLookup returns a map from participant ID to rank.
func RankLookup(scores []Scored) map[string]int {
	ranked := Rank(scores)
	if ranked == nil {
		return nil
	}
	lookup := make(map[string]int, len(ranked))
	for _, r := range ranked {
		lookup[r.ID] = r.Rank
	}
	return lookup
}
