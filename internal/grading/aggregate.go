// Package grading holds the pure score computations shared by the monthly
// report, report cards and exam statistics: bucket aggregation and
// competition ranking. Everything here is side-effect free.
package grading

import (
	"github.com/parsamooz/school-api/internal/models"
)

// Score bounds for final scores after assessment adjustment.
const (
	MinScore = 0
	MaxScore = 20
)

// DefaultWeights maps the standard assessment labels to their score deltas.
var DefaultWeights = map[string]int{
	models.AssessmentExcellent: 2,
	models.AssessmentGood:      1,
	models.AssessmentAverage:   0,
	models.AssessmentWeak:      -1,
	models.AssessmentVeryWeak:  -2,
}

// WeightTable resolves assessment labels to score deltas with an explicit
// precedence: custom teacher+course values first, then the default table,
// then zero.
type WeightTable struct {
	custom map[string]int
}

// NewWeightTable builds a table from custom overrides. A nil or empty map is
// valid and falls through to the defaults.
func NewWeightTable(custom map[string]int) WeightTable {
	return WeightTable{custom: custom}
}

// Lookup returns the delta for a label.
func (w WeightTable) Lookup(label string) int {
	if w.custom != nil {
		if v, ok := w.custom[label]; ok {
			return v
		}
	}
	if v, ok := DefaultWeights[label]; ok {
		return v
	}
	return 0
}

// Aggregate reduces a bucket's grades and assessments to a final score.
// Returns nil when there are no grades: an assessment-only bucket never
// produces a numeric score. With assessments present, each one contributes
// its delta additively to the grade mean and the result is clamped to
// [0, 20]. The additive model is intentional: a bucket with many assessments
// and few grades can swing disproportionately.
func Aggregate(grades []models.GradeEntry, assessments []models.AssessmentEntry, weights WeightTable) *float64 {
	if len(grades) == 0 {
		return nil
	}
	sum := 0.0
	for _, g := range grades {
		sum += g.Value
	}
	avg := sum / float64(len(grades))
	if len(assessments) == 0 {
		return &avg
	}
	adjustment := 0
	for _, a := range assessments {
		adjustment += weights.Lookup(a.Value)
	}
	final := clamp(avg+float64(adjustment), MinScore, MaxScore)
	return &final
}

// YearAverage is the mean of the non-nil monthly final scores. Returns nil
// when no month has a score, never zero.
func YearAverage(finals []*float64) *float64 {
	sum := 0.0
	count := 0
	for _, f := range finals {
		if f == nil {
			continue
		}
		sum += *f
		count++
	}
	if count == 0 {
		return nil
	}
	avg := sum / float64(count)
	return &avg
}

// Progress returns the percentage change between two adjacent display-order
// months, defined only when both scores exist and the previous one is not
// zero.
func Progress(current, previous *float64) *float64 {
	if current == nil || previous == nil || *previous == 0 {
		return nil
	}
	p := (*current - *previous) / *previous * 100
	return &p
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
