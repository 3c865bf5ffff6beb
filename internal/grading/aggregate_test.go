package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsamooz/school-api/internal/models"
)

func grades(values ...float64) []models.GradeEntry {
	entries := make([]models.GradeEntry, len(values))
	for i, v := range values {
		entries[i] = models.GradeEntry{Value: v}
	}
	return entries
}

func assessments(labels ...string) []models.AssessmentEntry {
	entries := make([]models.AssessmentEntry, len(labels))
	for i, l := range labels {
		entries[i] = models.AssessmentEntry{Value: l}
	}
	return entries
}

func TestAggregateNoGrades(t *testing.T) {
	assert.Nil(t, Aggregate(nil, nil, NewWeightTable(nil)))
	// Assessment-only buckets never produce a score.
	assert.Nil(t, Aggregate(nil, assessments(models.AssessmentExcellent), NewWeightTable(nil)))
}

func TestAggregatePlainAverage(t *testing.T) {
	score := Aggregate(grades(18, 16), nil, NewWeightTable(nil))
	require.NotNil(t, score)
	assert.InDelta(t, 17.0, *score, 1e-9)
}

func TestAggregateWithAssessments(t *testing.T) {
	score := Aggregate(grades(18, 16), assessments(models.AssessmentExcellent), NewWeightTable(nil))
	require.NotNil(t, score)
	assert.InDelta(t, 19.0, *score, 1e-9)

	score = Aggregate(grades(12), assessments(models.AssessmentWeak, models.AssessmentVeryWeak), NewWeightTable(nil))
	require.NotNil(t, score)
	assert.InDelta(t, 9.0, *score, 1e-9)
}

func TestAggregateClampsToScoreBounds(t *testing.T) {
	score := Aggregate(grades(19, 20), assessments(models.AssessmentExcellent, models.AssessmentExcellent), NewWeightTable(nil))
	require.NotNil(t, score)
	assert.Equal(t, 20.0, *score)

	score = Aggregate(grades(1), assessments(models.AssessmentVeryWeak, models.AssessmentVeryWeak), NewWeightTable(nil))
	require.NotNil(t, score)
	assert.Equal(t, 0.0, *score)
}

func TestWeightTablePrecedence(t *testing.T) {
	table := NewWeightTable(map[string]int{
		models.AssessmentExcellent: 3,
		"participation":            1,
	})

	// Custom value wins over the default.
	assert.Equal(t, 3, table.Lookup(models.AssessmentExcellent))
	// Custom-only labels resolve.
	assert.Equal(t, 1, table.Lookup("participation"))
	// Defaults fill in the rest.
	assert.Equal(t, -2, table.Lookup(models.AssessmentVeryWeak))
	// Unknown labels contribute nothing.
	assert.Equal(t, 0, table.Lookup("unheard-of"))
}

func TestAggregateUsesCustomWeights(t *testing.T) {
	table := NewWeightTable(map[string]int{models.AssessmentExcellent: 3})
	score := Aggregate(grades(10), assessments(models.AssessmentExcellent), table)
	require.NotNil(t, score)
	assert.InDelta(t, 13.0, *score, 1e-9)
}

func TestYearAverage(t *testing.T) {
	v1, v2 := 18.0, 14.0
	avg := YearAverage([]*float64{&v1, nil, &v2, nil})
	require.NotNil(t, avg)
	assert.InDelta(t, 16.0, *avg, 1e-9)

	assert.Nil(t, YearAverage([]*float64{nil, nil}))
	assert.Nil(t, YearAverage(nil))
}

func TestProgress(t *testing.T) {
	cur, prev, zero := 15.0, 12.0, 0.0

	p := Progress(&cur, &prev)
	require.NotNil(t, p)
	assert.InDelta(t, 25.0, *p, 1e-9)

	assert.Nil(t, Progress(&cur, nil))
	assert.Nil(t, Progress(nil, &prev))
	assert.Nil(t, Progress(&cur, &zero))
}
