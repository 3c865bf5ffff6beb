package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parsamooz/school-api/internal/dto"
	"github.com/parsamooz/school-api/internal/models"
)

type mockRecordSource struct {
	records []models.ClassRecord
	err     error
}

func (m *mockRecordSource) List(ctx context.Context, filter models.RecordFilter) ([]models.ClassRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []models.ClassRecord
	for _, r := range m.records {
		if filter.TeacherCode != "" && filter.TeacherCode != r.TeacherCode {
			continue
		}
		if filter.CourseCode != "" && filter.CourseCode != r.CourseCode {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

type mockRosterSource struct {
	students []models.Student
}

func (m *mockRosterSource) ListByClass(ctx context.Context, schoolCode, classCode string) ([]models.Student, error) {
	return m.students, nil
}

type mockClassSource struct {
	class *models.Class
}

func (m *mockClassSource) FindByCode(ctx context.Context, schoolCode, classCode string) (*models.Class, error) {
	return m.class, nil
}

type mockWeightSource struct {
	weights map[string]int
	err     error
}

func (m *mockWeightSource) WeightMap(ctx context.Context, schoolCode, teacherCode, courseCode string) (map[string]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.weights, nil
}

func gradeRecord(student, teacher, course string, date time.Time, values []float64, assessments ...string) models.ClassRecord {
	record := models.ClassRecord{
		SchoolCode:  "sch-1",
		ClassCode:   "cls-1",
		StudentCode: student,
		TeacherCode: teacher,
		CourseCode:  course,
		Date:        date,
	}
	for _, v := range values {
		record.Grades = append(record.Grades, models.GradeEntry{Value: v})
	}
	for _, a := range assessments {
		record.Assessments = append(record.Assessments, models.AssessmentEntry{Value: a})
	}
	return record
}

func newGradeReportService(records *mockRecordSource, roster *mockRosterSource, classes *mockClassSource, weights *mockWeightSource) *GradeReportService {
	return NewGradeReportService(records, roster, classes, weights, zap.NewNop())
}

func TestMonthlyGradeReportComposesBuckets(t *testing.T) {
	mehr := time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC)  // Mehr 1403
	aban := time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)  // Aban 1403
	prior := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC) // Khordad 1403, school year 1402

	records := &mockRecordSource{records: []models.ClassRecord{
		gradeRecord("stu-1", "tch-1", "crs-1", mehr, []float64{18, 16}, models.AssessmentExcellent),
		gradeRecord("stu-1", "tch-1", "crs-1", aban, []float64{20}),
		gradeRecord("stu-1", "tch-1", "crs-1", prior, []float64{5}),
		gradeRecord("stu-2", "tch-1", "crs-1", mehr, []float64{19}, models.AssessmentWeak),
	}}
	roster := &mockRosterSource{students: []models.Student{
		{StudentCode: "stu-1", FullName: "Sara Ahmadi"},
		{StudentCode: "stu-2", FullName: "Reza Karimi"},
	}}
	svc := newGradeReportService(records, roster, &mockClassSource{}, &mockWeightSource{})

	report, err := svc.MonthlyGradeReport(context.Background(), dto.MonthlyReportQuery{
		SchoolCode: "sch-1", ClassCode: "cls-1", TeacherCode: "tch-1", CourseCode: "crs-1",
		SchoolYear: 1403, ShowRanks: true,
	})
	require.NoError(t, err)
	require.Len(t, report.Students, 2)
	assert.Equal(t, []int{7, 8, 9, 10, 11, 12, 1, 2, 3, 4, 5, 6}, report.MonthOrder)

	first := report.Students[0]
	require.Len(t, first.Buckets, 12)
	assert.Equal(t, 7, first.Buckets[0].Month)

	// Mehr: mean(18,16)=17, excellent +2 -> 19.
	require.NotNil(t, first.Buckets[0].FinalScore)
	assert.InDelta(t, 19.0, *first.Buckets[0].FinalScore, 0.0001)
	require.NotNil(t, first.Buckets[0].AverageGrade)
	assert.InDelta(t, 17.0, *first.Buckets[0].AverageGrade, 0.0001)

	// Aban: single grade 20, no assessments.
	require.NotNil(t, first.Buckets[1].FinalScore)
	assert.InDelta(t, 20.0, *first.Buckets[1].FinalScore, 0.0001)
	require.NotNil(t, first.Buckets[1].Progress)
	assert.InDelta(t, (20.0-19.0)/19.0*100, *first.Buckets[1].Progress, 0.0001)

	// The Khordad record belongs to the previous school year.
	assert.Nil(t, first.Buckets[8].FinalScore)

	require.NotNil(t, first.YearAverage)
	assert.InDelta(t, 19.5, *first.YearAverage, 0.0001)
	require.NotNil(t, first.YearRank)
	assert.Equal(t, 1, *first.YearRank)

	second := report.Students[1]
	require.NotNil(t, second.Buckets[0].FinalScore)
	assert.InDelta(t, 18.0, *second.Buckets[0].FinalScore, 0.0001)
	require.NotNil(t, second.Buckets[0].Rank)
	assert.Equal(t, 2, *second.Buckets[0].Rank)
	require.NotNil(t, first.Buckets[0].Rank)
	assert.Equal(t, 1, *first.Buckets[0].Rank)
}

func TestMonthlyGradeReportAssessmentOnlyBucket(t *testing.T) {
	mehr := time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC)
	records := &mockRecordSource{records: []models.ClassRecord{
		gradeRecord("stu-1", "tch-1", "crs-1", mehr, nil, models.AssessmentExcellent, models.AssessmentGood),
	}}
	roster := &mockRosterSource{students: []models.Student{{StudentCode: "stu-1", FullName: "Sara Ahmadi"}}}
	svc := newGradeReportService(records, roster, &mockClassSource{}, &mockWeightSource{})

	report, err := svc.MonthlyGradeReport(context.Background(), dto.MonthlyReportQuery{
		SchoolCode: "sch-1", ClassCode: "cls-1", TeacherCode: "tch-1", CourseCode: "crs-1", SchoolYear: 1403,
	})
	require.NoError(t, err)
	bucket := report.Students[0].Buckets[0]
	assert.Len(t, bucket.Assessments, 2)
	assert.Nil(t, bucket.FinalScore)
	assert.Nil(t, report.Students[0].YearAverage)
}

func TestMonthlyGradeReportCustomWeights(t *testing.T) {
	mehr := time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC)
	records := &mockRecordSource{records: []models.ClassRecord{
		gradeRecord("stu-1", "tch-1", "crs-1", mehr, []float64{15}, models.AssessmentExcellent),
	}}
	roster := &mockRosterSource{students: []models.Student{{StudentCode: "stu-1", FullName: "Sara Ahmadi"}}}
	weights := &mockWeightSource{weights: map[string]int{models.AssessmentExcellent: 4}}
	svc := newGradeReportService(records, roster, &mockClassSource{}, weights)

	report, err := svc.MonthlyGradeReport(context.Background(), dto.MonthlyReportQuery{
		SchoolCode: "sch-1", ClassCode: "cls-1", TeacherCode: "tch-1", CourseCode: "crs-1", SchoolYear: 1403,
	})
	require.NoError(t, err)
	require.NotNil(t, report.Students[0].Buckets[0].FinalScore)
	assert.InDelta(t, 19.0, *report.Students[0].Buckets[0].FinalScore, 0.0001)
	assert.Empty(t, report.Warnings)
}

func TestMonthlyGradeReportWeightFallback(t *testing.T) {
	mehr := time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC)
	records := &mockRecordSource{records: []models.ClassRecord{
		gradeRecord("stu-1", "tch-1", "crs-1", mehr, []float64{15}, models.AssessmentExcellent),
	}}
	roster := &mockRosterSource{students: []models.Student{{StudentCode: "stu-1", FullName: "Sara Ahmadi"}}}
	weights := &mockWeightSource{err: errors.New("db down")}
	svc := newGradeReportService(records, roster, &mockClassSource{}, weights)

	report, err := svc.MonthlyGradeReport(context.Background(), dto.MonthlyReportQuery{
		SchoolCode: "sch-1", ClassCode: "cls-1", TeacherCode: "tch-1", CourseCode: "crs-1", SchoolYear: 1403,
	})
	require.NoError(t, err)
	require.NotEmpty(t, report.Warnings)
	require.NotNil(t, report.Students[0].Buckets[0].FinalScore)
	assert.InDelta(t, 17.0, *report.Students[0].Buckets[0].FinalScore, 0.0001)
}

func TestMonthlyGradeReportEmptyRoster(t *testing.T) {
	svc := newGradeReportService(&mockRecordSource{}, &mockRosterSource{}, &mockClassSource{}, &mockWeightSource{})
	report, err := svc.MonthlyGradeReport(context.Background(), dto.MonthlyReportQuery{
		SchoolCode: "sch-1", ClassCode: "cls-1", TeacherCode: "tch-1", CourseCode: "crs-1", SchoolYear: 1403,
	})
	require.NoError(t, err)
	assert.Empty(t, report.Students)
}

func TestReportCardsWeightedAverage(t *testing.T) {
	mehr := time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC)
	records := &mockRecordSource{records: []models.ClassRecord{
		gradeRecord("stu-1", "tch-1", "math", mehr, []float64{18}),
		gradeRecord("stu-1", "tch-2", "science", mehr, []float64{15}),
		gradeRecord("stu-2", "tch-1", "math", mehr, []float64{12}),
	}}
	roster := &mockRosterSource{students: []models.Student{
		{StudentCode: "stu-1", FullName: "Sara Ahmadi"},
		{StudentCode: "stu-2", FullName: "Reza Karimi"},
	}}
	classes := &mockClassSource{class: &models.Class{
		ClassCode: "cls-1",
		Teachers: []models.TeacherCourse{
			{ClassCode: "cls-1", TeacherCode: "tch-1", CourseCode: "math", CourseName: "Math", Credit: 4},
			{ClassCode: "cls-1", TeacherCode: "tch-2", CourseCode: "science", CourseName: "Science", Credit: 2},
		},
	}}
	svc := newGradeReportService(records, roster, classes, &mockWeightSource{})

	report, err := svc.ReportCards(context.Background(), dto.ReportCardQuery{
		SchoolCode: "sch-1", ClassCode: "cls-1", SchoolYear: 1403,
	})
	require.NoError(t, err)
	require.Len(t, report.Students, 2)

	first := report.Students[0]
	require.Len(t, first.Courses, 2)
	require.NotNil(t, first.WeightedAverage)
	// (18*4 + 15*2) / 6 = 17.
	assert.InDelta(t, 17.0, *first.WeightedAverage, 0.0001)
	require.NotNil(t, first.OverallRank)
	assert.Equal(t, 1, *first.OverallRank)

	// stu-2 has only the math score; science contributes nothing.
	second := report.Students[1]
	require.NotNil(t, second.WeightedAverage)
	assert.InDelta(t, 12.0, *second.WeightedAverage, 0.0001)
	require.NotNil(t, second.OverallRank)
	assert.Equal(t, 2, *second.OverallRank)
}
