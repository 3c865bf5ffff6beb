package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/parsamooz/school-api/internal/dto"
	"github.com/parsamooz/school-api/internal/grading"
	"github.com/parsamooz/school-api/internal/models"
	appErrors "github.com/parsamooz/school-api/pkg/errors"
	"github.com/parsamooz/school-api/pkg/solar"
)

type recordSource interface {
	List(ctx context.Context, filter models.RecordFilter) ([]models.ClassRecord, error)
}

type rosterSource interface {
	ListByClass(ctx context.Context, schoolCode, classCode string) ([]models.Student, error)
}

type classSource interface {
	FindByCode(ctx context.Context, schoolCode, classCode string) (*models.Class, error)
}

type weightSource interface {
	WeightMap(ctx context.Context, schoolCode, teacherCode, courseCode string) (map[string]int, error)
}

// GradeReportService composes the monthly grade report matrix and the yearly
// report cards from raw class records. Reports are derived on every request;
// nothing computed here is persisted.
type GradeReportService struct {
	records  recordSource
	students rosterSource
	classes  classSource
	weights  weightSource
	logger   *zap.Logger
}

// NewGradeReportService constructs the service.
func NewGradeReportService(records recordSource, students rosterSource, classes classSource, weights weightSource, logger *zap.Logger) *GradeReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeReportService{
		records:  records,
		students: students,
		classes:  classes,
		weights:  weights,
		logger:   logger,
	}
}

// schoolYearWindow returns a coarse Gregorian range covering solar school
// year Y (Mehr of Y through Shahrivar of Y+1). The window deliberately
// overshoots by a few days on each side; exact membership is decided per
// record from its solar date.
func schoolYearWindow(year int) (time.Time, time.Time) {
	from := time.Date(year+621, time.September, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year+622, time.October, 1, 0, 0, 0, 0, time.UTC)
	return from, to
}

// studentBuckets is the per-student working state during composition.
type studentBuckets struct {
	months  map[int]*models.MonthlyBucket
	skipped int
}

func newStudentBuckets() *studentBuckets {
	return &studentBuckets{months: make(map[int]*models.MonthlyBucket, 12)}
}

func (b *studentBuckets) bucket(month int) *models.MonthlyBucket {
	if mb, ok := b.months[month]; ok {
		return mb
	}
	mb := &models.MonthlyBucket{Month: month}
	b.months[month] = mb
	return mb
}

// MonthlyGradeReport builds the month-by-month report for one class, teacher
// and course over a school year.
func (s *GradeReportService) MonthlyGradeReport(ctx context.Context, query dto.MonthlyReportQuery) (*models.MonthlyGradeReport, error) {
	if query.SchoolYear <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schoolYear must be positive")
	}
	roster, err := s.students.ListByClass(ctx, query.SchoolCode, query.ClassCode)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class roster")
	}

	report := &models.MonthlyGradeReport{
		ClassCode:   query.ClassCode,
		TeacherCode: query.TeacherCode,
		CourseCode:  query.CourseCode,
		SchoolYear:  query.SchoolYear,
		MonthOrder:  solar.MonthOrder[:],
	}
	if len(roster) == 0 {
		return report, nil
	}

	table, warning := s.weightTable(ctx, query.SchoolCode, query.TeacherCode, query.CourseCode)
	if warning != "" {
		report.Warnings = append(report.Warnings, warning)
	}

	from, to := schoolYearWindow(query.SchoolYear)
	records, err := s.records.List(ctx, models.RecordFilter{
		SchoolCode:  query.SchoolCode,
		ClassCode:   query.ClassCode,
		TeacherCode: query.TeacherCode,
		CourseCode:  query.CourseCode,
		DateFrom:    &from,
		DateTo:      &to,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class records")
	}

	perStudent := s.bucketRecords(records, query.SchoolYear)

	rows := make([]models.StudentMonthlyReport, 0, len(roster))
	finalsByStudent := make(map[string][]*float64, len(roster))
	for _, student := range roster {
		state := perStudent[student.StudentCode]
		row := models.StudentMonthlyReport{
			StudentCode: student.StudentCode,
			StudentName: student.FullName,
			Buckets:     make([]models.MonthlyBucket, 0, len(solar.MonthOrder)),
		}
		if state != nil {
			row.Skipped = state.skipped
		}
		finals := make([]*float64, 0, len(solar.MonthOrder))
		for _, month := range solar.MonthOrder {
			bucket := models.MonthlyBucket{Month: month}
			if state != nil {
				if mb, ok := state.months[month]; ok {
					bucket = *mb
				}
			}
			bucket.AverageGrade = grading.Aggregate(bucket.Grades, nil, table)
			bucket.FinalScore = grading.Aggregate(bucket.Grades, bucket.Assessments, table)
			finals = append(finals, bucket.FinalScore)
			row.Buckets = append(row.Buckets, bucket)
		}
		for i := 1; i < len(row.Buckets); i++ {
			row.Buckets[i].Progress = grading.Progress(row.Buckets[i].FinalScore, row.Buckets[i-1].FinalScore)
		}
		row.YearAverage = grading.YearAverage(finals)
		finalsByStudent[student.StudentCode] = finals
		rows = append(rows, row)
	}

	if query.ShowRanks {
		s.assignRanks(rows, finalsByStudent)
	}
	report.Students = rows
	return report, nil
}

// bucketRecords groups record entries by student and solar month, dropping
// records outside the school year and counting undatable ones.
func (s *GradeReportService) bucketRecords(records []models.ClassRecord, schoolYear int) map[string]*studentBuckets {
	perStudent := make(map[string]*studentBuckets)
	for _, record := range records {
		state := perStudent[record.StudentCode]
		if state == nil {
			state = newStudentBuckets()
			perStudent[record.StudentCode] = state
		}
		date := solar.FromTime(record.Date)
		if date.IsZero() {
			state.skipped++
			continue
		}
		if date.SchoolYear() != schoolYear {
			continue
		}
		bucket := state.bucket(date.Month)
		bucket.Grades = append(bucket.Grades, record.Grades...)
		bucket.Assessments = append(bucket.Assessments, record.Assessments...)
	}
	return perStudent
}

// assignRanks decorates buckets and rows with competition ranks, month by
// month plus one ranking over the year averages.
func (s *GradeReportService) assignRanks(rows []models.StudentMonthlyReport, finals map[string][]*float64) {
	for idx := range solar.MonthOrder {
		scored := make([]grading.Scored, 0, len(rows))
		for _, row := range rows {
			if f := finals[row.StudentCode][idx]; f != nil {
				scored = append(scored, grading.Scored{ID: row.StudentCode, Score: *f})
			}
		}
		lookup := grading.RankLookup(scored)
		for i := range rows {
			if rank, ok := lookup[rows[i].StudentCode]; ok {
				r := rank
				rows[i].Buckets[idx].Rank = &r
			}
		}
	}

	yearScored := make([]grading.Scored, 0, len(rows))
	for _, row := range rows {
		if row.YearAverage != nil {
			yearScored = append(yearScored, grading.Scored{ID: row.StudentCode, Score: *row.YearAverage})
		}
	}
	lookup := grading.RankLookup(yearScored)
	for i := range rows {
		if rank, ok := lookup[rows[i].StudentCode]; ok {
			r := rank
			rows[i].YearRank = &r
		}
	}
}

// weightTable resolves the custom weight table, falling back to defaults with
// a warning when the lookup fails. A report with default weights beats no
// report.
func (s *GradeReportService) weightTable(ctx context.Context, schoolCode, teacherCode, courseCode string) (grading.WeightTable, string) {
	custom, err := s.weights.WeightMap(ctx, schoolCode, teacherCode, courseCode)
	if err != nil {
		s.logger.Sugar().Warnw("custom assessment weights unavailable, using defaults",
			"school_code", schoolCode, "teacher_code", teacherCode, "course_code", courseCode, "error", err)
		return grading.NewWeightTable(nil), "custom assessment weights unavailable; default weights applied"
	}
	return grading.NewWeightTable(custom), ""
}

// ReportCards builds yearly report cards for a class: per-course year scores
// and the credit-weighted overall average.
func (s *GradeReportService) ReportCards(ctx context.Context, query dto.ReportCardQuery) (*models.ReportCardReport, error) {
	if query.SchoolYear <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schoolYear must be positive")
	}
	class, err := s.classes.FindByCode(ctx, query.SchoolCode, query.ClassCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	roster, err := s.students.ListByClass(ctx, query.SchoolCode, query.ClassCode)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class roster")
	}

	report := &models.ReportCardReport{
		ClassCode:  query.ClassCode,
		SchoolYear: query.SchoolYear,
	}
	if len(roster) == 0 || len(class.Teachers) == 0 {
		return report, nil
	}

	from, to := schoolYearWindow(query.SchoolYear)
	rowByStudent := make(map[string]*models.ReportCardRow, len(roster))
	rows := make([]models.ReportCardRow, len(roster))
	for i, student := range roster {
		rows[i] = models.ReportCardRow{
			StudentCode: student.StudentCode,
			StudentName: student.FullName,
			Courses:     make([]models.CourseScore, 0, len(class.Teachers)),
		}
		rowByStudent[student.StudentCode] = &rows[i]
	}

	for _, assignment := range class.Teachers {
		table, warning := s.weightTable(ctx, query.SchoolCode, assignment.TeacherCode, assignment.CourseCode)
		if warning != "" {
			report.Warnings = append(report.Warnings, assignment.CourseCode+": "+warning)
		}
		records, err := s.records.List(ctx, models.RecordFilter{
			SchoolCode:  query.SchoolCode,
			ClassCode:   query.ClassCode,
			TeacherCode: assignment.TeacherCode,
			CourseCode:  assignment.CourseCode,
			DateFrom:    &from,
			DateTo:      &to,
		})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class records")
		}
		perStudent := s.bucketRecords(records, query.SchoolYear)

		for i := range rows {
			course := models.CourseScore{
				CourseCode:   assignment.CourseCode,
				CourseName:   assignment.CourseName,
				Credit:       assignment.Credit,
				MonthlyFinal: make(map[int]*float64, len(solar.MonthOrder)),
			}
			finals := make([]*float64, 0, len(solar.MonthOrder))
			state := perStudent[rows[i].StudentCode]
			for _, month := range solar.MonthOrder {
				var final *float64
				if state != nil {
					if mb, ok := state.months[month]; ok {
						final = grading.Aggregate(mb.Grades, mb.Assessments, table)
					}
				}
				course.MonthlyFinal[month] = final
				finals = append(finals, final)
			}
			course.YearScore = grading.YearAverage(finals)
			rows[i].Courses = append(rows[i].Courses, course)
		}
	}

	scored := make([]grading.Scored, 0, len(rows))
	for i := range rows {
		rows[i].WeightedAverage = weightedAverage(rows[i].Courses)
		if rows[i].WeightedAverage != nil {
			scored = append(scored, grading.Scored{ID: rows[i].StudentCode, Score: *rows[i].WeightedAverage})
		}
	}
	lookup := grading.RankLookup(scored)
	for i := range rows {
		if rank, ok := lookup[rows[i].StudentCode]; ok {
			r := rank
			rows[i].OverallRank = &r
		}
	}
	report.Students = rows
	return report, nil
}

// weightedAverage computes the credit-weighted mean over courses that have a
// year score. A course without a score contributes neither value nor credit.
func weightedAverage(courses []models.CourseScore) *float64 {
	sum := 0.0
	creditTotal := 0
	for _, course := range courses {
		if course.YearScore == nil {
			continue
		}
		credit := course.Credit
		if credit <= 0 {
			credit = 1
		}
		sum += *course.YearScore * float64(credit)
		creditTotal += credit
	}
	if creditTotal == 0 {
		return nil
	}
	avg := sum / float64(creditTotal)
	return &avg
}
