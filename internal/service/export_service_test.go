package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parsamooz/school-api/internal/dto"
	"github.com/parsamooz/school-api/internal/models"
	"github.com/parsamooz/school-api/pkg/export"
	"github.com/parsamooz/school-api/pkg/solar"
	"github.com/parsamooz/school-api/pkg/storage"
)

type gradeReportStub struct{}

func (gradeReportStub) MonthlyGradeReport(ctx context.Context, query dto.MonthlyReportQuery) (*models.MonthlyGradeReport, error) {
	buckets := make([]models.MonthlyBucket, 0, 12)
	for _, month := range solar.MonthOrder {
		bucket := models.MonthlyBucket{Month: month}
		if month == 7 {
			bucket.FinalScore = floatPtr(18.5)
		}
		buckets = append(buckets, bucket)
	}
	return &models.MonthlyGradeReport{
		ClassCode:   query.ClassCode,
		TeacherCode: query.TeacherCode,
		CourseCode:  query.CourseCode,
		SchoolYear:  query.SchoolYear,
		MonthOrder:  solar.MonthOrder[:],
		Students: []models.StudentMonthlyReport{
			{StudentCode: "stu-1", StudentName: "Sara Karimi", Buckets: buckets, YearAverage: floatPtr(18.5)},
		},
	}, nil
}

func (gradeReportStub) ReportCards(ctx context.Context, query dto.ReportCardQuery) (*models.ReportCardReport, error) {
	return &models.ReportCardReport{
		ClassCode:  query.ClassCode,
		SchoolYear: query.SchoolYear,
		Students: []models.ReportCardRow{
			{
				StudentCode: "stu-1",
				StudentName: "Sara Karimi",
				Courses: []models.CourseScore{
					{CourseCode: "math", CourseName: "Mathematics", Credit: 4, YearScore: floatPtr(17.25)},
				},
				WeightedAverage: floatPtr(17.25),
			},
		},
	}, nil
}

type attendanceProfileStub struct{}

func (attendanceProfileStub) StudentProfile(ctx context.Context, studentCode string, query dto.AttendanceProfileQuery) (*models.StudentAttendance, error) {
	return &models.StudentAttendance{
		StudentCode: studentCode,
		SchoolYear:  query.SchoolYear,
		Totals: map[models.PresenceStatus]int{
			models.PresencePresent: 18,
			models.PresenceAbsent:  2,
		},
		Rate: floatPtr(90.0),
	}, nil
}

type exportRosterStub struct{}

func (exportRosterStub) ListByClass(ctx context.Context, schoolCode, classCode string) ([]models.Student, error) {
	return []models.Student{
		{StudentCode: "stu-1", FullName: "Sara Karimi"},
		{StudentCode: "stu-2", FullName: "Ali Moradi"},
	}, nil
}

func newExportServiceForTest(t *testing.T) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	cfg := ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}
	svc := NewExportService(gradeReportStub{}, attendanceProfileStub{}, exportRosterStub{}, store, signer, cfg, zap.NewNop(), export.NewCSVExporter(), export.NewPDFExporter())
	return svc, store
}

func TestExportServiceGenerateMonthlyGradesCSV(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:   "job-1",
		Type: models.ReportTypeMonthlyGrades,
		Params: models.ReportJobParams{
			SchoolCode:  "sch-1",
			ClassCode:   "cls-1",
			TeacherCode: "tch-1",
			CourseCode:  "math",
			SchoolYear:  1403,
			Format:      models.ReportFormatCSV,
		},
		CreatedBy: "admin",
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	require.NotEmpty(t, result.RelativePath)
	require.Contains(t, result.URL, "/export/")

	path := store.Path(result.RelativePath)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "Sara Karimi")
	require.Contains(t, content, "18.50")
	// Display order starts at Mehr, not Farvardin.
	require.Less(t, strings.Index(content, solar.MonthNames[6]), strings.Index(content, solar.MonthNames[0]))
}

func TestExportServiceGenerateReportCardsPDF(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:   "job-2",
		Type: models.ReportTypeReportCards,
		Params: models.ReportJobParams{
			SchoolCode: "sch-1",
			ClassCode:  "cls-1",
			SchoolYear: 1403,
			Format:     models.ReportFormatPDF,
		},
		CreatedBy: "admin",
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	require.Equal(t, models.ReportFormatPDF, result.Format)

	path := filepath.Clean(store.Path(result.RelativePath))
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestExportServiceGenerateAttendanceCSV(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:   "job-3",
		Type: models.ReportTypeAttendance,
		Params: models.ReportJobParams{
			SchoolCode: "sch-1",
			ClassCode:  "cls-1",
			SchoolYear: 1403,
			Format:     models.ReportFormatCSV,
		},
		CreatedBy: "admin",
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	data, err := os.ReadFile(store.Path(result.RelativePath))
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "Ali Moradi")
	require.Contains(t, content, "90.00")
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:   "job-4",
		Type: models.ReportTypeAttendance,
		Params: models.ReportJobParams{
			SchoolCode: "sch-1",
			ClassCode:  "cls-1",
			SchoolYear: 1403,
			Format:     models.ReportFormat("xlsx"),
		},
	}
	_, err := svc.Generate(context.Background(), job)
	require.Error(t, err)
}
