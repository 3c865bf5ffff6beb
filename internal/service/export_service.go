package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/parsamooz/school-api/internal/dto"
	"github.com/parsamooz/school-api/internal/models"
	"github.com/parsamooz/school-api/pkg/export"
	"github.com/parsamooz/school-api/pkg/solar"
	"github.com/parsamooz/school-api/pkg/storage"
)

type monthlyReporter interface {
	MonthlyGradeReport(ctx context.Context, query dto.MonthlyReportQuery) (*models.MonthlyGradeReport, error)
	ReportCards(ctx context.Context, query dto.ReportCardQuery) (*models.ReportCardReport, error)
}

type attendanceReporter interface {
	StudentProfile(ctx context.Context, studentCode string, query dto.AttendanceProfileQuery) (*models.StudentAttendance, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService builds report datasets and persists rendered files.
type ExportService struct {
	grades     monthlyReporter
	attendance attendanceReporter
	roster     rosterSource
	storage    fileStorage
	csv        csvRenderer
	pdf        pdfRenderer
	signer     *storage.SignedURLSigner
	logger     *zap.Logger
	cfg        ExportConfig
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// NewExportService constructs an ExportService.
func NewExportService(grades monthlyReporter, attendance attendanceReporter, roster rosterSource, storage fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		grades:     grades,
		attendance: attendance,
		roster:     roster,
		storage:    storage,
		csv:        csv,
		pdf:        pdf,
		signer:     signer,
		logger:     logger,
		cfg:        cfg,
	}
}

// Generate builds dataset according to job definition and stores the rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/export/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	classPart := sanitizeFilename(job.Params.ClassCode)
	name := fmt.Sprintf("%s_%s_%d_%s.%s", strings.ToLower(string(job.Type)), classPart, job.Params.SchoolYear, timestamp, job.Params.Format)
	return name
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ReportJob) (export.Dataset, string, error) {
	switch job.Type {
	case models.ReportTypeMonthlyGrades:
		return s.buildMonthlyGradesDataset(ctx, job.Params)
	case models.ReportTypeReportCards:
		return s.buildReportCardDataset(ctx, job.Params)
	case models.ReportTypeAttendance:
		return s.buildAttendanceDataset(ctx, job.Params)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported report type %s", job.Type)
	}
}

func (s *ExportService) buildMonthlyGradesDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	report, err := s.grades.MonthlyGradeReport(ctx, dto.MonthlyReportQuery{
		SchoolCode:  params.SchoolCode,
		ClassCode:   params.ClassCode,
		TeacherCode: params.TeacherCode,
		CourseCode:  params.CourseCode,
		SchoolYear:  params.SchoolYear,
		ShowRanks:   params.ShowRanks,
	})
	if err != nil {
		return export.Dataset{}, "", err
	}

	headers := []string{"Student Code", "Student Name"}
	for _, month := range report.MonthOrder {
		headers = append(headers, solar.MonthNames[month-1])
	}
	headers = append(headers, "Year Average")
	if params.ShowRanks {
		headers = append(headers, "Year Rank")
	}

	rows := make([]map[string]string, 0, len(report.Students))
	for _, student := range report.Students {
		row := map[string]string{
			"Student Code": student.StudentCode,
			"Student Name": student.StudentName,
			"Year Average": formatScore(student.YearAverage),
		}
		for _, bucket := range student.Buckets {
			row[solar.MonthNames[bucket.Month-1]] = formatScore(bucket.FinalScore)
		}
		if params.ShowRanks {
			row["Year Rank"] = formatRank(student.YearRank)
		}
		rows = append(rows, row)
	}

	title := fmt.Sprintf("Monthly Grades %s %d", params.ClassCode, params.SchoolYear)
	return export.Dataset{Headers: headers, Rows: rows}, title, nil
}

func (s *ExportService) buildReportCardDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	report, err := s.grades.ReportCards(ctx, dto.ReportCardQuery{
		SchoolCode: params.SchoolCode,
		ClassCode:  params.ClassCode,
		SchoolYear: params.SchoolYear,
	})
	if err != nil {
		return export.Dataset{}, "", err
	}

	// Course columns follow the first student's course list; every row carries
	// the same assignments in the same order.
	headers := []string{"Student Code", "Student Name"}
	if len(report.Students) > 0 {
		for _, course := range report.Students[0].Courses {
			headers = append(headers, courseHeader(course))
		}
	}
	headers = append(headers, "Weighted Average", "Rank")

	rows := make([]map[string]string, 0, len(report.Students))
	for _, student := range report.Students {
		row := map[string]string{
			"Student Code":     student.StudentCode,
			"Student Name":     student.StudentName,
			"Weighted Average": formatScore(student.WeightedAverage),
			"Rank":             formatRank(student.OverallRank),
		}
		for _, course := range student.Courses {
			row[courseHeader(course)] = formatScore(course.YearScore)
		}
		rows = append(rows, row)
	}

	title := fmt.Sprintf("Report Cards %s %d", params.ClassCode, params.SchoolYear)
	return export.Dataset{Headers: headers, Rows: rows}, title, nil
}

func (s *ExportService) buildAttendanceDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	students, err := s.roster.ListByClass(ctx, params.SchoolCode, params.ClassCode)
	if err != nil {
		return export.Dataset{}, "", err
	}

	query := dto.AttendanceProfileQuery{
		SchoolCode: params.SchoolCode,
		ClassCode:  params.ClassCode,
		SchoolYear: params.SchoolYear,
	}
	rows := make([]map[string]string, 0, len(students))
	for _, student := range students {
		profile, err := s.attendance.StudentProfile(ctx, student.StudentCode, query)
		if err != nil {
			return export.Dataset{}, "", err
		}
		rows = append(rows, map[string]string{
			"Student Code":   student.StudentCode,
			"Student Name":   student.FullName,
			"Present":        fmt.Sprintf("%d", profile.Totals[models.PresencePresent]),
			"Absent":         fmt.Sprintf("%d", profile.Totals[models.PresenceAbsent]),
			"Late":           fmt.Sprintf("%d", profile.Totals[models.PresenceLate]),
			"Attendance (%)": formatScore(profile.Rate),
		})
	}

	dataset := export.Dataset{
		Headers: []string{"Student Code", "Student Name", "Present", "Absent", "Late", "Attendance (%)"},
		Rows:    rows,
	}
	title := fmt.Sprintf("Attendance %s %d", params.ClassCode, params.SchoolYear)
	return dataset, title, nil
}

func courseHeader(course models.CourseScore) string {
	if course.CourseName != "" {
		return course.CourseName
	}
	return course.CourseCode
}

func formatScore(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatRank(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}
