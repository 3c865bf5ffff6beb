package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/parsamooz/school-api/internal/dto"
	"github.com/parsamooz/school-api/internal/models"
	appErrors "github.com/parsamooz/school-api/pkg/errors"
	"github.com/parsamooz/school-api/pkg/solar"
)

type studentFinder interface {
	FindByCode(ctx context.Context, schoolCode, studentCode string) (*models.Student, error)
}

// AttendanceService derives per-student attendance profiles from class
// records, bucketed by solar month over one school year.
type AttendanceService struct {
	records  recordSource
	students studentFinder
	logger   *zap.Logger
}

// NewAttendanceService constructs the service.
func NewAttendanceService(records recordSource, students studentFinder, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{records: records, students: students, logger: logger}
}

// StudentProfile builds the month-by-month attendance view for one student.
// Records without a presence status count toward nothing; records whose date
// cannot be resolved are tallied separately.
func (s *AttendanceService) StudentProfile(ctx context.Context, studentCode string, query dto.AttendanceProfileQuery) (*models.StudentAttendance, error) {
	if query.SchoolYear <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schoolYear must be positive")
	}
	if _, err := s.students.FindByCode(ctx, query.SchoolCode, studentCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	from, to := schoolYearWindow(query.SchoolYear)
	records, err := s.records.List(ctx, models.RecordFilter{
		SchoolCode:  query.SchoolCode,
		ClassCode:   query.ClassCode,
		StudentCode: studentCode,
		DateFrom:    &from,
		DateTo:      &to,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class records")
	}

	profile := &models.StudentAttendance{
		StudentCode: studentCode,
		SchoolYear:  query.SchoolYear,
		Totals:      make(map[models.PresenceStatus]int),
	}
	byMonth := make(map[int]*models.MonthAttendance, len(solar.MonthOrder))
	for _, month := range solar.MonthOrder {
		byMonth[month] = &models.MonthAttendance{Month: month, Counts: make(map[models.PresenceStatus]int)}
	}

	for _, record := range records {
		if record.PresenceStatus == nil {
			continue
		}
		date := solar.FromTime(record.Date)
		if date.IsZero() {
			continue
		}
		if date.SchoolYear() != query.SchoolYear {
			continue
		}
		status := *record.PresenceStatus
		byMonth[date.Month].Counts[status]++
		profile.Totals[status]++
	}

	profile.Months = make([]models.MonthAttendance, 0, len(solar.MonthOrder))
	for _, month := range solar.MonthOrder {
		profile.Months = append(profile.Months, *byMonth[month])
	}

	counted := profile.Totals[models.PresencePresent] + profile.Totals[models.PresenceAbsent] + profile.Totals[models.PresenceLate]
	if counted > 0 {
		rate := float64(profile.Totals[models.PresencePresent]+profile.Totals[models.PresenceLate]) / float64(counted) * 100
		profile.Rate = &rate
	}
	return profile, nil
}
