package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/parsamooz/school-api/internal/dto"
	"github.com/parsamooz/school-api/internal/grading"
	"github.com/parsamooz/school-api/internal/models"
	appErrors "github.com/parsamooz/school-api/pkg/errors"
)

type recordStore interface {
	List(ctx context.Context, filter models.RecordFilter) ([]models.ClassRecord, error)
	Upsert(ctx context.Context, record *models.ClassRecord) error
}

type optionStore interface {
	Upsert(ctx context.Context, option *models.AssessmentOption) error
	ListByTeacherCourse(ctx context.Context, schoolCode, teacherCode, courseCode string) ([]models.AssessmentOption, error)
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, schoolCode string)
}

// RecordService manages class sheet cells: the per-student, per-session
// grades, assessments and presence entries everything else is derived from.
type RecordService struct {
	records   recordStore
	options   optionStore
	dashboard cacheInvalidator
	logger    *zap.Logger
}

// NewRecordService constructs the service.
func NewRecordService(records recordStore, options optionStore, dashboard cacheInvalidator, logger *zap.Logger) *RecordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordService{records: records, options: options, dashboard: dashboard, logger: logger}
}

// List returns records matching the query.
func (s *RecordService) List(ctx context.Context, query dto.RecordQuery) ([]models.ClassRecord, error) {
	filter := models.RecordFilter{
		SchoolCode:  query.SchoolCode,
		ClassCode:   query.ClassCode,
		StudentCode: query.StudentCode,
		TeacherCode: query.TeacherCode,
		CourseCode:  query.CourseCode,
	}
	if query.DateFrom != "" {
		from, err := time.Parse("2006-01-02", query.DateFrom)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "dateFrom must be formatted YYYY-MM-DD")
		}
		filter.DateFrom = &from
	}
	if query.DateTo != "" {
		to, err := time.Parse("2006-01-02", query.DateTo)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "dateTo must be formatted YYYY-MM-DD")
		}
		filter.DateTo = &to
	}
	records, err := s.records.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list records")
	}
	return records, nil
}

// Upsert validates and stores one cell, then invalidates derived caches.
func (s *RecordService) Upsert(ctx context.Context, req dto.UpsertRecordRequest) (*models.ClassRecord, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}
	if req.PresenceStatus != nil && !req.PresenceStatus.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "presenceStatus must be present, absent or late")
	}
	for i, grade := range req.Grades {
		if grade.Value < grading.MinScore {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("grade %d must not be negative", i+1))
		}
		limit := float64(grading.MaxScore)
		if grade.TotalPoints != nil && *grade.TotalPoints > 0 {
			limit = *grade.TotalPoints
		}
		if grade.Value > limit {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("grade %d exceeds its maximum of %g", i+1, limit))
		}
	}

	record := &models.ClassRecord{
		SchoolCode:        req.SchoolCode,
		ClassCode:         req.ClassCode,
		StudentCode:       req.StudentCode,
		TeacherCode:       req.TeacherCode,
		CourseCode:        req.CourseCode,
		Date:              date,
		TimeSlot:          req.TimeSlot,
		Note:              req.Note,
		PresenceStatus:    req.PresenceStatus,
		DescriptiveStatus: req.DescriptiveStatus,
		Grades:            req.Grades,
		Assessments:       req.Assessments,
	}
	if err := s.records.Upsert(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store record")
	}
	if s.dashboard != nil {
		s.dashboard.Invalidate(ctx, req.SchoolCode)
	}
	return record, nil
}

// SaveAssessmentOption stores one custom weight override.
func (s *RecordService) SaveAssessmentOption(ctx context.Context, req dto.AssessmentOptionRequest) (*models.AssessmentOption, error) {
	if req.Weight < -10 || req.Weight > 10 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "weight must be between -10 and 10")
	}
	option := &models.AssessmentOption{
		SchoolCode:  req.SchoolCode,
		TeacherCode: req.TeacherCode,
		CourseCode:  req.CourseCode,
		Value:       req.Value,
		Weight:      req.Weight,
	}
	if err := s.options.Upsert(ctx, option); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store assessment option")
	}
	return option, nil
}

// ListAssessmentOptions returns the custom options for a teacher+course.
func (s *RecordService) ListAssessmentOptions(ctx context.Context, schoolCode, teacherCode, courseCode string) ([]models.AssessmentOption, error) {
	options, err := s.options.ListByTeacherCourse(ctx, schoolCode, teacherCode, courseCode)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assessment options")
	}
	return options, nil
}
