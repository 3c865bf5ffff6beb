package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/parsamooz/school-api/internal/dto"
	"github.com/parsamooz/school-api/internal/models"
	appErrors "github.com/parsamooz/school-api/pkg/errors"
)

type dashboardAggregates interface {
	AttendanceSummary(ctx context.Context, filter models.DashboardFilter) (*models.AttendanceSummary, error)
	GradeSummaries(ctx context.Context, filter models.DashboardFilter) ([]models.CourseGradeSummary, error)
	AssessmentTallies(ctx context.Context, filter models.DashboardFilter) ([]models.AssessmentTally, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService composes the per-class statistics dashboard with a cache
// in front of the aggregate queries.
type DashboardService struct {
	repo    dashboardAggregates
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
	cfg     DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(repo dashboardAggregates, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
		cfg:     cfg,
	}
}

// Class returns the class dashboard and whether it was served from cache.
func (s *DashboardService) Class(ctx context.Context, query dto.DashboardQuery) (*models.ClassDashboard, bool, error) {
	filter, err := s.buildFilter(query)
	if err != nil {
		return nil, false, err
	}

	cacheKey := fmt.Sprintf("dash:class:%s:%s:%s:%s", query.SchoolCode, query.ClassCode, query.DateFrom, query.DateTo)
	if s.cache != nil {
		var cached models.ClassDashboard
		hit, err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil && hit {
			return &cached, true, nil
		}
	}

	dashboard, err := s.compose(ctx, query.ClassCode, filter)
	if err != nil {
		return nil, false, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, dashboard, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return dashboard, false, nil
}

// Invalidate drops cached dashboards for a school, called after record
// writes.
func (s *DashboardService) Invalidate(ctx context.Context, schoolCode string) {
	if s.cache == nil {
		return
	}
	pattern := fmt.Sprintf("dash:class:%s:*", schoolCode)
	if err := s.cache.Invalidate(ctx, pattern); err != nil {
		s.logger.Warn("dashboard cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
	}
}

func (s *DashboardService) buildFilter(query dto.DashboardQuery) (models.DashboardFilter, error) {
	filter := models.DashboardFilter{
		SchoolCode: query.SchoolCode,
		ClassCode:  query.ClassCode,
	}
	if query.DateFrom != "" {
		from, err := time.Parse("2006-01-02", query.DateFrom)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "dateFrom must be formatted YYYY-MM-DD")
		}
		filter.DateFrom = &from
	}
	if query.DateTo != "" {
		to, err := time.Parse("2006-01-02", query.DateTo)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "dateTo must be formatted YYYY-MM-DD")
		}
		filter.DateTo = &to
	}
	return filter, nil
}

func (s *DashboardService) compose(ctx context.Context, classCode string, filter models.DashboardFilter) (*models.ClassDashboard, error) {
	start := time.Now()
	attendance, err := s.repo.AttendanceSummary(ctx, filter)
	s.observeQuery("dashboard.attendance_summary", start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate attendance")
	}
	start = time.Now()
	courses, err := s.repo.GradeSummaries(ctx, filter)
	s.observeQuery("dashboard.grade_summaries", start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate grades")
	}
	start = time.Now()
	assessments, err := s.repo.AssessmentTallies(ctx, filter)
	s.observeQuery("dashboard.assessment_tallies", start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to tally assessments")
	}
	return &models.ClassDashboard{
		ClassCode:   classCode,
		Attendance:  *attendance,
		Courses:     courses,
		Assessments: assessments,
		GeneratedAt: s.now().UTC(),
	}, nil
}

func (s *DashboardService) observeQuery(label string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveDBQuery(label, time.Since(start))
	}
}
