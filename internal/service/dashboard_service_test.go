package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parsamooz/school-api/internal/dto"
	"github.com/parsamooz/school-api/internal/models"
	"github.com/parsamooz/school-api/internal/repository"
)

type mockDashboardAggregates struct {
	calls int
}

func (m *mockDashboardAggregates) AttendanceSummary(ctx context.Context, filter models.DashboardFilter) (*models.AttendanceSummary, error) {
	m.calls++
	return &models.AttendanceSummary{
		ClassCode:    filter.ClassCode,
		PresentCount: 80,
		AbsentCount:  15,
		LateCount:    5,
		Rate:         85,
	}, nil
}

func (m *mockDashboardAggregates) GradeSummaries(ctx context.Context, filter models.DashboardFilter) ([]models.CourseGradeSummary, error) {
	avg := 16.5
	return []models.CourseGradeSummary{{CourseCode: "crs-1", GradeCount: 42, Average: &avg}}, nil
}

func (m *mockDashboardAggregates) AssessmentTallies(ctx context.Context, filter models.DashboardFilter) ([]models.AssessmentTally, error) {
	return []models.AssessmentTally{{CourseCode: "crs-1", Value: models.AssessmentExcellent, Count: 12}}, nil
}

func newTestCache(t *testing.T) *CacheService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	repo := repository.NewCacheRepository(client, zap.NewNop())
	return NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)
}

func TestDashboardServiceClassCaches(t *testing.T) {
	aggregates := &mockDashboardAggregates{}
	svc := NewDashboardService(aggregates, newTestCache(t), nil, zap.NewNop(), DashboardServiceConfig{})

	query := dto.DashboardQuery{SchoolCode: "sch-1", ClassCode: "cls-1"}
	dashboard, cached, err := svc.Class(context.Background(), query)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "cls-1", dashboard.ClassCode)
	assert.Equal(t, 80, dashboard.Attendance.PresentCount)
	require.Len(t, dashboard.Courses, 1)
	require.Len(t, dashboard.Assessments, 1)

	again, cached, err := svc.Class(context.Background(), query)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, dashboard.Attendance, again.Attendance)
	assert.Equal(t, 1, aggregates.calls)
}

func TestDashboardServiceInvalidate(t *testing.T) {
	aggregates := &mockDashboardAggregates{}
	svc := NewDashboardService(aggregates, newTestCache(t), nil, zap.NewNop(), DashboardServiceConfig{})

	query := dto.DashboardQuery{SchoolCode: "sch-1", ClassCode: "cls-1"}
	_, _, err := svc.Class(context.Background(), query)
	require.NoError(t, err)

	svc.Invalidate(context.Background(), "sch-1")

	_, cached, err := svc.Class(context.Background(), query)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, aggregates.calls)
}

func TestDashboardServiceRejectsBadDates(t *testing.T) {
	svc := NewDashboardService(&mockDashboardAggregates{}, nil, nil, zap.NewNop(), DashboardServiceConfig{})
	_, _, err := svc.Class(context.Background(), dto.DashboardQuery{
		SchoolCode: "sch-1", ClassCode: "cls-1", DateFrom: "05/11/2024",
	})
	require.Error(t, err)
}

func TestDashboardServiceObservesQueryTimings(t *testing.T) {
	aggregates := &mockDashboardAggregates{}
	metrics := NewMetricsService()
	svc := NewDashboardService(aggregates, nil, metrics, zap.NewNop(), DashboardServiceConfig{})

	_, _, err := svc.Class(context.Background(), dto.DashboardQuery{SchoolCode: "sch-1", ClassCode: "cls-1"})
	require.NoError(t, err)

	// One observation per aggregate query feeds the system snapshot.
	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(3), snapshot.DBQueryCount)
}

func TestDashboardServiceWorksWithoutCache(t *testing.T) {
	aggregates := &mockDashboardAggregates{}
	svc := NewDashboardService(aggregates, nil, nil, zap.NewNop(), DashboardServiceConfig{})

	query := dto.DashboardQuery{SchoolCode: "sch-1", ClassCode: "cls-1"}
	_, cached, err := svc.Class(context.Background(), query)
	require.NoError(t, err)
	assert.False(t, cached)
	_, cached, err = svc.Class(context.Background(), query)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, aggregates.calls)
}
