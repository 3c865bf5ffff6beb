package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/parsamooz/school-api/internal/dto"
	"github.com/parsamooz/school-api/internal/models"
	"github.com/parsamooz/school-api/internal/service"
)

type fakeGradeReportSrv struct {
	monthlyQuery dto.MonthlyReportQuery
	cardQuery    dto.ReportCardQuery
}

func (f *fakeGradeReportSrv) MonthlyGradeReport(_ context.Context, query dto.MonthlyReportQuery) (*models.MonthlyGradeReport, error) {
	f.monthlyQuery = query
	return &models.MonthlyGradeReport{ClassCode: query.ClassCode, SchoolYear: query.SchoolYear}, nil
}

func (f *fakeGradeReportSrv) ReportCards(_ context.Context, query dto.ReportCardQuery) (*models.ReportCardReport, error) {
	f.cardQuery = query
	return &models.ReportCardReport{ClassCode: query.ClassCode}, nil
}

type fakeReportJobSrv struct {
	created *dto.ReportRequest
}

func (f *fakeReportJobSrv) CreateJob(_ context.Context, req dto.ReportRequest, actorID string) (*dto.ReportJobResponse, error) {
	f.created = &req
	return &dto.ReportJobResponse{ID: "job-1", Status: models.ReportStatusQueued}, nil
}

func (f *fakeReportJobSrv) GetStatus(_ context.Context, id string) (*dto.ReportStatusResponse, error) {
	return &dto.ReportStatusResponse{ID: id, Status: models.ReportStatusProcessing, Progress: 10}, nil
}

func (f *fakeReportJobSrv) ResolveDownload(_ context.Context, token string) (*service.ReportDownload, error) {
	return nil, assert.AnError
}

func TestReportHandlerMonthlyGrades(t *testing.T) {
	gin.SetMode(gin.TestMode)
	grades := &fakeGradeReportSrv{}
	handler := NewReportHandler(grades, &fakeReportJobSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet,
		"/reports/monthly-grades?schoolCode=sch-1&classCode=cls-1&teacherCode=tch-1&courseCode=math&schoolYear=1403&showRanks=true", nil)

	handler.MonthlyGrades(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1403, grades.monthlyQuery.SchoolYear)
	assert.True(t, grades.monthlyQuery.ShowRanks)
}

func TestReportHandlerMonthlyGradesValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&fakeGradeReportSrv{}, &fakeReportJobSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/monthly-grades?schoolCode=sch-1", nil)

	handler.MonthlyGrades(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportHandlerReportCards(t *testing.T) {
	gin.SetMode(gin.TestMode)
	grades := &fakeGradeReportSrv{}
	handler := NewReportHandler(grades, &fakeReportJobSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/report-cards?schoolCode=sch-1&classCode=cls-1&schoolYear=1403", nil)

	handler.ReportCards(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cls-1", grades.cardQuery.ClassCode)
}

func TestReportHandlerGenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jobs := &fakeReportJobSrv{}
	handler := NewReportHandler(&fakeGradeReportSrv{}, jobs)

	body := `{"type":"report_cards","schoolCode":"sch-1","classCode":"cls-1","schoolYear":1403,"format":"pdf"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/reports/generate", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Generate(c)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, models.ReportTypeReportCards, jobs.created.Type)
	assert.Equal(t, models.ReportFormatPDF, jobs.created.Format)
}

func TestReportHandlerStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&fakeGradeReportSrv{}, &fakeReportJobSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/job-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "job-1"}}

	handler.Status(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "PROCESSING")
}
