package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/parsamooz/school-api/internal/dto"
	"github.com/parsamooz/school-api/internal/models"
)

type fakeDashboardSrv struct {
	resp *models.ClassDashboard
	hit  bool
	err  error
	last dto.DashboardQuery
}

func (f *fakeDashboardSrv) Class(_ context.Context, query dto.DashboardQuery) (*models.ClassDashboard, bool, error) {
	f.last = query
	return f.resp, f.hit, f.err
}

func TestDashboardHandlerClassRequiresCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/class", nil)

	handler.Class(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardHandlerClassSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeDashboardSrv{
		resp: &models.ClassDashboard{ClassCode: "cls-1"},
		hit:  true,
	}
	handler := NewDashboardHandler(service)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/class?schoolCode=sch-1&classCode=cls-1", nil)

	handler.Class(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sch-1", service.last.SchoolCode)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Equal(t, "cls-1", envelope.Data["class_code"])
}

type responseEnvelope struct {
	Data map[string]interface{} `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}
