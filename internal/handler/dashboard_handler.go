package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/parsamooz/school-api/internal/dto"
	"github.com/parsamooz/school-api/internal/middleware"
	"github.com/parsamooz/school-api/internal/models"
	appErrors "github.com/parsamooz/school-api/pkg/errors"
	"github.com/parsamooz/school-api/pkg/response"
)

type dashboardService interface {
	Class(ctx context.Context, query dto.DashboardQuery) (*models.ClassDashboard, bool, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Class godoc
// @Summary Class dashboard aggregates
// @Tags Dashboard
// @Produce json
// @Param schoolCode query string true "School code"
// @Param classCode query string true "Class code"
// @Param dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /dashboard/class [get]
func (h *DashboardHandler) Class(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var query dto.DashboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	start := time.Now()
	dashboard, cacheHit, err := h.service.Class(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, dashboard, nil, meta)
}
