package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/parsamooz/school-api/internal/models"
	appErrors "github.com/parsamooz/school-api/pkg/errors"
	"github.com/parsamooz/school-api/pkg/response"
)

type classService interface {
	List(ctx context.Context, schoolCode string) ([]models.Class, error)
	Get(ctx context.Context, schoolCode, classCode string) (*models.Class, error)
}

// ClassHandler exposes class lookup endpoints.
type ClassHandler struct {
	service classService
}

// NewClassHandler constructs a class handler.
func NewClassHandler(svc classService) *ClassHandler {
	return &ClassHandler{service: svc}
}

// List godoc
// @Summary List classes of a school
// @Tags Classes
// @Produce json
// @Param schoolCode query string true "School code"
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	schoolCode := strings.TrimSpace(c.Query("schoolCode"))
	classes, err := h.service.List(c.Request.Context(), schoolCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// Get godoc
// @Summary Class detail with teaching assignments
// @Tags Classes
// @Produce json
// @Param code path string true "Class code"
// @Param schoolCode query string true "School code"
// @Success 200 {object} response.Envelope
// @Router /classes/{code} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	schoolCode := strings.TrimSpace(c.Query("schoolCode"))
	if schoolCode == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "schoolCode is required"))
		return
	}
	class, err := h.service.Get(c.Request.Context(), schoolCode, c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}
