package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parsamooz/school-api/internal/dto"
	"github.com/parsamooz/school-api/internal/models"
	appErrors "github.com/parsamooz/school-api/pkg/errors"
	"github.com/parsamooz/school-api/pkg/response"
)

type notificationService interface {
	Dispatch(ctx context.Context, req dto.PushRequest, actorID string) (*dto.DispatchResponse, error)
	Status(ctx context.Context, id string) (*models.Dispatch, error)
}

// NotificationHandler wires push notification endpoints.
type NotificationHandler struct {
	service notificationService
}

// NewNotificationHandler constructs the handler.
func NewNotificationHandler(service notificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// Push godoc
// @Summary Fan a push notification out to registered devices
// @Tags Notifications
// @Accept json
// @Produce json
// @Param payload body dto.PushRequest true "Notification payload"
// @Success 202 {object} response.Envelope
// @Router /notifications/push [post]
func (h *NotificationHandler) Push(c *gin.Context) {
	var req dto.PushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	resp, err := h.service.Dispatch(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, resp)
}

// Status godoc
// @Summary Dispatch delivery progress
// @Tags Notifications
// @Produce json
// @Param id path string true "Dispatch ID"
// @Success 200 {object} response.Envelope
// @Router /notifications/dispatches/{id} [get]
func (h *NotificationHandler) Status(c *gin.Context) {
	dispatch, err := h.service.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dispatch, nil)
}
