package dto

import "github.com/parsamooz/school-api/internal/models"

// PushRequest captures POST /notifications/push payload. Either a class code
// or explicit student codes narrow the recipient set; both empty means the
// whole school.
type PushRequest struct {
	SchoolCode   string            `json:"schoolCode" binding:"required"`
	Title        string            `json:"title" binding:"required"`
	Body         string            `json:"body" binding:"required"`
	ClassCode    string            `json:"classCode,omitempty"`
	StudentCodes []string          `json:"studentCodes,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
}

// DispatchResponse reports a queued push dispatch.
type DispatchResponse struct {
	ID         string                `json:"id"`
	Status     models.DispatchStatus `json:"status"`
	TokenCount int                   `json:"tokenCount"`
	Batches    int                   `json:"batches"`
}
