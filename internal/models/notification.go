package models

import "time"

// DeviceToken maps a push token to a student's device.
type DeviceToken struct {
	ID          string    `db:"id" json:"id"`
	SchoolCode  string    `db:"school_code" json:"school_code"`
	StudentCode string    `db:"student_code" json:"student_code"`
	Token       string    `db:"token" json:"token"`
	Platform    string    `db:"platform" json:"platform"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// DispatchStatus tracks a bulk push dispatch lifecycle.
type DispatchStatus string

const (
	DispatchStatusQueued   DispatchStatus = "QUEUED"
	DispatchStatusSending  DispatchStatus = "SENDING"
	DispatchStatusFinished DispatchStatus = "FINISHED"
)

// Dispatch persists the summary of one bulk push fan-out.
type Dispatch struct {
	ID          string         `db:"id" json:"id"`
	SchoolCode  string         `db:"school_code" json:"school_code"`
	Title       string         `db:"title" json:"title"`
	Body        string         `db:"body" json:"body"`
	ClassCode   *string        `db:"class_code" json:"class_code,omitempty"`
	Status      DispatchStatus `db:"status" json:"status"`
	TokenCount  int            `db:"token_count" json:"token_count"`
	SentCount   int            `db:"sent_count" json:"sent_count"`
	FailedCount int            `db:"failed_count" json:"failed_count"`
	CreatedBy   string         `db:"created_by" json:"created_by"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	FinishedAt  *time.Time     `db:"finished_at" json:"finished_at,omitempty"`
}

// PushMessage is the payload handed to the push client for one batch of
// tokens. The concrete vendor transport lives behind the client interface.
type PushMessage struct {
	Tokens []string          `json:"tokens"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}
