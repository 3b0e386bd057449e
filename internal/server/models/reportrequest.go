package models

import "time"

const (
	ReportPending    = "pending"
	ReportProcessing = "processing"
	ReportCompleted  = "completed"
	ReportFailed     = "failed"
)

// ReportRequest is a queued export job picked up by the report worker.
type ReportRequest struct {
	ID         string
	WhatsAppID string
	Period     string
	StartDate  *time.Time
	EndDate    *time.Time
	Status     string
	FileKey    string
	CreatedAt  time.Time
}
