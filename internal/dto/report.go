package dto

import "github.com/siolabs/learnhub-api/internal/models"

// ReportRequest asks for an asynchronous progress report export.
type ReportRequest struct {
	Type     models.ReportType   `json:"type" validate:"required"`
	CourseID *string             `json:"courseId,omitempty"`
	Format   models.ReportFormat `json:"format" validate:"required"`
}

// ReportJobResponse acknowledges an accepted report job.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job state to polling clients.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
