package dto

import (
	"time"

	"github.com/siolabs/learnhub-api/internal/models"
)

// SessionSummary is the redacted live-session projection. JoinURL is only
// present while the session is LIVE; RecordingURL only once COMPLETED.
type SessionSummary struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	ScheduledAt     time.Time            `json:"scheduledAt"`
	DurationMinutes int                  `json:"durationMinutes"`
	Status          models.SessionStatus `json:"status"`
	JoinURL         *string              `json:"joinUrl"`
	RecordingURL    *string              `json:"recordingUrl,omitempty"`
	CourseID        string               `json:"courseId,omitempty"`
	CourseTitle     string               `json:"courseTitle,omitempty"`
	ModuleID        *string              `json:"moduleId,omitempty"`
	ModuleTitle     *string              `json:"moduleTitle,omitempty"`
}

// SessionListResponse wraps the upcoming sessions payload.
type SessionListResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}

// SessionDetailResponse wraps a single session payload.
type SessionDetailResponse struct {
	Session SessionSummary `json:"session"`
}
