package models

import "time"

// SessionStatus represents the lifecycle of a live session.
type SessionStatus string

// Possible session statuses.
const (
	SessionStatusScheduled SessionStatus = "SCHEDULED"
	SessionStatusLive      SessionStatus = "LIVE"
	SessionStatusCompleted SessionStatus = "COMPLETED"
	SessionStatusCancelled SessionStatus = "CANCELLED"
)

// LiveSession is a scheduled video call attached to a course, optionally
// scoped to a module. JoinURL and RecordingURL are redacted at projection
// time depending on status; the raw values stay in storage.
type LiveSession struct {
	ID              string        `db:"id" json:"id"`
	CourseID        string        `db:"course_id" json:"courseId"`
	ModuleID        *string       `db:"module_id" json:"moduleId,omitempty"`
	Title           string        `db:"title" json:"title"`
	Description     string        `db:"description" json:"description"`
	ScheduledAt     time.Time     `db:"scheduled_at" json:"scheduledAt"`
	DurationMinutes int           `db:"duration_minutes" json:"durationMinutes"`
	Status          SessionStatus `db:"status" json:"status"`
	JoinURL         *string       `db:"join_url" json:"joinUrl,omitempty"`
	RecordingURL    *string       `db:"recording_url" json:"recordingUrl,omitempty"`
}

// SessionDetail enriches LiveSession with course and module titles.
type SessionDetail struct {
	LiveSession
	CourseTitle string  `db:"course_title" json:"courseTitle"`
	ModuleTitle *string `db:"module_title" json:"moduleTitle,omitempty"`
}
