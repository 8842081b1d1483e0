package models

import "time"

// LessonProgress is the per-user, per-lesson completion record. Absence of
// a row is equivalent to completed = false. Rows are upserted, never
// deleted.
type LessonProgress struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"userId"`
	LessonID    string     `db:"lesson_id" json:"lessonId"`
	Completed   bool       `db:"completed" json:"completed"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt,omitempty"`
}

// VideoProgress stores the last known playback checkpoint for a lesson
// video. Writes are last-write-wins; a client may legally checkpoint
// backward after seeking.
type VideoProgress struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"userId"`
	LessonID        string    `db:"lesson_id" json:"lessonId"`
	PositionSeconds int       `db:"position_seconds" json:"positionSeconds"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}
