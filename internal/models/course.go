package models

import "time"

// Course is the top-level content container students enroll into.
type Course struct {
	ID              string    `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	ThumbnailURL    *string   `db:"thumbnail_url" json:"thumbnailUrl,omitempty"`
	DurationMinutes int       `db:"duration_minutes" json:"durationMinutes"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// Module groups lessons inside a course. Order is assigned externally and
// unique within a course.
type Module struct {
	ID          string    `db:"id" json:"id"`
	CourseID    string    `db:"course_id" json:"courseId"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Objective   *string   `db:"objective" json:"objective,omitempty"`
	Order       int       `db:"sort_order" json:"order"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Lesson is the atomic unit of study within a module.
type Lesson struct {
	ID              string    `db:"id" json:"id"`
	ModuleID        string    `db:"module_id" json:"moduleId"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	Objective       *string   `db:"objective" json:"objective,omitempty"`
	VideoURL        *string   `db:"video_url" json:"videoUrl,omitempty"`
	DurationMinutes int       `db:"duration_minutes" json:"durationMinutes"`
	Order           int       `db:"sort_order" json:"order"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// ResourceType enumerates downloadable lesson resource kinds.
type ResourceType string

// Supported resource types.
const (
	ResourceTypePDF   ResourceType = "PDF"
	ResourceTypeLink  ResourceType = "LINK"
	ResourceTypeCode  ResourceType = "CODE"
	ResourceTypeOther ResourceType = "OTHER"
)

// Resource is a supplementary artifact attached to a lesson.
type Resource struct {
	ID       string       `db:"id" json:"id"`
	LessonID string       `db:"lesson_id" json:"lessonId"`
	Title    string       `db:"title" json:"title"`
	Type     ResourceType `db:"type" json:"type"`
	URL      string       `db:"url" json:"url"`
}

// Assignment is an optional deliverable attached to a module.
type Assignment struct {
	ID          string     `db:"id" json:"id"`
	ModuleID    string     `db:"module_id" json:"moduleId"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	DueDate     *time.Time `db:"due_date" json:"dueDate,omitempty"`
}
