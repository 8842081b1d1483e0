package dto

import "time"

// CurrentLessonRef points at the lesson driving the "resume" UX.
type CurrentLessonRef struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ModuleID    string `json:"moduleId"`
	ModuleTitle string `json:"moduleTitle"`
}

// CourseCard is the enrolled-course summary used by the course list and
// the dashboard.
type CourseCard struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	ThumbnailURL     *string           `json:"thumbnailUrl,omitempty"`
	DurationMinutes  int               `json:"durationMinutes"`
	ModuleCount      int               `json:"moduleCount"`
	LessonCount      int               `json:"lessonCount"`
	Progress         int               `json:"progress"`
	CompletedLessons int               `json:"completedLessons"`
	TotalLessons     int               `json:"totalLessons"`
	EnrolledAt       time.Time         `json:"enrolledAt"`
	CurrentLesson    *CurrentLessonRef `json:"currentLesson,omitempty"`
}

// CourseListResponse wraps the enrolled courses payload.
type CourseListResponse struct {
	Courses []CourseCard `json:"courses"`
}

// LessonRow is a lesson entry within module detail payloads.
type LessonRow struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description,omitempty"`
	Objective       *string `json:"objective,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	Order           int     `json:"order"`
	IsCompleted     bool    `json:"isCompleted"`
	IsCurrent       bool    `json:"isCurrent"`
}

// AssignmentInfo summarises a module's assignment.
type AssignmentInfo struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// ModuleWithProgress is a module block inside course detail.
type ModuleWithProgress struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Objective        *string          `json:"objective,omitempty"`
	Order            int              `json:"order"`
	Progress         int              `json:"progress"`
	CompletedLessons int              `json:"completedLessons"`
	LessonCount      int              `json:"lessonCount"`
	Lessons          []LessonRow      `json:"lessons"`
	Assignment       *AssignmentInfo  `json:"assignment"`
	Sessions         []SessionSummary `json:"sessions"`
}

// CourseDetail is the full course payload with per-module progress.
type CourseDetail struct {
	ID               string               `json:"id"`
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	ThumbnailURL     *string              `json:"thumbnailUrl,omitempty"`
	DurationMinutes  int                  `json:"durationMinutes"`
	Progress         int                  `json:"progress"`
	CompletedLessons int                  `json:"completedLessons"`
	TotalLessons     int                  `json:"totalLessons"`
	Modules          []ModuleWithProgress `json:"modules"`
	Sessions         []SessionSummary     `json:"sessions"`
}

// CourseDetailResponse wraps course detail.
type CourseDetailResponse struct {
	Course CourseDetail `json:"course"`
}

// CourseRef is a minimal course reference embedded in child payloads.
type CourseRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ModuleDetail is the standalone module payload.
type ModuleDetail struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Objective        *string          `json:"objective,omitempty"`
	Order            int              `json:"order"`
	Course           CourseRef        `json:"course"`
	Progress         int              `json:"progress"`
	CompletedLessons int              `json:"completedLessons"`
	LessonCount      int              `json:"lessonCount"`
	Lessons          []LessonRow      `json:"lessons"`
	Assignment       *AssignmentInfo  `json:"assignment"`
	Sessions         []SessionSummary `json:"sessions"`
}

// ModuleDetailResponse wraps module detail.
type ModuleDetailResponse struct {
	Module ModuleDetail `json:"module"`
}
