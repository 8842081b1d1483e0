package dto

import "github.com/siolabs/learnhub-api/internal/models"

// LessonModuleRef locates a lesson within its module and course.
type LessonModuleRef struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	CourseID    string `json:"courseId"`
	CourseTitle string `json:"courseTitle"`
}

// LessonNavRef points at a sibling lesson for prev/next navigation.
type LessonNavRef struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ModuleID string `json:"moduleId"`
}

// LessonDetail is the full lesson payload for the player page.
type LessonDetail struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Objective       *string           `json:"objective,omitempty"`
	VideoURL        *string           `json:"videoUrl,omitempty"`
	DurationMinutes int               `json:"durationMinutes"`
	Order           int               `json:"order"`
	Module          LessonModuleRef   `json:"module"`
	Resources       []models.Resource `json:"resources"`
	IsCompleted     bool              `json:"isCompleted"`
	VideoProgress   int               `json:"videoProgress"`
	PrevLesson      *LessonNavRef     `json:"prevLesson"`
	NextLesson      *LessonNavRef     `json:"nextLesson"`
}

// LessonDetailResponse wraps lesson detail.
type LessonDetailResponse struct {
	Lesson LessonDetail `json:"lesson"`
}

// CompletionProgress carries the percentages recomputed after a completion.
type CompletionProgress struct {
	LessonCompleted bool `json:"lessonCompleted"`
	ModuleProgress  int  `json:"moduleProgress"`
	CourseProgress  int  `json:"courseProgress"`
}

// CompleteLessonResponse reports the result of marking a lesson complete.
type CompleteLessonResponse struct {
	Success  bool               `json:"success"`
	Progress CompletionProgress `json:"progress"`
}

// AckResponse is the minimal acknowledgement payload.
type AckResponse struct {
	Success bool `json:"success"`
}

// VideoProgressRequest is the periodic playback checkpoint payload.
type VideoProgressRequest struct {
	PositionSeconds *int `json:"positionSeconds" validate:"required,gte=0"`
}
