package dto

// CourseProgressSummary is the per-course row in the progress roll-up.
type CourseProgressSummary struct {
	CourseID         string `json:"courseId"`
	CourseTitle      string `json:"courseTitle"`
	Progress         int    `json:"progress"`
	CompletedLessons int    `json:"completedLessons"`
	TotalLessons     int    `json:"totalLessons"`
	CompletedModules int    `json:"completedModules"`
	TotalModules     int    `json:"totalModules"`
	IsCompleted      bool   `json:"isCompleted"`
}

// ProgressOverview is the full user-level progress roll-up.
type ProgressOverview struct {
	UserID                string                  `json:"userId"`
	Courses               []CourseProgressSummary `json:"courses"`
	TotalCoursesEnrolled  int                     `json:"totalCoursesEnrolled"`
	TotalCoursesCompleted int                     `json:"totalCoursesCompleted"`
	TotalLessonsCompleted int                     `json:"totalLessonsCompleted"`
}

// LessonProgressRow is a lesson entry in a module progress breakdown.
type LessonProgressRow struct {
	LessonID    string `json:"lessonId"`
	LessonTitle string `json:"lessonTitle"`
	IsCompleted bool   `json:"isCompleted"`
}

// ModuleProgressDetail is the per-module block of a course breakdown.
type ModuleProgressDetail struct {
	ModuleID         string              `json:"moduleId"`
	ModuleTitle      string              `json:"moduleTitle"`
	Progress         int                 `json:"progress"`
	CompletedLessons int                 `json:"completedLessons"`
	TotalLessons     int                 `json:"totalLessons"`
	IsCompleted      bool                `json:"isCompleted"`
	Lessons          []LessonProgressRow `json:"lessons"`
}

// CourseProgressDetail is the course-scoped progress breakdown.
type CourseProgressDetail struct {
	CourseID         string                 `json:"courseId"`
	CourseTitle      string                 `json:"courseTitle"`
	Progress         int                    `json:"progress"`
	CompletedLessons int                    `json:"completedLessons"`
	TotalLessons     int                    `json:"totalLessons"`
	CompletedModules int                    `json:"completedModules"`
	TotalModules     int                    `json:"totalModules"`
	IsCompleted      bool                   `json:"isCompleted"`
	Modules          []ModuleProgressDetail `json:"modules"`
}
