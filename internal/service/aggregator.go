package service

import (
	"math"
	"sort"

	"github.com/siolabs/learnhub-api/internal/models"
)

// ModuleProgressSummary is the derived progress state of one module.
type ModuleProgressSummary struct {
	CompletedCount  int
	TotalCount      int
	Percent         int
	CurrentLessonID *string
}

// CourseProgressSummary is the derived progress state of one course.
// Percent weights every lesson equally regardless of module.
type CourseProgressSummary struct {
	CompletedCount   int
	TotalCount       int
	Percent          int
	CompletedModules int
	TotalModules     int
	CurrentLessonID  *string
	CurrentModuleID  *string
}

// ProgressTotals aggregates course summaries into the user-level roll-up.
type ProgressTotals struct {
	TotalCoursesEnrolled  int
	TotalCoursesCompleted int
	TotalLessonsCompleted int
}

// CompletedLessonSet indexes the completed lesson ids of a user's progress
// rows. Rows with completed = false contribute nothing; an absent row and a
// false row are equivalent.
func CompletedLessonSet(rows []models.LessonProgress) map[string]struct{} {
	set := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if row.Completed {
			set[row.LessonID] = struct{}{}
		}
	}
	return set
}

// LessonCompleted reports whether the lesson's own progress record marks it
// complete. Completion is never inferred from sibling lessons.
func LessonCompleted(lessonID string, completed map[string]struct{}) bool {
	_, ok := completed[lessonID]
	return ok
}

// SortLessons returns the lessons in ascending order. Duplicate order
// values fall back to id so the walk stays deterministic regardless of
// store traversal order.
func SortLessons(lessons []models.Lesson) []models.Lesson {
	sorted := make([]models.Lesson, len(lessons))
	copy(sorted, lessons)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// SortModules returns the module snapshots in ascending module order, id as
// tiebreak.
func SortModules(modules []models.ModuleContent) []models.ModuleContent {
	sorted := make([]models.ModuleContent, len(modules))
	copy(sorted, modules)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Module.Order != sorted[j].Module.Order {
			return sorted[i].Module.Order < sorted[j].Module.Order
		}
		return sorted[i].Module.ID < sorted[j].Module.ID
	})
	return sorted
}

// ModuleProgress computes completion counts, percent, and the current
// lesson pointer for one module. Percent is 0 for an empty module, and the
// current lesson is the first lesson in ascending order without a
// completed progress record (nil when all are complete or none exist).
func ModuleProgress(lessons []models.Lesson, completed map[string]struct{}) ModuleProgressSummary {
	summary := ModuleProgressSummary{TotalCount: len(lessons)}
	for _, lesson := range SortLessons(lessons) {
		if LessonCompleted(lesson.ID, completed) {
			summary.CompletedCount++
			continue
		}
		if summary.CurrentLessonID == nil {
			id := lesson.ID
			summary.CurrentLessonID = &id
		}
	}
	summary.Percent = percentOf(summary.CompletedCount, summary.TotalCount)
	return summary
}

// CourseProgress aggregates ModuleProgress over a course's modules in
// ascending module order. Counts flatten lessons across modules; a module
// rolls up as completed only when it has lessons and all of them are
// complete, so zero-lesson modules never count as finished.
func CourseProgress(modules []models.ModuleContent, completed map[string]struct{}) CourseProgressSummary {
	summary := CourseProgressSummary{TotalModules: len(modules)}
	for _, mc := range SortModules(modules) {
		mp := ModuleProgress(mc.Lessons, completed)
		summary.CompletedCount += mp.CompletedCount
		summary.TotalCount += mp.TotalCount
		if mp.TotalCount > 0 && mp.Percent == 100 {
			summary.CompletedModules++
		}
		if summary.CurrentLessonID == nil && mp.CurrentLessonID != nil {
			summary.CurrentLessonID = mp.CurrentLessonID
			moduleID := mc.Module.ID
			summary.CurrentModuleID = &moduleID
		}
	}
	summary.Percent = percentOf(summary.CompletedCount, summary.TotalCount)
	return summary
}

// ProgressTotalsOf rolls course summaries up to the user level.
func ProgressTotalsOf(summaries []CourseProgressSummary) ProgressTotals {
	totals := ProgressTotals{TotalCoursesEnrolled: len(summaries)}
	for _, s := range summaries {
		if s.Percent == 100 {
			totals.TotalCoursesCompleted++
		}
		totals.TotalLessonsCompleted += s.CompletedCount
	}
	return totals
}

func percentOf(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
