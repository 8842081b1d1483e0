package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/siolabs/learnhub-api/internal/models"
)

func lessonsOf(ids ...string) []models.Lesson {
	lessons := make([]models.Lesson, 0, len(ids))
	for i, id := range ids {
		lessons = append(lessons, models.Lesson{ID: id, Order: i + 1})
	}
	return lessons
}

func completedOf(ids ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func TestCompletedLessonSetIgnoresIncompleteRows(t *testing.T) {
	rows := []models.LessonProgress{
		{LessonID: "l1", Completed: true},
		{LessonID: "l2", Completed: false},
		{LessonID: "l3", Completed: true},
	}
	set := CompletedLessonSet(rows)
	require.Len(t, set, 2)
	require.True(t, LessonCompleted("l1", set))
	require.False(t, LessonCompleted("l2", set))
	require.True(t, LessonCompleted("l3", set))
}

func TestModuleProgressRounding(t *testing.T) {
	// 2 of 3 complete rounds to 67, not 66.
	lessons := lessonsOf("l1", "l2", "l3")
	summary := ModuleProgress(lessons, completedOf("l1", "l2"))
	require.Equal(t, 67, summary.Percent)
	require.Equal(t, 2, summary.CompletedCount)
	require.Equal(t, 3, summary.TotalCount)
	require.NotNil(t, summary.CurrentLessonID)
	require.Equal(t, "l3", *summary.CurrentLessonID)
}

func TestModuleProgressEmptyModule(t *testing.T) {
	summary := ModuleProgress(nil, completedOf())
	require.Equal(t, 0, summary.Percent)
	require.Equal(t, 0, summary.TotalCount)
	require.Nil(t, summary.CurrentLessonID)
}

func TestModuleProgressAllComplete(t *testing.T) {
	lessons := lessonsOf("l1", "l2")
	summary := ModuleProgress(lessons, completedOf("l1", "l2"))
	require.Equal(t, 100, summary.Percent)
	require.Nil(t, summary.CurrentLessonID)
}

func TestModuleProgressCurrentSkipsCompletedGaps(t *testing.T) {
	// l1 incomplete, l2 complete: current is l1, the first incomplete in order.
	lessons := lessonsOf("l1", "l2", "l3")
	summary := ModuleProgress(lessons, completedOf("l2"))
	require.NotNil(t, summary.CurrentLessonID)
	require.Equal(t, "l1", *summary.CurrentLessonID)
}

func TestSortLessonsDuplicateOrderFallsBackToID(t *testing.T) {
	lessons := []models.Lesson{
		{ID: "b", Order: 1},
		{ID: "a", Order: 1},
		{ID: "c", Order: 0},
	}
	sorted := SortLessons(lessons)
	require.Equal(t, []string{"c", "a", "b"}, []string{sorted[0].ID, sorted[1].ID, sorted[2].ID})
	// Input order untouched.
	require.Equal(t, "b", lessons[0].ID)
}

func TestCourseProgressFlattensAcrossModules(t *testing.T) {
	modules := []models.ModuleContent{
		{Module: models.Module{ID: "m1", Order: 1}, Lessons: lessonsOf("l1", "l2")},
		{Module: models.Module{ID: "m2", Order: 2}, Lessons: lessonsOf("l3", "l4", "l5")},
	}
	summary := CourseProgress(modules, completedOf("l1", "l2", "l3"))
	require.Equal(t, 3, summary.CompletedCount)
	require.Equal(t, 5, summary.TotalCount)
	require.Equal(t, 60, summary.Percent)
	require.Equal(t, 1, summary.CompletedModules)
	require.Equal(t, 2, summary.TotalModules)
	require.NotNil(t, summary.CurrentLessonID)
	require.Equal(t, "l4", *summary.CurrentLessonID)
	require.Equal(t, "m2", *summary.CurrentModuleID)
}

func TestCourseProgressZeroLessonModuleNeverCompletes(t *testing.T) {
	modules := []models.ModuleContent{
		{Module: models.Module{ID: "m1", Order: 1}, Lessons: lessonsOf("l1")},
		{Module: models.Module{ID: "m2", Order: 2}}, // no lessons
	}
	summary := CourseProgress(modules, completedOf("l1"))
	require.Equal(t, 100, summary.Percent)
	require.Equal(t, 1, summary.CompletedModules)
	require.Equal(t, 2, summary.TotalModules)
	require.Nil(t, summary.CurrentLessonID)
}

func TestCourseProgressEmptyCourse(t *testing.T) {
	summary := CourseProgress(nil, completedOf())
	require.Equal(t, 0, summary.Percent)
	require.Equal(t, 0, summary.TotalModules)
	require.Nil(t, summary.CurrentLessonID)
}

func TestCourseProgressCurrentPointerUsesModuleOrder(t *testing.T) {
	// Modules supplied out of order; current lesson must come from the
	// earliest module by order, not slice position.
	modules := []models.ModuleContent{
		{Module: models.Module{ID: "m2", Order: 2}, Lessons: lessonsOf("l3", "l4")},
		{Module: models.Module{ID: "m1", Order: 1}, Lessons: lessonsOf("l1", "l2")},
	}
	summary := CourseProgress(modules, completedOf("l1"))
	require.Equal(t, "l2", *summary.CurrentLessonID)
	require.Equal(t, "m1", *summary.CurrentModuleID)
}

func TestCourseProgressIdempotentUnderRecompute(t *testing.T) {
	modules := []models.ModuleContent{
		{Module: models.Module{ID: "m1", Order: 1}, Lessons: lessonsOf("l1", "l2", "l3")},
	}
	completed := completedOf("l1")
	first := CourseProgress(modules, completed)
	second := CourseProgress(modules, completed)
	require.Equal(t, first, second)
}

func TestProgressTotalsOf(t *testing.T) {
	summaries := []CourseProgressSummary{
		{CompletedCount: 3, TotalCount: 3, Percent: 100},
		{CompletedCount: 1, TotalCount: 4, Percent: 25},
		{CompletedCount: 0, TotalCount: 0, Percent: 0},
	}
	totals := ProgressTotalsOf(summaries)
	require.Equal(t, 3, totals.TotalCoursesEnrolled)
	require.Equal(t, 1, totals.TotalCoursesCompleted)
	require.Equal(t, 4, totals.TotalLessonsCompleted)
}

func TestPercentOf(t *testing.T) {
	cases := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{3, 3, 100},
		{1, 8, 13},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, percentOf(tc.completed, tc.total), "%d/%d", tc.completed, tc.total)
	}
}
