package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siolabs/learnhub-api/internal/models"
	appErrors "github.com/siolabs/learnhub-api/pkg/errors"
)

type mockCourseSessions struct {
	byCourse map[string][]models.SessionDetail
	byModule map[string][]models.SessionDetail
}

func (m *mockCourseSessions) ListByCourse(ctx context.Context, courseID string, courseLevelOnly bool) ([]models.SessionDetail, error) {
	return m.byCourse[courseID], nil
}

func (m *mockCourseSessions) ListByModule(ctx context.Context, moduleID string) ([]models.SessionDetail, error) {
	return m.byModule[moduleID], nil
}

func newTestCourseService(repo *mockLessonContent, enr *mockEnrollments, progress *mockProgress, sessions *mockCourseSessions) *CourseService {
	if sessions == nil {
		sessions = &mockCourseSessions{}
	}
	return NewCourseService(CourseServiceParams{
		Courses:     repo,
		Enrollments: enr,
		Progress:    progress,
		Sessions:    sessions,
	})
}

func TestCourseServiceListEnrolled(t *testing.T) {
	repo := twoCourseFixture()
	enr := &mockEnrollments{
		courseIDs: map[string]struct{}{"c1": {}, "c2": {}},
		order:     []string{"c2", "c1"},
	}
	progress := &mockProgress{completed: map[string]struct{}{"l1": {}}}
	svc := newTestCourseService(repo, enr, progress, nil)

	res, err := svc.ListEnrolled(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, res.Courses, 2)

	// Cards follow enrollment order, not course id order.
	assert.Equal(t, "c2", res.Courses[0].ID)
	assert.Equal(t, 0, res.Courses[0].Progress)
	require.NotNil(t, res.Courses[0].CurrentLesson)
	assert.Equal(t, "l4", res.Courses[0].CurrentLesson.ID)
	assert.Equal(t, "m2", res.Courses[0].CurrentLesson.ModuleID)

	assert.Equal(t, "c1", res.Courses[1].ID)
	assert.Equal(t, 33, res.Courses[1].Progress)
	assert.Equal(t, 1, res.Courses[1].CompletedLessons)
	assert.Equal(t, 3, res.Courses[1].TotalLessons)
	require.NotNil(t, res.Courses[1].CurrentLesson)
	assert.Equal(t, "l2", res.Courses[1].CurrentLesson.ID)
}

func TestCourseServiceListEnrolledSkipsMissingCourse(t *testing.T) {
	repo := twoCourseFixture()
	enr := &mockEnrollments{
		courseIDs: map[string]struct{}{"c1": {}, "gone": {}},
		order:     []string{"gone", "c1"},
	}
	svc := newTestCourseService(repo, enr, &mockProgress{}, nil)

	res, err := svc.ListEnrolled(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, res.Courses, 1)
	assert.Equal(t, "c1", res.Courses[0].ID)
}

func TestCourseServiceGetCourse(t *testing.T) {
	repo := twoCourseFixture()
	enr := &mockEnrollments{courseIDs: map[string]struct{}{"c1": {}}}
	progress := &mockProgress{completed: map[string]struct{}{"l1": {}, "l2": {}}}
	sessions := &mockCourseSessions{
		byCourse: map[string][]models.SessionDetail{
			"c1": {sessionAt("s1", models.SessionStatusScheduled, time.Date(2026, 3, 12, 15, 0, 0, 0, time.UTC))},
		},
	}
	svc := newTestCourseService(repo, enr, progress, sessions)

	res, err := svc.GetCourse(context.Background(), "user-1", "c1")
	require.NoError(t, err)
	assert.Equal(t, 67, res.Course.Progress)
	require.Len(t, res.Course.Modules, 1)
	require.Len(t, res.Course.Sessions, 1)
	assert.Nil(t, res.Course.Sessions[0].JoinURL)

	module := res.Course.Modules[0]
	assert.Equal(t, 67, module.Progress)
	require.Len(t, module.Lessons, 3)
	assert.True(t, module.Lessons[0].IsCompleted)
	assert.False(t, module.Lessons[2].IsCompleted)
	assert.True(t, module.Lessons[2].IsCurrent)
	assert.False(t, module.Lessons[0].IsCurrent)
}

func TestCourseServiceGetCourseNotFoundBeforeForbidden(t *testing.T) {
	repo := twoCourseFixture()
	svc := newTestCourseService(repo, &mockEnrollments{}, &mockProgress{}, nil)

	// An unknown course is NotFound even for an unenrolled user.
	_, err := svc.GetCourse(context.Background(), "user-1", "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	// A known course without enrollment is Forbidden.
	_, err = svc.GetCourse(context.Background(), "user-1", "c1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceGetModule(t *testing.T) {
	repo, enr := threeLessonFixture()
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	repo.assignments = map[string]*models.Assignment{
		"m1": {ID: "a1", ModuleID: "m1", Title: "Build a CLI", DueDate: &due},
	}
	progress := &mockProgress{completed: map[string]struct{}{"l1": {}}}
	svc := newTestCourseService(repo, enr, progress, nil)

	res, err := svc.GetModule(context.Background(), "user-1", "m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", res.Module.ID)
	assert.Equal(t, "c1", res.Module.Course.ID)
	assert.Equal(t, 33, res.Module.Progress)
	require.Len(t, res.Module.Lessons, 3)
	assert.True(t, res.Module.Lessons[0].IsCompleted)
	assert.True(t, res.Module.Lessons[1].IsCurrent)
	require.NotNil(t, res.Module.Assignment)
	assert.Equal(t, "Build a CLI", res.Module.Assignment.Title)
}

func TestCourseServiceGetModuleNotFound(t *testing.T) {
	repo, enr := threeLessonFixture()
	svc := newTestCourseService(repo, enr, &mockProgress{}, nil)

	_, err := svc.GetModule(context.Background(), "user-1", "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceRecordsContentLoadTiming(t *testing.T) {
	repo, enr := threeLessonFixture()
	metrics := NewMetricsService()
	svc := NewCourseService(CourseServiceParams{
		Courses:     repo,
		Enrollments: enr,
		Progress:    &mockProgress{},
		Sessions:    &mockCourseSessions{},
		Metrics:     metrics,
	})

	_, err := svc.GetCourse(context.Background(), "user-1", "c1")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `db_query_duration_seconds_count{query="course_content"} 1`)
}
