package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siolabs/learnhub-api/internal/dto"
	"github.com/siolabs/learnhub-api/internal/models"
	appErrors "github.com/siolabs/learnhub-api/pkg/errors"
)

type mockLessonContent struct {
	lessons     map[string]*models.Lesson
	modules     map[string]*models.Module
	courses     map[string]*models.Course
	content     map[string]*models.CourseContent
	resources   map[string][]models.Resource
	assignments map[string]*models.Assignment
}

func (m *mockLessonContent) FindAssignmentByModule(ctx context.Context, moduleID string) (*models.Assignment, error) {
	a, ok := m.assignments[moduleID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return a, nil
}

func (m *mockLessonContent) FindLessonByID(ctx context.Context, id string) (*models.Lesson, error) {
	l, ok := m.lessons[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return l, nil
}

func (m *mockLessonContent) FindModuleByID(ctx context.Context, id string) (*models.Module, error) {
	mod, ok := m.modules[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return mod, nil
}

func (m *mockLessonContent) FindByID(ctx context.Context, id string) (*models.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

func (m *mockLessonContent) ListLessonsByModule(ctx context.Context, moduleID string) ([]models.Lesson, error) {
	var out []models.Lesson
	for _, l := range m.lessons {
		if l.ModuleID == moduleID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockLessonContent) ListResourcesByLesson(ctx context.Context, lessonID string) ([]models.Resource, error) {
	return m.resources[lessonID], nil
}

func (m *mockLessonContent) LoadContent(ctx context.Context, courseID string) (*models.CourseContent, error) {
	c, ok := m.content[courseID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

type mockEnrollments struct {
	courseIDs map[string]struct{}
	order     []string
}

func (m *mockEnrollments) ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error) {
	ids := m.order
	if ids == nil {
		for id := range m.courseIDs {
			ids = append(ids, id)
		}
	}
	out := make([]models.Enrollment, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Enrollment{ID: "enr-" + id, UserID: userID, CourseID: id})
	}
	return out, nil
}

func (m *mockEnrollments) Exists(ctx context.Context, userID, courseID string) (bool, error) {
	_, ok := m.courseIDs[courseID]
	return ok, nil
}

type mockProgress struct {
	completed map[string]struct{}
	positions map[string]int
	markErr   error
}

func (m *mockProgress) ListByUser(ctx context.Context, userID string) ([]models.LessonProgress, error) {
	var out []models.LessonProgress
	for id := range m.completed {
		out = append(out, models.LessonProgress{LessonID: id, Completed: true})
	}
	return out, nil
}

func (m *mockProgress) ListByUserAndLessons(ctx context.Context, userID string, lessonIDs []string) ([]models.LessonProgress, error) {
	var out []models.LessonProgress
	for _, id := range lessonIDs {
		if _, ok := m.completed[id]; ok {
			out = append(out, models.LessonProgress{LessonID: id, Completed: true})
		}
	}
	return out, nil
}

func (m *mockProgress) FindByUserAndLesson(ctx context.Context, userID, lessonID string) (*models.LessonProgress, error) {
	if _, ok := m.completed[lessonID]; ok {
		return &models.LessonProgress{LessonID: lessonID, Completed: true}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProgress) MarkCompleted(ctx context.Context, userID, lessonID string, completedAt time.Time) error {
	if m.markErr != nil {
		return m.markErr
	}
	if m.completed == nil {
		m.completed = make(map[string]struct{})
	}
	m.completed[lessonID] = struct{}{}
	return nil
}

func (m *mockProgress) FindVideoProgress(ctx context.Context, userID, lessonID string) (*models.VideoProgress, error) {
	pos, ok := m.positions[lessonID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.VideoProgress{LessonID: lessonID, PositionSeconds: pos}, nil
}

func (m *mockProgress) UpsertVideoPosition(ctx context.Context, userID, lessonID string, positionSeconds int) error {
	if m.positions == nil {
		m.positions = make(map[string]int)
	}
	m.positions[lessonID] = positionSeconds
	return nil
}

// threeLessonFixture builds one course with a single module of three
// ordered lessons.
func threeLessonFixture() (*mockLessonContent, *mockEnrollments) {
	module := &models.Module{ID: "m1", CourseID: "c1", Title: "Basics", Order: 1}
	lessons := map[string]*models.Lesson{
		"l1": {ID: "l1", ModuleID: "m1", Title: "One", Order: 1},
		"l2": {ID: "l2", ModuleID: "m1", Title: "Two", Order: 2},
		"l3": {ID: "l3", ModuleID: "m1", Title: "Three", Order: 3},
	}
	content := &models.CourseContent{
		Course: models.Course{ID: "c1", Title: "Go Fundamentals"},
		Modules: []models.ModuleContent{
			{Module: *module, Lessons: []models.Lesson{*lessons["l1"], *lessons["l2"], *lessons["l3"]}},
		},
	}
	repo := &mockLessonContent{
		lessons: lessons,
		modules: map[string]*models.Module{"m1": module},
		courses: map[string]*models.Course{"c1": {ID: "c1", Title: "Go Fundamentals"}},
		content: map[string]*models.CourseContent{"c1": content},
	}
	return repo, &mockEnrollments{courseIDs: map[string]struct{}{"c1": {}}}
}

func newTestLessonService(repo *mockLessonContent, enr *mockEnrollments, progress *mockProgress) *LessonService {
	return NewLessonService(LessonServiceParams{
		Courses:     repo,
		Enrollments: enr,
		Progress:    progress,
	})
}

func TestLessonServiceGetLessonNavigation(t *testing.T) {
	repo, enr := threeLessonFixture()
	svc := newTestLessonService(repo, enr, &mockProgress{positions: map[string]int{"l2": 90}})

	res, err := svc.GetLesson(context.Background(), "user-1", "l2")
	require.NoError(t, err)
	assert.Equal(t, "l2", res.Lesson.ID)
	assert.Equal(t, "Go Fundamentals", res.Lesson.Module.CourseTitle)
	assert.Equal(t, 90, res.Lesson.VideoProgress)
	assert.False(t, res.Lesson.IsCompleted)
	require.NotNil(t, res.Lesson.PrevLesson)
	assert.Equal(t, "l1", res.Lesson.PrevLesson.ID)
	require.NotNil(t, res.Lesson.NextLesson)
	assert.Equal(t, "l3", res.Lesson.NextLesson.ID)
}

func TestLessonServiceGetLessonEdgesOfModule(t *testing.T) {
	repo, enr := threeLessonFixture()
	svc := newTestLessonService(repo, enr, &mockProgress{})

	first, err := svc.GetLesson(context.Background(), "user-1", "l1")
	require.NoError(t, err)
	assert.Nil(t, first.Lesson.PrevLesson)
	require.NotNil(t, first.Lesson.NextLesson)

	last, err := svc.GetLesson(context.Background(), "user-1", "l3")
	require.NoError(t, err)
	require.NotNil(t, last.Lesson.PrevLesson)
	assert.Nil(t, last.Lesson.NextLesson)
}

func TestLessonServiceGetLessonNotFound(t *testing.T) {
	repo, enr := threeLessonFixture()
	svc := newTestLessonService(repo, enr, &mockProgress{})

	_, err := svc.GetLesson(context.Background(), "user-1", "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestLessonServiceGetLessonNotEnrolled(t *testing.T) {
	repo, _ := threeLessonFixture()
	svc := newTestLessonService(repo, &mockEnrollments{courseIDs: map[string]struct{}{}}, &mockProgress{})

	_, err := svc.GetLesson(context.Background(), "user-1", "l1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestLessonServiceComplete(t *testing.T) {
	repo, enr := threeLessonFixture()
	progress := &mockProgress{completed: map[string]struct{}{"l1": {}}}
	svc := newTestLessonService(repo, enr, progress)

	res, err := svc.Complete(context.Background(), "user-1", "l2")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.Progress.LessonCompleted)
	assert.Equal(t, 67, res.Progress.ModuleProgress)
	assert.Equal(t, 67, res.Progress.CourseProgress)
}

func TestLessonServiceCompleteIdempotent(t *testing.T) {
	repo, enr := threeLessonFixture()
	progress := &mockProgress{completed: map[string]struct{}{"l1": {}, "l2": {}}}
	svc := newTestLessonService(repo, enr, progress)

	first, err := svc.Complete(context.Background(), "user-1", "l2")
	require.NoError(t, err)
	second, err := svc.Complete(context.Background(), "user-1", "l2")
	require.NoError(t, err)
	assert.Equal(t, first.Progress, second.Progress)
	assert.Equal(t, 67, second.Progress.CourseProgress)
}

func TestLessonServiceCompleteFinishesCourse(t *testing.T) {
	repo, enr := threeLessonFixture()
	progress := &mockProgress{completed: map[string]struct{}{"l1": {}, "l2": {}}}
	svc := newTestLessonService(repo, enr, progress)

	res, err := svc.Complete(context.Background(), "user-1", "l3")
	require.NoError(t, err)
	assert.Equal(t, 100, res.Progress.ModuleProgress)
	assert.Equal(t, 100, res.Progress.CourseProgress)
}

func TestLessonServiceRecordVideoPosition(t *testing.T) {
	repo, enr := threeLessonFixture()
	progress := &mockProgress{}
	svc := newTestLessonService(repo, enr, progress)

	pos := 240
	err := svc.RecordVideoPosition(context.Background(), "user-1", "l1", dto.VideoProgressRequest{PositionSeconds: &pos})
	require.NoError(t, err)
	assert.Equal(t, 240, progress.positions["l1"])

	// Rewinding after a seek is legal; last write wins.
	rewind := 30
	err = svc.RecordVideoPosition(context.Background(), "user-1", "l1", dto.VideoProgressRequest{PositionSeconds: &rewind})
	require.NoError(t, err)
	assert.Equal(t, 30, progress.positions["l1"])
}

func TestLessonServiceRecordVideoPositionValidation(t *testing.T) {
	repo, enr := threeLessonFixture()
	svc := newTestLessonService(repo, enr, &mockProgress{})

	neg := -5
	err := svc.RecordVideoPosition(context.Background(), "user-1", "l1", dto.VideoProgressRequest{PositionSeconds: &neg})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	err = svc.RecordVideoPosition(context.Background(), "user-1", "l1", dto.VideoProgressRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
