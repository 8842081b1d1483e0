package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siolabs/learnhub-api/internal/models"
	appErrors "github.com/siolabs/learnhub-api/pkg/errors"
)

type mockSessionRepo struct {
	byID     map[string]*models.SessionDetail
	upcoming []models.SessionDetail
	byCourse map[string][]models.SessionDetail

	lastFrom, lastTo time.Time
	lastCourseIDs    []string
}

func (m *mockSessionRepo) FindDetailByID(ctx context.Context, id string) (*models.SessionDetail, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (m *mockSessionRepo) ListUpcomingByCourses(ctx context.Context, courseIDs []string, from, to time.Time) ([]models.SessionDetail, error) {
	m.lastCourseIDs = courseIDs
	m.lastFrom = from
	m.lastTo = to
	return m.upcoming, nil
}

func (m *mockSessionRepo) ListByCourse(ctx context.Context, courseID string, courseLevelOnly bool) ([]models.SessionDetail, error) {
	return m.byCourse[courseID], nil
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
}

func TestSessionServiceUpcoming(t *testing.T) {
	now := fixedNow()
	repo := &mockSessionRepo{
		upcoming: []models.SessionDetail{
			sessionAt("s2", models.SessionStatusScheduled, now.AddDate(0, 0, 2)),
			sessionAt("s1", models.SessionStatusLive, now.Add(-10*time.Minute)),
		},
	}
	svc := NewSessionService(SessionServiceParams{
		Sessions:    repo,
		Enrollments: &mockEnrollments{courseIDs: map[string]struct{}{"course-1": {}}, order: []string{"course-1"}},
		Courses:     &mockLessonContent{},
		Now:         fixedNow,
	})

	res, err := svc.Upcoming(context.Background(), "user-1", 0)
	require.NoError(t, err)
	require.Len(t, res.Sessions, 2)
	assert.Equal(t, "s1", res.Sessions[0].ID)
	assert.NotNil(t, res.Sessions[0].JoinURL)
	assert.Equal(t, "s2", res.Sessions[1].ID)

	// A zero days value falls back to the 7-day default window.
	assert.Equal(t, []string{"course-1"}, repo.lastCourseIDs)
	assert.Equal(t, now, repo.lastFrom)
	assert.Equal(t, now.AddDate(0, 0, 7), repo.lastTo)
}

func TestSessionServiceUpcomingCustomWindow(t *testing.T) {
	now := fixedNow()
	repo := &mockSessionRepo{}
	svc := NewSessionService(SessionServiceParams{
		Sessions:    repo,
		Enrollments: &mockEnrollments{courseIDs: map[string]struct{}{"course-1": {}}, order: []string{"course-1"}},
		Courses:     &mockLessonContent{},
		Now:         fixedNow,
	})

	_, err := svc.Upcoming(context.Background(), "user-1", 30)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 30), repo.lastTo)
}

func TestSessionServiceUpcomingNoEnrollments(t *testing.T) {
	repo := &mockSessionRepo{}
	svc := NewSessionService(SessionServiceParams{
		Sessions:    repo,
		Enrollments: &mockEnrollments{},
		Courses:     &mockLessonContent{},
		Now:         fixedNow,
	})

	res, err := svc.Upcoming(context.Background(), "user-1", 7)
	require.NoError(t, err)
	assert.Empty(t, res.Sessions)
	assert.Nil(t, repo.lastCourseIDs)
}

func TestSessionServiceGetSession(t *testing.T) {
	session := sessionAt("s1", models.SessionStatusCompleted, fixedNow().AddDate(0, 0, -1))
	repo := &mockSessionRepo{byID: map[string]*models.SessionDetail{"s1": &session}}
	svc := NewSessionService(SessionServiceParams{
		Sessions:    repo,
		Enrollments: &mockEnrollments{courseIDs: map[string]struct{}{"course-1": {}}},
		Courses:     &mockLessonContent{},
		Now:         fixedNow,
	})

	res, err := svc.GetSession(context.Background(), "user-1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", res.Session.ID)
	assert.Nil(t, res.Session.JoinURL)
	require.NotNil(t, res.Session.RecordingURL)
}

func TestSessionServiceGetSessionNotFound(t *testing.T) {
	svc := NewSessionService(SessionServiceParams{
		Sessions:    &mockSessionRepo{},
		Enrollments: &mockEnrollments{},
		Courses:     &mockLessonContent{},
	})

	_, err := svc.GetSession(context.Background(), "user-1", "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSessionServiceGetSessionNotEnrolled(t *testing.T) {
	session := sessionAt("s1", models.SessionStatusScheduled, fixedNow().AddDate(0, 0, 1))
	svc := NewSessionService(SessionServiceParams{
		Sessions:    &mockSessionRepo{byID: map[string]*models.SessionDetail{"s1": &session}},
		Enrollments: &mockEnrollments{},
		Courses:     &mockLessonContent{},
	})

	_, err := svc.GetSession(context.Background(), "user-1", "s1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestSessionServiceListByCourse(t *testing.T) {
	now := fixedNow()
	repo := &mockSessionRepo{
		byCourse: map[string][]models.SessionDetail{
			"course-1": {
				sessionAt("past", models.SessionStatusCompleted, now.AddDate(0, 0, -7)),
				sessionAt("next", models.SessionStatusScheduled, now.AddDate(0, 0, 1)),
			},
		},
	}
	svc := NewSessionService(SessionServiceParams{
		Sessions:    repo,
		Enrollments: &mockEnrollments{courseIDs: map[string]struct{}{"course-1": {}}},
		Courses: &mockLessonContent{
			courses: map[string]*models.Course{"course-1": {ID: "course-1", Title: "Intro to Go"}},
		},
		Now: fixedNow,
	})

	res, err := svc.ListByCourse(context.Background(), "user-1", "course-1")
	require.NoError(t, err)
	require.Len(t, res.Sessions, 2)
	// Full history stays visible here; only the URLs are redacted.
	assert.NotNil(t, res.Sessions[0].RecordingURL)
	assert.Nil(t, res.Sessions[1].JoinURL)
}

func TestSessionServiceListByCourseUnknownCourse(t *testing.T) {
	svc := NewSessionService(SessionServiceParams{
		Sessions:    &mockSessionRepo{},
		Enrollments: &mockEnrollments{},
		Courses:     &mockLessonContent{},
	})

	_, err := svc.ListByCourse(context.Background(), "user-1", "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
