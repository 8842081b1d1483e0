package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/siolabs/learnhub-api/internal/dto"
	"github.com/siolabs/learnhub-api/internal/models"
	appErrors "github.com/siolabs/learnhub-api/pkg/errors"
)

type sessionRepository interface {
	FindDetailByID(ctx context.Context, id string) (*models.SessionDetail, error)
	ListUpcomingByCourses(ctx context.Context, courseIDs []string, from, to time.Time) ([]models.SessionDetail, error)
	ListByCourse(ctx context.Context, courseID string, courseLevelOnly bool) ([]models.SessionDetail, error)
}

// SessionService surfaces the live-session schedule for enrolled courses.
type SessionService struct {
	sessions          sessionRepository
	enrollments       enrollmentReader
	courses           courseContentRepository
	defaultWindowDays int
	logger            *zap.Logger
	now               func() time.Time
}

// SessionServiceParams bundles SessionService dependencies.
type SessionServiceParams struct {
	Sessions          sessionRepository
	Enrollments       enrollmentReader
	Courses           courseContentRepository
	DefaultWindowDays int
	Logger            *zap.Logger
	Now               func() time.Time
}

// NewSessionService constructs a SessionService.
func NewSessionService(p SessionServiceParams) *SessionService {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.Now == nil {
		p.Now = func() time.Time { return time.Now().UTC() }
	}
	if p.DefaultWindowDays <= 0 {
		p.DefaultWindowDays = 7
	}
	return &SessionService{
		sessions:          p.Sessions,
		enrollments:       p.Enrollments,
		courses:           p.Courses,
		defaultWindowDays: p.DefaultWindowDays,
		logger:            p.Logger,
		now:               p.Now,
	}
}

// Upcoming lists SCHEDULED and LIVE sessions across the user's enrolled
// courses within the requested window, ascending by scheduled time. A
// non-positive days value falls back to the configured default.
func (s *SessionService) Upcoming(ctx context.Context, userID string, days int) (*dto.SessionListResponse, error) {
	if days <= 0 {
		days = s.defaultWindowDays
	}

	enrollments, err := s.enrollments.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	if len(enrollments) == 0 {
		return &dto.SessionListResponse{Sessions: []dto.SessionSummary{}}, nil
	}

	courseIDs := make([]string, 0, len(enrollments))
	for _, enrollment := range enrollments {
		courseIDs = append(courseIDs, enrollment.CourseID)
	}

	now := s.now()
	rows, err := s.sessions.ListUpcomingByCourses(ctx, courseIDs, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}

	return &dto.SessionListResponse{Sessions: UpcomingSessions(rows, now, days)}, nil
}

// GetSession returns a single session, enforcing enrollment on its course.
func (s *SessionService) GetSession(ctx context.Context, userID, sessionID string) (*dto.SessionDetailResponse, error) {
	session, err := s.sessions.FindDetailByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch session")
	}

	enrolled, err := s.enrollments.Exists(ctx, userID, session.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !enrolled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not enrolled in this course")
	}

	return &dto.SessionDetailResponse{Session: RedactSession(*session)}, nil
}

// ListByCourse returns every non-cancelled session attached to the course,
// both course-level and module-level.
func (s *SessionService) ListByCourse(ctx context.Context, userID, courseID string) (*dto.SessionListResponse, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch course")
	}

	enrolled, err := s.enrollments.Exists(ctx, userID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !enrolled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not enrolled in this course")
	}

	rows, err := s.sessions.ListByCourse(ctx, courseID, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}

	return &dto.SessionListResponse{Sessions: redactAll(rows)}, nil
}
