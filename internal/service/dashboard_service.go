package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/siolabs/learnhub-api/internal/dto"
)

type courseCardLister interface {
	ListEnrolled(ctx context.Context, userID string) (*dto.CourseListResponse, error)
}

type upcomingSessionLister interface {
	Upcoming(ctx context.Context, userID string, days int) (*dto.SessionListResponse, error)
}

// DashboardService composes the landing view from the course catalogue and
// the session schedule.
type DashboardService struct {
	courses       courseCardLister
	sessions      upcomingSessionLister
	upcomingLimit int
	windowDays    int
	logger        *zap.Logger
}

// DashboardServiceParams bundles DashboardService dependencies.
type DashboardServiceParams struct {
	Courses       courseCardLister
	Sessions      upcomingSessionLister
	UpcomingLimit int
	WindowDays    int
	Logger        *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(p DashboardServiceParams) *DashboardService {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.UpcomingLimit <= 0 {
		p.UpcomingLimit = 5
	}
	if p.WindowDays <= 0 {
		p.WindowDays = 7
	}
	return &DashboardService{
		courses:       p.Courses,
		sessions:      p.Sessions,
		upcomingLimit: p.UpcomingLimit,
		windowDays:    p.WindowDays,
		logger:        p.Logger,
	}
}

// Get assembles the dashboard: enrolled course cards with progress, the
// next sessions inside the window capped at the configured limit, and the
// course to resume.
func (s *DashboardService) Get(ctx context.Context, userID string) (*dto.DashboardResponse, error) {
	start := time.Now()

	courseList, err := s.courses.ListEnrolled(ctx, userID)
	if err != nil {
		return nil, err
	}

	sessionList, err := s.sessions.Upcoming(ctx, userID, s.windowDays)
	if err != nil {
		return nil, err
	}
	upcoming := sessionList.Sessions
	if len(upcoming) > s.upcomingLimit {
		upcoming = upcoming[:s.upcomingLimit]
	}

	resp := &dto.DashboardResponse{
		Courses:          courseList.Courses,
		UpcomingSessions: upcoming,
		ContinueLearning: ContinueLearning(courseList.Courses),
	}

	s.logger.Debug("dashboard assembled",
		zap.String("user_id", userID),
		zap.Int("courses", len(resp.Courses)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}
