package service

import (
	"sort"
	"time"

	"github.com/siolabs/learnhub-api/internal/dto"
	"github.com/siolabs/learnhub-api/internal/models"
)

// RedactSession projects a live session for client consumption. JoinURL
// survives only while the session is LIVE and RecordingURL only once
// COMPLETED; every session-bearing response goes through this.
func RedactSession(s models.SessionDetail) dto.SessionSummary {
	summary := dto.SessionSummary{
		ID:              s.ID,
		Title:           s.Title,
		Description:     s.Description,
		ScheduledAt:     s.ScheduledAt,
		DurationMinutes: s.DurationMinutes,
		Status:          s.Status,
		CourseID:        s.CourseID,
		CourseTitle:     s.CourseTitle,
		ModuleID:        s.ModuleID,
		ModuleTitle:     s.ModuleTitle,
	}
	if s.Status == models.SessionStatusLive {
		summary.JoinURL = s.JoinURL
	}
	if s.Status == models.SessionStatusCompleted {
		summary.RecordingURL = s.RecordingURL
	}
	return summary
}

// UpcomingSessions filters to SCHEDULED or LIVE sessions inside the
// [now, now+windowDays] window and returns them redacted, ascending by
// scheduled time with id as tiebreak. A LIVE session that already started
// is still upcoming from the student's point of view, so only the upper
// bound applies to it. The caller is responsible for restricting the input
// to the user's enrolled courses.
func UpcomingSessions(sessions []models.SessionDetail, now time.Time, windowDays int) []dto.SessionSummary {
	end := now.AddDate(0, 0, windowDays)
	upcoming := make([]dto.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		if s.Status != models.SessionStatusScheduled && s.Status != models.SessionStatusLive {
			continue
		}
		if s.ScheduledAt.After(end) {
			continue
		}
		if s.Status == models.SessionStatusScheduled && s.ScheduledAt.Before(now) {
			continue
		}
		upcoming = append(upcoming, RedactSession(s))
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		if !upcoming[i].ScheduledAt.Equal(upcoming[j].ScheduledAt) {
			return upcoming[i].ScheduledAt.Before(upcoming[j].ScheduledAt)
		}
		return upcoming[i].ID < upcoming[j].ID
	})
	return upcoming
}

// ContinueLearning selects the course the student should resume: the first
// enrolled course that is not finished and still has a current lesson. A
// freshly enrolled course with zero progress qualifies.
func ContinueLearning(courses []dto.CourseCard) *dto.CourseCard {
	for i := range courses {
		if courses[i].Progress < 100 && courses[i].CurrentLesson != nil {
			return &courses[i]
		}
	}
	return nil
}
