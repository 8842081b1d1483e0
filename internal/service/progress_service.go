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

// ProgressService rolls lesson progress up to course and user level.
type ProgressService struct {
	courses     courseContentRepository
	enrollments enrollmentReader
	progress    progressReader
	metrics     *MetricsService
	logger      *zap.Logger
}

// ProgressServiceParams bundles ProgressService dependencies.
type ProgressServiceParams struct {
	Courses     courseContentRepository
	Enrollments enrollmentReader
	Progress    progressReader
	Metrics     *MetricsService
	Logger      *zap.Logger
}

// NewProgressService constructs a ProgressService.
func NewProgressService(p ProgressServiceParams) *ProgressService {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	return &ProgressService{
		courses:     p.Courses,
		enrollments: p.Enrollments,
		progress:    p.Progress,
		metrics:     p.Metrics,
		logger:      p.Logger,
	}
}

func (s *ProgressService) loadContent(ctx context.Context, courseID string) (*models.CourseContent, error) {
	start := time.Now()
	content, err := s.courses.LoadContent(ctx, courseID)
	s.metrics.ObserveDBQuery("course_content", time.Since(start))
	return content, err
}

// Overview returns the user-level progress roll-up across every enrolled
// course. Courses appear in enrollment order.
func (s *ProgressService) Overview(ctx context.Context, userID string) (*dto.ProgressOverview, error) {
	enrollments, err := s.enrollments.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}

	rows, err := s.progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load progress")
	}
	completed := CompletedLessonSet(rows)

	overview := &dto.ProgressOverview{
		UserID:  userID,
		Courses: make([]dto.CourseProgressSummary, 0, len(enrollments)),
	}
	for _, enrollment := range enrollments {
		content, err := s.loadContent(ctx, enrollment.CourseID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course content")
		}

		summary := CourseProgress(content.Modules, completed)
		overview.Courses = append(overview.Courses, dto.CourseProgressSummary{
			CourseID:         content.Course.ID,
			CourseTitle:      content.Course.Title,
			Progress:         summary.Percent,
			CompletedLessons: summary.CompletedCount,
			TotalLessons:     summary.TotalCount,
			CompletedModules: summary.CompletedModules,
			TotalModules:     summary.TotalModules,
			IsCompleted:      summary.Percent == 100,
		})
	}

	overview.TotalCoursesEnrolled = len(overview.Courses)
	for _, course := range overview.Courses {
		if course.IsCompleted {
			overview.TotalCoursesCompleted++
		}
		overview.TotalLessonsCompleted += course.CompletedLessons
	}

	return overview, nil
}

// CourseDetail returns the per-module, per-lesson breakdown for one course.
// The enrollment gate runs before the course lookup, so an unenrolled user
// gets Forbidden even when the course id is unknown.
func (s *ProgressService) CourseDetail(ctx context.Context, userID, courseID string) (*dto.CourseProgressDetail, error) {
	enrolled, err := s.enrollments.Exists(ctx, userID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !enrolled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not enrolled in this course")
	}

	content, err := s.loadContent(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course content")
	}

	rows, err := s.progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load progress")
	}
	completed := CompletedLessonSet(rows)

	summary := CourseProgress(content.Modules, completed)
	detail := &dto.CourseProgressDetail{
		CourseID:         content.Course.ID,
		CourseTitle:      content.Course.Title,
		Progress:         summary.Percent,
		CompletedLessons: summary.CompletedCount,
		TotalLessons:     summary.TotalCount,
		CompletedModules: summary.CompletedModules,
		TotalModules:     summary.TotalModules,
		IsCompleted:      summary.Percent == 100,
		Modules:          make([]dto.ModuleProgressDetail, 0, len(content.Modules)),
	}

	for _, mc := range SortModules(content.Modules) {
		mp := ModuleProgress(mc.Lessons, completed)

		lessons := make([]dto.LessonProgressRow, 0, len(mc.Lessons))
		for _, lesson := range SortLessons(mc.Lessons) {
			lessons = append(lessons, dto.LessonProgressRow{
				LessonID:    lesson.ID,
				LessonTitle: lesson.Title,
				IsCompleted: LessonCompleted(lesson.ID, completed),
			})
		}

		detail.Modules = append(detail.Modules, dto.ModuleProgressDetail{
			ModuleID:         mc.Module.ID,
			ModuleTitle:      mc.Module.Title,
			Progress:         mp.Percent,
			CompletedLessons: mp.CompletedCount,
			TotalLessons:     mp.TotalCount,
			IsCompleted:      mp.TotalCount > 0 && mp.Percent == 100,
			Lessons:          lessons,
		})
	}

	return detail, nil
}
