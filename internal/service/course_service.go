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

type courseContentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindModuleByID(ctx context.Context, id string) (*models.Module, error)
	LoadContent(ctx context.Context, courseID string) (*models.CourseContent, error)
	ListLessonsByModule(ctx context.Context, moduleID string) ([]models.Lesson, error)
	FindAssignmentByModule(ctx context.Context, moduleID string) (*models.Assignment, error)
}

type enrollmentReader interface {
	ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error)
	Exists(ctx context.Context, userID, courseID string) (bool, error)
}

type progressReader interface {
	ListByUser(ctx context.Context, userID string) ([]models.LessonProgress, error)
	ListByUserAndLessons(ctx context.Context, userID string, lessonIDs []string) ([]models.LessonProgress, error)
}

type courseSessionReader interface {
	ListByCourse(ctx context.Context, courseID string, courseLevelOnly bool) ([]models.SessionDetail, error)
	ListByModule(ctx context.Context, moduleID string) ([]models.SessionDetail, error)
}

// CourseService exposes the enrolled-course catalogue with derived progress.
type CourseService struct {
	courses     courseContentRepository
	enrollments enrollmentReader
	progress    progressReader
	sessions    courseSessionReader
	metrics     *MetricsService
	logger      *zap.Logger
}

// CourseServiceParams bundles CourseService dependencies.
type CourseServiceParams struct {
	Courses     courseContentRepository
	Enrollments enrollmentReader
	Progress    progressReader
	Sessions    courseSessionReader
	Metrics     *MetricsService
	Logger      *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(p CourseServiceParams) *CourseService {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	return &CourseService{
		courses:     p.Courses,
		enrollments: p.Enrollments,
		progress:    p.Progress,
		sessions:    p.Sessions,
		metrics:     p.Metrics,
		logger:      p.Logger,
	}
}

// loadContent fetches the course content snapshot with query timing, since
// this is the heaviest read on every catalogue and detail path.
func (s *CourseService) loadContent(ctx context.Context, courseID string) (*models.CourseContent, error) {
	start := time.Now()
	content, err := s.courses.LoadContent(ctx, courseID)
	s.metrics.ObserveDBQuery("course_content", time.Since(start))
	return content, err
}

// ListEnrolled returns one card per enrollment, ordered by enrollment date,
// each carrying recomputed progress and the current-lesson pointer.
func (s *CourseService) ListEnrolled(ctx context.Context, userID string) (*dto.CourseListResponse, error) {
	enrollments, err := s.enrollments.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}

	completed, err := s.completedSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	cards := make([]dto.CourseCard, 0, len(enrollments))
	for _, enrollment := range enrollments {
		content, err := s.loadContent(ctx, enrollment.CourseID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Enrollment referencing a removed course: skip rather than fail the list.
				s.logger.Warn("enrollment references missing course", zap.String("course_id", enrollment.CourseID))
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course content")
		}
		cards = append(cards, buildCourseCard(enrollment, content, completed))
	}

	return &dto.CourseListResponse{Courses: cards}, nil
}

// GetCourse returns the full course detail with per-module progress, lesson
// completion flags and attached sessions. A missing course yields NotFound;
// an existing course without enrollment yields Forbidden.
func (s *CourseService) GetCourse(ctx context.Context, userID, courseID string) (*dto.CourseDetailResponse, error) {
	content, err := s.loadContent(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course content")
	}

	if err := s.requireEnrollment(ctx, userID, courseID); err != nil {
		return nil, err
	}

	completed, err := s.completedSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	courseSummary := CourseProgress(content.Modules, completed)

	moduleViews := make([]dto.ModuleWithProgress, 0, len(content.Modules))
	for _, mc := range SortModules(content.Modules) {
		mp := ModuleProgress(mc.Lessons, completed)

		lessonRows := make([]dto.LessonRow, 0, len(mc.Lessons))
		for _, lesson := range SortLessons(mc.Lessons) {
			lessonRows = append(lessonRows, dto.LessonRow{
				ID:              lesson.ID,
				Title:           lesson.Title,
				Description:     lesson.Description,
				Objective:       lesson.Objective,
				DurationMinutes: lesson.DurationMinutes,
				Order:           lesson.Order,
				IsCompleted:     LessonCompleted(lesson.ID, completed),
				IsCurrent:       mp.CurrentLessonID != nil && *mp.CurrentLessonID == lesson.ID,
			})
		}

		moduleSessions, err := s.sessions.ListByModule(ctx, mc.Module.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list module sessions")
		}

		view := dto.ModuleWithProgress{
			ID:               mc.Module.ID,
			Title:            mc.Module.Title,
			Description:      mc.Module.Description,
			Objective:        mc.Module.Objective,
			Order:            mc.Module.Order,
			Progress:         mp.Percent,
			CompletedLessons: mp.CompletedCount,
			LessonCount:      mp.TotalCount,
			Lessons:          lessonRows,
			Sessions:         redactAll(moduleSessions),
		}
		if mc.Assignment != nil {
			view.Assignment = &dto.AssignmentInfo{
				ID:          mc.Assignment.ID,
				Title:       mc.Assignment.Title,
				Description: mc.Assignment.Description,
				DueDate:     mc.Assignment.DueDate,
			}
		}
		moduleViews = append(moduleViews, view)
	}

	courseSessions, err := s.sessions.ListByCourse(ctx, courseID, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course sessions")
	}

	detail := dto.CourseDetail{
		ID:               content.Course.ID,
		Title:            content.Course.Title,
		Description:      content.Course.Description,
		ThumbnailURL:     content.Course.ThumbnailURL,
		DurationMinutes:  content.Course.DurationMinutes,
		Progress:         courseSummary.Percent,
		CompletedLessons: courseSummary.CompletedCount,
		TotalLessons:     courseSummary.TotalCount,
		Modules:          moduleViews,
		Sessions:         redactAll(courseSessions),
	}

	return &dto.CourseDetailResponse{Course: detail}, nil
}

// GetModule returns the standalone module payload with lesson completion
// flags and the module's assignment and sessions.
func (s *CourseService) GetModule(ctx context.Context, userID, moduleID string) (*dto.ModuleDetailResponse, error) {
	module, err := s.courses.FindModuleByID(ctx, moduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch module")
	}

	if err := s.requireEnrollment(ctx, userID, module.CourseID); err != nil {
		return nil, err
	}

	course, err := s.courses.FindByID(ctx, module.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch course")
	}

	lessons, err := s.courses.ListLessonsByModule(ctx, moduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}

	lessonIDs := make([]string, 0, len(lessons))
	for _, lesson := range lessons {
		lessonIDs = append(lessonIDs, lesson.ID)
	}
	rows, err := s.progress.ListByUserAndLessons(ctx, userID, lessonIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load progress")
	}
	completed := CompletedLessonSet(rows)

	mp := ModuleProgress(lessons, completed)
	lessonRows := make([]dto.LessonRow, 0, len(lessons))
	for _, lesson := range SortLessons(lessons) {
		lessonRows = append(lessonRows, dto.LessonRow{
			ID:              lesson.ID,
			Title:           lesson.Title,
			Description:     lesson.Description,
			Objective:       lesson.Objective,
			DurationMinutes: lesson.DurationMinutes,
			Order:           lesson.Order,
			IsCompleted:     LessonCompleted(lesson.ID, completed),
			IsCurrent:       mp.CurrentLessonID != nil && *mp.CurrentLessonID == lesson.ID,
		})
	}

	assignment, err := s.courses.FindAssignmentByModule(ctx, moduleID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch assignment")
	}

	moduleSessions, err := s.sessions.ListByModule(ctx, moduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list module sessions")
	}

	detail := dto.ModuleDetail{
		ID:               module.ID,
		Title:            module.Title,
		Description:      module.Description,
		Objective:        module.Objective,
		Order:            module.Order,
		Course:           dto.CourseRef{ID: course.ID, Title: course.Title},
		Progress:         mp.Percent,
		CompletedLessons: mp.CompletedCount,
		LessonCount:      mp.TotalCount,
		Lessons:          lessonRows,
		Sessions:         redactAll(moduleSessions),
	}
	if assignment != nil {
		detail.Assignment = &dto.AssignmentInfo{
			ID:          assignment.ID,
			Title:       assignment.Title,
			Description: assignment.Description,
			DueDate:     assignment.DueDate,
		}
	}

	return &dto.ModuleDetailResponse{Module: detail}, nil
}

func (s *CourseService) requireEnrollment(ctx context.Context, userID, courseID string) error {
	enrolled, err := s.enrollments.Exists(ctx, userID, courseID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !enrolled {
		return appErrors.Clone(appErrors.ErrForbidden, "not enrolled in this course")
	}
	return nil
}

func (s *CourseService) completedSet(ctx context.Context, userID string) (map[string]struct{}, error) {
	rows, err := s.progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load progress")
	}
	return CompletedLessonSet(rows), nil
}

// buildCourseCard derives the catalogue card for one enrollment from a
// course content snapshot and the user's completed lesson set.
func buildCourseCard(enrollment models.Enrollment, content *models.CourseContent, completed map[string]struct{}) dto.CourseCard {
	summary := CourseProgress(content.Modules, completed)

	card := dto.CourseCard{
		ID:               content.Course.ID,
		Title:            content.Course.Title,
		Description:      content.Course.Description,
		ThumbnailURL:     content.Course.ThumbnailURL,
		DurationMinutes:  content.Course.DurationMinutes,
		ModuleCount:      summary.TotalModules,
		LessonCount:      summary.TotalCount,
		Progress:         summary.Percent,
		CompletedLessons: summary.CompletedCount,
		TotalLessons:     summary.TotalCount,
		EnrolledAt:       enrollment.EnrolledAt,
	}
	if summary.CurrentLessonID != nil {
		card.CurrentLesson = currentLessonRef(content, *summary.CurrentLessonID)
	}
	return card
}

func currentLessonRef(content *models.CourseContent, lessonID string) *dto.CurrentLessonRef {
	for _, mc := range content.Modules {
		for _, lesson := range mc.Lessons {
			if lesson.ID == lessonID {
				return &dto.CurrentLessonRef{
					ID:          lesson.ID,
					Title:       lesson.Title,
					ModuleID:    mc.Module.ID,
					ModuleTitle: mc.Module.Title,
				}
			}
		}
	}
	return nil
}

func redactAll(sessions []models.SessionDetail) []dto.SessionSummary {
	out := make([]dto.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, RedactSession(s))
	}
	return out
}
