package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/siolabs/learnhub-api/internal/dto"
	"github.com/siolabs/learnhub-api/internal/models"
	appErrors "github.com/siolabs/learnhub-api/pkg/errors"
)

type lessonContentRepository interface {
	FindLessonByID(ctx context.Context, id string) (*models.Lesson, error)
	FindModuleByID(ctx context.Context, id string) (*models.Module, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ListLessonsByModule(ctx context.Context, moduleID string) ([]models.Lesson, error)
	ListResourcesByLesson(ctx context.Context, lessonID string) ([]models.Resource, error)
	LoadContent(ctx context.Context, courseID string) (*models.CourseContent, error)
}

type progressWriter interface {
	progressReader
	FindByUserAndLesson(ctx context.Context, userID, lessonID string) (*models.LessonProgress, error)
	MarkCompleted(ctx context.Context, userID, lessonID string, completedAt time.Time) error
	FindVideoProgress(ctx context.Context, userID, lessonID string) (*models.VideoProgress, error)
	UpsertVideoPosition(ctx context.Context, userID, lessonID string, positionSeconds int) error
}

// LessonService drives the lesson player: content, completion and video
// position checkpoints.
type LessonService struct {
	courses     lessonContentRepository
	enrollments enrollmentReader
	progress    progressWriter
	validator   *validator.Validate
	metrics     *MetricsService
	logger      *zap.Logger
	now         func() time.Time
}

// LessonServiceParams bundles LessonService dependencies.
type LessonServiceParams struct {
	Courses     lessonContentRepository
	Enrollments enrollmentReader
	Progress    progressWriter
	Validator   *validator.Validate
	Metrics     *MetricsService
	Logger      *zap.Logger
	Now         func() time.Time
}

// NewLessonService constructs a LessonService.
func NewLessonService(p LessonServiceParams) *LessonService {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.Validator == nil {
		p.Validator = validator.New()
	}
	if p.Now == nil {
		p.Now = func() time.Time { return time.Now().UTC() }
	}
	return &LessonService{
		courses:     p.Courses,
		enrollments: p.Enrollments,
		progress:    p.Progress,
		validator:   p.Validator,
		metrics:     p.Metrics,
		logger:      p.Logger,
		now:         p.Now,
	}
}

// GetLesson returns the lesson payload with resources, completion state,
// the saved video position and prev/next navigation within the module.
func (s *LessonService) GetLesson(ctx context.Context, userID, lessonID string) (*dto.LessonDetailResponse, error) {
	lesson, module, err := s.resolveLesson(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}

	course, err := s.courses.FindByID(ctx, module.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch course")
	}

	resources, err := s.courses.ListResourcesByLesson(ctx, lessonID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list resources")
	}

	progressRow, err := s.progress.FindByUserAndLesson(ctx, userID, lessonID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson progress")
	}

	videoRow, err := s.progress.FindVideoProgress(ctx, userID, lessonID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load video progress")
	}

	siblings, err := s.courses.ListLessonsByModule(ctx, module.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}
	prev, next := neighbours(SortLessons(siblings), lessonID)

	detail := dto.LessonDetail{
		ID:              lesson.ID,
		Title:           lesson.Title,
		Description:     lesson.Description,
		Objective:       lesson.Objective,
		VideoURL:        lesson.VideoURL,
		DurationMinutes: lesson.DurationMinutes,
		Order:           lesson.Order,
		Module: dto.LessonModuleRef{
			ID:          module.ID,
			Title:       module.Title,
			CourseID:    module.CourseID,
			CourseTitle: course.Title,
		},
		Resources: resources,
	}
	if progressRow != nil {
		detail.IsCompleted = progressRow.Completed
	}
	if videoRow != nil {
		detail.VideoProgress = videoRow.PositionSeconds
	}
	if prev != nil {
		detail.PrevLesson = &dto.LessonNavRef{ID: prev.ID, Title: prev.Title, ModuleID: module.ID}
	}
	if next != nil {
		detail.NextLesson = &dto.LessonNavRef{ID: next.ID, Title: next.Title, ModuleID: module.ID}
	}

	return &dto.LessonDetailResponse{Lesson: detail}, nil
}

// Complete marks the lesson completed for the user and returns the
// recomputed module and course percentages. Completing an already
// completed lesson is a no-op that reports identical numbers.
func (s *LessonService) Complete(ctx context.Context, userID, lessonID string) (*dto.CompleteLessonResponse, error) {
	_, module, err := s.resolveLesson(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}

	if err := s.progress.MarkCompleted(ctx, userID, lessonID, s.now()); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record completion")
	}

	content, err := s.courses.LoadContent(ctx, module.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course content")
	}

	rows, err := s.progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load progress")
	}
	completed := CompletedLessonSet(rows)

	courseSummary := CourseProgress(content.Modules, completed)
	moduleSummary := ModuleProgressSummary{}
	for _, mc := range content.Modules {
		if mc.Module.ID == module.ID {
			moduleSummary = ModuleProgress(mc.Lessons, completed)
			break
		}
	}

	s.metrics.RecordCompletion()
	s.logger.Info("lesson completed",
		zap.String("user_id", userID),
		zap.String("lesson_id", lessonID),
		zap.Int("course_progress", courseSummary.Percent),
	)

	return &dto.CompleteLessonResponse{
		Success: true,
		Progress: dto.CompletionProgress{
			LessonCompleted: true,
			ModuleProgress:  moduleSummary.Percent,
			CourseProgress:  courseSummary.Percent,
		},
	}, nil
}

// RecordVideoPosition upserts the playback checkpoint for the lesson.
// Writes are last-write-wins; positions are absolute, not deltas.
func (s *LessonService) RecordVideoPosition(ctx context.Context, userID, lessonID string, req dto.VideoProgressRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.FromValidation(err, "invalid video progress payload")
	}

	if _, _, err := s.resolveLesson(ctx, userID, lessonID); err != nil {
		return err
	}

	if err := s.progress.UpsertVideoPosition(ctx, userID, lessonID, *req.PositionSeconds); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save video position")
	}
	return nil
}

// resolveLesson fetches the lesson and its module, enforcing the standard
// ordering: a missing lesson is NotFound, an existing lesson outside the
// user's enrollments is Forbidden.
func (s *LessonService) resolveLesson(ctx context.Context, userID, lessonID string) (*models.Lesson, *models.Module, error) {
	lesson, err := s.courses.FindLessonByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch lesson")
	}

	module, err := s.courses.FindModuleByID(ctx, lesson.ModuleID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch module")
	}

	enrolled, err := s.enrollments.Exists(ctx, userID, module.CourseID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !enrolled {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "not enrolled in this course")
	}

	return lesson, module, nil
}

func neighbours(sorted []models.Lesson, lessonID string) (prev, next *models.Lesson) {
	for i := range sorted {
		if sorted[i].ID == lessonID {
			if i > 0 {
				prev = &sorted[i-1]
			}
			if i < len(sorted)-1 {
				next = &sorted[i+1]
			}
			return prev, next
		}
	}
	return nil, nil
}
