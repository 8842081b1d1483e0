package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/siolabs/learnhub-api/internal/models"
)

// CourseRepository loads course content: courses, modules, lessons,
// resources, and assignments.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByID returns a course by its ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, title, description, thumbnail_url, duration_minutes, created_at, updated_at FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindModuleByID returns a module by its ID.
func (r *CourseRepository) FindModuleByID(ctx context.Context, id string) (*models.Module, error) {
	const query = `SELECT id, course_id, title, description, objective, sort_order, created_at, updated_at FROM modules WHERE id = $1`
	var module models.Module
	if err := r.db.GetContext(ctx, &module, query, id); err != nil {
		return nil, err
	}
	return &module, nil
}

// FindLessonByID returns a lesson by its ID.
func (r *CourseRepository) FindLessonByID(ctx context.Context, id string) (*models.Lesson, error) {
	const query = `SELECT id, module_id, title, description, objective, video_url, duration_minutes, sort_order, created_at, updated_at FROM lessons WHERE id = $1`
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, id); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// ListLessonsByModule returns the lessons of one module.
func (r *CourseRepository) ListLessonsByModule(ctx context.Context, moduleID string) ([]models.Lesson, error) {
	const query = `SELECT id, module_id, title, description, objective, video_url, duration_minutes, sort_order, created_at, updated_at
        FROM lessons WHERE module_id = $1 ORDER BY sort_order ASC, id ASC`
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, moduleID); err != nil {
		return nil, fmt.Errorf("list module lessons: %w", err)
	}
	return lessons, nil
}

// ListResourcesByLesson returns the downloadable resources of a lesson.
func (r *CourseRepository) ListResourcesByLesson(ctx context.Context, lessonID string) ([]models.Resource, error) {
	const query = `SELECT id, lesson_id, title, type, url FROM resources WHERE lesson_id = $1 ORDER BY title ASC`
	var resources []models.Resource
	if err := r.db.SelectContext(ctx, &resources, query, lessonID); err != nil {
		return nil, fmt.Errorf("list lesson resources: %w", err)
	}
	return resources, nil
}

// FindAssignmentByModule returns the module's assignment, or nil when the
// module has none.
func (r *CourseRepository) FindAssignmentByModule(ctx context.Context, moduleID string) (*models.Assignment, error) {
	const query = `SELECT id, module_id, title, description, due_date FROM assignments WHERE module_id = $1 LIMIT 1`
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, moduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find module assignment: %w", err)
	}
	return &assignment, nil
}

// LoadContent assembles the full module/lesson/assignment snapshot of one
// course. It reads each table once and groups in memory so a single
// aggregation pass sees a consistent tree.
func (r *CourseRepository) LoadContent(ctx context.Context, courseID string) (*models.CourseContent, error) {
	course, err := r.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	const moduleQuery = `SELECT id, course_id, title, description, objective, sort_order, created_at, updated_at
        FROM modules WHERE course_id = $1 ORDER BY sort_order ASC, id ASC`
	var modules []models.Module
	if err := r.db.SelectContext(ctx, &modules, moduleQuery, courseID); err != nil {
		return nil, fmt.Errorf("list course modules: %w", err)
	}

	moduleIDs := make([]string, len(modules))
	for i, m := range modules {
		moduleIDs[i] = m.ID
	}

	lessonsByModule := map[string][]models.Lesson{}
	assignmentByModule := map[string]*models.Assignment{}
	if len(moduleIDs) > 0 {
		const lessonQuery = `SELECT id, module_id, title, description, objective, video_url, duration_minutes, sort_order, created_at, updated_at
            FROM lessons WHERE module_id = ANY($1) ORDER BY sort_order ASC, id ASC`
		var lessons []models.Lesson
		if err := r.db.SelectContext(ctx, &lessons, lessonQuery, pq.Array(moduleIDs)); err != nil {
			return nil, fmt.Errorf("list course lessons: %w", err)
		}
		for _, lesson := range lessons {
			lessonsByModule[lesson.ModuleID] = append(lessonsByModule[lesson.ModuleID], lesson)
		}

		const assignmentQuery = `SELECT id, module_id, title, description, due_date FROM assignments WHERE module_id = ANY($1)`
		var assignments []models.Assignment
		if err := r.db.SelectContext(ctx, &assignments, assignmentQuery, pq.Array(moduleIDs)); err != nil {
			return nil, fmt.Errorf("list course assignments: %w", err)
		}
		for i := range assignments {
			assignmentByModule[assignments[i].ModuleID] = &assignments[i]
		}
	}

	content := &models.CourseContent{Course: *course, Modules: make([]models.ModuleContent, 0, len(modules))}
	for _, module := range modules {
		content.Modules = append(content.Modules, models.ModuleContent{
			Module:     module,
			Lessons:    lessonsByModule[module.ID],
			Assignment: assignmentByModule[module.ID],
		})
	}
	return content, nil
}
