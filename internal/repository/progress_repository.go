package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/siolabs/learnhub-api/internal/models"
)

// ProgressRepository persists lesson completion and video checkpoint rows.
// Both tables are keyed by a unique (user_id, lesson_id) pair and only ever
// upserted; rows are never deleted.
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository constructs the repository.
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// ListByUser returns every lesson progress row of the user.
func (r *ProgressRepository) ListByUser(ctx context.Context, userID string) ([]models.LessonProgress, error) {
	const query = `SELECT id, user_id, lesson_id, completed, completed_at FROM lesson_progress WHERE user_id = $1`
	var rows []models.LessonProgress
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list lesson progress: %w", err)
	}
	return rows, nil
}

// ListByUserAndLessons returns the user's progress rows restricted to the
// given lessons.
func (r *ProgressRepository) ListByUserAndLessons(ctx context.Context, userID string, lessonIDs []string) ([]models.LessonProgress, error) {
	if len(lessonIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT id, user_id, lesson_id, completed, completed_at FROM lesson_progress WHERE user_id = $1 AND lesson_id = ANY($2)`
	var rows []models.LessonProgress
	if err := r.db.SelectContext(ctx, &rows, query, userID, pq.Array(lessonIDs)); err != nil {
		return nil, fmt.Errorf("list lesson progress: %w", err)
	}
	return rows, nil
}

// FindByUserAndLesson returns the single progress row for the pair.
func (r *ProgressRepository) FindByUserAndLesson(ctx context.Context, userID, lessonID string) (*models.LessonProgress, error) {
	const query = `SELECT id, user_id, lesson_id, completed, completed_at FROM lesson_progress WHERE user_id = $1 AND lesson_id = $2`
	var row models.LessonProgress
	if err := r.db.GetContext(ctx, &row, query, userID, lessonID); err != nil {
		return nil, err
	}
	return &row, nil
}

// MarkCompleted upserts the completion row for (userID, lessonID). Calling
// it again for an already completed lesson refreshes completed_at but is
// otherwise a no-op.
func (r *ProgressRepository) MarkCompleted(ctx context.Context, userID, lessonID string, completedAt time.Time) error {
	const query = `INSERT INTO lesson_progress (id, user_id, lesson_id, completed, completed_at)
        VALUES ($1, $2, $3, TRUE, $4)
        ON CONFLICT (user_id, lesson_id) DO UPDATE SET completed = TRUE, completed_at = EXCLUDED.completed_at`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID, lessonID, completedAt); err != nil {
		return fmt.Errorf("mark lesson completed: %w", err)
	}
	return nil
}

// FindVideoProgress returns the stored playback checkpoint for the pair.
func (r *ProgressRepository) FindVideoProgress(ctx context.Context, userID, lessonID string) (*models.VideoProgress, error) {
	const query = `SELECT id, user_id, lesson_id, position_seconds, updated_at FROM video_progress WHERE user_id = $1 AND lesson_id = $2`
	var row models.VideoProgress
	if err := r.db.GetContext(ctx, &row, query, userID, lessonID); err != nil {
		return nil, err
	}
	return &row, nil
}

// UpsertVideoPosition stores the latest checkpoint, last write wins. No
// monotonicity is enforced; the client may legitimately seek backward.
func (r *ProgressRepository) UpsertVideoPosition(ctx context.Context, userID, lessonID string, positionSeconds int) error {
	const query = `INSERT INTO video_progress (id, user_id, lesson_id, position_seconds, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id, lesson_id) DO UPDATE SET position_seconds = EXCLUDED.position_seconds, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID, lessonID, positionSeconds, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert video position: %w", err)
	}
	return nil
}
