package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/siolabs/learnhub-api/internal/models"
)

// SessionRepository handles persistence of live sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionDetailColumns = `s.id, s.course_id, s.module_id, s.title, s.description, s.scheduled_at, s.duration_minutes, s.status, s.join_url, s.recording_url,
        c.title AS course_title, m.title AS module_title`

const sessionDetailJoins = `FROM live_sessions s
        JOIN courses c ON c.id = s.course_id
        LEFT JOIN modules m ON m.id = s.module_id`

// FindDetailByID returns one session with course and module titles.
func (r *SessionRepository) FindDetailByID(ctx context.Context, id string) (*models.SessionDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE s.id = $1`, sessionDetailColumns, sessionDetailJoins)
	var session models.SessionDetail
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListUpcomingByCourses returns SCHEDULED and LIVE sessions for the given
// courses inside the [from, to] window, ascending by scheduled time.
// Already-running LIVE sessions are included regardless of the lower
// bound.
func (r *SessionRepository) ListUpcomingByCourses(ctx context.Context, courseIDs []string, from, to time.Time) ([]models.SessionDetail, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s %s
        WHERE s.course_id = ANY($1)
          AND s.scheduled_at <= $3
          AND (s.status = $4 OR (s.status = $5 AND s.scheduled_at >= $2))
        ORDER BY s.scheduled_at ASC, s.id ASC`, sessionDetailColumns, sessionDetailJoins)
	var sessions []models.SessionDetail
	if err := r.db.SelectContext(ctx, &sessions, query, pq.Array(courseIDs), from, to,
		models.SessionStatusLive, models.SessionStatusScheduled); err != nil {
		return nil, fmt.Errorf("list upcoming sessions: %w", err)
	}
	return sessions, nil
}

// ListByCourse returns the course's non-cancelled sessions, course-level
// ones only when moduleScoped is false.
func (r *SessionRepository) ListByCourse(ctx context.Context, courseID string, courseLevelOnly bool) ([]models.SessionDetail, error) {
	where := "s.course_id = $1 AND s.status <> $2"
	if courseLevelOnly {
		where += " AND s.module_id IS NULL"
	}
	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY s.scheduled_at ASC, s.id ASC`, sessionDetailColumns, sessionDetailJoins, where)
	var sessions []models.SessionDetail
	if err := r.db.SelectContext(ctx, &sessions, query, courseID, models.SessionStatusCancelled); err != nil {
		return nil, fmt.Errorf("list course sessions: %w", err)
	}
	return sessions, nil
}

// ListByModule returns the module's non-cancelled sessions.
func (r *SessionRepository) ListByModule(ctx context.Context, moduleID string) ([]models.SessionDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE s.module_id = $1 AND s.status <> $2 ORDER BY s.scheduled_at ASC, s.id ASC`, sessionDetailColumns, sessionDetailJoins)
	var sessions []models.SessionDetail
	if err := r.db.SelectContext(ctx, &sessions, query, moduleID, models.SessionStatusCancelled); err != nil {
		return nil, fmt.Errorf("list module sessions: %w", err)
	}
	return sessions, nil
}
