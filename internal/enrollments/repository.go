package enrollments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillforge/backend/internal/models"
)

// Repository handles enrollment persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an enrollments repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const enrollmentColumns = `e.id, e.user_id, e.course_id, e.status, e.progress, e.score, e.topic_scores,
	e.started_at, e.completed_at, e.last_accessed_at, e.created_at, e.updated_at`

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var e models.Enrollment
	err := row.Scan(&e.ID, &e.UserID, &e.CourseID, &e.Status, &e.Progress, &e.Score, &e.TopicScores,
		&e.StartedAt, &e.CompletedAt, &e.LastAccessedAt, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByID returns an enrollment with its course relation eager-loaded,
// or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Enrollment, error) {
	const q = `SELECT ` + enrollmentColumns + `,
		c.id, c.organization_id, c.title, COALESCE(c.description,''), COALESCE(c.category,''), c.level, c.status, c.estimated_minutes, c.created_at, c.updated_at
		FROM enrollments e
		INNER JOIN courses c ON c.id = e.course_id
		WHERE e.id = $1`
	var e models.Enrollment
	var c models.Course
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&e.ID, &e.UserID, &e.CourseID, &e.Status, &e.Progress, &e.Score, &e.TopicScores,
		&e.StartedAt, &e.CompletedAt, &e.LastAccessedAt, &e.CreatedAt, &e.UpdatedAt,
		&c.ID, &c.OrganizationID, &c.Title, &c.Description, &c.Category, &c.Level, &c.Status,
		&c.EstimatedMinutes, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.Course = &c
	return &e, nil
}

// GetByUserAndCourse returns the enrollment for (user, course), or nil.
func (r *Repository) GetByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	const q = `SELECT ` + enrollmentColumns + ` FROM enrollments e
		WHERE e.user_id = $1 AND e.course_id = $2`
	return scanEnrollment(r.pool.QueryRow(ctx, q, userID, courseID))
}

// Filter narrows List to one organization and optionally one course or
// one user. A zero OrganizationID means unscoped (callers must have
// applied tenant checks already).
type Filter struct {
	OrganizationID uuid.UUID
	CourseID       *uuid.UUID
	UserID         *uuid.UUID
}

// List returns enrollments matching the filter, newest first.
func (r *Repository) List(ctx context.Context, f Filter) ([]models.Enrollment, error) {
	q := `SELECT ` + enrollmentColumns + ` FROM enrollments e
		INNER JOIN courses c ON c.id = e.course_id
		WHERE 1=1`
	var args []any
	if f.OrganizationID != uuid.Nil {
		args = append(args, f.OrganizationID)
		q += fmt.Sprintf(` AND c.organization_id = $%d`, len(args))
	}
	if f.CourseID != nil {
		args = append(args, *f.CourseID)
		q += fmt.Sprintf(` AND e.course_id = $%d`, len(args))
	}
	if f.UserID != nil {
		args = append(args, *f.UserID)
		q += fmt.Sprintf(` AND e.user_id = $%d`, len(args))
	}
	q += ` ORDER BY e.created_at DESC`
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		if err := rows.Scan(&e.ID, &e.UserID, &e.CourseID, &e.Status, &e.Progress, &e.Score, &e.TopicScores,
			&e.StartedAt, &e.CompletedAt, &e.LastAccessedAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// ListByCourse returns all enrollments of one course.
func (r *Repository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Enrollment, error) {
	id := courseID
	return r.List(ctx, Filter{OrganizationID: uuid.Nil, CourseID: &id})
}

// Create inserts an enrollment row unless one already exists for the
// (user, course) pair. The unique constraint makes the concurrent
// find-or-create race safe: the loser sees created=false and re-reads
// the winner's row.
func (r *Repository) Create(ctx context.Context, e *models.Enrollment) (created bool, err error) {
	if e.TopicScores == nil {
		e.TopicScores = []models.TopicScore{}
	}
	const q = `INSERT INTO enrollments (user_id, course_id, status, progress, score, topic_scores, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, course_id) DO NOTHING
		RETURNING id, created_at, updated_at`
	err = r.pool.QueryRow(ctx, q, e.UserID, e.CourseID, e.Status, e.Progress, e.Score, e.TopicScores, e.StartedAt).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Update persists the mutable fields of an enrollment.
func (r *Repository) Update(ctx context.Context, e *models.Enrollment) error {
	if e.TopicScores == nil {
		e.TopicScores = []models.TopicScore{}
	}
	const q = `UPDATE enrollments SET status = $2, progress = $3, score = $4, topic_scores = $5,
		started_at = $6, completed_at = $7, last_accessed_at = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	return r.pool.QueryRow(ctx, q, e.ID, e.Status, e.Progress, e.Score, e.TopicScores,
		e.StartedAt, e.CompletedAt, e.LastAccessedAt).Scan(&e.UpdatedAt)
}
