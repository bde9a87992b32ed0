package courses

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillforge/backend/internal/models"
)

// Repository handles course and course_topics persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a courses repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const courseColumns = `id, organization_id, title, COALESCE(description,''), COALESCE(category,''), level, status, estimated_minutes, created_at, updated_at`

// GetByID returns a course by ID, or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var c models.Course
	err := r.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id).
		Scan(&c.ID, &c.OrganizationID, &c.Title, &c.Description, &c.Category, &c.Level, &c.Status,
			&c.EstimatedMinutes, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByOrganization returns the courses of one organization, optionally
// filtered by a case-insensitive title/category substring.
func (r *Repository) ListByOrganization(ctx context.Context, orgID uuid.UUID, search string) ([]models.Course, error) {
	q := `SELECT ` + courseColumns + ` FROM courses WHERE organization_id = $1`
	args := []any{orgID}
	if search != "" {
		q += ` AND (title ILIKE '%' || $2 || '%' OR category ILIKE '%' || $2 || '%')`
		args = append(args, search)
	}
	q += ` ORDER BY title`
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.OrganizationID, &c.Title, &c.Description, &c.Category, &c.Level,
			&c.Status, &c.EstimatedMinutes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Create inserts a course and fills in generated fields.
func (r *Repository) Create(ctx context.Context, c *models.Course) error {
	const q = `INSERT INTO courses (organization_id, title, description, category, level, status, estimated_minutes)
		VALUES ($1, $2, NULLIF($3,''), NULLIF($4,''), $5, $6, $7)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, c.OrganizationID, c.Title, c.Description, c.Category,
		c.Level, c.Status, c.EstimatedMinutes).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// ListTopics returns a course's topics ordered by position.
func (r *Repository) ListTopics(ctx context.Context, courseID uuid.UUID) ([]models.CourseTopic, error) {
	const q = `SELECT id, course_id, position, name, COALESCE(summary,''), depends_on, estimated_minutes, created_at, updated_at
		FROM course_topics WHERE course_id = $1 ORDER BY position ASC`
	rows, err := r.pool.Query(ctx, q, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.CourseTopic
	for rows.Next() {
		var t models.CourseTopic
		if err := rows.Scan(&t.ID, &t.CourseID, &t.Position, &t.Name, &t.Summary, &t.DependsOn,
			&t.EstimatedMinutes, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// CreateTopic inserts a topic and fills in generated fields.
func (r *Repository) CreateTopic(ctx context.Context, t *models.CourseTopic) error {
	if t.DependsOn == nil {
		t.DependsOn = []uuid.UUID{}
	}
	const q = `INSERT INTO course_topics (course_id, position, name, summary, depends_on, estimated_minutes)
		VALUES ($1, $2, $3, NULLIF($4,''), $5, $6)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, t.CourseID, t.Position, t.Name, t.Summary, t.DependsOn, t.EstimatedMinutes).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}
