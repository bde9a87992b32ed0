package groups

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillforge/backend/internal/models"
)

// Repository handles group and group_members persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a groups repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByID returns a group by ID, or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	const q = `SELECT id, organization_id, name, COALESCE(description,''), created_at, updated_at
		FROM groups WHERE id = $1`
	var g models.Group
	err := r.pool.QueryRow(ctx, q, id).Scan(&g.ID, &g.OrganizationID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListByOrganization returns the groups of one organization with their
// members eager-loaded.
func (r *Repository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.Group, error) {
	const q = `SELECT id, organization_id, name, COALESCE(description,''), created_at, updated_at
		FROM groups WHERE organization_id = $1 ORDER BY name`
	rows, err := r.pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Group
	byID := make(map[uuid.UUID]int)
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.OrganizationID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		byID[g.ID] = len(list)
		list = append(list, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}

	const mq = `SELECT gm.id, gm.group_id, gm.user_id, u.email, u.full_name, gm.created_at
		FROM group_members gm
		INNER JOIN groups g ON g.id = gm.group_id
		INNER JOIN users u ON u.id = gm.user_id
		WHERE g.organization_id = $1
		ORDER BY gm.created_at ASC`
	mrows, err := r.pool.Query(ctx, mq, orgID)
	if err != nil {
		return nil, err
	}
	defer mrows.Close()
	for mrows.Next() {
		var m models.GroupMember
		if err := mrows.Scan(&m.ID, &m.GroupID, &m.UserID, &m.Email, &m.FullName, &m.CreatedAt); err != nil {
			return nil, err
		}
		if i, ok := byID[m.GroupID]; ok {
			list[i].Members = append(list[i].Members, m)
		}
	}
	return list, mrows.Err()
}

// Create inserts a group and fills in generated fields.
func (r *Repository) Create(ctx context.Context, g *models.Group) error {
	const q = `INSERT INTO groups (organization_id, name, description)
		VALUES ($1, $2, NULLIF($3,''))
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, g.OrganizationID, g.Name, g.Description).
		Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
}

// GetMembership returns the membership row for (group, user), or nil.
func (r *Repository) GetMembership(ctx context.Context, groupID, userID uuid.UUID) (*models.GroupMember, error) {
	const q = `SELECT id, group_id, user_id, created_at FROM group_members
		WHERE group_id = $1 AND user_id = $2`
	var m models.GroupMember
	err := r.pool.QueryRow(ctx, q, groupID, userID).Scan(&m.ID, &m.GroupID, &m.UserID, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// AddMember inserts a membership row unless one already exists. The
// unique constraint on (group_id, user_id) makes the race safe; on
// conflict the insert is a no-op and nil is returned.
func (r *Repository) AddMember(ctx context.Context, groupID, userID uuid.UUID) (*models.GroupMember, error) {
	const q = `INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)
		ON CONFLICT (group_id, user_id) DO NOTHING
		RETURNING id, group_id, user_id, created_at`
	var m models.GroupMember
	err := r.pool.QueryRow(ctx, q, groupID, userID).Scan(&m.ID, &m.GroupID, &m.UserID, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// RemoveMember deletes a membership row, reporting whether one existed.
func (r *Repository) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
