package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a tenant. All course, user, group and enrollment
// data is scoped to exactly one organization.
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	TaxID     string    `json:"tax_id,omitempty"`
	Domain    string    `json:"domain,omitempty"`
	PlanTier  string    `json:"plan_tier"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
