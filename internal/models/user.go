package models

import (
	"time"

	"github.com/google/uuid"
)

// UserStatus is the account lifecycle state.
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
	UserInvited  UserStatus = "invited"
)

// User represents a platform user. OrganizationID is nil for
// pre-provisioned accounts and for system administrators, who are not
// scoped to any tenant.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	Password       string     `json:"-"`
	FullName       string     `json:"full_name"`
	Roles          []string   `json:"roles"`
	Status         UserStatus `json:"status"`
	Theme          string     `json:"theme"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// UserPublic is User without sensitive fields for API responses.
type UserPublic struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	FullName       string     `json:"full_name"`
	Roles          []string   `json:"roles"`
	Status         UserStatus `json:"status"`
	Theme          string     `json:"theme"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ToPublic converts User to UserPublic.
func (u *User) ToPublic() UserPublic {
	return UserPublic{
		ID:             u.ID,
		Email:          u.Email,
		FullName:       u.FullName,
		Roles:          u.Roles,
		Status:         u.Status,
		Theme:          u.Theme,
		OrganizationID: u.OrganizationID,
		CreatedAt:      u.CreatedAt,
	}
}
