package models

import (
	"time"

	"github.com/google/uuid"
)

// EnrollmentStatus is the progress state of an enrollment.
type EnrollmentStatus string

const (
	EnrollmentNotStarted EnrollmentStatus = "not_started"
	EnrollmentInProgress EnrollmentStatus = "in_progress"
	EnrollmentCompleted  EnrollmentStatus = "completed"
	EnrollmentArchived   EnrollmentStatus = "archived"
)

// TopicScoreNotAttempted is the sentinel score for a topic the user has
// not attempted yet.
const TopicScoreNotAttempted = -1

// TopicScore records a user's score for one course topic.
type TopicScore struct {
	TopicID   uuid.UUID `json:"topic_id"`
	TopicName string    `json:"topic_name"`
	Score     float64   `json:"score"`
}

// Enrollment joins a user to a course with progress state. At most one
// row exists per (user, course) pair; user and course always belong to
// the same organization.
type Enrollment struct {
	ID             uuid.UUID        `json:"id"`
	UserID         uuid.UUID        `json:"user_id"`
	CourseID       uuid.UUID        `json:"course_id"`
	Status         EnrollmentStatus `json:"status"`
	Progress       float64          `json:"progress"` // fraction in [0,1]
	Score          *float64         `json:"score,omitempty"`
	TopicScores    []TopicScore     `json:"topic_scores"`
	StartedAt      *time.Time       `json:"started_at,omitempty"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`
	LastAccessedAt *time.Time       `json:"last_accessed_at,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	// Course is the eagerly loaded course relation when the repository
	// fetched it; nil otherwise.
	Course *Course `json:"course,omitempty"`
}

// ClampProgress bounds a progress fraction to [0,1].
func ClampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
