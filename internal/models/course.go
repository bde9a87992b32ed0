package models

import (
	"time"

	"github.com/google/uuid"
)

// CourseLevel is the difficulty classification of a course.
type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

// CourseStatus is the publishing state of a course.
type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
	CourseArchived  CourseStatus = "archived"
)

// Course belongs to exactly one organization.
type Course struct {
	ID               uuid.UUID     `json:"id"`
	OrganizationID   uuid.UUID     `json:"organization_id"`
	Title            string        `json:"title"`
	Description      string        `json:"description,omitempty"`
	Category         string        `json:"category,omitempty"`
	Level            CourseLevel   `json:"level"`
	Status           CourseStatus  `json:"status"`
	EstimatedMinutes int           `json:"estimated_minutes"`
	Topics           []CourseTopic `json:"topics,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// CourseTopic is one unit of a course, ordered by Position. DependsOn
// lists topic ids that must be completed first; the write path keeps the
// declared edges acyclic.
type CourseTopic struct {
	ID               uuid.UUID   `json:"id"`
	CourseID         uuid.UUID   `json:"course_id"`
	Position         int         `json:"position"`
	Name             string      `json:"name"`
	Summary          string      `json:"summary,omitempty"`
	DependsOn        []uuid.UUID `json:"depends_on"`
	EstimatedMinutes int         `json:"estimated_minutes"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}
