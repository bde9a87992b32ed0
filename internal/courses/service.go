package courses

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/skillforge/backend/internal/authz"
	"github.com/skillforge/backend/internal/models"
	"github.com/skillforge/backend/pkg/apperr"
)

// Store is the persistence surface the service needs.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID, search string) ([]models.Course, error)
	Create(ctx context.Context, c *models.Course) error
	ListTopics(ctx context.Context, courseID uuid.UUID) ([]models.CourseTopic, error)
	CreateTopic(ctx context.Context, t *models.CourseTopic) error
}

// Service implements the course operations with their authorization
// protocol.
type Service struct {
	store Store
}

// NewService creates a courses service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the courses of the effective organization.
func (s *Service) List(ctx context.Context, ac authz.Context, requestedOrg uuid.UUID, search string) ([]models.Course, error) {
	p, err := authz.RequireMember(ac)
	if err != nil {
		return nil, err
	}
	orgID, err := authz.ResolveOrganization(p, requestedOrg)
	if err != nil {
		return nil, err
	}
	return s.store.ListByOrganization(ctx, orgID, strings.TrimSpace(search))
}

// Get returns one course with its topics. The record is fetched first,
// then its owning organization is enforced against the caller; system
// administrators bypass the tenant check.
func (s *Service) Get(ctx context.Context, ac authz.Context, id uuid.UUID) (*models.Course, error) {
	p, err := authz.RequireAuthenticated(ac)
	if err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		return nil, apperr.BadInput("course id is required")
	}
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("course not found")
	}
	if !p.IsSystemAdmin() {
		if err := authz.EnsureSameOrganization(p, c.OrganizationID); err != nil {
			return nil, err
		}
	}
	topics, err := s.store.ListTopics(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Topics = topics
	return c, nil
}

// CreateInput is the payload for Create.
type CreateInput struct {
	OrganizationID   uuid.UUID // zero value means the caller's own org
	Title            string
	Description      string
	Category         string
	Level            models.CourseLevel
	Status           models.CourseStatus
	EstimatedMinutes int
}

// Create adds a course to the effective organization. The resolved
// organization is enforced before the write.
func (s *Service) Create(ctx context.Context, ac authz.Context, in CreateInput) (*models.Course, error) {
	p, err := authz.RequireMemberRole(ac, authz.RoleOrgAdmin, authz.RoleCoordinator)
	if err != nil {
		return nil, err
	}
	orgID, err := authz.ResolveOrganization(p, in.OrganizationID)
	if err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, apperr.BadInput("course title is required")
	}
	if in.Level == "" {
		in.Level = models.LevelBeginner
	}
	switch in.Level {
	case models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced:
	default:
		return nil, apperr.BadInput("invalid course level")
	}
	if in.Status == "" {
		in.Status = models.CourseDraft
	}
	switch in.Status {
	case models.CourseDraft, models.CoursePublished, models.CourseArchived:
	default:
		return nil, apperr.BadInput("invalid course status")
	}
	if in.EstimatedMinutes < 0 {
		return nil, apperr.BadInput("estimated duration must not be negative")
	}

	c := &models.Course{
		OrganizationID:   orgID,
		Title:            in.Title,
		Description:      in.Description,
		Category:         in.Category,
		Level:            in.Level,
		Status:           in.Status,
		EstimatedMinutes: in.EstimatedMinutes,
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// TopicInput is the payload for AddTopic.
type TopicInput struct {
	Name             string
	Summary          string
	DependsOn        []uuid.UUID
	EstimatedMinutes int
}

// AddTopic appends a topic to a course. Dependencies must reference
// existing topics of the same course and may not close a cycle.
func (s *Service) AddTopic(ctx context.Context, ac authz.Context, courseID uuid.UUID, in TopicInput) (*models.CourseTopic, error) {
	p, err := authz.RequireMemberRole(ac, authz.RoleOrgAdmin, authz.RoleCoordinator)
	if err != nil {
		return nil, err
	}
	c, err := s.store.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("course not found")
	}
	if err := authz.EnsureSameOrganization(p, c.OrganizationID); err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, apperr.BadInput("topic name is required")
	}

	topics, err := s.store.ListTopics(ctx, courseID)
	if err != nil {
		return nil, err
	}
	known := make(map[uuid.UUID]struct{}, len(topics))
	position := 0
	for _, t := range topics {
		known[t.ID] = struct{}{}
		if t.Position > position {
			position = t.Position
		}
	}
	deps := dedupe(in.DependsOn)
	for _, d := range deps {
		if _, ok := known[d]; !ok {
			return nil, apperr.BadInput("dependency does not reference a topic of this course")
		}
	}
	newID := uuid.New()
	if hasCycle(topics, newID, deps) {
		return nil, apperr.BadInput("dependency would create a cycle")
	}

	t := &models.CourseTopic{
		ID:               newID,
		CourseID:         courseID,
		Position:         position + 1,
		Name:             in.Name,
		Summary:          in.Summary,
		DependsOn:        deps,
		EstimatedMinutes: in.EstimatedMinutes,
	}
	if err := s.store.CreateTopic(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// hasCycle reports whether the dependency graph of the existing topics
// plus the candidate topic contains a cycle.
func hasCycle(topics []models.CourseTopic, newID uuid.UUID, newDeps []uuid.UUID) bool {
	adj := make(map[uuid.UUID][]uuid.UUID, len(topics)+1)
	for _, t := range topics {
		adj[t.ID] = t.DependsOn
	}
	adj[newID] = newDeps

	const (
		visiting = 1
		done     = 2
	)
	state := make(map[uuid.UUID]int, len(adj))
	var visit func(id uuid.UUID) bool
	visit = func(id uuid.UUID) bool {
		switch state[id] {
		case visiting:
			return true
		case done:
			return false
		}
		state[id] = visiting
		for _, d := range adj[id] {
			if visit(d) {
				return true
			}
		}
		state[id] = done
		return false
	}
	for id := range adj {
		if visit(id) {
			return true
		}
	}
	return false
}
