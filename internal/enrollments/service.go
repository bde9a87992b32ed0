package enrollments

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/skillforge/backend/internal/authz"
	"github.com/skillforge/backend/internal/models"
	"github.com/skillforge/backend/pkg/apperr"
)

// Store is the persistence surface the service needs.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Enrollment, error)
	GetByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error)
	List(ctx context.Context, f Filter) ([]models.Enrollment, error)
	Create(ctx context.Context, e *models.Enrollment) (created bool, err error)
	Update(ctx context.Context, e *models.Enrollment) error
}

// UserSource loads users for ownership checks.
type UserSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// CourseSource loads courses for ownership checks.
type CourseSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

// Service implements the enrollment operations with their authorization
// protocol.
type Service struct {
	store   Store
	users   UserSource
	courses CourseSource
}

// NewService creates an enrollments service.
func NewService(store Store, users UserSource, courses CourseSource) *Service {
	return &Service{store: store, users: users, courses: courses}
}

// ListArgs are the optional filters for List.
type ListArgs struct {
	OrganizationID uuid.UUID
	CourseID       *uuid.UUID
	UserID         *uuid.UUID
}

// List returns the enrollments of the effective organization. Course and
// user filters must reference records of that organization.
func (s *Service) List(ctx context.Context, ac authz.Context, args ListArgs) ([]models.Enrollment, error) {
	p, err := authz.RequireMemberRole(ac, authz.RoleOrgAdmin, authz.RoleCoordinator)
	if err != nil {
		return nil, err
	}
	orgID, err := authz.ResolveOrganization(p, args.OrganizationID)
	if err != nil {
		return nil, err
	}
	if args.CourseID != nil {
		c, err := s.courses.GetByID(ctx, *args.CourseID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, apperr.NotFound("course not found")
		}
		if c.OrganizationID != orgID {
			return nil, apperr.Forbidden("course belongs to a different organization")
		}
	}
	if args.UserID != nil {
		u, err := s.users.GetByID(ctx, *args.UserID)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, apperr.NotFound("user not found")
		}
		if u.OrganizationID == nil || *u.OrganizationID != orgID {
			return nil, apperr.Forbidden("user belongs to a different organization")
		}
	}
	return s.store.List(ctx, Filter{OrganizationID: orgID, CourseID: args.CourseID, UserID: args.UserID})
}

// EnrollInput is the payload for Enroll.
type EnrollInput struct {
	UserID   uuid.UUID
	CourseID uuid.UUID
	Progress float64
}

// Enroll creates an enrollment for (user, course), or returns the
// existing one. Both the target user's and the target course's
// organization are enforced against the caller, and the two must match
// each other regardless of the caller's own organization.
func (s *Service) Enroll(ctx context.Context, ac authz.Context, in EnrollInput) (*models.Enrollment, error) {
	p, err := authz.RequireMemberRole(ac, authz.RoleOrgAdmin, authz.RoleCoordinator)
	if err != nil {
		return nil, err
	}
	if in.UserID == uuid.Nil || in.CourseID == uuid.Nil {
		return nil, apperr.BadInput("user id and course id are required")
	}

	u, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}
	if u.OrganizationID == nil {
		return nil, apperr.Forbidden("user does not belong to an organization")
	}
	if err := authz.EnsureSameOrganization(p, *u.OrganizationID); err != nil {
		return nil, err
	}

	c, err := s.courses.GetByID(ctx, in.CourseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("course not found")
	}
	if err := authz.EnsureSameOrganization(p, c.OrganizationID); err != nil {
		return nil, err
	}

	if *u.OrganizationID != c.OrganizationID {
		return nil, apperr.Forbidden("cross-organization enrollment")
	}

	if existing, err := s.store.GetByUserAndCourse(ctx, in.UserID, in.CourseID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	now := time.Now()
	e := &models.Enrollment{
		UserID:      in.UserID,
		CourseID:    in.CourseID,
		Status:      models.EnrollmentNotStarted,
		Progress:    models.ClampProgress(in.Progress),
		TopicScores: []models.TopicScore{},
	}
	if e.Progress > 0 {
		e.Status = models.EnrollmentInProgress
		e.StartedAt = &now
	}
	created, err := s.store.Create(ctx, e)
	if err != nil {
		return nil, err
	}
	if !created {
		// Lost the unique-constraint race; the winner's row is the
		// enrollment.
		return s.store.GetByUserAndCourse(ctx, in.UserID, in.CourseID)
	}
	return e, nil
}

// UpdateScoreInput carries the partial update for UpdateScore. Nil
// fields are left untouched; TopicScores replaces the stored list
// wholesale when supplied.
type UpdateScoreInput struct {
	Progress    *float64
	Score       *float64
	Status      *models.EnrollmentStatus
	TopicScores []models.TopicScore
}

// UpdateScore applies a partial update to an enrollment. The owning
// organization is resolved from the enrollment's course (with a direct
// course lookup as fallback) and enforced against the caller before any
// write.
func (s *Service) UpdateScore(ctx context.Context, ac authz.Context, id uuid.UUID, in UpdateScoreInput) (*models.Enrollment, error) {
	p, err := authz.RequireMemberRole(ac, authz.RoleOrgAdmin, authz.RoleCoordinator)
	if err != nil {
		return nil, err
	}
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, apperr.NotFound("enrollment not found")
	}

	owningOrg := uuid.Nil
	if e.Course != nil {
		owningOrg = e.Course.OrganizationID
	} else {
		c, err := s.courses.GetByID(ctx, e.CourseID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, apperr.NotFound("course not found")
		}
		owningOrg = c.OrganizationID
	}
	if err := authz.EnsureSameOrganization(p, owningOrg); err != nil {
		return nil, err
	}

	now := time.Now()
	if in.Progress != nil {
		e.Progress = models.ClampProgress(*in.Progress)
		if e.Progress > 0 && e.StartedAt == nil {
			e.StartedAt = &now
		}
		if e.Status == models.EnrollmentNotStarted && e.Progress > 0 {
			e.Status = models.EnrollmentInProgress
		}
	}
	if in.Score != nil {
		e.Score = in.Score
	}
	if in.TopicScores != nil {
		e.TopicScores = in.TopicScores
	}
	if in.Status != nil {
		switch *in.Status {
		case models.EnrollmentNotStarted, models.EnrollmentInProgress,
			models.EnrollmentCompleted, models.EnrollmentArchived:
		default:
			return nil, apperr.BadInput("invalid enrollment status")
		}
		if *in.Status == models.EnrollmentCompleted && e.Status != models.EnrollmentCompleted {
			e.CompletedAt = &now
		}
		e.Status = *in.Status
	}
	e.LastAccessedAt = &now

	if err := s.store.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}
