package analytics

import (
	"context"

	"github.com/google/uuid"

	"github.com/skillforge/backend/internal/authz"
	"github.com/skillforge/backend/internal/models"
	"github.com/skillforge/backend/pkg/apperr"
)

// OrganizationSource loads the organization under report.
type OrganizationSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
}

// CourseSource lists an organization's courses.
type CourseSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID, search string) ([]models.Course, error)
}

// EnrollmentSource loads the enrollments aggregation runs over.
type EnrollmentSource interface {
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Enrollment, error)
}

// UserSource resolves user identities for per-employee breakdowns.
type UserSource interface {
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.UserPublic, error)
}

// Service produces derived reporting over already-scoped rows.
type Service struct {
	orgs        OrganizationSource
	courses     CourseSource
	enrollments EnrollmentSource
	users       UserSource
}

// NewService creates an analytics service.
func NewService(orgs OrganizationSource, courses CourseSource, enrollments EnrollmentSource, users UserSource) *Service {
	return &Service{orgs: orgs, courses: courses, enrollments: enrollments, users: users}
}

// CourseReport pairs a course with its computed metrics.
type CourseReport struct {
	Course  models.Course `json:"course"`
	Metrics CourseMetrics `json:"metrics"`
}

// Dashboard is the organization-level reporting payload.
type Dashboard struct {
	Organization     models.Organization `json:"organization"`
	Courses          []CourseReport      `json:"courses"`
	AverageScore     *float64            `json:"average_score"`
	TotalEnrollments int                 `json:"total_enrollments"`
	TotalCompleted   int                 `json:"total_completed"`
}

// EmployeeCourseEntry is one employee's standing in one course.
type EmployeeCourseEntry struct {
	CourseID    uuid.UUID               `json:"course_id"`
	CourseTitle string                  `json:"course_title"`
	Status      models.EnrollmentStatus `json:"status"`
	Progress    float64                 `json:"progress"`
	Score       *float64                `json:"score"`
	TopicScores []models.TopicScore     `json:"topic_scores"`
}

// EmployeeScores is one employee's scores across the reported courses.
type EmployeeScores struct {
	User    models.UserPublic     `json:"user"`
	Courses []EmployeeCourseEntry `json:"courses"`
}

// requireReportAccess admits system administrators unconditionally and
// organization administrators or coordinators of the reported
// organization.
func requireReportAccess(ac authz.Context, orgID uuid.UUID) error {
	p, err := authz.RequireAuthenticated(ac)
	if err != nil {
		return err
	}
	if p.IsSystemAdmin() {
		return nil
	}
	if !p.Roles.HasAny(authz.RoleOrgAdmin, authz.RoleCoordinator) {
		return apperr.Forbidden("insufficient role")
	}
	return authz.EnsureSameOrganization(p, orgID)
}

// Dashboard computes per-course metrics and organization totals. Course
// metrics are memoized in a request-local map so the organization
// average reuses the per-course results; nothing is cached across
// requests.
func (s *Service) Dashboard(ctx context.Context, ac authz.Context, orgID uuid.UUID) (*Dashboard, error) {
	if orgID == uuid.Nil {
		return nil, apperr.BadInput("organization id is required")
	}
	if err := requireReportAccess(ac, orgID); err != nil {
		return nil, err
	}
	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperr.NotFound("organization not found")
	}

	courses, err := s.courses.ListByOrganization(ctx, orgID, "")
	if err != nil {
		return nil, err
	}

	memo := make(map[uuid.UUID]CourseMetrics, len(courses))
	d := &Dashboard{Organization: *org, Courses: make([]CourseReport, 0, len(courses))}
	perCourse := make([]CourseMetrics, 0, len(courses))
	for _, c := range courses {
		m, ok := memo[c.ID]
		if !ok {
			rows, err := s.enrollments.ListByCourse(ctx, c.ID)
			if err != nil {
				return nil, err
			}
			m = ComputeCourseMetrics(rows)
			memo[c.ID] = m
		}
		d.Courses = append(d.Courses, CourseReport{Course: c, Metrics: m})
		perCourse = append(perCourse, m)
		d.TotalEnrollments += m.EnrolledCount
		d.TotalCompleted += m.CompletedCount
	}
	d.AverageScore = OrganizationAverage(perCourse)
	return d, nil
}

// EmployeeCourseScores breaks scores down per employee, optionally
// restricted to one course of the organization.
func (s *Service) EmployeeCourseScores(ctx context.Context, ac authz.Context, orgID uuid.UUID, courseID *uuid.UUID) ([]EmployeeScores, error) {
	if orgID == uuid.Nil {
		return nil, apperr.BadInput("organization id is required")
	}
	if err := requireReportAccess(ac, orgID); err != nil {
		return nil, err
	}
	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperr.NotFound("organization not found")
	}

	var courses []models.Course
	if courseID != nil {
		c, err := s.courses.GetByID(ctx, *courseID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, apperr.NotFound("course not found")
		}
		if c.OrganizationID != orgID {
			return nil, apperr.Forbidden("course belongs to a different organization")
		}
		courses = []models.Course{*c}
	} else {
		courses, err = s.courses.ListByOrganization(ctx, orgID, "")
		if err != nil {
			return nil, err
		}
	}

	users, err := s.users.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	byUser := make(map[uuid.UUID]*EmployeeScores, len(users))
	out := make([]EmployeeScores, 0, len(users))
	for i, u := range users {
		out = append(out, EmployeeScores{User: u, Courses: []EmployeeCourseEntry{}})
		byUser[u.ID] = &out[i]
	}

	for _, c := range courses {
		rows, err := s.enrollments.ListByCourse(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		for _, e := range rows {
			emp, ok := byUser[e.UserID]
			if !ok {
				continue
			}
			emp.Courses = append(emp.Courses, EmployeeCourseEntry{
				CourseID:    c.ID,
				CourseTitle: c.Title,
				Status:      e.Status,
				Progress:    e.Progress,
				Score:       e.Score,
				TopicScores: e.TopicScores,
			})
		}
	}
	return out, nil
}
