package analytics

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/backend/internal/authz"
	"github.com/skillforge/backend/internal/models"
	"github.com/skillforge/backend/pkg/apperr"
)

type fakeOrgs struct {
	orgs []models.Organization
}

func (s *fakeOrgs) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	for i := range s.orgs {
		if s.orgs[i].ID == id {
			return &s.orgs[i], nil
		}
	}
	return nil, nil
}

type fakeCourses struct {
	courses []models.Course
}

func (s *fakeCourses) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	for i := range s.courses {
		if s.courses[i].ID == id {
			return &s.courses[i], nil
		}
	}
	return nil, nil
}

func (s *fakeCourses) ListByOrganization(ctx context.Context, orgID uuid.UUID, search string) ([]models.Course, error) {
	var out []models.Course
	for _, c := range s.courses {
		if c.OrganizationID == orgID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeEnrollments struct {
	rows  map[uuid.UUID][]models.Enrollment
	calls map[uuid.UUID]int
}

func (s *fakeEnrollments) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Enrollment, error) {
	if s.calls == nil {
		s.calls = map[uuid.UUID]int{}
	}
	s.calls[courseID]++
	return s.rows[courseID], nil
}

type fakeUsers struct {
	users []models.UserPublic
}

func (s *fakeUsers) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.UserPublic, error) {
	var out []models.UserPublic
	for _, u := range s.users {
		if u.OrganizationID != nil && *u.OrganizationID == orgID {
			out = append(out, u)
		}
	}
	return out, nil
}

func orgAdminCtx(org uuid.UUID) authz.Context {
	return authz.NewContext(&authz.Principal{ID: uuid.New(), OrganizationID: &org,
		Roles: authz.RoleSet{authz.RoleOrgAdmin}})
}

func sysadminCtx() authz.Context {
	return authz.NewContext(&authz.Principal{ID: uuid.New(),
		Roles: authz.RoleSet{authz.RoleSystemAdmin}})
}

func dashboardFixture() (*Service, models.Organization, models.Course, models.Course, *fakeEnrollments) {
	org := models.Organization{ID: uuid.New(), Name: "Acme", Slug: "acme"}
	scored := models.Course{ID: uuid.New(), OrganizationID: org.ID, Title: "Onboarding"}
	empty := models.Course{ID: uuid.New(), OrganizationID: org.ID, Title: "Compliance"}
	enr := &fakeEnrollments{rows: map[uuid.UUID][]models.Enrollment{
		scored.ID: {
			{UserID: uuid.New(), CourseID: scored.ID, Status: models.EnrollmentCompleted, Score: f(80)},
			{UserID: uuid.New(), CourseID: scored.ID, Status: models.EnrollmentInProgress},
		},
	}}
	svc := NewService(&fakeOrgs{orgs: []models.Organization{org}},
		&fakeCourses{courses: []models.Course{scored, empty}}, enr, &fakeUsers{})
	return svc, org, scored, empty, enr
}

func TestDashboardAggregates(t *testing.T) {
	svc, org, scored, _, enr := dashboardFixture()

	d, err := svc.Dashboard(context.Background(), orgAdminCtx(org.ID), org.ID)
	require.NoError(t, err)
	require.Len(t, d.Courses, 2)

	require.NotNil(t, d.AverageScore)
	assert.Equal(t, 80.0, *d.AverageScore, "course with no scores does not drag the average")
	assert.Equal(t, 2, d.TotalEnrollments)
	assert.Equal(t, 1, d.TotalCompleted)
	assert.Equal(t, 1, enr.calls[scored.ID], "each course is aggregated once per request")
}

func TestDashboardSysadminBypassesIsolation(t *testing.T) {
	svc, org, _, _, _ := dashboardFixture()

	_, err := svc.Dashboard(context.Background(), sysadminCtx(), org.ID)
	assert.NoError(t, err)
}

func TestDashboardForeignOrgForbidden(t *testing.T) {
	svc, org, _, _, _ := dashboardFixture()

	_, err := svc.Dashboard(context.Background(), orgAdminCtx(uuid.New()), org.ID)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))
}

func TestDashboardStaffForbidden(t *testing.T) {
	svc, org, _, _, _ := dashboardFixture()
	staff := authz.NewContext(&authz.Principal{ID: uuid.New(), OrganizationID: &org.ID,
		Roles: authz.RoleSet{authz.RoleStaff}})

	_, err := svc.Dashboard(context.Background(), staff, org.ID)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))
}

func TestDashboardUnknownOrgNotFound(t *testing.T) {
	svc, _, _, _, _ := dashboardFixture()

	_, err := svc.Dashboard(context.Background(), sysadminCtx(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestEmployeeCourseScoresGroupsByUser(t *testing.T) {
	org := models.Organization{ID: uuid.New(), Name: "Acme", Slug: "acme"}
	course := models.Course{ID: uuid.New(), OrganizationID: org.ID, Title: "Onboarding"}
	alice := models.UserPublic{ID: uuid.New(), FullName: "Alice", OrganizationID: &org.ID}
	bob := models.UserPublic{ID: uuid.New(), FullName: "Bob", OrganizationID: &org.ID}
	enr := &fakeEnrollments{rows: map[uuid.UUID][]models.Enrollment{
		course.ID: {
			{UserID: alice.ID, CourseID: course.ID, Status: models.EnrollmentCompleted, Score: f(92), Progress: 1},
		},
	}}
	svc := NewService(&fakeOrgs{orgs: []models.Organization{org}},
		&fakeCourses{courses: []models.Course{course}}, enr,
		&fakeUsers{users: []models.UserPublic{alice, bob}})

	out, err := svc.EmployeeCourseScores(context.Background(), orgAdminCtx(org.ID), org.ID, nil)
	require.NoError(t, err)
	require.Len(t, out, 2)

	byName := map[string]EmployeeScores{}
	for _, e := range out {
		byName[e.User.FullName] = e
	}
	require.Len(t, byName["Alice"].Courses, 1)
	assert.Equal(t, 92.0, *byName["Alice"].Courses[0].Score)
	assert.Empty(t, byName["Bob"].Courses, "unenrolled employees still appear, with no entries")
}

func TestEmployeeCourseScoresForeignCourseFilter(t *testing.T) {
	svc, org, _, _, _ := dashboardFixture()
	foreign := uuid.New()

	_, err := svc.EmployeeCourseScores(context.Background(), orgAdminCtx(org.ID), org.ID, &foreign)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}
