package enrollments

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

type fakeStore struct {
	enrollments []models.Enrollment
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Enrollment, error) {
	for i := range f.enrollments {
		if f.enrollments[i].ID == id {
			return &f.enrollments[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	for i := range f.enrollments {
		if f.enrollments[i].UserID == userID && f.enrollments[i].CourseID == courseID {
			return &f.enrollments[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) List(ctx context.Context, filter Filter) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, e := range f.enrollments {
		if filter.CourseID != nil && e.CourseID != *filter.CourseID {
			continue
		}
		if filter.UserID != nil && e.UserID != *filter.UserID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeStore) Create(ctx context.Context, e *models.Enrollment) (bool, error) {
	if existing, _ := f.GetByUserAndCourse(ctx, e.UserID, e.CourseID); existing != nil {
		return false, nil
	}
	e.ID = uuid.New()
	f.enrollments = append(f.enrollments, *e)
	return true, nil
}

func (f *fakeStore) Update(ctx context.Context, e *models.Enrollment) error {
	for i := range f.enrollments {
		if f.enrollments[i].ID == e.ID {
			f.enrollments[i] = *e
			return nil
		}
	}
	return nil
}

type fakeUsers struct {
	users []models.User
}

func (f *fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			return &f.users[i], nil
		}
	}
	return nil, nil
}

type fakeCourses struct {
	courses []models.Course
}

func (f *fakeCourses) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	for i := range f.courses {
		if f.courses[i].ID == id {
			return &f.courses[i], nil
		}
	}
	return nil, nil
}

func coordinatorCtx(org uuid.UUID) authz.Context {
	return authz.NewContext(&authz.Principal{ID: uuid.New(), OrganizationID: &org,
		Roles: authz.RoleSet{authz.RoleCoordinator}})
}

func fixture(org uuid.UUID) (*fakeStore, *fakeUsers, *fakeCourses, models.User, models.Course) {
	user := models.User{ID: uuid.New(), OrganizationID: &org, Roles: []string{"staff"}}
	course := models.Course{ID: uuid.New(), OrganizationID: org, Title: "Security Basics"}
	return &fakeStore{}, &fakeUsers{users: []models.User{user}},
		&fakeCourses{courses: []models.Course{course}}, user, course
}

func TestEnrollIdempotent(t *testing.T) {
	org := uuid.New()
	store, users, courses, user, course := fixture(org)
	svc := NewService(store, users, courses)

	e1, err := svc.Enroll(context.Background(), coordinatorCtx(org), EnrollInput{UserID: user.ID, CourseID: course.ID})
	require.NoError(t, err)
	e2, err := svc.Enroll(context.Background(), coordinatorCtx(org), EnrollInput{UserID: user.ID, CourseID: course.ID})
	require.NoError(t, err)
	assert.Equal(t, e1.ID, e2.ID)
	assert.Len(t, store.enrollments, 1)
}

func TestEnrollCrossOrgForbidden(t *testing.T) {
	orgA := uuid.New()
	orgB := uuid.New()
	user := models.User{ID: uuid.New(), OrganizationID: &orgA, Roles: []string{"staff"}}
	course := models.Course{ID: uuid.New(), OrganizationID: orgB, Title: "Leadership"}
	store := &fakeStore{}
	svc := NewService(store, &fakeUsers{users: []models.User{user}}, &fakeCourses{courses: []models.Course{course}})

	// The caller sits on the user's side; the course is foreign.
	_, err := svc.Enroll(context.Background(), coordinatorCtx(orgA), EnrollInput{UserID: user.ID, CourseID: course.ID})
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))

	// And from the course's side the user is foreign. No row either way.
	_, err = svc.Enroll(context.Background(), coordinatorCtx(orgB), EnrollInput{UserID: user.ID, CourseID: course.ID})
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))
	assert.Empty(t, store.enrollments)
}

func TestEnrollUnknownTargetsNotFound(t *testing.T) {
	org := uuid.New()
	store, users, courses, user, course := fixture(org)
	svc := NewService(store, users, courses)

	_, err := svc.Enroll(context.Background(), coordinatorCtx(org), EnrollInput{UserID: uuid.New(), CourseID: course.ID})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
	_, err = svc.Enroll(context.Background(), coordinatorCtx(org), EnrollInput{UserID: user.ID, CourseID: uuid.New()})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestEnrollClampsProgress(t *testing.T) {
	org := uuid.New()
	store, users, courses, user, course := fixture(org)
	svc := NewService(store, users, courses)

	e, err := svc.Enroll(context.Background(), coordinatorCtx(org), EnrollInput{UserID: user.ID, CourseID: course.ID, Progress: 1.5})
	require.NoError(t, err)
	assert.Equal(t, 1.0, e.Progress)
	assert.Equal(t, models.EnrollmentInProgress, e.Status)
	assert.NotNil(t, e.StartedAt)
}

func TestEnrollStaffForbidden(t *testing.T) {
	org := uuid.New()
	store, users, courses, user, course := fixture(org)
	svc := NewService(store, users, courses)
	staff := authz.NewContext(&authz.Principal{ID: uuid.New(), OrganizationID: &org,
		Roles: authz.RoleSet{authz.RoleStaff}})

	_, err := svc.Enroll(context.Background(), staff, EnrollInput{UserID: user.ID, CourseID: course.ID})
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))
}

func TestUpdateScorePartial(t *testing.T) {
	org := uuid.New()
	store, users, courses, user, course := fixture(org)
	svc := NewService(store, users, courses)

	e, err := svc.Enroll(context.Background(), coordinatorCtx(org), EnrollInput{UserID: user.ID, CourseID: course.ID})
	require.NoError(t, err)

	score := 82.5
	got, err := svc.UpdateScore(context.Background(), coordinatorCtx(org), e.ID, UpdateScoreInput{Score: &score})
	require.NoError(t, err)
	require.NotNil(t, got.Score)
	assert.Equal(t, 82.5, *got.Score)
	assert.Equal(t, 0.0, got.Progress, "untouched fields keep their value")
	assert.NotNil(t, got.LastAccessedAt)
}

func TestUpdateScoreClampsProgress(t *testing.T) {
	org := uuid.New()
	store, users, courses, user, course := fixture(org)
	svc := NewService(store, users, courses)

	e, err := svc.Enroll(context.Background(), coordinatorCtx(org), EnrollInput{UserID: user.ID, CourseID: course.ID})
	require.NoError(t, err)

	neg := -0.2
	got, err := svc.UpdateScore(context.Background(), coordinatorCtx(org), e.ID, UpdateScoreInput{Progress: &neg})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Progress)

	over := 1.5
	got, err = svc.UpdateScore(context.Background(), coordinatorCtx(org), e.ID, UpdateScoreInput{Progress: &over})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Progress)
}

func TestUpdateScoreCompletionTimestamp(t *testing.T) {
	org := uuid.New()
	store, users, courses, user, course := fixture(org)
	svc := NewService(store, users, courses)

	e, err := svc.Enroll(context.Background(), coordinatorCtx(org), EnrollInput{UserID: user.ID, CourseID: course.ID})
	require.NoError(t, err)

	completed := models.EnrollmentCompleted
	got, err := svc.UpdateScore(context.Background(), coordinatorCtx(org), e.ID, UpdateScoreInput{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)
}

func TestUpdateScoreForeignCourseForbidden(t *testing.T) {
	orgA := uuid.New()
	orgB := uuid.New()
	store, users, courses, user, course := fixture(orgA)
	svc := NewService(store, users, courses)

	e, err := svc.Enroll(context.Background(), coordinatorCtx(orgA), EnrollInput{UserID: user.ID, CourseID: course.ID})
	require.NoError(t, err)

	score := 50.0
	_, err = svc.UpdateScore(context.Background(), coordinatorCtx(orgB), e.ID, UpdateScoreInput{Score: &score})
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))
}

func TestListFiltersScopedToOrganization(t *testing.T) {
	org := uuid.New()
	store, users, courses, user, course := fixture(org)
	svc := NewService(store, users, courses)

	_, err := svc.Enroll(context.Background(), coordinatorCtx(org), EnrollInput{UserID: user.ID, CourseID: course.ID})
	require.NoError(t, err)

	list, err := svc.List(context.Background(), coordinatorCtx(org), ListArgs{CourseID: &course.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// Filtering on a user of another organization is rejected.
	foreignOrg := uuid.New()
	foreign := models.User{ID: uuid.New(), OrganizationID: &foreignOrg, Roles: []string{"staff"}}
	users.users = append(users.users, foreign)
	_, err = svc.List(context.Background(), coordinatorCtx(org), ListArgs{UserID: &foreign.ID})
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))
}
