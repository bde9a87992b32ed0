package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/backend/internal/models"
)

func f(v float64) *float64 { return &v }

func TestComputeCourseMetricsEmpty(t *testing.T) {
	m := ComputeCourseMetrics(nil)
	assert.Nil(t, m.AverageScore)
	assert.Equal(t, 0.0, m.CompletionRate)
	assert.Equal(t, 0, m.EnrolledCount)
	assert.Equal(t, 0, m.CompletedCount)
	assert.Equal(t, HealthYellow, m.Health)
}

func TestComputeCourseMetricsMixed(t *testing.T) {
	rows := []models.Enrollment{
		{Status: models.EnrollmentCompleted, Score: f(80)},
		{Status: models.EnrollmentInProgress},
	}
	m := ComputeCourseMetrics(rows)
	require.NotNil(t, m.AverageScore)
	assert.Equal(t, 80.0, *m.AverageScore)
	assert.Equal(t, 0.5, m.CompletionRate)
	assert.Equal(t, 2, m.EnrolledCount)
	assert.Equal(t, 1, m.CompletedCount)
	assert.Equal(t, HealthGreen, m.Health)
}

func TestComputeCourseMetricsAllZeroScoresIsNotNil(t *testing.T) {
	rows := []models.Enrollment{
		{Status: models.EnrollmentInProgress, Score: f(0)},
		{Status: models.EnrollmentInProgress, Score: f(0)},
	}
	m := ComputeCourseMetrics(rows)
	require.NotNil(t, m.AverageScore, "zero scores are data, not absence of data")
	assert.Equal(t, 0.0, *m.AverageScore)
	assert.Equal(t, HealthRed, m.Health)
}

func TestHealthFromScoreBands(t *testing.T) {
	assert.Equal(t, HealthYellow, HealthFromScore(nil))
	assert.Equal(t, HealthGreen, HealthFromScore(f(75)))
	assert.Equal(t, HealthYellow, HealthFromScore(f(74)))
	assert.Equal(t, HealthYellow, HealthFromScore(f(50)))
	assert.Equal(t, HealthRed, HealthFromScore(f(49)))
}

func TestOrganizationAverageSkipsUnscoredCourses(t *testing.T) {
	courses := []CourseMetrics{
		{AverageScore: f(90)},
		{AverageScore: nil},
		{AverageScore: f(70)},
	}
	avg := OrganizationAverage(courses)
	require.NotNil(t, avg)
	assert.Equal(t, 80.0, *avg)

	assert.Nil(t, OrganizationAverage(nil))
	assert.Nil(t, OrganizationAverage([]CourseMetrics{{AverageScore: nil}}))
}
