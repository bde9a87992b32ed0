package analytics

import (
	"github.com/skillforge/backend/internal/models"
)

// Health bands a course by its average score.
type Health string

const (
	HealthGreen  Health = "GREEN"
	HealthYellow Health = "YELLOW"
	HealthRed    Health = "RED"
)

// HealthFromScore maps an average score to a health band. A missing
// average means no scored enrollments yet, which reads as YELLOW rather
// than RED.
func HealthFromScore(avg *float64) Health {
	switch {
	case avg == nil:
		return HealthYellow
	case *avg >= 75:
		return HealthGreen
	case *avg >= 50:
		return HealthYellow
	default:
		return HealthRed
	}
}

// CourseMetrics is the derived statistics block for one course.
type CourseMetrics struct {
	AverageScore   *float64 `json:"average_score"`
	CompletionRate float64  `json:"completion_rate"`
	EnrolledCount  int      `json:"enrolled_count"`
	CompletedCount int      `json:"completed_count"`
	Health         Health   `json:"health"`
}

// ComputeCourseMetrics aggregates enrollments of a single course. The
// average is over enrollments carrying a score, nil when none do; the
// completion rate is over all enrollments, zero when there are none.
func ComputeCourseMetrics(enrollments []models.Enrollment) CourseMetrics {
	m := CourseMetrics{EnrolledCount: len(enrollments)}

	var sum float64
	var scored int
	for _, e := range enrollments {
		if e.Status == models.EnrollmentCompleted {
			m.CompletedCount++
		}
		if e.Score != nil {
			sum += *e.Score
			scored++
		}
	}
	if scored > 0 {
		avg := sum / float64(scored)
		m.AverageScore = &avg
	}
	if m.EnrolledCount > 0 {
		m.CompletionRate = float64(m.CompletedCount) / float64(m.EnrolledCount)
	}
	m.Health = HealthFromScore(m.AverageScore)
	return m
}

// OrganizationAverage is the mean of the per-course averages. Courses
// without a scored enrollment are excluded rather than counted as zero;
// nil when no course contributes.
func OrganizationAverage(courses []CourseMetrics) *float64 {
	var sum float64
	var n int
	for _, m := range courses {
		if m.AverageScore != nil {
			sum += *m.AverageScore
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}
