package dto

// DashboardResponse composes the landing-page projections: enrolled course
// cards with progress, the next live sessions, and the single course the
// student should resume.
type DashboardResponse struct {
	Courses          []CourseCard     `json:"courses"`
	UpcomingSessions []SessionSummary `json:"upcomingSessions"`
	ContinueLearning *CourseCard      `json:"continueLearning"`
}
