package models

import "time"

// Enrollment links a user to a course. Its existence is the sole
// authorization gate for all course-scoped reads.
type Enrollment struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"userId"`
	CourseID   string    `db:"course_id" json:"courseId"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolledAt"`
}
