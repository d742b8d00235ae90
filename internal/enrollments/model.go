// Package enrollments links students to courses. It owns the enrollment
// table and the joined per-student course view.
package enrollments

import "time"

// Enrollment represents one student/course link.
type Enrollment struct {
	ID         int64     `json:"id"`
	StudentID  int64     `json:"student_id"`
	CourseID   int64     `json:"course_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// StudentCourse is the joined view served for a student's course list.
type StudentCourse struct {
	CourseID      int64     `json:"course_id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	DurationHours int       `json:"duration_hours"`
	Teacher       string    `json:"teacher"`
	EnrolledAt    time.Time `json:"enrolled_at"`
}

// EnrollRequest holds the payload for creating an enrollment.
type EnrollRequest struct {
	StudentID int64 `json:"student_id"`
	CourseID  int64 `json:"course_id"`
}
