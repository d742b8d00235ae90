// Package courses implements the course catalog: public listing plus
// editor-gated create and delete.
package courses

// Course represents one catalog entry. Code is the institutional course
// code (e.g. "420-1B6") and is unique.
type Course struct {
	ID            int64  `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	DurationHours int    `json:"duration_hours"`
	Teacher       string `json:"teacher"`
}

// CreateCourseRequest holds the payload for course creation.
type CreateCourseRequest struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	DurationHours int    `json:"duration_hours"`
	Teacher       string `json:"teacher"`
}
