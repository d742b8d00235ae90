// Package students implements the student registry: paginated listing,
// search, and editor-gated CRUD over the etudiants-style records the
// frontend displays.
package students

// Student represents one student record. DA is the admission file number
// ("dossier d'admission"), unique per student like the email.
type Student struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	DA        string `json:"da"`
}

// ListOptions carries pagination parameters for listing and search.
type ListOptions struct {
	Page  int
	Limit int
}

// DefaultListOptions returns the pagination defaults used when the client
// sends none.
func DefaultListOptions() ListOptions {
	return ListOptions{Page: 1, Limit: 10}
}

// maxPageLimit caps the per-page size a client may request.
const maxPageLimit = 50

// Clamp normalizes out-of-range pagination values instead of erroring.
func (o ListOptions) Clamp() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = DefaultListOptions().Limit
	}
	if o.Limit > maxPageLimit {
		o.Limit = maxPageLimit
	}
	return o
}

// Offset converts page/limit into a SQL offset.
func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}

// PageMeta describes one page of results for the client.
type PageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// --- Request DTOs ---

// UpsertStudentRequest holds the payload for create and update.
type UpsertStudentRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	DA        string `json:"da"`
}
