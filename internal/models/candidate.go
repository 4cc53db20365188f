package models

import "time"

// Candidate represents an applicant profile in the talent store
type Candidate struct {
	ID        string `json:"id" gorm:"primaryKey"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" gorm:"index"`
	Phone     string `json:"phone"`
	Source    string `json:"source"` // e.g., "Chatbot", "Careers Page"

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Application links a candidate to a job opening with a pipeline stage
type Application struct {
	ID          string `json:"id" gorm:"primaryKey"`
	CandidateID string `json:"candidate_id" gorm:"index"`
	JobID       string `json:"job_id" gorm:"index"`
	JobTitle    string `json:"job_title"`
	Stage       string `json:"stage"` // "Applied", "Screening", "Interview", "Offered"
	Comments    string `json:"comments"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
