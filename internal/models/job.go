package models

import "time"

// JobOpening represents an open position offered by the talent store
type JobOpening struct {
	ID             string `json:"id" gorm:"primaryKey"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	RequiredSkills string `json:"required_skills"` // comma-separated, e.g., "Java, Spring, SQL"
	Status         string `json:"status"`          // "open", "filled", "on-hold"

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JobStatusOpen marks a posting that can still receive applications
const JobStatusOpen = "open"
