package domain

import "time"

// Statute is a criminal statute entry (Louisiana Revised Statutes).
type Statute struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Penalties   string    `json:"penalties"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// StatuteSuggestion is one AI-suggested statute for an incident description.
type StatuteSuggestion struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Explanation string   `json:"explanation"`
	Elements    []string `json:"elements"`
}
