package models

import "time"

// Product is the catalog service's product record. The catalog service owns it;
// the storefront only holds read-only copies.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Company     string `json:"company"`
	Retail      int64  `json:"retail"`
	IsAvailable bool   `json:"isAvailable"`
}

// LoginSubmission is an accepted login form submission.
type LoginSubmission struct {
	ID          string    `db:"id" json:"id"`
	Email       string    `db:"email" json:"email"`
	SubmittedAt time.Time `db:"submitted_at" json:"submitted_at"`
}
