package models

import "time"

// Philosophy is one article of the catalogue.
type Philosophy struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	FullDescription []string  `json:"full_description"`
	Image           string    `json:"image"`
	Category        string    `json:"category"`
	Principles      []string  `json:"principles,omitempty"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}
