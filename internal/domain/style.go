package domain

import "time"

// Style is a named, reusable generation-prompt fragment. Styles are visible
// to every authenticated user but mutable only by their creator, and cannot
// be deleted while any song still references them.
type Style struct {
	ID          string
	Name        string
	StylePrompt string
	CreatedBy   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
