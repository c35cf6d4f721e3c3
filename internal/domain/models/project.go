package models

import "time"

type Project struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// IsOwnedBy reports whether userID is the project's owner.
func (p *Project) IsOwnedBy(userID string) bool {
	return p.UserID == userID
}
