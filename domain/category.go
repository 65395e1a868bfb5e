package domain

import (
	"strings"
	"time"
)

// Category groups a user's questions. Names are unique per user.
type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Category) Validate() error {
	if c == nil || strings.TrimSpace(c.Name) == "" {
		return NewError(ErrCodeInvalid, "category name is required")
	}
	return nil
}

// Summary returns the presentation subset embedded in task and question
// views.
func (c *Category) Summary() *CategorySummary {
	if c == nil {
		return nil
	}
	return &CategorySummary{ID: c.ID, Name: c.Name}
}
