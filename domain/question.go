package domain

import (
	"strings"
	"time"
)

// Question is a user-owned prompt/answer pair. A question optionally
// belongs to one category; deleting the category detaches the question
// rather than deleting it.
type Question struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CategoryID  *string   `json:"category_id,omitempty"`
	Prompt      string    `json:"question"`
	Answer      string    `json:"answer"`
	Explanation string    `json:"explanation,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Category *CategorySummary `json:"category,omitempty"`
}

// Validate checks the fields a caller must supply.
func (q *Question) Validate() error {
	if q == nil {
		return ErrInvalidPayload
	}
	if strings.TrimSpace(q.Prompt) == "" || strings.TrimSpace(q.Answer) == "" {
		return NewError(ErrCodeInvalid, "question and answer are required")
	}
	return nil
}
