package domain

import "time"

// Task is one scheduled review occurrence of a Question. Tasks are created
// in batches of five when a question is created and never outlive it.
// UserID duplicates the question's owner so queries can authorize without
// a join. DueDate is immutable once the row exists.
type Task struct {
	ID          string     `json:"id"`
	QuestionID  string     `json:"question_id"`
	UserID      string     `json:"user_id"`
	DueDate     time.Time  `json:"due_date"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Complete returns a copy of the task in the completed state. The receiver
// is not modified; persisting the transition is the caller's job.
// Completing an already-completed task overwrites CompletedAt (last write
// wins).
func (t Task) Complete(now time.Time) Task {
	t.Completed = true
	t.CompletedAt = &now
	return t
}

func (t *Task) IsPending() bool {
	return t != nil && !t.Completed
}

// TaskDetail is a task enriched with its question and, when the question
// belongs to one, its category. Query views return this shape.
type TaskDetail struct {
	Task
	Question QuestionSummary  `json:"question"`
	Category *CategorySummary `json:"category,omitempty"`
}

// QuestionSummary carries the presentation fields of a task's question.
type QuestionSummary struct {
	ID     string `json:"id"`
	Prompt string `json:"question"`
	Answer string `json:"answer"`
}

// CategorySummary carries the presentation fields of a question's category.
type CategorySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
