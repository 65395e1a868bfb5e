package repository

import (
	"context"
	"time"

	"github.com/studyloop/backend/domain"
)

// TaskFilter selects tasks by owner, due window and completion state.
// DueFrom/DueBefore bound a half-open interval [DueFrom, DueBefore); a nil
// bound leaves that side open. Results are always ordered by ascending due
// instant.
type TaskFilter struct {
	UserID      string
	QuestionID  string
	DueFrom     *time.Time
	DueBefore   *time.Time
	OnlyPending bool
}

type TaskRepository interface {
	// CreateBatch inserts all tasks atomically: either every row becomes
	// visible or none does.
	CreateBatch(ctx context.Context, tasks []domain.Task) ([]domain.Task, error)
	// GetByID is owner-scoped; a task owned by another user is reported as
	// not found.
	GetByID(ctx context.Context, userID, taskID string) (*domain.TaskDetail, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.TaskDetail, error)
	// SetCompleted applies the completion patch to an owner-scoped task.
	SetCompleted(ctx context.Context, userID, taskID string, completedAt time.Time) (*domain.Task, error)
	// DeleteByQuestion removes every task of the question and returns how
	// many rows went away.
	DeleteByQuestion(ctx context.Context, questionID string) (int64, error)
}
