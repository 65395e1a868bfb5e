// Package scheduler materializes review tasks when a question is created
// and releases them when the question goes away.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/studyloop/backend/domain"
	"github.com/studyloop/backend/pkg/schedule"
	"github.com/studyloop/backend/repository"
)

type Scheduler struct {
	tasks  repository.TaskRepository
	policy schedule.Policy
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, policy schedule.Policy, logger *zap.Logger) *Scheduler {
	if policy == nil {
		policy = schedule.DefaultPolicy()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		tasks:  tasks,
		policy: policy,
		logger: logger,
	}
}

// MaterializeForQuestion inserts one pending task per policy offset, all
// in a single atomic batch, and returns them in ascending due order. The
// caller has already verified that questionID exists and belongs to
// userID; no re-fetch happens here. A store failure leaves no tasks
// behind and is returned as-is; materialization is never buffered or
// retried.
func (s *Scheduler) MaterializeForQuestion(ctx context.Context, questionID, userID string, now time.Time) ([]domain.Task, error) {
	due := s.policy.Due(now)

	tasks := make([]domain.Task, len(due))
	for i, dueDate := range due {
		tasks[i] = domain.Task{
			QuestionID: questionID,
			UserID:     userID,
			DueDate:    dueDate,
			Completed:  false,
		}
	}

	created, err := s.tasks.CreateBatch(ctx, tasks)
	if err != nil {
		return nil, err
	}

	s.logger.Info("review tasks materialized",
		zap.String("question_id", questionID),
		zap.Int("count", len(created)))
	return created, nil
}

// ReleaseForQuestion deletes every task of the question. It must run to
// completion before the question row itself is removed; the question use
// case sequences the two steps, and the tasks foreign key has no cascade
// so the database rejects the reverse order.
func (s *Scheduler) ReleaseForQuestion(ctx context.Context, questionID, userID string) (int64, error) {
	deleted, err := s.tasks.DeleteByQuestion(ctx, questionID)
	if err != nil {
		return 0, err
	}

	s.logger.Info("review tasks released",
		zap.String("question_id", questionID),
		zap.String("user_id", userID),
		zap.Int64("count", deleted))
	return deleted, nil
}
