// Package review answers the time-windowed task views and performs the
// completion transition. Every operation is scoped to the requesting
// user; a task owned by someone else is indistinguishable from one that
// does not exist.
package review

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/studyloop/backend/domain"
	"github.com/studyloop/backend/pkg/clock"
	appLogger "github.com/studyloop/backend/pkg/logger"
	"github.com/studyloop/backend/pkg/schedule"
	"github.com/studyloop/backend/repository"
	"github.com/studyloop/backend/usecase"
)

type UseCase struct {
	tasks  repository.TaskRepository
	clock  clock.Clock
	buffer usecase.OperationBuffer
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, clk clock.Clock, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		clock:  clk,
		buffer: buffer,
		logger: logger,
	}
}

// Today returns the user's pending tasks due within
// [startOfDay(now), startOfDay(now)+1d), ascending by due instant.
func (uc *UseCase) Today(ctx context.Context, userID string) ([]domain.TaskDetail, error) {
	return uc.window(ctx, userID, 1)
}

// Weekly returns the user's pending tasks due within
// [startOfDay(now), startOfDay(now)+7d). The window contains Today's, so
// a client merging both views must de-duplicate by task id.
func (uc *UseCase) Weekly(ctx context.Context, userID string) ([]domain.TaskDetail, error) {
	return uc.window(ctx, userID, 7)
}

// All returns every task of the user regardless of due date or completion
// state, ascending by due instant.
func (uc *UseCase) All(ctx context.Context, userID string) ([]domain.TaskDetail, error) {
	return uc.tasks.List(ctx, repository.TaskFilter{UserID: userID})
}

// Get returns a single owner-scoped task.
func (uc *UseCase) Get(ctx context.Context, userID, taskID string) (*domain.TaskDetail, error) {
	return uc.tasks.GetByID(ctx, userID, taskID)
}

// Complete moves a task from pending to completed, stamping CompletedAt
// with the current instant. Completing an already-completed task
// overwrites the stamp (last write wins); there is no way back to
// pending. When the store is unreachable the patch is handed to the
// offline buffer and the expected new state is returned with deferred
// set, so callers can tell an applied write from one awaiting replay.
func (uc *UseCase) Complete(ctx context.Context, userID, taskID string) (task *domain.Task, deferred bool, err error) {
	detail, err := uc.tasks.GetByID(ctx, userID, taskID)
	if err != nil {
		return nil, false, err
	}

	now := uc.clock.Now()
	completed := detail.Task.Complete(now)

	if _, err := uc.tasks.SetCompleted(ctx, userID, taskID, now); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, false, err
		}
		if uc.buffer != nil {
			if bufErr := uc.buffer.BufferCompletion(ctx, userID, taskID, now); bufErr == nil {
				appLogger.WithRequestID(ctx, uc.logger).Warn("task completion buffered",
					zap.String("task_id", taskID),
					zap.Error(err))
				return &completed, true, nil
			}
		}
		return nil, false, err
	}

	return &completed, false, nil
}

func (uc *UseCase) window(ctx context.Context, userID string, days int) ([]domain.TaskDetail, error) {
	from := schedule.StartOfDay(uc.clock.Now())
	before := from.Add(time.Duration(days) * schedule.Day)

	return uc.tasks.List(ctx, repository.TaskFilter{
		UserID:      userID,
		DueFrom:     &from,
		DueBefore:   &before,
		OnlyPending: true,
	})
}
