// Package question owns the question lifecycle, including the coupling to
// the review scheduler: creating a question materializes its five review
// tasks, deleting a question releases them first.
package question

import (
	"context"

	"go.uber.org/zap"

	"github.com/studyloop/backend/domain"
	"github.com/studyloop/backend/pkg/clock"
	appLogger "github.com/studyloop/backend/pkg/logger"
	"github.com/studyloop/backend/repository"
	"github.com/studyloop/backend/usecase/scheduler"
)

type UseCase struct {
	questions  repository.QuestionRepository
	categories repository.CategoryRepository
	scheduler  *scheduler.Scheduler
	clock      clock.Clock
	logger     *zap.Logger
}

func New(
	questions repository.QuestionRepository,
	categories repository.CategoryRepository,
	sched *scheduler.Scheduler,
	clk clock.Clock,
	logger *zap.Logger,
) *UseCase {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		questions:  questions,
		categories: categories,
		scheduler:  sched,
		clock:      clk,
		logger:     logger,
	}
}

func (uc *UseCase) List(ctx context.Context, userID string) ([]domain.Question, error) {
	return uc.questions.List(ctx, userID)
}

func (uc *UseCase) Get(ctx context.Context, userID, questionID string) (*domain.Question, error) {
	return uc.questions.GetByID(ctx, userID, questionID)
}

// Create validates and persists the question, then materializes its
// review tasks. The scheduler trusts the question reference because it is
// inserted right here, in the same call.
func (uc *UseCase) Create(ctx context.Context, question *domain.Question) (*domain.Question, error) {
	if err := question.Validate(); err != nil {
		return nil, err
	}
	if err := uc.checkCategory(ctx, question); err != nil {
		return nil, err
	}

	created, err := uc.questions.Create(ctx, question)
	if err != nil {
		return nil, err
	}

	if _, err := uc.scheduler.MaterializeForQuestion(ctx, created.ID, created.UserID, uc.clock.Now()); err != nil {
		// Keep the store consistent: a question without its review
		// schedule is worse than no question at all.
		if delErr := uc.questions.Delete(ctx, created.UserID, created.ID); delErr != nil {
			appLogger.WithRequestID(ctx, uc.logger).Error("failed to roll back question after task materialization failure",
				zap.String("question_id", created.ID),
				zap.Error(delErr))
		}
		return nil, err
	}

	return created, nil
}

func (uc *UseCase) Update(ctx context.Context, question *domain.Question) (*domain.Question, error) {
	if err := question.Validate(); err != nil {
		return nil, err
	}
	if err := uc.checkCategory(ctx, question); err != nil {
		return nil, err
	}
	if err := uc.questions.Update(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// Delete removes the question and its review tasks. Release runs first
// and must succeed before the question row is touched; the tasks foreign
// key backs this ordering up at the database level.
func (uc *UseCase) Delete(ctx context.Context, userID, questionID string) error {
	if _, err := uc.questions.GetByID(ctx, userID, questionID); err != nil {
		return err
	}

	if _, err := uc.scheduler.ReleaseForQuestion(ctx, questionID, userID); err != nil {
		return err
	}

	return uc.questions.Delete(ctx, userID, questionID)
}

func (uc *UseCase) checkCategory(ctx context.Context, question *domain.Question) error {
	if question.CategoryID == nil || *question.CategoryID == "" {
		question.CategoryID = nil
		return nil
	}
	_, err := uc.categories.GetByID(ctx, question.UserID, *question.CategoryID)
	return err
}
