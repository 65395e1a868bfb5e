package repository

import (
	"context"

	"github.com/studyloop/backend/domain"
)

type QuestionRepository interface {
	GetByID(ctx context.Context, userID, questionID string) (*domain.Question, error)
	// List returns the user's questions, newest first, each with its
	// category summary when one is set.
	List(ctx context.Context, userID string) ([]domain.Question, error)
	Create(ctx context.Context, question *domain.Question) (*domain.Question, error)
	Update(ctx context.Context, question *domain.Question) error
	Delete(ctx context.Context, userID, questionID string) error
}
