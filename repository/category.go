package repository

import (
	"context"

	"github.com/studyloop/backend/domain"
)

type CategoryRepository interface {
	GetByID(ctx context.Context, userID, categoryID string) (*domain.Category, error)
	GetByName(ctx context.Context, userID, name string) (*domain.Category, error)
	List(ctx context.Context, userID string) ([]domain.Category, error)
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	// Delete removes the category; questions referencing it are detached,
	// not deleted.
	Delete(ctx context.Context, userID, categoryID string) error
}
