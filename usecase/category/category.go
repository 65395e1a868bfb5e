package category

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/studyloop/backend/domain"
	"github.com/studyloop/backend/repository"
)

type UseCase struct {
	categories repository.CategoryRepository
	logger     *zap.Logger
}

func New(categories repository.CategoryRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		categories: categories,
		logger:     logger,
	}
}

func (uc *UseCase) List(ctx context.Context, userID string) ([]domain.Category, error) {
	return uc.categories.List(ctx, userID)
}

// Create rejects a name the user already has.
func (uc *UseCase) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := category.Validate(); err != nil {
		return nil, err
	}
	category.Name = strings.TrimSpace(category.Name)

	if existing, err := uc.categories.GetByName(ctx, category.UserID, category.Name); err == nil && existing != nil {
		return nil, domain.ErrCategoryExists
	} else if err != nil && !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, err
	}

	return uc.categories.Create(ctx, category)
}

func (uc *UseCase) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := category.Validate(); err != nil {
		return nil, err
	}
	category.Name = strings.TrimSpace(category.Name)

	if existing, err := uc.categories.GetByName(ctx, category.UserID, category.Name); err == nil && existing != nil && existing.ID != category.ID {
		return nil, domain.ErrCategoryExists
	} else if err != nil && !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, err
	}

	if err := uc.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes the category. Its questions survive and lose only the
// category reference.
func (uc *UseCase) Delete(ctx context.Context, userID, categoryID string) error {
	return uc.categories.Delete(ctx, userID, categoryID)
}
