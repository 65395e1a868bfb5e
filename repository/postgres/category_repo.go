package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studyloop/backend/domain"
	"github.com/studyloop/backend/repository"
)

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a Postgres-backed implementation of CategoryRepository.
func NewCategoryRepository(pool *pgxpool.Pool) repository.CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) GetByID(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	const query = `
	SELECT id, user_id, name, created_at, updated_at
	FROM categories
	WHERE id = $1 AND user_id = $2
	`
	return scanCategory(r.pool.QueryRow(ctx, query, categoryID, userID))
}

func (r *categoryRepository) GetByName(ctx context.Context, userID, name string) (*domain.Category, error) {
	const query = `
	SELECT id, user_id, name, created_at, updated_at
	FROM categories
	WHERE user_id = $1 AND name = $2
	`
	return scanCategory(r.pool.QueryRow(ctx, query, userID, name))
}

func (r *categoryRepository) List(ctx context.Context, userID string) ([]domain.Category, error) {
	const query = `
	SELECT id, user_id, name, created_at, updated_at
	FROM categories
	WHERE user_id = $1
	ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *category)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, domain.ErrInvalidPayload
	}
	if category.ID == "" {
		category.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO categories (id, user_id, name)
	VALUES ($1, $2, $3)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		category.ID,
		category.UserID,
		category.Name,
	).Scan(&category.CreatedAt, &category.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrCategoryExists
		}
		return nil, err
	}

	return category, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if category == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE categories
	SET name = $3,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		category.ID,
		category.UserID,
		category.Name,
	).Scan(&category.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCategoryNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrCategoryExists
		}
		return err
	}

	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, userID, categoryID string) error {
	// questions.category_id carries ON DELETE SET NULL, so referencing
	// questions are detached by the database.
	const query = `DELETE FROM categories WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, categoryID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Category, error) {
	var category domain.Category
	if err := row.Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
