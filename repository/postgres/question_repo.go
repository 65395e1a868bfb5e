package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studyloop/backend/domain"
	"github.com/studyloop/backend/repository"
)

type questionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository returns a Postgres-backed implementation of QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) repository.QuestionRepository {
	return &questionRepository{pool: pool}
}

const questionColumns = `
	q.id, q.user_id, q.category_id, q.question, q.answer, q.explanation, q.created_at, q.updated_at,
	c.id, c.name
`

func (r *questionRepository) GetByID(ctx context.Context, userID, questionID string) (*domain.Question, error) {
	const query = `
	SELECT ` + questionColumns + `
	FROM questions q
	LEFT JOIN categories c ON c.id = q.category_id
	WHERE q.id = $1 AND q.user_id = $2
	`
	row := r.pool.QueryRow(ctx, query, questionID, userID)
	return scanQuestion(row)
}

func (r *questionRepository) List(ctx context.Context, userID string) ([]domain.Question, error) {
	const query = `
	SELECT ` + questionColumns + `
	FROM questions q
	LEFT JOIN categories c ON c.id = q.category_id
	WHERE q.user_id = $1
	ORDER BY q.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *question)
	}
	return questions, rows.Err()
}

func (r *questionRepository) Create(ctx context.Context, question *domain.Question) (*domain.Question, error) {
	if question == nil {
		return nil, domain.ErrInvalidPayload
	}
	if question.ID == "" {
		question.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO questions (id, user_id, category_id, question, answer, explanation)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		question.ID,
		question.UserID,
		question.CategoryID,
		question.Prompt,
		question.Answer,
		nullableString(question.Explanation),
	).Scan(&question.CreatedAt, &question.UpdatedAt); err != nil {
		return nil, err
	}

	return question, nil
}

func (r *questionRepository) Update(ctx context.Context, question *domain.Question) error {
	if question == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE questions
	SET category_id = $3,
		question = $4,
		answer = $5,
		explanation = $6,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		question.ID,
		question.UserID,
		question.CategoryID,
		question.Prompt,
		question.Answer,
		nullableString(question.Explanation),
	).Scan(&question.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrQuestionNotFound
		}
		return err
	}

	return nil
}

func (r *questionRepository) Delete(ctx context.Context, userID, questionID string) error {
	const query = `DELETE FROM questions WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, questionID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func scanQuestion(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Question, error) {
	var question domain.Question
	var (
		explanation  *string
		categoryID   *string
		categoryName *string
	)

	if err := row.Scan(
		&question.ID,
		&question.UserID,
		&question.CategoryID,
		&question.Prompt,
		&question.Answer,
		&explanation,
		&question.CreatedAt,
		&question.UpdatedAt,
		&categoryID,
		&categoryName,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, err
	}

	if explanation != nil {
		question.Explanation = *explanation
	}
	if categoryID != nil && categoryName != nil {
		question.Category = &domain.CategorySummary{ID: *categoryID, Name: *categoryName}
	}

	return &question, nil
}
