package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studyloop/backend/domain"
	"github.com/studyloop/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const taskDetailColumns = `
	t.id, t.question_id, t.user_id, t.due_date, t.completed, t.completed_at, t.created_at,
	q.question, q.answer,
	c.id, c.name
`

func (r *taskRepository) CreateBatch(ctx context.Context, tasks []domain.Task) ([]domain.Task, error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	const query = `
	INSERT INTO tasks (id, question_id, user_id, due_date, completed, completed_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at
	`

	// All rows go through one transaction so a failure on any insert
	// leaves no partial batch behind.
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "begin task batch", err)
	}
	defer tx.Rollback(ctx)

	created := make([]domain.Task, len(tasks))
	for i, task := range tasks {
		if task.ID == "" {
			task.ID = uuid.NewString()
		}
		if err := tx.QueryRow(ctx, query,
			task.ID,
			task.QuestionID,
			task.UserID,
			task.DueDate,
			task.Completed,
			task.CompletedAt,
		).Scan(&task.CreatedAt); err != nil {
			return nil, domain.WrapError(domain.ErrCodeInternal, "insert task batch", err)
		}
		created[i] = task
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "commit task batch", err)
	}
	return created, nil
}

func (r *taskRepository) GetByID(ctx context.Context, userID, taskID string) (*domain.TaskDetail, error) {
	const query = `
	SELECT ` + taskDetailColumns + `
	FROM tasks t
	JOIN questions q ON q.id = t.question_id
	LEFT JOIN categories c ON c.id = q.category_id
	WHERE t.id = $1 AND t.user_id = $2
	`
	row := r.pool.QueryRow(ctx, query, taskID, userID)
	return scanTaskDetail(row)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.TaskDetail, error) {
	const query = `
	SELECT ` + taskDetailColumns + `
	FROM tasks t
	JOIN questions q ON q.id = t.question_id
	LEFT JOIN categories c ON c.id = q.category_id
	WHERE t.user_id = $1
	  AND ($2::uuid IS NULL OR t.question_id = $2)
	  AND ($3::timestamptz IS NULL OR t.due_date >= $3)
	  AND ($4::timestamptz IS NULL OR t.due_date < $4)
	  AND (NOT $5 OR t.completed = FALSE)
	ORDER BY t.due_date ASC
	`
	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		nullableString(filter.QuestionID),
		nullableTime(filter.DueFrom),
		nullableTime(filter.DueBefore),
		filter.OnlyPending,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.TaskDetail
	for rows.Next() {
		task, err := scanTaskDetail(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) SetCompleted(ctx context.Context, userID, taskID string, completedAt time.Time) (*domain.Task, error) {
	const query = `
	UPDATE tasks
	SET completed = TRUE,
		completed_at = $3
	WHERE id = $1 AND user_id = $2
	RETURNING id, question_id, user_id, due_date, completed, completed_at, created_at
	`

	var task domain.Task
	if err := r.pool.QueryRow(ctx, query, taskID, userID, completedAt).Scan(
		&task.ID,
		&task.QuestionID,
		&task.UserID,
		&task.DueDate,
		&task.Completed,
		&task.CompletedAt,
		&task.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) DeleteByQuestion(ctx context.Context, questionID string) (int64, error) {
	const query = `DELETE FROM tasks WHERE question_id = $1`
	tag, err := r.pool.Exec(ctx, query, questionID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanTaskDetail(row interface {
	Scan(dest ...interface{}) error
}) (*domain.TaskDetail, error) {
	var detail domain.TaskDetail
	var (
		completedAt  *time.Time
		categoryID   *string
		categoryName *string
	)

	if err := row.Scan(
		&detail.ID,
		&detail.QuestionID,
		&detail.UserID,
		&detail.DueDate,
		&detail.Completed,
		&completedAt,
		&detail.CreatedAt,
		&detail.Question.Prompt,
		&detail.Question.Answer,
		&categoryID,
		&categoryName,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	detail.Question.ID = detail.QuestionID
	detail.CompletedAt = completedAt
	if categoryID != nil && categoryName != nil {
		detail.Category = &domain.CategorySummary{ID: *categoryID, Name: *categoryName}
	}

	return &detail, nil
}
