package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studyloop/backend/domain"
	"github.com/studyloop/backend/repository"
)

// newTestPool connects to the database named by TEST_DATABASE_URL and
// applies the real migration DDL inside a throwaway schema, so the query
// text runs against the actual column types instead of an in-memory fake.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	schema := fmt.Sprintf("studyloop_test_%d", time.Now().UnixNano())

	admin, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := admin.Exec(ctx, "CREATE SCHEMA "+schema); err != nil {
		admin.Close()
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		admin.Close()
	})

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = schema

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("connect to test schema: %v", err)
	}
	t.Cleanup(pool.Close)

	ddl, err := os.ReadFile(filepath.Join("..", "..", "assets", "migrations", "0001_init.up.sql"))
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if _, err := pool.Exec(ctx, string(ddl)); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	return pool
}

func seedUser(t *testing.T, pool *pgxpool.Pool, username string) string {
	t.Helper()
	user, err := NewUserRepository(pool).Create(context.Background(), &domain.User{
		Username:     username,
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user.ID
}

func seedQuestion(t *testing.T, pool *pgxpool.Pool, userID string) string {
	t.Helper()
	question, err := NewQuestionRepository(pool).Create(context.Background(), &domain.Question{
		UserID: userID,
		Prompt: "q",
		Answer: "a",
	})
	if err != nil {
		t.Fatalf("seed question: %v", err)
	}
	return question.ID
}

func seedTasks(t *testing.T, repo repository.TaskRepository, userID, questionID string, due ...time.Time) []domain.Task {
	t.Helper()
	tasks := make([]domain.Task, len(due))
	for i, d := range due {
		tasks[i] = domain.Task{QuestionID: questionID, UserID: userID, DueDate: d}
	}
	created, err := repo.CreateBatch(context.Background(), tasks)
	if err != nil {
		t.Fatalf("seed tasks: %v", err)
	}
	return created
}

func TestListHalfOpenWindow(t *testing.T) {
	pool := newTestPool(t)
	repo := NewTaskRepository(pool)
	userID := seedUser(t, pool, "alice")
	questionID := seedQuestion(t, pool, userID)

	from := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	edge := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	seedTasks(t, repo, userID, questionID,
		from,
		from.Add(6*time.Hour),
		edge,
	)

	// Empty QuestionID must behave as "no question filter", not as a
	// comparison against an empty uuid.
	tasks, err := repo.List(context.Background(), repository.TaskFilter{
		UserID:      userID,
		DueFrom:     &from,
		DueBefore:   &edge,
		OnlyPending: true,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("List returned %d tasks, want 2", len(tasks))
	}
	for _, task := range tasks {
		if !task.DueDate.Before(edge) {
			t.Errorf("task due %v is outside the half-open window", task.DueDate)
		}
	}
	if !tasks[0].DueDate.Before(tasks[1].DueDate) {
		t.Error("results not ascending by due date")
	}
}

func TestListUnboundedAndByQuestion(t *testing.T) {
	pool := newTestPool(t)
	repo := NewTaskRepository(pool)
	userID := seedUser(t, pool, "alice")
	q1 := seedQuestion(t, pool, userID)
	q2 := seedQuestion(t, pool, userID)

	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	seedTasks(t, repo, userID, q1, base, base.Add(24*time.Hour))
	seedTasks(t, repo, userID, q2, base.Add(48*time.Hour))

	all, err := repo.List(context.Background(), repository.TaskFilter{UserID: userID})
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List all returned %d tasks, want 3", len(all))
	}

	byQuestion, err := repo.List(context.Background(), repository.TaskFilter{UserID: userID, QuestionID: q1})
	if err != nil {
		t.Fatalf("List by question: %v", err)
	}
	if len(byQuestion) != 2 {
		t.Fatalf("List by question returned %d tasks, want 2", len(byQuestion))
	}
	for _, task := range byQuestion {
		if task.QuestionID != q1 {
			t.Errorf("task %s belongs to question %s, want %s", task.ID, task.QuestionID, q1)
		}
	}
}

func TestSetCompletedAndPendingFilter(t *testing.T) {
	pool := newTestPool(t)
	repo := NewTaskRepository(pool)
	userID := seedUser(t, pool, "alice")
	questionID := seedQuestion(t, pool, userID)

	due := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	created := seedTasks(t, repo, userID, questionID, due, due.Add(time.Hour))

	completedAt := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	updated, err := repo.SetCompleted(context.Background(), userID, created[0].ID, completedAt)
	if err != nil {
		t.Fatalf("SetCompleted: %v", err)
	}
	if !updated.Completed || updated.CompletedAt == nil || !updated.CompletedAt.Equal(completedAt) {
		t.Fatalf("completed state = %+v, want completed at %v", updated, completedAt)
	}

	pending, err := repo.List(context.Background(), repository.TaskFilter{UserID: userID, OnlyPending: true})
	if err != nil {
		t.Fatalf("List pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != created[1].ID {
		t.Fatalf("pending = %v, want only the untouched task", pending)
	}
}

func TestGetByIDOwnerScoped(t *testing.T) {
	pool := newTestPool(t)
	repo := NewTaskRepository(pool)
	aliceID := seedUser(t, pool, "alice")
	bobID := seedUser(t, pool, "bob")
	questionID := seedQuestion(t, pool, aliceID)

	created := seedTasks(t, repo, aliceID, questionID, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	if _, err := repo.GetByID(context.Background(), bobID, created[0].ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("GetByID as bob = %v, want ErrTaskNotFound", err)
	}
	if _, err := repo.GetByID(context.Background(), aliceID, created[0].ID); err != nil {
		t.Fatalf("GetByID as owner: %v", err)
	}
}

func TestDeleteByQuestion(t *testing.T) {
	pool := newTestPool(t)
	repo := NewTaskRepository(pool)
	userID := seedUser(t, pool, "alice")
	q1 := seedQuestion(t, pool, userID)
	q2 := seedQuestion(t, pool, userID)

	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	seedTasks(t, repo, userID, q1, base, base.Add(time.Hour))
	seedTasks(t, repo, userID, q2, base)

	deleted, err := repo.DeleteByQuestion(context.Background(), q1)
	if err != nil {
		t.Fatalf("DeleteByQuestion: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("deleted %d tasks, want 2", deleted)
	}

	remaining, err := repo.List(context.Background(), repository.TaskFilter{UserID: userID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(remaining) != 1 || remaining[0].QuestionID != q2 {
		t.Fatalf("remaining = %v, want only the q2 task", remaining)
	}
}
