package review

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/studyloop/backend/domain"
	"github.com/studyloop/backend/pkg/clock"
	"github.com/studyloop/backend/repository"
)

// noon on the day after the reference question was created
var now = time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

// fakeTaskRepo implements the TaskRepository contract in memory: half-open
// due windows, owner scoping, ascending due order.
type fakeTaskRepo struct {
	tasks        map[string]domain.Task
	completeErr  error
	completeErrs int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]domain.Task)}
}

func (f *fakeTaskRepo) add(task domain.Task) {
	f.tasks[task.ID] = task
}

func (f *fakeTaskRepo) CreateBatch(_ context.Context, tasks []domain.Task) ([]domain.Task, error) {
	for _, task := range tasks {
		f.tasks[task.ID] = task
	}
	return tasks, nil
}

func (f *fakeTaskRepo) GetByID(_ context.Context, userID, taskID string) (*domain.TaskDetail, error) {
	task, ok := f.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	return &domain.TaskDetail{Task: task}, nil
}

func (f *fakeTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.TaskDetail, error) {
	var result []domain.TaskDetail
	for _, task := range f.tasks {
		if task.UserID != filter.UserID {
			continue
		}
		if filter.QuestionID != "" && task.QuestionID != filter.QuestionID {
			continue
		}
		if filter.DueFrom != nil && task.DueDate.Before(*filter.DueFrom) {
			continue
		}
		if filter.DueBefore != nil && !task.DueDate.Before(*filter.DueBefore) {
			continue
		}
		if filter.OnlyPending && task.Completed {
			continue
		}
		result = append(result, domain.TaskDetail{Task: task})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DueDate.Before(result[j].DueDate)
	})
	return result, nil
}

func (f *fakeTaskRepo) SetCompleted(_ context.Context, userID, taskID string, completedAt time.Time) (*domain.Task, error) {
	if f.completeErr != nil && f.completeErrs > 0 {
		f.completeErrs--
		return nil, f.completeErr
	}
	task, ok := f.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	task.Completed = true
	task.CompletedAt = &completedAt
	f.tasks[taskID] = task
	return &task, nil
}

func (f *fakeTaskRepo) DeleteByQuestion(_ context.Context, questionID string) (int64, error) {
	var deleted int64
	for id, task := range f.tasks {
		if task.QuestionID == questionID {
			delete(f.tasks, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeBuffer struct {
	taskIDs []string
}

func (f *fakeBuffer) BufferCompletion(_ context.Context, _, taskID string, _ time.Time) error {
	f.taskIDs = append(f.taskIDs, taskID)
	return nil
}

func pending(id, userID string, due time.Time) domain.Task {
	return domain.Task{ID: id, QuestionID: "q-" + id, UserID: userID, DueDate: due}
}

func seededUseCase(t *testing.T) (*UseCase, *fakeTaskRepo) {
	t.Helper()
	repo := newFakeTaskRepo()
	// one task per schedule rung relative to a question created
	// 2024-01-01T00:00:00Z, plus edge and foreign rows
	repo.add(pending("due-today", "alice", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
	repo.add(pending("due-in-2d", "alice", time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)))
	repo.add(pending("due-in-6d", "alice", time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)))
	repo.add(pending("due-in-13d", "alice", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
	repo.add(pending("window-edge", "alice", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)))
	repo.add(pending("bobs-task", "bob", time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC)))
	return New(repo, clock.Fixed{Instant: now}, nil, nil), repo
}

func ids(details []domain.TaskDetail) map[string]bool {
	set := make(map[string]bool, len(details))
	for _, d := range details {
		set[d.ID] = true
	}
	return set
}

func TestTodayHalfOpenWindow(t *testing.T) {
	uc, _ := seededUseCase(t)

	tasks, err := uc.Today(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("Today returned %d tasks, want 1", len(tasks))
	}
	if tasks[0].ID != "due-today" {
		t.Fatalf("Today returned %s, want due-today", tasks[0].ID)
	}
	// window-edge is due exactly at startOfDay+1d and must fall outside
	// the half-open interval
	if ids(tasks)["window-edge"] {
		t.Fatal("task due at the window end must be excluded")
	}
}

func TestWeeklyIsSupersetOfToday(t *testing.T) {
	uc, _ := seededUseCase(t)

	today, err := uc.Today(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	weekly, err := uc.Weekly(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Weekly: %v", err)
	}

	weeklyIDs := ids(weekly)
	for _, task := range today {
		if !weeklyIDs[task.ID] {
			t.Errorf("task %s in Today but missing from Weekly", task.ID)
		}
	}

	// [2024-01-02, 2024-01-09): due-today, window-edge, due-in-2d, due-in-6d
	if len(weekly) != 4 {
		t.Fatalf("Weekly returned %d tasks, want 4", len(weekly))
	}
	if weeklyIDs["due-in-13d"] {
		t.Error("task due after the weekly window must be excluded")
	}
}

func TestWindowResultsAscending(t *testing.T) {
	uc, _ := seededUseCase(t)

	weekly, err := uc.Weekly(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Weekly: %v", err)
	}
	for i := 1; i < len(weekly); i++ {
		if weekly[i].DueDate.Before(weekly[i-1].DueDate) {
			t.Fatalf("results not ascending at index %d", i)
		}
	}
}

func TestAllIncludesCompletedAndOutOfWindow(t *testing.T) {
	uc, _ := seededUseCase(t)

	if _, _, err := uc.Complete(context.Background(), "alice", "due-today"); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	all, err := uc.All(context.Background(), "alice")
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("All returned %d tasks, want 5", len(all))
	}
	if !ids(all)["due-today"] {
		t.Error("All must include completed tasks")
	}
}

func TestCompleteSetsStateAndTimestamp(t *testing.T) {
	uc, _ := seededUseCase(t)

	completed, deferred, err := uc.Complete(context.Background(), "alice", "due-today")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if deferred {
		t.Error("direct store write reported as deferred")
	}
	if !completed.Completed {
		t.Error("Completed flag not set")
	}
	if completed.CompletedAt == nil || !completed.CompletedAt.Equal(now) {
		t.Errorf("CompletedAt = %v, want %v", completed.CompletedAt, now)
	}

	got, err := uc.Get(context.Background(), "alice", "due-today")
	if err != nil {
		t.Fatalf("Get after complete: %v", err)
	}
	if !got.Completed || got.CompletedAt == nil || !got.CompletedAt.Equal(now) {
		t.Errorf("persisted state = %+v, want completed at %v", got.Task, now)
	}
}

func TestCompletedTaskLeavesWindows(t *testing.T) {
	uc, _ := seededUseCase(t)

	if _, _, err := uc.Complete(context.Background(), "alice", "due-today"); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	today, err := uc.Today(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if ids(today)["due-today"] {
		t.Error("completed task still listed in Today")
	}

	weekly, err := uc.Weekly(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Weekly: %v", err)
	}
	if ids(weekly)["due-today"] {
		t.Error("completed task still listed in Weekly")
	}
}

func TestRecompleteOverwritesTimestamp(t *testing.T) {
	repo := newFakeTaskRepo()
	repo.add(pending("t1", "alice", now))

	first := time.Date(2024, 1, 2, 13, 0, 0, 0, time.UTC)
	second := time.Date(2024, 1, 2, 14, 0, 0, 0, time.UTC)

	uc := New(repo, clock.Fixed{Instant: first}, nil, nil)
	if _, _, err := uc.Complete(context.Background(), "alice", "t1"); err != nil {
		t.Fatalf("first Complete: %v", err)
	}

	uc = New(repo, clock.Fixed{Instant: second}, nil, nil)
	completed, _, err := uc.Complete(context.Background(), "alice", "t1")
	if err != nil {
		t.Fatalf("second Complete: %v", err)
	}
	if completed.CompletedAt == nil || !completed.CompletedAt.Equal(second) {
		t.Errorf("CompletedAt = %v, want overwritten to %v", completed.CompletedAt, second)
	}
}

func TestCrossUserIsolation(t *testing.T) {
	uc, _ := seededUseCase(t)

	for _, view := range []struct {
		name string
		list func() ([]domain.TaskDetail, error)
	}{
		{"Today", func() ([]domain.TaskDetail, error) { return uc.Today(context.Background(), "alice") }},
		{"Weekly", func() ([]domain.TaskDetail, error) { return uc.Weekly(context.Background(), "alice") }},
		{"All", func() ([]domain.TaskDetail, error) { return uc.All(context.Background(), "alice") }},
	} {
		tasks, err := view.list()
		if err != nil {
			t.Fatalf("%s: %v", view.name, err)
		}
		if ids(tasks)["bobs-task"] {
			t.Errorf("%s leaked another user's task", view.name)
		}
	}

	if _, err := uc.Get(context.Background(), "alice", "bobs-task"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("Get on foreign task = %v, want ErrTaskNotFound", err)
	}
	if _, _, err := uc.Complete(context.Background(), "alice", "bobs-task"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("Complete on foreign task = %v, want ErrTaskNotFound", err)
	}
}

func TestGetUnknownTask(t *testing.T) {
	uc, _ := seededUseCase(t)
	if _, err := uc.Get(context.Background(), "alice", "no-such-task"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("Get = %v, want ErrTaskNotFound", err)
	}
}

func TestCompleteFallsBackToBuffer(t *testing.T) {
	repo := newFakeTaskRepo()
	repo.add(pending("t1", "alice", now))
	repo.completeErr = errors.New("connection refused")
	repo.completeErrs = 1

	buf := &fakeBuffer{}
	uc := New(repo, clock.Fixed{Instant: now}, buf, nil)

	completed, deferred, err := uc.Complete(context.Background(), "alice", "t1")
	if err != nil {
		t.Fatalf("Complete with buffer: %v", err)
	}
	if !deferred {
		t.Error("buffered completion must report itself as deferred")
	}
	if !completed.Completed || completed.CompletedAt == nil {
		t.Error("buffered completion should return the expected new state")
	}
	if len(buf.taskIDs) != 1 || buf.taskIDs[0] != "t1" {
		t.Fatalf("buffer recorded %v, want [t1]", buf.taskIDs)
	}
}
