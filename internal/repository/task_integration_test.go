//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tickdown/tickdown/internal/model"
	"github.com/tickdown/tickdown/internal/testutil"
)

// ============================================================================
// Task Repository Integration Tests
// ============================================================================

func TestIntegrationTaskRepository_CreateTask(t *testing.T) {
	ctx, repo, user := newTaskTestEnv(t)

	task := testutil.NewTestTask(t, user.ID, "write report")

	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	retrieved, err := repo.GetTask(ctx, user.ID, task.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}

	if retrieved.Name != task.Name {
		t.Errorf("Name mismatch: got %q, want %q", retrieved.Name, task.Name)
	}
	if retrieved.Due != task.Due {
		t.Errorf("Due mismatch: got %d, want %d", retrieved.Due, task.Due)
	}
	if retrieved.UserID != user.ID {
		t.Errorf("UserID mismatch: got %q, want %q", retrieved.UserID, user.ID)
	}
}

func TestIntegrationTaskRepository_GetTask_NotFound(t *testing.T) {
	ctx, repo, user := newTaskTestEnv(t)

	_, err := repo.GetTask(ctx, user.ID, "nonexistent-task")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got: %v", err)
	}
}

func TestIntegrationTaskRepository_GetTask_OtherOwner(t *testing.T) {
	ctx, repo, user := newTaskTestEnv(t)

	other := testutil.NewTestUser(t, testutil.UniqueEmail("other"))
	if err := repo.CreateUser(ctx, other); err != nil {
		t.Fatalf("CreateUser (other) failed: %v", err)
	}

	task := testutil.NewTestTask(t, other.ID, "not yours")
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	// Another owner's task is indistinguishable from a missing one.
	_, err := repo.GetTask(ctx, user.ID, task.ID)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound for foreign task, got: %v", err)
	}
}

func TestIntegrationTaskRepository_ListTasks(t *testing.T) {
	ctx, repo, user := newTaskTestEnv(t)

	now := time.Now().UTC()
	dues := []int64{
		now.Add(3 * time.Hour).Unix(),
		now.Add(time.Hour).Unix(),
		now.Add(2 * time.Hour).Unix(),
	}
	for i, due := range dues {
		task := testutil.NewTestTask(t, user.ID, "task")
		task.ID = task.ID + string(rune('a'+i))
		task.Due = due
		if err := repo.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask %d failed: %v", i, err)
		}
	}

	tasks, err := repo.ListTasks(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}

	if len(tasks) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(tasks))
	}
	for i := 1; i < len(tasks); i++ {
		if tasks[i-1].Due > tasks[i].Due {
			t.Errorf("Tasks not ordered by due: %d before %d", tasks[i-1].Due, tasks[i].Due)
		}
	}
}

func TestIntegrationTaskRepository_ListTasks_Empty(t *testing.T) {
	ctx, repo, user := newTaskTestEnv(t)

	tasks, err := repo.ListTasks(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Expected no tasks, got %d", len(tasks))
	}
}

func TestIntegrationTaskRepository_ListTasks_ScopedToOwner(t *testing.T) {
	ctx, repo, user := newTaskTestEnv(t)

	other := testutil.NewTestUser(t, testutil.UniqueEmail("other"))
	if err := repo.CreateUser(ctx, other); err != nil {
		t.Fatalf("CreateUser (other) failed: %v", err)
	}

	mine := testutil.NewTestTask(t, user.ID, "mine")
	theirs := testutil.NewTestTask(t, other.ID, "theirs")
	theirs.ID = theirs.ID + "-b"
	if err := repo.CreateTask(ctx, mine); err != nil {
		t.Fatalf("CreateTask (mine) failed: %v", err)
	}
	if err := repo.CreateTask(ctx, theirs); err != nil {
		t.Fatalf("CreateTask (theirs) failed: %v", err)
	}

	tasks, err := repo.ListTasks(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(tasks))
	}
	if tasks[0].ID != mine.ID {
		t.Errorf("Expected task %q, got %q", mine.ID, tasks[0].ID)
	}
}

func TestIntegrationTaskRepository_UpdateTask(t *testing.T) {
	ctx, repo, user := newTaskTestEnv(t)

	task := testutil.NewTestTask(t, user.ID, "before")
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	task.Name = "after"
	task.Due = time.Now().UTC().Add(48 * time.Hour).Unix()
	task.UpdatedAt = time.Now().UTC()

	if err := repo.UpdateTask(ctx, task); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	retrieved, err := repo.GetTask(ctx, user.ID, task.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if retrieved.Name != "after" {
		t.Errorf("Name mismatch after update: got %q", retrieved.Name)
	}
	if retrieved.Due != task.Due {
		t.Errorf("Due mismatch after update: got %d, want %d", retrieved.Due, task.Due)
	}
}

func TestIntegrationTaskRepository_UpdateTask_OtherOwner(t *testing.T) {
	ctx, repo, user := newTaskTestEnv(t)

	other := testutil.NewTestUser(t, testutil.UniqueEmail("other"))
	if err := repo.CreateUser(ctx, other); err != nil {
		t.Fatalf("CreateUser (other) failed: %v", err)
	}

	task := testutil.NewTestTask(t, other.ID, "theirs")
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	hijack := *task
	hijack.UserID = user.ID
	hijack.Name = "hijacked"

	err := repo.UpdateTask(ctx, &hijack)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound for foreign task, got: %v", err)
	}

	// Original must be untouched.
	retrieved, err := repo.GetTask(ctx, other.ID, task.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if retrieved.Name != "theirs" {
		t.Errorf("Foreign task was modified: got name %q", retrieved.Name)
	}
}

func TestIntegrationTaskRepository_DeleteTask(t *testing.T) {
	ctx, repo, user := newTaskTestEnv(t)

	task := testutil.NewTestTask(t, user.ID, "doomed")
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if err := repo.DeleteTask(ctx, user.ID, task.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}

	_, err := repo.GetTask(ctx, user.ID, task.ID)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound after deletion, got: %v", err)
	}
}

func TestIntegrationTaskRepository_DeleteTask_NotFound(t *testing.T) {
	ctx, repo, user := newTaskTestEnv(t)

	err := repo.DeleteTask(ctx, user.ID, "nonexistent-task")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got: %v", err)
	}
}

func TestIntegrationTaskRepository_CountTasks(t *testing.T) {
	ctx, repo, user := newTaskTestEnv(t)

	for i := 0; i < 2; i++ {
		task := testutil.NewTestTask(t, user.ID, "counted")
		task.ID = task.ID + string(rune('a'+i))
		if err := repo.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask %d failed: %v", i, err)
		}
	}

	count, err := repo.CountTasks(ctx, user.ID)
	if err != nil {
		t.Fatalf("CountTasks failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 tasks, got %d", count)
	}
}

// newTaskTestEnv prepares a clean schema with one user to own tasks.
func newTaskTestEnv(t *testing.T) (context.Context, *Repository, *model.User) {
	t.Helper()
	ctx, repo := newRepoTestEnv(t)

	user := testutil.NewTestUser(t, testutil.UniqueEmail("owner"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser (owner) failed: %v", err)
	}

	return ctx, repo, user
}
