// Package repotest holds the behaviour every TaskRepository driver must share.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

// Factory returns a fresh, empty repository for one subtest.
type Factory func(t *testing.T) repository.TaskRepository

// MissingID is an identifier no driver will ever assign.
const MissingID = "000000000000000000000000"

// Run exercises the repository contract against the driver built by factory.
func Run(t *testing.T, factory Factory) {
	t.Helper()

	t.Run("create assigns id and timestamp", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		before := time.Now().Add(-time.Second)
		created, err := repo.Create(ctx, &domain.Task{Task: "buy milk"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.ID == "" {
			t.Error("expected id to be assigned")
		}
		if created.CreatedAt.Before(before) {
			t.Errorf("unexpected createdAt %v", created.CreatedAt)
		}
		if created.Completed {
			t.Error("expected new task to be pending")
		}

		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Task != "buy milk" || got.ID != created.ID {
			t.Errorf("unexpected task %+v", got)
		}
	})

	t.Run("list returns every task once", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		tasks, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(tasks) != 0 {
			t.Fatalf("expected empty store, got %d tasks", len(tasks))
		}

		want := map[string]string{}
		for _, text := range []string{"one", "two", "three"} {
			created, err := repo.Create(ctx, &domain.Task{Task: text})
			if err != nil {
				t.Fatalf("create %s: %v", text, err)
			}
			want[created.ID] = text
		}

		tasks, err = repo.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(tasks) != len(want) {
			t.Fatalf("got %d tasks, want %d", len(tasks), len(want))
		}
		for _, task := range tasks {
			if want[task.ID] != task.Task {
				t.Errorf("unexpected task %+v", task)
			}
		}
	})

	t.Run("partial update leaves omitted fields", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		created, err := repo.Create(ctx, &domain.Task{Task: "buy milk"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		updated, err := repo.Update(ctx, created.ID, domain.CompletedPatch(true))
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if !updated.Completed || updated.Task != "buy milk" || updated.ID != created.ID {
			t.Errorf("unexpected task after completing: %+v", updated)
		}
		if !updated.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("createdAt changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
		}

		updated, err = repo.Update(ctx, created.ID, domain.TextPatch("buy oat milk"))
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if !updated.Completed || updated.Task != "buy oat milk" {
			t.Errorf("unexpected task after rename: %+v", updated)
		}

		unchanged, err := repo.Update(ctx, created.ID, domain.TaskPatch{})
		if err != nil {
			t.Fatalf("empty update: %v", err)
		}
		if unchanged.Task != "buy oat milk" || !unchanged.Completed {
			t.Errorf("empty patch changed the task: %+v", unchanged)
		}
	})

	t.Run("toggle twice restores completed", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		created, err := repo.Create(ctx, &domain.Task{Task: "walk dog"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		current := created.Completed
		for i := 0; i < 2; i++ {
			next, err := repo.Update(ctx, created.ID, domain.CompletedPatch(!current))
			if err != nil {
				t.Fatalf("toggle %d: %v", i, err)
			}
			current = next.Completed
		}
		if current != created.Completed {
			t.Errorf("got completed=%v after two toggles, want %v", current, created.Completed)
		}
	})

	t.Run("unknown id is not found and mutates nothing", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		created, err := repo.Create(ctx, &domain.Task{Task: "keep me"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		if _, err := repo.GetByID(ctx, MissingID); !domain.IsNotFound(err) {
			t.Errorf("get: expected not found, got %v", err)
		}
		if _, err := repo.Update(ctx, MissingID, domain.CompletedPatch(true)); !domain.IsNotFound(err) {
			t.Errorf("update: expected not found, got %v", err)
		}
		if _, err := repo.Update(ctx, "not-an-id", domain.CompletedPatch(true)); !domain.IsNotFound(err) {
			t.Errorf("update malformed: expected not found, got %v", err)
		}
		if err := repo.Delete(ctx, MissingID); !domain.IsNotFound(err) {
			t.Errorf("delete: expected not found, got %v", err)
		}

		tasks, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(tasks) != 1 || tasks[0].ID != created.ID || tasks[0].Completed {
			t.Errorf("store mutated: %+v", tasks)
		}
	})

	t.Run("delete is permanent", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		created, err := repo.Create(ctx, &domain.Task{Task: "temporary"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := repo.Delete(ctx, created.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := repo.Delete(ctx, created.ID); !domain.IsNotFound(err) {
			t.Errorf("second delete: expected not found, got %v", err)
		}
		if _, err := repo.GetByID(ctx, created.ID); !domain.IsNotFound(err) {
			t.Errorf("get after delete: expected not found, got %v", err)
		}
		tasks, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		for _, task := range tasks {
			if task.ID == created.ID {
				t.Errorf("deleted task still listed: %+v", task)
			}
		}
	})
}
