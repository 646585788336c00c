package task_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/selene-app/selene-api/internal/category"
	"github.com/selene-app/selene-api/internal/clock"
	"github.com/selene-app/selene-api/internal/notifier"
	"github.com/selene-app/selene-api/internal/task"
	"github.com/selene-app/selene-api/internal/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2025, time.March, 20, 15, 0, 0, 0, time.UTC)

// fixedResolver stands in for the cycle repository.
type fixedResolver struct {
	id *uuid.UUID
}

func (r fixedResolver) ActiveCycleID() (*uuid.UUID, error) {
	return r.id, nil
}

type fixture struct {
	db       *gorm.DB
	repo     task.Repository
	service  task.Service
	bus      *notifier.Bus
	system   user.User
	bob      user.User
	category category.Category
	cycleID  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&user.User{},
		&category.Category{},
		&task.Task{},
		&task.TaskCompletion{},
		&task.TaskSchedule{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	f := &fixture{
		db:       db,
		repo:     task.NewRepository(db),
		bus:      notifier.NewBus(),
		system:   user.User{ID: uuid.New(), Name: "Selene", Email: "system@selene.app", Role: user.RoleAdmin},
		bob:      user.User{ID: uuid.New(), Name: "Bob", Email: "bob@example.com", Role: user.RoleMember},
		category: category.Category{ID: uuid.New(), Name: "Health", Emoji: "💪"},
		cycleID:  uuid.New(),
	}
	for _, seed := range []interface{}{&f.system, &f.bob, &f.category} {
		if err := db.Create(seed).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	f.service = task.NewService(
		f.repo,
		category.NewRepository(db),
		user.NewRepository(db),
		fixedResolver{id: &f.cycleID},
		clock.Fixed{T: testNow},
		f.bus,
	)
	return f
}

func (f *fixture) createTask(t *testing.T, target int) *task.Task {
	t.Helper()
	created, err := f.service.Create(context.Background(), task.CreateTaskDTO{
		Title:       "Meditate",
		TargetCount: target,
		CategoryID:  f.category.ID,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	return created
}

func entryAt(offset time.Duration) task.CompletionEntry {
	return task.CompletionEntry{CompletedAt: testNow.Add(offset)}
}

func TestCreateTask(t *testing.T) {
	f := newFixture(t)

	t.Run("IntoActiveCycle", func(t *testing.T) {
		created := f.createTask(t, 5)
		if created.CycleID == nil || *created.CycleID != f.cycleID {
			t.Errorf("task should land in the active cycle, got %v", created.CycleID)
		}
	})

	t.Run("IntoBacklog", func(t *testing.T) {
		created, err := f.service.Create(context.Background(), task.CreateTaskDTO{
			Title:      "Someday",
			CategoryID: f.category.ID,
			InBacklog:  true,
		})
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		if created.CycleID != nil {
			t.Error("backlog task must not reference a cycle")
		}
	})

	t.Run("DefaultsToOne", func(t *testing.T) {
		created, err := f.service.Create(context.Background(), task.CreateTaskDTO{
			Title:      "Minimal",
			CategoryID: f.category.ID,
		})
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		if created.StoryPoints != 1 || created.TargetCount != 1 {
			t.Errorf("defaults = %d/%d, want 1/1", created.StoryPoints, created.TargetCount)
		}
	})

	t.Run("EmptyTitle", func(t *testing.T) {
		_, err := f.service.Create(context.Background(), task.CreateTaskDTO{CategoryID: f.category.ID})
		if !errors.Is(err, task.ErrTitleRequired) {
			t.Errorf("error = %v, want ErrTitleRequired", err)
		}
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		_, err := f.service.Create(context.Background(), task.CreateTaskDTO{
			Title:      "Orphan",
			CategoryID: uuid.New(),
		})
		if !errors.Is(err, task.ErrCategoryNotFound) {
			t.Errorf("error = %v, want ErrCategoryNotFound", err)
		}
	})

	t.Run("NoActiveCycle", func(t *testing.T) {
		svc := task.NewService(
			f.repo,
			category.NewRepository(f.db),
			user.NewRepository(f.db),
			fixedResolver{},
			clock.Fixed{T: testNow},
			f.bus,
		)
		_, err := svc.Create(context.Background(), task.CreateTaskDTO{
			Title:      "Homeless",
			CategoryID: f.category.ID,
		})
		if !errors.Is(err, task.ErrNoActiveCycle) {
			t.Errorf("error = %v, want ErrNoActiveCycle", err)
		}
	})
}

func TestSetCompletions(t *testing.T) {
	ctx := context.Background()

	t.Run("ReplacesWholeSet", func(t *testing.T) {
		f := newFixture(t)
		created := f.createTask(t, 5)

		first := []task.CompletionEntry{entryAt(-48 * time.Hour), entryAt(-24 * time.Hour)}
		if _, err := f.service.SetCompletions(ctx, created.ID, first); err != nil {
			t.Fatalf("SetCompletions() failed: %v", err)
		}

		second := []task.CompletionEntry{entryAt(-1 * time.Hour)}
		updated, err := f.service.SetCompletions(ctx, created.ID, second)
		if err != nil {
			t.Fatalf("SetCompletions() failed: %v", err)
		}
		if len(updated.Completions) != 1 {
			t.Errorf("returned %d completions, want 1", len(updated.Completions))
		}

		count, err := f.repo.CountCompletions(created.ID)
		if err != nil {
			t.Fatalf("CountCompletions: %v", err)
		}
		if count != 1 {
			t.Errorf("stored %d completions, want exactly 1", count)
		}
	})

	t.Run("ClearsWithEmptyList", func(t *testing.T) {
		f := newFixture(t)
		created := f.createTask(t, 5)

		if _, err := f.service.SetCompletions(ctx, created.ID, []task.CompletionEntry{entryAt(0)}); err != nil {
			t.Fatalf("SetCompletions() failed: %v", err)
		}
		if _, err := f.service.SetCompletions(ctx, created.ID, nil); err != nil {
			t.Fatalf("SetCompletions(nil) failed: %v", err)
		}

		count, _ := f.repo.CountCompletions(created.ID)
		if count != 0 {
			t.Errorf("stored %d completions after clear, want 0", count)
		}
	})

	t.Run("RejectsFutureTimestamp", func(t *testing.T) {
		f := newFixture(t)
		created := f.createTask(t, 5)

		if _, err := f.service.SetCompletions(ctx, created.ID, []task.CompletionEntry{entryAt(-time.Hour)}); err != nil {
			t.Fatalf("seed completion: %v", err)
		}

		_, err := f.service.SetCompletions(ctx, created.ID, []task.CompletionEntry{entryAt(time.Minute)})
		if !errors.Is(err, task.ErrFutureCompletion) {
			t.Fatalf("error = %v, want ErrFutureCompletion", err)
		}

		// The rejected call must not have touched the stored set.
		count, _ := f.repo.CountCompletions(created.ID)
		if count != 1 {
			t.Errorf("stored %d completions after rejected call, want 1", count)
		}
	})

	t.Run("RejectsMoreThanTarget", func(t *testing.T) {
		f := newFixture(t)
		created := f.createTask(t, 2)

		entries := []task.CompletionEntry{entryAt(-3 * time.Hour), entryAt(-2 * time.Hour), entryAt(-time.Hour)}
		_, err := f.service.SetCompletions(ctx, created.ID, entries)
		if !errors.Is(err, task.ErrTargetExceeded) {
			t.Fatalf("error = %v, want ErrTargetExceeded", err)
		}

		count, _ := f.repo.CountCompletions(created.ID)
		if count != 0 {
			t.Errorf("stored %d completions after rejected call, want 0", count)
		}
	})

	t.Run("AnonymousEntryGetsSystemUser", func(t *testing.T) {
		f := newFixture(t)
		created := f.createTask(t, 5)

		updated, err := f.service.SetCompletions(ctx, created.ID, []task.CompletionEntry{entryAt(0)})
		if err != nil {
			t.Fatalf("SetCompletions() failed: %v", err)
		}
		if updated.Completions[0].UserID != f.system.ID {
			t.Errorf("anonymous completion attributed to %s, want system user %s",
				updated.Completions[0].UserID, f.system.ID)
		}
	})

	t.Run("KeepsExplicitUser", func(t *testing.T) {
		f := newFixture(t)
		created := f.createTask(t, 5)

		entries := []task.CompletionEntry{{UserID: &f.bob.ID, CompletedAt: testNow}}
		updated, err := f.service.SetCompletions(ctx, created.ID, entries)
		if err != nil {
			t.Fatalf("SetCompletions() failed: %v", err)
		}
		if updated.Completions[0].UserID != f.bob.ID {
			t.Errorf("completion attributed to %s, want %s", updated.Completions[0].UserID, f.bob.ID)
		}
	})

	t.Run("UnknownTask", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.SetCompletions(ctx, uuid.New(), nil)
		if !errors.Is(err, task.ErrTaskNotFound) {
			t.Errorf("error = %v, want ErrTaskNotFound", err)
		}
	})
}

func TestSetCompletionsLinksSchedules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.createTask(t, 5)

	scheduled := task.TaskSchedule{
		ID:     uuid.New(),
		TaskID: created.ID,
		Date:   time.Date(2025, time.March, 19, 0, 0, 0, 0, time.UTC),
	}
	if err := f.repo.CreateSchedule(&scheduled); err != nil {
		t.Fatalf("CreateSchedule: %v", err)
	}

	// One completion on the scheduled day, one on a different day.
	entries := []task.CompletionEntry{
		{CompletedAt: time.Date(2025, time.March, 19, 22, 45, 0, 0, time.UTC)},
		{CompletedAt: time.Date(2025, time.March, 18, 9, 0, 0, 0, time.UTC)},
	}
	updated, err := f.service.SetCompletions(ctx, created.ID, entries)
	if err != nil {
		t.Fatalf("SetCompletions() failed: %v", err)
	}

	var linked, unlinked int
	for _, c := range updated.Completions {
		if c.ScheduleID != nil {
			if *c.ScheduleID != scheduled.ID {
				t.Errorf("completion linked to %s, want %s", c.ScheduleID, scheduled.ID)
			}
			linked++
		} else {
			unlinked++
		}
	}
	if linked != 1 || unlinked != 1 {
		t.Errorf("linked/unlinked = %d/%d, want 1/1", linked, unlinked)
	}

	schedules, err := f.repo.ListSchedules(created.ID)
	if err != nil {
		t.Fatalf("ListSchedules: %v", err)
	}
	if len(schedules) != 1 || !schedules[0].Done {
		t.Error("matched schedule should be marked done")
	}
}

func TestAddCompletion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.createTask(t, 3)

	for i := 1; i <= 3; i++ {
		updated, err := f.service.AddCompletion(ctx, created.ID)
		if err != nil {
			t.Fatalf("AddCompletion() #%d failed: %v", i, err)
		}
		if len(updated.Completions) != i {
			t.Errorf("after #%d: %d completions, want %d", i, len(updated.Completions), i)
		}
	}

	_, err := f.service.AddCompletion(ctx, created.ID)
	if !errors.Is(err, task.ErrAlreadyComplete) {
		t.Fatalf("error = %v, want ErrAlreadyComplete", err)
	}

	count, _ := f.repo.CountCompletions(created.ID)
	if count != 3 {
		t.Errorf("stored %d completions, want 3", count)
	}
}

func TestCompletionPublishesSignals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.createTask(t, 3)

	taskSub := f.bus.Subscribe(notifier.SignalTask(created.ID))
	defer taskSub.Close()
	statsSub := f.bus.Subscribe(notifier.SignalStatistics)
	defer statsSub.Close()

	if _, err := f.service.AddCompletion(ctx, created.ID); err != nil {
		t.Fatalf("AddCompletion() failed: %v", err)
	}

	select {
	case ev := <-taskSub.Events:
		if ev.ID == nil || *ev.ID != created.ID {
			t.Errorf("task signal carried id %v, want %s", ev.ID, created.ID)
		}
	default:
		t.Error("expected a task signal")
	}
	select {
	case <-statsSub.Events:
	default:
		t.Error("expected a statistics signal")
	}
}
