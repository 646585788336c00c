package cycle

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/selene-app/selene-api/internal/clock"
	"github.com/selene-app/selene-api/internal/config"
	"github.com/selene-app/selene-api/internal/notifier"
	"github.com/selene-app/selene-api/internal/task"
	"github.com/selene-app/selene-api/internal/template"
)

var (
	ErrCycleNotFound    = errors.New("cycle not found")
	ErrNoActiveTemplate = errors.New("no active template")
)

const cycleLength = 30 * 24 * time.Hour

type Service interface {
	Rollover(ctx context.Context) (*Cycle, error)
	Active(ctx context.Context) (*Cycle, error)
	List(ctx context.Context) ([]Cycle, error)
	SyncTemplateTask(ctx context.Context, tt *template.TemplateTask) error
}

type service struct {
	repo         Repository
	templateRepo template.Repository
	taskRepo     task.Repository
	clock        clock.Clock
	bus          notifier.Notifier

	// rolloverMu serializes rollover calls; two racing swaps could otherwise
	// leave zero or two active cycles.
	rolloverMu sync.Mutex
}

func NewService(
	repo Repository,
	templateRepo template.Repository,
	taskRepo task.Repository,
	clk clock.Clock,
	bus notifier.Notifier,
) Service {
	return &service{
		repo:         repo,
		templateRepo: templateRepo,
		taskRepo:     taskRepo,
		clock:        clk,
		bus:          bus,
	}
}

// Rollover closes the active cycle and opens the next one: non-template
// tasks of the old cycle return to the backlog, every task of the active
// template is materialized into the new cycle. The active template is
// resolved before anything mutates, so a missing template fails the whole
// operation with no changes.
func (s *service) Rollover(ctx context.Context) (*Cycle, error) {
	log := config.WithContext(ctx)

	s.rolloverMu.Lock()
	defer s.rolloverMu.Unlock()

	tpl, err := s.templateRepo.FindActiveTemplate()
	if err != nil {
		if errors.Is(err, template.ErrNotFound) {
			return nil, ErrNoActiveTemplate
		}
		log.WithError(err).Error("Failed to load active template")
		return nil, err
	}

	prev, err := s.repo.FindActive()
	if err != nil && !errors.Is(err, ErrNotFound) {
		log.WithError(err).Error("Failed to load active cycle")
		return nil, err
	}

	now := s.clock.Now()
	next := Cycle{
		ID:        uuid.New(),
		Name:      CycleName(now),
		StartDate: now,
		EndDate:   now.Add(cycleLength),
		IsActive:  true,
	}

	materialized := make([]task.Task, 0, len(tpl.Tasks))
	for i := range tpl.Tasks {
		materialized = append(materialized, materializeTask(&tpl.Tasks[i], next.ID))
	}

	if err := s.repo.Swap(prev, &next, materialized); err != nil {
		log.WithError(err).Error("Rollover transaction failed")
		return nil, err
	}

	s.bus.Publish(notifier.SignalActiveCycle, nil)
	s.bus.Publish(notifier.SignalCurrentTaskIDs, nil)
	s.bus.Publish(notifier.SignalBacklogTaskIDs, nil)
	s.bus.Publish(notifier.SignalCategoryIDs, nil)
	s.bus.Publish(notifier.SignalStatistics, nil)

	log.WithField("cycle_id", next.ID).WithField("cycle_name", next.Name).
		WithField("materialized", len(materialized)).
		Info("Cycle rolled over")
	return &next, nil
}

func (s *service) Active(ctx context.Context) (*Cycle, error) {
	c, err := s.repo.FindActive()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrCycleNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *service) List(ctx context.Context) ([]Cycle, error) {
	return s.repo.ListByCreation()
}

// SyncTemplateTask is the in-window propagation path: overwrite the live
// materialized task with the template's current state, or materialize one if
// rollover has not produced it yet. Outside callers gate this on the
// modification window.
func (s *service) SyncTemplateTask(ctx context.Context, tt *template.TemplateTask) error {
	log := config.WithContext(ctx)

	active, err := s.repo.FindActive()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Debug("No active cycle, template edit not propagated")
			return nil
		}
		return err
	}

	existing, err := s.taskRepo.FindByTemplateTaskAndCycle(tt.ID, active.ID)
	if err != nil && !errors.Is(err, task.ErrNotFound) {
		return err
	}

	if existing == nil {
		t := materializeTask(tt, active.ID)
		if err := s.taskRepo.Create(&t); err != nil {
			log.WithError(err).Error("Failed to materialize template task into active cycle")
			return err
		}
		s.bus.Publish(notifier.SignalTask(t.ID), &t.ID)
	} else {
		existing.Title = tt.Title
		existing.Description = tt.Description
		existing.StoryPoints = tt.StoryPoints
		existing.TargetCount = tt.TargetCount
		existing.CategoryID = tt.CategoryID
		existing.IsFocused = false
		if err := s.taskRepo.Update(existing); err != nil {
			log.WithError(err).Error("Failed to update materialized task")
			return err
		}
		if err := s.taskRepo.ReplaceAssignees(existing, tt.Assignees); err != nil {
			log.WithError(err).Error("Failed to sync materialized task assignees")
			return err
		}
		s.bus.Publish(notifier.SignalTask(existing.ID), &existing.ID)
	}

	s.bus.Publish(notifier.SignalCurrentTaskIDs, nil)
	s.bus.Publish(notifier.SignalStatistics, nil)
	log.WithField("template_task_id", tt.ID).Info("Template task synced into active cycle")
	return nil
}

func materializeTask(tt *template.TemplateTask, cycleID uuid.UUID) task.Task {
	templateTaskID := tt.ID
	cycle := cycleID
	return task.Task{
		ID:             uuid.New(),
		Title:          tt.Title,
		Description:    tt.Description,
		StoryPoints:    tt.StoryPoints,
		TargetCount:    tt.TargetCount,
		CategoryID:     tt.CategoryID,
		CycleID:        &cycle,
		TemplateTaskID: &templateTaskID,
		IsFocused:      false,
		Assignees:      tt.Assignees,
	}
}
