package task

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/selene-app/selene-api/internal/category"
	"github.com/selene-app/selene-api/internal/clock"
	"github.com/selene-app/selene-api/internal/config"
	"github.com/selene-app/selene-api/internal/notifier"
	"github.com/selene-app/selene-api/internal/user"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrTitleRequired    = errors.New("task title is required")
	ErrCategoryNotFound = category.ErrCategoryNotFound
	ErrNoActiveCycle    = errors.New("no active cycle")

	ErrFutureCompletion = errors.New("completion timestamp is in the future")
	ErrTargetExceeded   = errors.New("completion count would exceed target count")
	ErrAlreadyComplete  = errors.New("task is already fully completed")
)

// CycleResolver reports the currently active cycle, if any. Implemented by
// the cycle repository; declared here to keep the dependency one-way.
type CycleResolver interface {
	ActiveCycleID() (*uuid.UUID, error)
}

type Service interface {
	Create(ctx context.Context, dto CreateTaskDTO) (*Task, error)
	Get(ctx context.Context, id uuid.UUID) (*Task, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateTaskDTO) (*Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListCurrent(ctx context.Context) ([]Task, error)
	ListBacklog(ctx context.Context) ([]Task, error)
	ListFocused(ctx context.Context) ([]Task, error)

	SetCompletions(ctx context.Context, taskID uuid.UUID, entries []CompletionEntry) (*Task, error)
	AddCompletion(ctx context.Context, taskID uuid.UUID) (*Task, error)
}

type service struct {
	repo         Repository
	categoryRepo category.Repository
	userRepo     user.Repository
	cycles       CycleResolver
	clock        clock.Clock
	bus          notifier.Notifier
	locks        taskLocks
}

func NewService(
	repo Repository,
	categoryRepo category.Repository,
	userRepo user.Repository,
	cycles CycleResolver,
	clk clock.Clock,
	bus notifier.Notifier,
) Service {
	return &service{
		repo:         repo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		cycles:       cycles,
		clock:        clk,
		bus:          bus,
		locks:        newTaskLocks(),
	}
}

func (s *service) Create(ctx context.Context, dto CreateTaskDTO) (*Task, error) {
	log := config.WithContext(ctx)

	if dto.Title == "" {
		return nil, ErrTitleRequired
	}
	if _, err := s.categoryRepo.FindByID(dto.CategoryID); err != nil {
		return nil, err
	}

	storyPoints := dto.StoryPoints
	if storyPoints < 1 {
		storyPoints = 1
	}
	targetCount := dto.TargetCount
	if targetCount < 1 {
		targetCount = 1
	}

	t := Task{
		ID:          uuid.New(),
		Title:       dto.Title,
		Description: dto.Description,
		StoryPoints: storyPoints,
		TargetCount: targetCount,
		CategoryID:  dto.CategoryID,
	}

	if !dto.InBacklog {
		cycleID, err := s.cycles.ActiveCycleID()
		if err != nil {
			return nil, err
		}
		if cycleID == nil {
			return nil, ErrNoActiveCycle
		}
		t.CycleID = cycleID
	}

	if len(dto.AssigneeIDs) > 0 {
		assignees, err := s.userRepo.FindByIDs(dto.AssigneeIDs)
		if err != nil {
			return nil, err
		}
		t.Assignees = assignees
	}

	if err := s.repo.Create(&t); err != nil {
		log.WithError(err).Error("Failed to create task")
		return nil, err
	}

	if t.CycleID != nil {
		s.bus.Publish(notifier.SignalCurrentTaskIDs, nil)
	} else {
		s.bus.Publish(notifier.SignalBacklogTaskIDs, nil)
	}
	s.bus.Publish(notifier.SignalStatistics, nil)
	log.WithField("task_id", t.ID).Info("Task created")
	return &t, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Task, error) {
	t, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateTaskDTO) (*Task, error) {
	log := config.WithContext(ctx)

	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	focusChanged := false
	if dto.Title != nil {
		if *dto.Title == "" {
			return nil, ErrTitleRequired
		}
		t.Title = *dto.Title
	}
	if dto.Description != nil {
		t.Description = *dto.Description
	}
	if dto.StoryPoints != nil && *dto.StoryPoints >= 1 {
		t.StoryPoints = *dto.StoryPoints
	}
	if dto.TargetCount != nil && *dto.TargetCount >= 1 {
		t.TargetCount = *dto.TargetCount
	}
	if dto.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*dto.CategoryID); err != nil {
			return nil, err
		}
		t.CategoryID = *dto.CategoryID
	}
	if dto.IsFocused != nil && t.IsFocused != *dto.IsFocused {
		t.IsFocused = *dto.IsFocused
		focusChanged = true
	}

	if err := s.repo.Update(t); err != nil {
		log.WithError(err).Error("Failed to update task")
		return nil, err
	}

	if dto.AssigneeIDs != nil {
		assignees, err := s.userRepo.FindByIDs(*dto.AssigneeIDs)
		if err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceAssignees(t, assignees); err != nil {
			log.WithError(err).Error("Failed to replace task assignees")
			return nil, err
		}
		t.Assignees = assignees
	}

	s.bus.Publish(notifier.SignalTask(t.ID), &t.ID)
	if focusChanged {
		s.bus.Publish(notifier.SignalFocusedTaskIDs, nil)
	}
	return t, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	log := config.WithContext(ctx)

	t, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		log.WithError(err).Error("Failed to delete task")
		return err
	}

	if t.CycleID != nil {
		s.bus.Publish(notifier.SignalCurrentTaskIDs, nil)
	} else {
		s.bus.Publish(notifier.SignalBacklogTaskIDs, nil)
	}
	s.bus.Publish(notifier.SignalStatistics, nil)
	log.WithField("task_id", id).Info("Task deleted")
	return nil
}

func (s *service) ListCurrent(ctx context.Context) ([]Task, error) {
	cycleID, err := s.cycles.ActiveCycleID()
	if err != nil {
		return nil, err
	}
	if cycleID == nil {
		return []Task{}, nil
	}
	return s.repo.ListByCycle(*cycleID)
}

func (s *service) ListBacklog(ctx context.Context) ([]Task, error) {
	return s.repo.ListBacklog()
}

func (s *service) ListFocused(ctx context.Context) ([]Task, error) {
	cycleID, err := s.cycles.ActiveCycleID()
	if err != nil {
		return nil, err
	}
	if cycleID == nil {
		return []Task{}, nil
	}
	return s.repo.ListFocused(*cycleID)
}
