package template

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/selene-app/selene-api/internal/category"
	"github.com/selene-app/selene-api/internal/clock"
	"github.com/selene-app/selene-api/internal/config"
	"github.com/selene-app/selene-api/internal/moon"
	"github.com/selene-app/selene-api/internal/notifier"
	"github.com/selene-app/selene-api/internal/user"
)

var (
	ErrTemplateNotFound     = errors.New("template not found")
	ErrTemplateTaskNotFound = errors.New("template task not found")
	ErrTitleRequired        = errors.New("template task title is required")
	ErrInvalidStoryPoints   = errors.New("story points must be on the 1/2/3/5/8/13 scale")
	ErrInvalidTargetCount   = errors.New("target count must be at least 1")
	ErrInvalidGoal          = errors.New("goal must be MAXIMIZE or MINIMIZE")
)

// CycleSyncer propagates a template task edit into the active cycle's
// materialized task. Implemented by the cycle service; declared here to keep
// the dependency one-way.
type CycleSyncer interface {
	SyncTemplateTask(ctx context.Context, tt *TemplateTask) error
}

type Service interface {
	CreateTemplate(ctx context.Context, dto CreateTemplateDTO) (*Template, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*Template, error)
	ListTemplates(ctx context.Context) ([]Template, error)
	ActivateTemplate(ctx context.Context, id uuid.UUID) error

	CreateTask(ctx context.Context, dto CreateTemplateTaskDTO) (*TemplateTask, error)
	GetTask(ctx context.Context, id uuid.UUID) (*TemplateTask, error)
	UpdateTask(ctx context.Context, id uuid.UUID, dto UpdateTemplateTaskDTO) (*TemplateTask, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo         Repository
	categoryRepo category.Repository
	userRepo     user.Repository
	oracle       moon.Oracle
	clock        clock.Clock
	bus          notifier.Notifier
	syncer       CycleSyncer
}

func NewService(
	repo Repository,
	categoryRepo category.Repository,
	userRepo user.Repository,
	oracle moon.Oracle,
	clk clock.Clock,
	bus notifier.Notifier,
	syncer CycleSyncer,
) Service {
	return &service{
		repo:         repo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		oracle:       oracle,
		clock:        clk,
		bus:          bus,
		syncer:       syncer,
	}
}

func (s *service) CreateTemplate(ctx context.Context, dto CreateTemplateDTO) (*Template, error) {
	log := config.WithContext(ctx)

	if dto.Name == "" {
		return nil, ErrTitleRequired
	}

	t := Template{ID: uuid.New(), Name: dto.Name}
	if err := s.repo.CreateTemplate(&t); err != nil {
		log.WithError(err).Error("Failed to create template")
		return nil, err
	}

	if dto.Activate {
		if err := s.repo.SetActiveTemplate(t.ID); err != nil {
			log.WithError(err).Error("Failed to activate template")
			return nil, err
		}
		t.IsActive = true
	}

	log.WithField("template_id", t.ID).Info("Template created")
	return &t, nil
}

func (s *service) GetTemplate(ctx context.Context, id uuid.UUID) (*Template, error) {
	t, err := s.repo.FindTemplateByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *service) ListTemplates(ctx context.Context) ([]Template, error) {
	return s.repo.ListTemplates()
}

func (s *service) ActivateTemplate(ctx context.Context, id uuid.UUID) error {
	log := config.WithContext(ctx)

	if err := s.repo.SetActiveTemplate(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrTemplateNotFound
		}
		log.WithError(err).Error("Failed to activate template")
		return err
	}

	log.WithField("template_id", id).Info("Template activated")
	return nil
}

func (s *service) CreateTask(ctx context.Context, dto CreateTemplateTaskDTO) (*TemplateTask, error) {
	log := config.WithContext(ctx)

	if dto.Title == "" {
		return nil, ErrTitleRequired
	}
	if !ValidStoryPoints(dto.StoryPoints) {
		return nil, ErrInvalidStoryPoints
	}
	if dto.TargetCount < 1 {
		return nil, ErrInvalidTargetCount
	}
	if dto.Goal != nil && !dto.Goal.Valid() {
		return nil, ErrInvalidGoal
	}
	if _, err := s.GetTemplate(ctx, dto.TemplateID); err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.FindByID(dto.CategoryID); err != nil {
		return nil, err
	}

	tt := TemplateTask{
		ID:          uuid.New(),
		TemplateID:  dto.TemplateID,
		Title:       dto.Title,
		Description: dto.Description,
		StoryPoints: dto.StoryPoints,
		TargetCount: dto.TargetCount,
		Goal:        dto.Goal,
		CategoryID:  dto.CategoryID,
	}
	if len(dto.AssigneeIDs) > 0 {
		assignees, err := s.userRepo.FindByIDs(dto.AssigneeIDs)
		if err != nil {
			return nil, err
		}
		tt.Assignees = assignees
	}

	if err := s.repo.CreateTask(&tt); err != nil {
		log.WithError(err).Error("Failed to create template task")
		return nil, err
	}

	s.bus.Publish(notifier.SignalTemplateTaskIDs, nil)
	s.bus.Publish(notifier.SignalTemplateTask(tt.ID), &tt.ID)
	s.propagate(ctx, &tt)

	log.WithField("template_task_id", tt.ID).Info("Template task created")
	return &tt, nil
}

func (s *service) GetTask(ctx context.Context, id uuid.UUID) (*TemplateTask, error) {
	tt, err := s.repo.FindTaskByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrTemplateTaskNotFound
		}
		return nil, err
	}
	return tt, nil
}

func (s *service) UpdateTask(ctx context.Context, id uuid.UUID, dto UpdateTemplateTaskDTO) (*TemplateTask, error) {
	log := config.WithContext(ctx)

	tt, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Title != nil {
		if *dto.Title == "" {
			return nil, ErrTitleRequired
		}
		tt.Title = *dto.Title
	}
	if dto.Description != nil {
		tt.Description = *dto.Description
	}
	if dto.StoryPoints != nil {
		if !ValidStoryPoints(*dto.StoryPoints) {
			return nil, ErrInvalidStoryPoints
		}
		tt.StoryPoints = *dto.StoryPoints
	}
	if dto.TargetCount != nil {
		if *dto.TargetCount < 1 {
			return nil, ErrInvalidTargetCount
		}
		tt.TargetCount = *dto.TargetCount
	}
	if dto.ClearGoal {
		tt.Goal = nil
	} else if dto.Goal != nil {
		if !dto.Goal.Valid() {
			return nil, ErrInvalidGoal
		}
		tt.Goal = dto.Goal
	}
	if dto.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*dto.CategoryID); err != nil {
			return nil, err
		}
		tt.CategoryID = *dto.CategoryID
	}

	if err := s.repo.UpdateTask(tt); err != nil {
		log.WithError(err).Error("Failed to update template task")
		return nil, err
	}

	if dto.AssigneeIDs != nil {
		assignees, err := s.userRepo.FindByIDs(*dto.AssigneeIDs)
		if err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceTaskAssignees(tt, assignees); err != nil {
			log.WithError(err).Error("Failed to replace template task assignees")
			return nil, err
		}
		tt.Assignees = assignees
	}

	s.bus.Publish(notifier.SignalTemplateTaskIDs, nil)
	s.bus.Publish(notifier.SignalTemplateTask(tt.ID), &tt.ID)
	s.propagate(ctx, tt)

	log.WithField("template_task_id", tt.ID).Info("Template task updated")
	return tt, nil
}

func (s *service) DeleteTask(ctx context.Context, id uuid.UUID) error {
	log := config.WithContext(ctx)

	if _, err := s.GetTask(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteTask(id); err != nil {
		log.WithError(err).Error("Failed to delete template task")
		return err
	}

	s.bus.Publish(notifier.SignalTemplateTaskIDs, nil)
	log.WithField("template_task_id", id).Info("Template task deleted")
	return nil
}

// propagate applies the modification-window gate: inside the window the edit
// lands on the active cycle's materialized task immediately, outside it the
// template change waits for the next rollover.
func (s *service) propagate(ctx context.Context, tt *TemplateTask) {
	log := config.WithContext(ctx)

	snap := s.oracle.At(s.clock.Now())
	if !snap.InModificationWindow {
		log.WithField("phase", snap.Phase.String()).
			Debug("Modification window closed, template edit quarantined until rollover")
		return
	}

	if err := s.syncer.SyncTemplateTask(ctx, tt); err != nil {
		log.WithError(err).WithField("template_task_id", tt.ID).
			Error("Failed to sync template task into active cycle")
	}
}
