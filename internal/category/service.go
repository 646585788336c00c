package category

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/selene-app/selene-api/internal/config"
	"github.com/selene-app/selene-api/internal/notifier"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category still owns tasks")
	ErrNameRequired     = errors.New("category name is required")
)

type Service interface {
	Create(ctx context.Context, dto CreateCategoryDTO) (*Category, error)
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id uuid.UUID) (*Category, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateCategoryDTO) (*Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	bus  notifier.Notifier
}

func NewService(repo Repository, bus notifier.Notifier) Service {
	return &service{repo: repo, bus: bus}
}

func (s *service) Create(ctx context.Context, dto CreateCategoryDTO) (*Category, error) {
	log := config.WithContext(ctx)

	if dto.Name == "" {
		return nil, ErrNameRequired
	}

	c := Category{
		ID:          uuid.New(),
		Name:        dto.Name,
		Emoji:       dto.Emoji,
		Description: dto.Description,
	}
	if err := s.repo.Create(&c); err != nil {
		log.WithError(err).Error("Failed to create category")
		return nil, err
	}

	s.bus.Publish(notifier.SignalCategoryIDs, nil)
	log.WithField("category_id", c.ID).Info("Category created")
	return &c, nil
}

func (s *service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List()
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Category, error) {
	return s.repo.FindByID(id)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateCategoryDTO) (*Category, error) {
	log := config.WithContext(ctx)

	c, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		if *dto.Name == "" {
			return nil, ErrNameRequired
		}
		c.Name = *dto.Name
	}
	if dto.Emoji != nil {
		c.Emoji = *dto.Emoji
	}
	if dto.Description != nil {
		c.Description = *dto.Description
	}

	if err := s.repo.Update(c); err != nil {
		log.WithError(err).Error("Failed to update category")
		return nil, err
	}

	s.bus.Publish(notifier.SignalCategoryIDs, nil)
	return c, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	log := config.WithContext(ctx)

	if _, err := s.repo.FindByID(id); err != nil {
		return err
	}

	owned, err := s.repo.CountOwnedTasks(id)
	if err != nil {
		log.WithError(err).Error("Failed to count category tasks")
		return err
	}
	if owned > 0 {
		return ErrCategoryInUse
	}

	if err := s.repo.Delete(id); err != nil {
		log.WithError(err).Error("Failed to delete category")
		return err
	}

	s.bus.Publish(notifier.SignalCategoryIDs, nil)
	log.WithField("category_id", id).Info("Category deleted")
	return nil
}
