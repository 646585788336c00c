package template

import (
	"errors"

	"github.com/google/uuid"
	"github.com/selene-app/selene-api/internal/user"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type Repository interface {
	CreateTemplate(t *Template) error
	FindTemplateByID(id uuid.UUID) (*Template, error)
	FindActiveTemplate() (*Template, error)
	ListTemplates() ([]Template, error)
	SetActiveTemplate(id uuid.UUID) error

	CreateTask(tt *TemplateTask) error
	FindTaskByID(id uuid.UUID) (*TemplateTask, error)
	ListTasksByTemplate(templateID uuid.UUID) ([]TemplateTask, error)
	UpdateTask(tt *TemplateTask) error
	DeleteTask(id uuid.UUID) error
	ReplaceTaskAssignees(tt *TemplateTask, assignees []user.User) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateTemplate(t *Template) error {
	return r.db.Create(t).Error
}

func (r *repository) FindTemplateByID(id uuid.UUID) (*Template, error) {
	var t Template
	err := r.db.Preload("Tasks").Preload("Tasks.Assignees").First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) FindActiveTemplate() (*Template, error) {
	var t Template
	err := r.db.Preload("Tasks").Preload("Tasks.Assignees").
		Where("is_active = ?", true).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) ListTemplates() ([]Template, error) {
	var templates []Template
	if err := r.db.Order("created_at ASC").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// SetActiveTemplate activates one template and deactivates every other in a
// single transaction, keeping the at-most-one-active rule.
func (r *repository) SetActiveTemplate(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var t Template
		if err := tx.First(&t, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&Template{}).Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&Template{}).Where("id = ?", id).
			Update("is_active", true).Error
	})
}

func (r *repository) CreateTask(tt *TemplateTask) error {
	return r.db.Create(tt).Error
}

func (r *repository) FindTaskByID(id uuid.UUID) (*TemplateTask, error) {
	var tt TemplateTask
	err := r.db.Preload("Assignees").First(&tt, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tt, nil
}

func (r *repository) ListTasksByTemplate(templateID uuid.UUID) ([]TemplateTask, error) {
	var tasks []TemplateTask
	err := r.db.Preload("Assignees").
		Where("template_id = ?", templateID).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repository) UpdateTask(tt *TemplateTask) error {
	return r.db.Omit("Assignees").Save(tt).Error
}

func (r *repository) DeleteTask(id uuid.UUID) error {
	return r.db.Delete(&TemplateTask{}, "id = ?", id).Error
}

func (r *repository) ReplaceTaskAssignees(tt *TemplateTask, assignees []user.User) error {
	return r.db.Model(tt).Association("Assignees").Replace(assignees)
}
