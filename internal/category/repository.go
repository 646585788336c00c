package category

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(c *Category) error
	FindByID(id uuid.UUID) (*Category, error)
	List() ([]Category, error)
	Update(c *Category) error
	Delete(id uuid.UUID) error
	CountOwnedTasks(id uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(c *Category) error {
	return r.db.Create(c).Error
}

func (r *repository) FindByID(id uuid.UUID) (*Category, error) {
	var c Category
	if err := r.db.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) List() ([]Category, error) {
	var categories []Category
	if err := r.db.Order("created_at ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repository) Update(c *Category) error {
	return r.db.Save(c).Error
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Delete(&Category{}, "id = ?", id).Error
}

// CountOwnedTasks counts tasks and template tasks still referencing the
// category. The tables are queried by name to keep this package free of a
// dependency on the task and template packages.
func (r *repository) CountOwnedTasks(id uuid.UUID) (int64, error) {
	var tasks int64
	if err := r.db.Table("tasks").Where("category_id = ?", id).Count(&tasks).Error; err != nil {
		return 0, err
	}
	var templateTasks int64
	if err := r.db.Table("template_tasks").Where("category_id = ?", id).Count(&templateTasks).Error; err != nil {
		return 0, err
	}
	return tasks + templateTasks, nil
}
