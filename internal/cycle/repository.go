package cycle

import (
	"errors"

	"github.com/google/uuid"
	"github.com/selene-app/selene-api/internal/task"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type Repository interface {
	FindActive() (*Cycle, error)
	ActiveCycleID() (*uuid.UUID, error)
	FindByID(id uuid.UUID) (*Cycle, error)
	ListByCreation() ([]Cycle, error)
	Swap(prev *Cycle, next *Cycle, materialized []task.Task) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindActive() (*Cycle, error) {
	var c Cycle
	if err := r.db.Where("is_active = ?", true).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ActiveCycleID satisfies task.CycleResolver. A nil id with a nil error
// means no cycle has been rolled yet.
func (r *repository) ActiveCycleID() (*uuid.UUID, error) {
	c, err := r.FindActive()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c.ID, nil
}

func (r *repository) FindByID(id uuid.UUID) (*Cycle, error) {
	var c Cycle
	if err := r.db.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) ListByCreation() ([]Cycle, error) {
	var cycles []Cycle
	if err := r.db.Order("created_at ASC").Find(&cycles).Error; err != nil {
		return nil, err
	}
	return cycles, nil
}

// Swap applies the whole rollover in one transaction: demote the previous
// cycle's non-template tasks to the backlog, deactivate it, create the next
// active cycle, and insert the materialized template tasks. Deactivate and
// activate happening in the same transaction is what keeps the at-most-one-
// active-cycle invariant under concurrent callers.
func (r *repository) Swap(prev *Cycle, next *Cycle, materialized []task.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if prev != nil {
			err := tx.Model(&task.Task{}).
				Where("cycle_id = ? AND template_task_id IS NULL", prev.ID).
				Update("cycle_id", nil).Error
			if err != nil {
				return err
			}
			if err := tx.Model(&Cycle{}).Where("id = ?", prev.ID).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(next).Error; err != nil {
			return err
		}
		if len(materialized) > 0 {
			if err := tx.Create(&materialized).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
