package task

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/selene-app/selene-api/internal/user"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type Repository interface {
	Create(t *Task) error
	FindByID(id uuid.UUID) (*Task, error)
	Update(t *Task) error
	Delete(id uuid.UUID) error
	ListByCycle(cycleID uuid.UUID) ([]Task, error)
	ListBacklog() ([]Task, error)
	ListFocused(cycleID uuid.UUID) ([]Task, error)
	FindByTemplateTaskAndCycle(templateTaskID, cycleID uuid.UUID) (*Task, error)
	ReplaceAssignees(t *Task, assignees []user.User) error

	CountCompletions(taskID uuid.UUID) (int64, error)
	ListCompletions(taskID uuid.UUID) ([]TaskCompletion, error)
	CreateCompletion(c *TaskCompletion) error
	ReplaceCompletions(taskID uuid.UUID, completions []TaskCompletion, doneScheduleIDs []uuid.UUID) error

	CreateSchedule(s *TaskSchedule) error
	ListSchedules(taskID uuid.UUID) ([]TaskSchedule, error)
	FindScheduleOn(taskID uuid.UUID, day time.Time) (*TaskSchedule, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(t *Task) error {
	return r.db.Create(t).Error
}

func (r *repository) FindByID(id uuid.UUID) (*Task, error) {
	var t Task
	err := r.db.Preload("Assignees").Preload("Completions").First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) Update(t *Task) error {
	return r.db.Omit("Assignees", "Completions").Save(t).Error
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Delete(&Task{}, "id = ?", id).Error
}

func (r *repository) ListByCycle(cycleID uuid.UUID) ([]Task, error) {
	var tasks []Task
	err := r.db.Preload("Assignees").Preload("Completions").
		Where("cycle_id = ?", cycleID).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repository) ListBacklog() ([]Task, error) {
	var tasks []Task
	err := r.db.Preload("Assignees").
		Where("cycle_id IS NULL").
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repository) ListFocused(cycleID uuid.UUID) ([]Task, error) {
	var tasks []Task
	err := r.db.Preload("Assignees").Preload("Completions").
		Where("cycle_id = ? AND is_focused = ?", cycleID, true).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByTemplateTaskAndCycle resolves the unique live materialization of a
// template task within one cycle.
func (r *repository) FindByTemplateTaskAndCycle(templateTaskID, cycleID uuid.UUID) (*Task, error) {
	var t Task
	err := r.db.Preload("Assignees").
		Where("template_task_id = ? AND cycle_id = ?", templateTaskID, cycleID).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) ReplaceAssignees(t *Task, assignees []user.User) error {
	return r.db.Model(t).Association("Assignees").Replace(assignees)
}

func (r *repository) CountCompletions(taskID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&TaskCompletion{}).Where("task_id = ?", taskID).Count(&count).Error
	return count, err
}

func (r *repository) ListCompletions(taskID uuid.UUID) ([]TaskCompletion, error) {
	var completions []TaskCompletion
	err := r.db.Where("task_id = ?", taskID).Order("completed_at ASC").Find(&completions).Error
	if err != nil {
		return nil, err
	}
	return completions, nil
}

func (r *repository) CreateCompletion(c *TaskCompletion) error {
	return r.db.Create(c).Error
}

// ReplaceCompletions atomically swaps the stored completion set for a task
// and marks the matched planned occurrences done.
func (r *repository) ReplaceCompletions(taskID uuid.UUID, completions []TaskCompletion, doneScheduleIDs []uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&TaskCompletion{}).Error; err != nil {
			return err
		}
		if len(completions) > 0 {
			if err := tx.Create(&completions).Error; err != nil {
				return err
			}
		}
		if len(doneScheduleIDs) > 0 {
			err := tx.Model(&TaskSchedule{}).
				Where("id IN ?", doneScheduleIDs).
				Update("done", true).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) CreateSchedule(s *TaskSchedule) error {
	return r.db.Create(s).Error
}

func (r *repository) ListSchedules(taskID uuid.UUID) ([]TaskSchedule, error) {
	var schedules []TaskSchedule
	err := r.db.Where("task_id = ?", taskID).Order("date ASC").Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *repository) FindScheduleOn(taskID uuid.UUID, day time.Time) (*TaskSchedule, error) {
	schedules, err := r.ListSchedules(taskID)
	if err != nil {
		return nil, err
	}
	for i := range schedules {
		if sameCalendarDay(schedules[i].Date, day) {
			return &schedules[i], nil
		}
	}
	return nil, ErrNotFound
}

// sameCalendarDay compares year/month/day in UTC, ignoring time of day.
func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
