package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/selene-app/selene-api/internal/user"
)

// Task is one trackable item. A nil CycleID means the task sits in the
// backlog; a non-nil TemplateTaskID marks it as the live materialization of a
// recurring template task for its cycle.
type Task struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Title          string           `gorm:"not null" json:"title"`
	Description    string           `json:"description,omitempty"`
	StoryPoints    int              `gorm:"not null;default:1" json:"story_points"`
	TargetCount    int              `gorm:"not null;default:1" json:"target_count"`
	CategoryID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"category_id"`
	CycleID        *uuid.UUID       `gorm:"type:uuid;index" json:"cycle_id,omitempty"`
	TemplateTaskID *uuid.UUID       `gorm:"type:uuid;index" json:"template_task_id,omitempty"`
	IsFocused      bool             `gorm:"not null;default:false" json:"is_focused"`
	Assignees      []user.User      `gorm:"many2many:task_assignees" json:"assignees,omitempty"`
	Completions    []TaskCompletion `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"completions,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// TaskCompletion records one unit of progress against a task.
type TaskCompletion struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"task_id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null" json:"user_id"`
	CompletedAt time.Time  `gorm:"not null" json:"completed_at"`
	ScheduleID  *uuid.UUID `gorm:"type:uuid" json:"schedule_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TaskSchedule is a planned occurrence of a task on a calendar day.
// Completions landing on the same day are linked to it and it is marked done.
type TaskSchedule struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;index" json:"task_id"`
	Date      time.Time `gorm:"not null" json:"date"`
	Done      bool      `gorm:"not null;default:false" json:"done"`
	CreatedAt time.Time `json:"created_at"`
}
