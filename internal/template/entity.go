package template

import (
	"time"

	"github.com/google/uuid"
	"github.com/selene-app/selene-api/internal/user"
)

// Template is the reusable recipe a cycle is seeded from. At most one
// template is active at a time.
type Template struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	IsActive  bool           `gorm:"not null;default:false;index" json:"is_active"`
	Tasks     []TemplateTask `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TemplateTask is the durable definition of one recurring task. Edits are
// quarantined from the live cycle except during the modification window.
type TemplateTask struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	TemplateID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"template_id"`
	Title       string      `gorm:"not null" json:"title"`
	Description string      `json:"description,omitempty"`
	StoryPoints int         `gorm:"not null;default:1" json:"story_points"`
	TargetCount int         `gorm:"not null;default:1" json:"target_count"`
	Goal        *Goal       `gorm:"type:varchar(16)" json:"goal,omitempty"`
	CategoryID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"category_id"`
	Assignees   []user.User `gorm:"many2many:template_task_assignees" json:"assignees,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
