package task

import (
	"time"

	"github.com/google/uuid"
)

type CreateTaskDTO struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	StoryPoints int         `json:"story_points"`
	TargetCount int         `json:"target_count"`
	CategoryID  uuid.UUID   `json:"category_id"`
	InBacklog   bool        `json:"in_backlog"`
	AssigneeIDs []uuid.UUID `json:"assignee_ids"`
}

type UpdateTaskDTO struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	StoryPoints *int         `json:"story_points"`
	TargetCount *int         `json:"target_count"`
	CategoryID  *uuid.UUID   `json:"category_id"`
	IsFocused   *bool        `json:"is_focused"`
	AssigneeIDs *[]uuid.UUID `json:"assignee_ids"`
}

// CompletionEntry is one element of the canonical completion list submitted
// to SetCompletions. A nil UserID resolves to the system user.
type CompletionEntry struct {
	UserID      *uuid.UUID `json:"user_id"`
	CompletedAt time.Time  `json:"completed_at"`
}

type SetCompletionsDTO struct {
	Completions []CompletionEntry `json:"completions"`
}
