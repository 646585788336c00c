package template

import "github.com/google/uuid"

type CreateTemplateDTO struct {
	Name     string `json:"name"`
	Activate bool   `json:"activate"`
}

type CreateTemplateTaskDTO struct {
	TemplateID  uuid.UUID   `json:"template_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	StoryPoints int         `json:"story_points"`
	TargetCount int         `json:"target_count"`
	Goal        *Goal       `json:"goal"`
	CategoryID  uuid.UUID   `json:"category_id"`
	AssigneeIDs []uuid.UUID `json:"assignee_ids"`
}

type UpdateTemplateTaskDTO struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	StoryPoints *int         `json:"story_points"`
	TargetCount *int         `json:"target_count"`
	Goal        *Goal        `json:"goal"`
	ClearGoal   bool         `json:"clear_goal"`
	CategoryID  *uuid.UUID   `json:"category_id"`
	AssigneeIDs *[]uuid.UUID `json:"assignee_ids"`
}
