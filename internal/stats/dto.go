package stats

import (
	"github.com/google/uuid"
	"github.com/selene-app/selene-api/internal/template"
)

// CycleVelocity is one cycle's committed vs completed effort, both weighted
// by story points.
type CycleVelocity struct {
	CycleID   uuid.UUID `json:"cycle_id"`
	CycleName string    `json:"cycle_name"`
	Completed int       `json:"completed"`
	Committed int       `json:"committed"`
}

// HistorySample is one cycle's outcome for a single recurring task.
// Completed and Committed are story-point weighted; CompletionCount is the
// raw number of completions, which is what target suggestion reasons about.
type HistorySample struct {
	CycleName       string `json:"cycle_name"`
	Completed       int    `json:"completed"`
	Committed       int    `json:"committed"`
	CompletionCount int    `json:"completion_count"`
}

// Velocity is the full aggregation for one category filter: the per-cycle
// series plus the per-recurring-task history keyed by template task id.
type Velocity struct {
	Series  []CycleVelocity               `json:"series"`
	History map[uuid.UUID][]HistorySample `json:"history"`
}

type CategoryBreakdown struct {
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Series       []CycleVelocity `json:"series"`
}

type Statistics struct {
	Overall    []CycleVelocity     `json:"overall"`
	Categories []CategoryBreakdown `json:"categories"`
}

// TargetSuggestion is the advisory output for one recurring task. The caller
// decides whether to commit the suggested target.
type TargetSuggestion struct {
	TemplateTaskID  uuid.UUID      `json:"template_task_id"`
	Title           string         `json:"title"`
	Goal            *template.Goal `json:"goal,omitempty"`
	Trend           Trend          `json:"trend"`
	CurrentTarget   int            `json:"current_target"`
	SuggestedTarget int            `json:"suggested_target"`
}
