package stats

import (
	"context"

	"github.com/google/uuid"
	"github.com/selene-app/selene-api/internal/category"
	"github.com/selene-app/selene-api/internal/config"
	"github.com/selene-app/selene-api/internal/cycle"
	"github.com/selene-app/selene-api/internal/task"
	"github.com/selene-app/selene-api/internal/template"
	"gorm.io/gorm"
)

type Service interface {
	VelocityByMonth(ctx context.Context, categoryID *uuid.UUID) (*Velocity, error)
	GetStatistics(ctx context.Context) (*Statistics, error)
	SuggestionsForTemplate(ctx context.Context) ([]TargetSuggestion, error)
}

type service struct {
	db           *gorm.DB
	cycleRepo    cycle.Repository
	categoryRepo category.Repository
	templateRepo template.Repository
}

func NewService(
	db *gorm.DB,
	cycleRepo cycle.Repository,
	categoryRepo category.Repository,
	templateRepo template.Repository,
) Service {
	return &service{
		db:           db,
		cycleRepo:    cycleRepo,
		categoryRepo: categoryRepo,
		templateRepo: templateRepo,
	}
}

// VelocityByMonth walks every cycle in creation order once, summing
// story-point weighted committed and completed effort, and accumulating the
// per-recurring-task history on the way. A system with no cycles yields an
// empty series, not an error.
func (s *service) VelocityByMonth(ctx context.Context, categoryID *uuid.UUID) (*Velocity, error) {
	cycles, err := s.cycleRepo.ListByCreation()
	if err != nil {
		return nil, err
	}

	v := &Velocity{
		Series:  make([]CycleVelocity, 0, len(cycles)),
		History: map[uuid.UUID][]HistorySample{},
	}

	for _, c := range cycles {
		tasks, err := s.tasksForCycle(c.ID, categoryID)
		if err != nil {
			return nil, err
		}

		completed, committed := 0, 0
		for i := range tasks {
			t := &tasks[i]
			count := len(t.Completions)
			completed += count * t.StoryPoints
			committed += t.TargetCount * t.StoryPoints

			if t.TemplateTaskID != nil {
				v.History[*t.TemplateTaskID] = append(v.History[*t.TemplateTaskID], HistorySample{
					CycleName:       c.Name,
					Completed:       count * t.StoryPoints,
					Committed:       t.TargetCount * t.StoryPoints,
					CompletionCount: count,
				})
			}
		}

		v.Series = append(v.Series, CycleVelocity{
			CycleID:   c.ID,
			CycleName: c.Name,
			Completed: completed,
			Committed: committed,
		})
	}

	return v, nil
}

func (s *service) tasksForCycle(cycleID uuid.UUID, categoryID *uuid.UUID) ([]task.Task, error) {
	q := s.db.Preload("Completions").Where("cycle_id = ?", cycleID)
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	var tasks []task.Task
	if err := q.Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *service) GetStatistics(ctx context.Context) (*Statistics, error) {
	log := config.WithContext(ctx)

	overall, err := s.VelocityByMonth(ctx, nil)
	if err != nil {
		log.WithError(err).Error("Failed to aggregate overall velocity")
		return nil, err
	}

	categories, err := s.categoryRepo.List()
	if err != nil {
		return nil, err
	}

	stats := &Statistics{
		Overall:    overall.Series,
		Categories: make([]CategoryBreakdown, 0, len(categories)),
	}
	for _, c := range categories {
		v, err := s.VelocityByMonth(ctx, &c.ID)
		if err != nil {
			return nil, err
		}
		stats.Categories = append(stats.Categories, CategoryBreakdown{
			CategoryID:   c.ID,
			CategoryName: c.Name,
			Series:       v.Series,
		})
	}
	return stats, nil
}

// SuggestionsForTemplate computes the advisory next-cycle target for every
// task of the active template.
func (s *service) SuggestionsForTemplate(ctx context.Context) ([]TargetSuggestion, error) {
	tpl, err := s.templateRepo.FindActiveTemplate()
	if err != nil {
		return nil, err
	}

	v, err := s.VelocityByMonth(ctx, nil)
	if err != nil {
		return nil, err
	}

	suggestions := make([]TargetSuggestion, 0, len(tpl.Tasks))
	for i := range tpl.Tasks {
		tt := &tpl.Tasks[i]
		history := v.History[tt.ID]
		suggestions = append(suggestions, TargetSuggestion{
			TemplateTaskID:  tt.ID,
			Title:           tt.Title,
			Goal:            tt.Goal,
			Trend:           NewTrendStats(history).Trend,
			CurrentTarget:   tt.TargetCount,
			SuggestedTarget: SuggestTarget(history, tt.Goal, tt.TargetCount),
		})
	}
	return suggestions, nil
}
