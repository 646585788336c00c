package task

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/selene-app/selene-api/internal/config"
	"github.com/selene-app/selene-api/internal/notifier"
)

// taskLocks serializes completion reconciliation per task. Delete-then-insert
// must not interleave between two callers working on the same task.
type taskLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newTaskLocks() taskLocks {
	return taskLocks{locks: map[uuid.UUID]*sync.Mutex{}}
}

func (l *taskLocks) lock(id uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// SetCompletions replaces the stored completion set for a task with the
// caller's canonical list. Fewer entries than the target count is allowed,
// never more. Validation happens before any mutation, so a rejected call
// leaves the previous completions untouched.
func (s *service) SetCompletions(ctx context.Context, taskID uuid.UUID, entries []CompletionEntry) (*Task, error) {
	log := config.WithContext(ctx)

	unlock := s.locks.lock(taskID)
	defer unlock()

	t, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	for _, entry := range entries {
		if entry.CompletedAt.After(now) {
			return nil, ErrFutureCompletion
		}
	}
	if len(entries) > t.TargetCount {
		return nil, ErrTargetExceeded
	}

	var systemUserID *uuid.UUID
	completions := make([]TaskCompletion, 0, len(entries))
	var doneScheduleIDs []uuid.UUID
	for _, entry := range entries {
		userID := entry.UserID
		if userID == nil {
			if systemUserID == nil {
				system, err := s.userRepo.FindSystemUser()
				if err != nil {
					log.WithError(err).Error("No system user available for anonymous completion")
					return nil, err
				}
				systemUserID = &system.ID
			}
			userID = systemUserID
		}

		c := TaskCompletion{
			ID:          uuid.New(),
			TaskID:      taskID,
			UserID:      *userID,
			CompletedAt: entry.CompletedAt,
		}

		schedule, err := s.repo.FindScheduleOn(taskID, entry.CompletedAt)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if schedule != nil {
			c.ScheduleID = &schedule.ID
			doneScheduleIDs = append(doneScheduleIDs, schedule.ID)
		}

		completions = append(completions, c)
	}

	if err := s.repo.ReplaceCompletions(taskID, completions, doneScheduleIDs); err != nil {
		log.WithError(err).Error("Failed to replace task completions")
		return nil, err
	}

	t.Completions = completions
	s.publishCompletionSignals(t)
	log.WithField("task_id", taskID).WithField("completions", len(completions)).
		Info("Task completions replaced")
	return t, nil
}

// AddCompletion records one more unit of progress, attributed to the system
// user at the current time.
func (s *service) AddCompletion(ctx context.Context, taskID uuid.UUID) (*Task, error) {
	log := config.WithContext(ctx)

	unlock := s.locks.lock(taskID)
	defer unlock()

	t, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountCompletions(taskID)
	if err != nil {
		return nil, err
	}
	if count >= int64(t.TargetCount) {
		return nil, ErrAlreadyComplete
	}

	system, err := s.userRepo.FindSystemUser()
	if err != nil {
		log.WithError(err).Error("No system user available for completion")
		return nil, err
	}

	c := TaskCompletion{
		ID:          uuid.New(),
		TaskID:      taskID,
		UserID:      system.ID,
		CompletedAt: s.clock.Now(),
	}
	if err := s.repo.CreateCompletion(&c); err != nil {
		log.WithError(err).Error("Failed to add task completion")
		return nil, err
	}

	t.Completions = append(t.Completions, c)
	s.publishCompletionSignals(t)
	log.WithField("task_id", taskID).Info("Task completion added")
	return t, nil
}

func (s *service) publishCompletionSignals(t *Task) {
	s.bus.Publish(notifier.SignalTask(t.ID), &t.ID)
	if t.CycleID != nil {
		s.bus.Publish(notifier.SignalCurrentTaskIDs, nil)
	} else {
		s.bus.Publish(notifier.SignalBacklogTaskIDs, nil)
	}
	s.bus.Publish(notifier.SignalStatistics, nil)
}
