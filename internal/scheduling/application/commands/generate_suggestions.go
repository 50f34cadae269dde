package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/cadencehq/cadence/internal/scheduling/domain"
	"github.com/cadencehq/cadence/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// eventLookahead bounds how far ahead calendar events are loaded for
// conflict checks.
const eventLookahead = 30 * 24 * time.Hour

// GenerateSuggestionsCommand requests a suggestion generation run for a user.
type GenerateSuggestionsCommand struct {
	UserID uuid.UUID
}

// GenerateSuggestionsHandler runs all evaluators across a user's open tasks
// and persists the surviving candidates. Safe to re-run on a schedule: the
// confidence floor, the capacity cap, and per-task dedupe keep repeated runs
// from duplicating state.
type GenerateSuggestionsHandler struct {
	settingsRepo   domain.SettingsRepository
	taskRepo       domain.TaskRepository
	eventRepo      domain.CalendarEventRepository
	suggestionRepo domain.SuggestionRepository
	publisher      eventbus.Publisher
	logger         *slog.Logger
	now            func() time.Time
}

// NewGenerateSuggestionsHandler creates a new GenerateSuggestionsHandler.
func NewGenerateSuggestionsHandler(
	settingsRepo domain.SettingsRepository,
	taskRepo domain.TaskRepository,
	eventRepo domain.CalendarEventRepository,
	suggestionRepo domain.SuggestionRepository,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *GenerateSuggestionsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerateSuggestionsHandler{
		settingsRepo:   settingsRepo,
		taskRepo:       taskRepo,
		eventRepo:      eventRepo,
		suggestionRepo: suggestionRepo,
		publisher:      publisher,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Handle executes the GenerateSuggestionsCommand.
func (h *GenerateSuggestionsHandler) Handle(ctx context.Context, cmd GenerateSuggestionsCommand) ([]*domain.ScheduleSuggestion, error) {
	start := time.Now()
	now := h.now()

	settings, created, err := h.settingsRepo.GetOrCreate(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if created {
		h.logger.Info("created default auto-schedule settings", "user_id", cmd.UserID)
	}
	if !settings.EnableSuggestions {
		return nil, nil
	}

	tasks, err := h.taskRepo.FindOpenByUser(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	var events []domain.CalendarEvent
	if len(settings.SelectedCalendarIDs) > 0 {
		events, err = h.eventRepo.FindByCalendarsInRange(ctx, settings.SelectedCalendarIDs, now, now.Add(eventLookahead))
		if err != nil {
			return nil, err
		}
	}

	state := &domain.Snapshot{
		Now:      now,
		Settings: settings,
		Events:   events,
		Tasks:    tasks,
	}

	evaluators := domain.DefaultEvaluators()
	candidates := make([]candidateForTask, 0)
	for _, task := range tasks {
		for _, c := range h.evaluateTask(task, state, evaluators) {
			if c.Confidence < domain.MinConfidence {
				continue
			}
			candidates = append(candidates, candidateForTask{task: task, candidate: c})
		}
	}

	pending, err := h.suggestionRepo.CountPending(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	capacity := domain.PendingSuggestionCap - pending
	if capacity <= 0 {
		return nil, nil
	}

	persisted := make([]*domain.ScheduleSuggestion, 0, capacity)
	for _, cand := range candidates {
		if len(persisted) >= capacity {
			break
		}

		exists, err := h.suggestionRepo.HasPendingForTask(ctx, cmd.UserID, cand.task.ID, cand.candidate.Type)
		if err != nil {
			return persisted, err
		}
		if exists {
			continue
		}

		suggestion := domain.NewSuggestion(cand.task, cand.candidate, now)
		if err := h.suggestionRepo.Create(ctx, suggestion); err != nil {
			return persisted, err
		}
		persisted = append(persisted, suggestion)
	}

	if len(persisted) > 0 {
		publishEvent(ctx, h.publisher, h.logger, EventSuggestionsGenerated, map[string]any{
			"user_id": cmd.UserID,
			"count":   len(persisted),
		})
	}

	h.logger.Info("suggestion generation completed",
		"user_id", cmd.UserID,
		"tasks", len(tasks),
		"candidates", len(candidates),
		"persisted", len(persisted),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return persisted, nil
}

type candidateForTask struct {
	task      *domain.Task
	candidate domain.Candidate
}

// evaluateTask runs every evaluator against one task, isolating failures so
// one malformed task cannot block the rest of the user's run.
func (h *GenerateSuggestionsHandler) evaluateTask(task *domain.Task, state *domain.Snapshot, evaluators []domain.Evaluator) []domain.Candidate {
	var out []domain.Candidate
	for _, ev := range evaluators {
		c := h.safeEvaluate(ev, task, state)
		if c != nil {
			out = append(out, *c)
		}
	}
	return out
}

func (h *GenerateSuggestionsHandler) safeEvaluate(ev domain.Evaluator, task *domain.Task, state *domain.Snapshot) (c *domain.Candidate) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("evaluator panicked, skipping task",
				"evaluator", ev.Type(),
				"task_id", task.ID,
				"panic", r,
			)
			c = nil
		}
	}()
	return ev.Evaluate(task, state)
}
