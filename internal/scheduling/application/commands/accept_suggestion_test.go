package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cadencehq/cadence/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pendingSuggestion(userID uuid.UUID, withSlot bool) *domain.ScheduleSuggestion {
	s := &domain.ScheduleSuggestion{
		ID:         uuid.New(),
		UserID:     userID,
		TaskID:     uuid.New(),
		Type:       domain.SuggestionDeadlineProximity,
		Reason:     "due soon",
		Confidence: 0.9,
		Status:     domain.SuggestionPending,
		CreatedAt:  testNow,
		ExpiresAt:  testNow.Add(domain.SuggestionTTL),
		UpdatedAt:  testNow,
	}
	if withSlot {
		start := testNow.Add(2 * time.Hour)
		end := start.Add(time.Hour)
		s.SuggestedStart = &start
		s.SuggestedEnd = &end
	}
	return s
}

func newAcceptHandler(suggestions *mockSuggestionRepo, tasks *mockTaskRepo, uow *stubUnitOfWork, publisher *recordingPublisher) *AcceptSuggestionHandler {
	h := NewAcceptSuggestionHandler(suggestions, tasks, uow, publisher, nil)
	h.now = func() time.Time { return testNow }
	return h
}

func TestAcceptSuggestionHandler_Handle(t *testing.T) {
	userID := uuid.New()

	t.Run("applies proposed slot to the task", func(t *testing.T) {
		suggestionRepo := new(mockSuggestionRepo)
		taskRepo := new(mockTaskRepo)
		uow := &stubUnitOfWork{}
		publisher := &recordingPublisher{}
		handler := newAcceptHandler(suggestionRepo, taskRepo, uow, publisher)

		suggestion := pendingSuggestion(userID, true)
		task := &domain.Task{
			ID:     suggestion.TaskID,
			UserID: userID,
			Status: domain.TaskStatusTodo,
		}

		suggestionRepo.On("FindByID", mock.Anything, suggestion.ID).Return(suggestion, nil)
		taskRepo.On("FindByID", mock.Anything, suggestion.TaskID, userID).Return(task, nil)
		taskRepo.On("UpdateSchedule", mock.Anything, task).Return(nil)
		suggestionRepo.On("UpdateStatus", mock.Anything, suggestion).Return(nil)

		result, err := handler.Handle(context.Background(), AcceptSuggestionCommand{SuggestionID: suggestion.ID, UserID: userID})

		require.NoError(t, err)
		assert.Equal(t, domain.SuggestionAccepted, result.Status)
		require.NotNil(t, result.RespondedAt)
		assert.Equal(t, testNow, *result.RespondedAt)

		require.NotNil(t, task.ScheduledStart)
		assert.Equal(t, *suggestion.SuggestedStart, *task.ScheduledStart)
		assert.Equal(t, *suggestion.SuggestedEnd, *task.ScheduledEnd)
		assert.True(t, task.AutoScheduled)

		assert.Equal(t, 1, uow.begun)
		assert.Equal(t, 1, uow.committed)
		assert.Equal(t, 0, uow.rolledBack)
		assert.Equal(t, []string{EventSuggestionAccepted}, publisher.published())
		suggestionRepo.AssertExpectations(t)
		taskRepo.AssertExpectations(t)
	})

	t.Run("reason-only suggestion leaves the task alone", func(t *testing.T) {
		suggestionRepo := new(mockSuggestionRepo)
		taskRepo := new(mockTaskRepo)
		uow := &stubUnitOfWork{}
		handler := newAcceptHandler(suggestionRepo, taskRepo, uow, &recordingPublisher{})

		suggestion := pendingSuggestion(userID, false)
		suggestionRepo.On("FindByID", mock.Anything, suggestion.ID).Return(suggestion, nil)
		suggestionRepo.On("UpdateStatus", mock.Anything, suggestion).Return(nil)

		result, err := handler.Handle(context.Background(), AcceptSuggestionCommand{SuggestionID: suggestion.ID, UserID: userID})

		require.NoError(t, err)
		assert.Equal(t, domain.SuggestionAccepted, result.Status)
		taskRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
		taskRepo.AssertNotCalled(t, "UpdateSchedule", mock.Anything, mock.Anything)
		assert.Equal(t, 1, uow.committed)
	})

	t.Run("another user's suggestion is reported missing", func(t *testing.T) {
		suggestionRepo := new(mockSuggestionRepo)
		uow := &stubUnitOfWork{}
		publisher := &recordingPublisher{}
		handler := newAcceptHandler(suggestionRepo, new(mockTaskRepo), uow, publisher)

		suggestion := pendingSuggestion(uuid.New(), true)
		suggestionRepo.On("FindByID", mock.Anything, suggestion.ID).Return(suggestion, nil)

		_, err := handler.Handle(context.Background(), AcceptSuggestionCommand{SuggestionID: suggestion.ID, UserID: userID})

		assert.ErrorIs(t, err, domain.ErrSuggestionNotFound)
		assert.Equal(t, 1, uow.rolledBack)
		assert.Equal(t, 0, uow.committed)
		assert.Empty(t, publisher.published())
	})

	t.Run("missing task rolls back", func(t *testing.T) {
		suggestionRepo := new(mockSuggestionRepo)
		taskRepo := new(mockTaskRepo)
		uow := &stubUnitOfWork{}
		handler := newAcceptHandler(suggestionRepo, taskRepo, uow, &recordingPublisher{})

		suggestion := pendingSuggestion(userID, true)
		suggestionRepo.On("FindByID", mock.Anything, suggestion.ID).Return(suggestion, nil)
		taskRepo.On("FindByID", mock.Anything, suggestion.TaskID, userID).Return(nil, nil)

		_, err := handler.Handle(context.Background(), AcceptSuggestionCommand{SuggestionID: suggestion.ID, UserID: userID})

		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
		assert.Equal(t, 1, uow.rolledBack)
		suggestionRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
	})

	t.Run("schedule write failure aborts the status update", func(t *testing.T) {
		suggestionRepo := new(mockSuggestionRepo)
		taskRepo := new(mockTaskRepo)
		uow := &stubUnitOfWork{}
		handler := newAcceptHandler(suggestionRepo, taskRepo, uow, &recordingPublisher{})

		suggestion := pendingSuggestion(userID, true)
		task := &domain.Task{ID: suggestion.TaskID, UserID: userID, Status: domain.TaskStatusTodo}
		writeErr := errors.New("write failed")

		suggestionRepo.On("FindByID", mock.Anything, suggestion.ID).Return(suggestion, nil)
		taskRepo.On("FindByID", mock.Anything, suggestion.TaskID, userID).Return(task, nil)
		taskRepo.On("UpdateSchedule", mock.Anything, task).Return(writeErr)

		_, err := handler.Handle(context.Background(), AcceptSuggestionCommand{SuggestionID: suggestion.ID, UserID: userID})

		assert.ErrorIs(t, err, writeErr)
		assert.Equal(t, 1, uow.rolledBack)
		suggestionRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
	})

	t.Run("already responded suggestion cannot be accepted", func(t *testing.T) {
		suggestionRepo := new(mockSuggestionRepo)
		uow := &stubUnitOfWork{}
		handler := newAcceptHandler(suggestionRepo, new(mockTaskRepo), uow, &recordingPublisher{})

		suggestion := pendingSuggestion(userID, true)
		require.NoError(t, suggestion.Reject(testNow))
		suggestionRepo.On("FindByID", mock.Anything, suggestion.ID).Return(suggestion, nil)

		_, err := handler.Handle(context.Background(), AcceptSuggestionCommand{SuggestionID: suggestion.ID, UserID: userID})

		assert.ErrorIs(t, err, domain.ErrSuggestionAlreadyResponded)
		assert.Equal(t, domain.SuggestionRejected, suggestion.Status)
		assert.Equal(t, 1, uow.rolledBack)
	})
}
