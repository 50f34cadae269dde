package commands

import (
	"context"
	"sync"
	"time"

	"github.com/cadencehq/cadence/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockSettingsRepo is a mock implementation of domain.SettingsRepository.
type mockSettingsRepo struct {
	mock.Mock
}

func (m *mockSettingsRepo) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.AutoScheduleSettings, bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.AutoScheduleSettings), args.Bool(1), args.Error(2)
}

func (m *mockSettingsRepo) Update(ctx context.Context, settings *domain.AutoScheduleSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// mockTaskRepo is a mock implementation of domain.TaskRepository.
type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) FindOpenByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *mockTaskRepo) UpdateSchedule(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *mockTaskRepo) UserIDsWithOpenTasks(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// mockEventRepo is a mock implementation of domain.CalendarEventRepository.
type mockEventRepo struct {
	mock.Mock
}

func (m *mockEventRepo) FindByCalendarsInRange(ctx context.Context, calendarIDs []uuid.UUID, start, end time.Time) ([]domain.CalendarEvent, error) {
	args := m.Called(ctx, calendarIDs, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CalendarEvent), args.Error(1)
}

// mockSuggestionRepo is a mock implementation of domain.SuggestionRepository.
type mockSuggestionRepo struct {
	mock.Mock
}

func (m *mockSuggestionRepo) Create(ctx context.Context, s *domain.ScheduleSuggestion) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockSuggestionRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.ScheduleSuggestion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduleSuggestion), args.Error(1)
}

func (m *mockSuggestionRepo) FindByUser(ctx context.Context, userID uuid.UUID, status *domain.SuggestionStatus) ([]*domain.ScheduleSuggestion, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ScheduleSuggestion), args.Error(1)
}

func (m *mockSuggestionRepo) CountPending(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockSuggestionRepo) HasPendingForTask(ctx context.Context, userID, taskID uuid.UUID, t domain.SuggestionType) (bool, error) {
	args := m.Called(ctx, userID, taskID, t)
	return args.Bool(0), args.Error(1)
}

func (m *mockSuggestionRepo) UpdateStatus(ctx context.Context, s *domain.ScheduleSuggestion) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockSuggestionRepo) FindExpiredPending(ctx context.Context, now time.Time) ([]*domain.ScheduleSuggestion, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ScheduleSuggestion), args.Error(1)
}

// stubUnitOfWork is a pass-through unit of work that records transitions.
type stubUnitOfWork struct {
	begun      int
	committed  int
	rolledBack int
}

func (u *stubUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	u.begun++
	return ctx, nil
}

func (u *stubUnitOfWork) Commit(ctx context.Context) error {
	u.committed++
	return nil
}

func (u *stubUnitOfWork) Rollback(ctx context.Context) error {
	u.rolledBack++
	return nil
}

// recordingPublisher captures published routing keys.
type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}
