package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

type MockOutbox struct {
	mock.Mock
}

func (m *MockOutbox) FetchPending(ctx context.Context, limit int) ([]*entity.NotificationIntent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.NotificationIntent), args.Error(1)
}

func (m *MockOutbox) MarkPublished(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockOutbox) MarkFailed(ctx context.Context, id string, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishNotification(ctx context.Context, intent *entity.NotificationIntent) error {
	args := m.Called(ctx, intent)
	return args.Error(0)
}

type MockExpirer struct {
	mock.Mock
}

func (m *MockExpirer) ExpireStale(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOutboxRelayPublishesAndMarks(t *testing.T) {
	ok := &entity.NotificationIntent{ID: "n1", Kind: entity.NotificationLeadCreated}
	bad := &entity.NotificationIntent{ID: "n2", Kind: entity.NotificationProposalSent}

	outbox := new(MockOutbox)
	outbox.On("FetchPending", mock.Anything, 50).Return([]*entity.NotificationIntent{ok, bad}, nil)
	outbox.On("MarkPublished", mock.Anything, "n1", mock.AnythingOfType("time.Time")).Return(nil)
	outbox.On("MarkFailed", mock.Anything, "n2", "broker unavailable").Return(nil)

	publisher := new(MockPublisher)
	publisher.On("PublishNotification", mock.Anything, ok).Return(nil)
	publisher.On("PublishNotification", mock.Anything, bad).Return(errors.New("broker unavailable"))

	relay := NewOutboxRelay(outbox, publisher, discard(), time.Second)

	assert.Equal(t, 1, relay.relay(context.Background()))
	outbox.AssertExpectations(t)
	outbox.AssertNotCalled(t, "MarkPublished", mock.Anything, "n2", mock.Anything)
}

func TestOutboxRelaySurvivesFetchError(t *testing.T) {
	outbox := new(MockOutbox)
	outbox.On("FetchPending", mock.Anything, 50).Return(nil, errors.New("db down"))
	publisher := new(MockPublisher)

	relay := NewOutboxRelay(outbox, publisher, discard(), time.Second)

	assert.Equal(t, 0, relay.relay(context.Background()))
	publisher.AssertNotCalled(t, "PublishNotification", mock.Anything, mock.Anything)
}

func TestOutboxRelayStopsOnCancel(t *testing.T) {
	outbox := new(MockOutbox)
	outbox.On("FetchPending", mock.Anything, 50).Return([]*entity.NotificationIntent{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewOutboxRelay(outbox, new(MockPublisher), discard(), 10*time.Millisecond).Start(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := NewScheduler(discard())
	err := s.ScheduleExpiry(context.Background(), "not a cron spec", new(MockExpirer))
	assert.Error(t, err)
}

func TestSchedulerAcceptsDefaultSpec(t *testing.T) {
	s := NewScheduler(discard())
	assert.NoError(t, s.ScheduleExpiry(context.Background(), "", new(MockExpirer)))
	s.Start()
	s.Stop(context.Background())
}
