package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"teamwork/internal/models"
	queuemocks "teamwork/internal/queue/mocks"
	repomocks "teamwork/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

type capturePublisher struct {
	mu     sync.Mutex
	events map[primitive.ObjectID][]models.MessageEvent
}

func newCapturePublisher() *capturePublisher {
	return &capturePublisher{events: make(map[primitive.ObjectID][]models.MessageEvent)}
}

func (p *capturePublisher) Publish(channelID primitive.ObjectID, event models.MessageEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events[channelID] = append(p.events[channelID], event)
}

func (p *capturePublisher) count(channelID primitive.ObjectID) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events[channelID])
}

func TestScheduler_ReleaseDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	channelID := primitive.NewObjectID()

	t.Run("releases and publishes due messages", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		store := repomocks.NewMockMessageRepository(ctrl)
		publisher := newCapturePublisher()
		s := NewScheduler(SchedulerConfig{Messages: store, Publisher: publisher, Interval: time.Second})
		s.now = func() time.Time { return now }

		due := []models.Message{
			{ID: primitive.NewObjectID(), ChannelID: channelID, Content: "standup", Status: models.MessageStatusPending},
			{ID: primitive.NewObjectID(), ChannelID: channelID, Content: "retro", Status: models.MessageStatusPending},
		}

		store.EXPECT().FindDueScheduled(gomock.Any(), now, ReleaseBatchSize).Return(due, nil)
		store.EXPECT().MarkDelivered(gomock.Any(), due[0].ID).Return(true, nil)
		store.EXPECT().MarkDelivered(gomock.Any(), due[1].ID).Return(true, nil)

		released, err := s.ReleaseDue(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, released)
		require.Len(t, publisher.events[channelID], 2)
		event := publisher.events[channelID][0]
		assert.Equal(t, models.MessageEventCreated, event.Type)
		assert.Equal(t, "standup", event.Message.Content)
		assert.Equal(t, models.MessageStatusDelivered, event.Message.Status)
	})

	t.Run("skips messages claimed elsewhere", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		store := repomocks.NewMockMessageRepository(ctrl)
		publisher := newCapturePublisher()
		s := NewScheduler(SchedulerConfig{Messages: store, Publisher: publisher, Interval: time.Second})
		s.now = func() time.Time { return now }

		msg := models.Message{ID: primitive.NewObjectID(), ChannelID: channelID}
		store.EXPECT().FindDueScheduled(gomock.Any(), now, ReleaseBatchSize).Return([]models.Message{msg}, nil)
		store.EXPECT().MarkDelivered(gomock.Any(), msg.ID).Return(false, nil)

		released, err := s.ReleaseDue(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 0, released)
		assert.Equal(t, 0, publisher.count(channelID))
	})

	t.Run("store error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		store := repomocks.NewMockMessageRepository(ctrl)
		s := NewScheduler(SchedulerConfig{Messages: store, Interval: time.Second})

		store.EXPECT().FindDueScheduled(gomock.Any(), gomock.Any(), ReleaseBatchSize).Return(nil, assert.AnError)

		_, err := s.ReleaseDue(context.Background())

		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestScheduler_StartStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := repomocks.NewMockMessageRepository(ctrl)
	publisher := newCapturePublisher()
	channelID := primitive.NewObjectID()
	msg := models.Message{ID: primitive.NewObjectID(), ChannelID: channelID}

	first := store.EXPECT().FindDueScheduled(gomock.Any(), gomock.Any(), ReleaseBatchSize).Return([]models.Message{msg}, nil)
	store.EXPECT().MarkDelivered(gomock.Any(), msg.ID).Return(true, nil).After(first)
	store.EXPECT().FindDueScheduled(gomock.Any(), gomock.Any(), ReleaseBatchSize).Return(nil, nil).AnyTimes()

	s := NewScheduler(SchedulerConfig{Messages: store, Publisher: publisher, Interval: 10 * time.Millisecond})
	s.Start(context.Background())

	require.Eventually(t, func() bool { return publisher.count(channelID) == 1 }, 2*time.Second, 10*time.Millisecond)
	s.Stop()
}

func TestScheduler_NotifyDueSoon(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	window := now.Add(DefaultDueSoonWindow)
	assignee := primitive.NewObjectID()

	setup := func(t *testing.T) (*Scheduler, *repomocks.MockTaskRepository, *queuemocks.MockNotifier) {
		ctrl := gomock.NewController(t)
		tasks := repomocks.NewMockTaskRepository(ctrl)
		notifier := queuemocks.NewMockNotifier(ctrl)
		s := NewScheduler(SchedulerConfig{Tasks: tasks, Notifier: notifier})
		s.now = func() time.Time { return now }
		return s, tasks, notifier
	}

	t.Run("reminds each claimed assignee", func(t *testing.T) {
		s, tasks, notifier := setup(t)
		due := models.Task{ID: primitive.NewObjectID(), Title: "Ship release notes", AssignedTo: &assignee}

		tasks.EXPECT().FindDueSoon(gomock.Any(), now, window, DueSoonBatchSize).Return([]models.Task{due}, nil)
		tasks.EXPECT().MarkDueSoonNotified(gomock.Any(), due.ID, now).Return(true, nil)
		notifier.EXPECT().Notify([]primitive.ObjectID{assignee}, models.NotificationTaskDueSoon, `Your task "Ship release notes" is due soon`).Return(nil)

		sent, err := s.NotifyDueSoon(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, sent)
	})

	t.Run("skips tasks claimed elsewhere", func(t *testing.T) {
		s, tasks, _ := setup(t)
		due := models.Task{ID: primitive.NewObjectID(), Title: "Audit", AssignedTo: &assignee}

		tasks.EXPECT().FindDueSoon(gomock.Any(), now, window, DueSoonBatchSize).Return([]models.Task{due}, nil)
		tasks.EXPECT().MarkDueSoonNotified(gomock.Any(), due.ID, now).Return(false, nil)

		sent, err := s.NotifyDueSoon(context.Background())

		require.NoError(t, err)
		assert.Zero(t, sent)
	})

	t.Run("full queue does not stop the sweep", func(t *testing.T) {
		s, tasks, notifier := setup(t)
		first := models.Task{ID: primitive.NewObjectID(), Title: "One", AssignedTo: &assignee}
		second := models.Task{ID: primitive.NewObjectID(), Title: "Two", AssignedTo: &assignee}

		tasks.EXPECT().FindDueSoon(gomock.Any(), now, window, DueSoonBatchSize).Return([]models.Task{first, second}, nil)
		tasks.EXPECT().MarkDueSoonNotified(gomock.Any(), first.ID, now).Return(true, nil)
		tasks.EXPECT().MarkDueSoonNotified(gomock.Any(), second.ID, now).Return(true, nil)
		gomock.InOrder(
			notifier.EXPECT().Notify(gomock.Any(), models.NotificationTaskDueSoon, gomock.Any()).Return(assert.AnError),
			notifier.EXPECT().Notify(gomock.Any(), models.NotificationTaskDueSoon, gomock.Any()).Return(nil),
		)

		sent, err := s.NotifyDueSoon(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, sent)
	})

	t.Run("store error", func(t *testing.T) {
		s, tasks, _ := setup(t)
		tasks.EXPECT().FindDueSoon(gomock.Any(), now, window, DueSoonBatchSize).Return(nil, assert.AnError)

		_, err := s.NotifyDueSoon(context.Background())

		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("disabled without a task store", func(t *testing.T) {
		s := NewScheduler(SchedulerConfig{})

		sent, err := s.NotifyDueSoon(context.Background())

		require.NoError(t, err)
		assert.Zero(t, sent)
	})
}

func TestScheduler_StartRunsDueSoonSweep(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	messages := repomocks.NewMockMessageRepository(ctrl)
	tasks := repomocks.NewMockTaskRepository(ctrl)
	notifier := queuemocks.NewMockNotifier(ctrl)
	assignee := primitive.NewObjectID()
	due := models.Task{ID: primitive.NewObjectID(), Title: "Renew domain", AssignedTo: &assignee}

	messages.EXPECT().FindDueScheduled(gomock.Any(), gomock.Any(), ReleaseBatchSize).Return(nil, nil).AnyTimes()
	first := tasks.EXPECT().FindDueSoon(gomock.Any(), gomock.Any(), gomock.Any(), DueSoonBatchSize).Return([]models.Task{due}, nil)
	tasks.EXPECT().FindDueSoon(gomock.Any(), gomock.Any(), gomock.Any(), DueSoonBatchSize).Return(nil, nil).After(first).AnyTimes()
	tasks.EXPECT().MarkDueSoonNotified(gomock.Any(), due.ID, gomock.Any()).Return(true, nil)

	reminded := make(chan struct{})
	notifier.EXPECT().Notify([]primitive.ObjectID{assignee}, models.NotificationTaskDueSoon, gomock.Any()).
		DoAndReturn(func([]primitive.ObjectID, models.NotificationType, string) error {
			close(reminded)
			return nil
		})

	s := NewScheduler(SchedulerConfig{
		Messages:        messages,
		Interval:        time.Hour,
		Tasks:           tasks,
		Notifier:        notifier,
		DueSoonInterval: 10 * time.Millisecond,
	})
	s.Start(context.Background())

	select {
	case <-reminded:
	case <-time.After(2 * time.Second):
		t.Fatal("due soon sweep never ran")
	}
	s.Stop()
}
