package eventpublisher

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/infrastructure/eventpublisher/mocks"
)

func TestProcessEventsRespectsBatchSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := &stubOutboxRepo{
		events: []*domain.OutboxEvent{
			{ID: "evt-1", EventType: domain.EventTypeEntryRecorded},
			{ID: "evt-2", EventType: domain.EventTypeEntryRecorded},
			{ID: "evt-3", EventType: domain.EventTypeEntryRecorded},
		},
	}

	pub := mocks.NewMockPublisher(ctrl)
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	ep := NewEventPublisher(Config{
		OutboxRepo: repo,
		Publisher:  pub,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})),
		BatchSize:  2,
		Interval:   time.Second,
	})

	require.NoError(t, ep.processEvents(context.Background()))
	require.Equal(t, []string{"evt-1", "evt-2"}, repo.marked)
}

func TestProcessEventsPassesEventToPublisher(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	event := &domain.OutboxEvent{
		ID:            "evt-1",
		AggregateID:   "alice",
		AggregateType: domain.AggregateTypeBookAccount,
		EventType:     domain.EventTypeEntryRecorded,
	}
	repo := &stubOutboxRepo{events: []*domain.OutboxEvent{event}}

	pub := mocks.NewMockPublisher(ctrl)
	pub.EXPECT().Publish(gomock.Any(), event).Return(nil)

	ep := NewEventPublisher(Config{
		OutboxRepo: repo,
		Publisher:  pub,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})),
		BatchSize:  10,
		Interval:   time.Second,
	})

	require.NoError(t, ep.processEvents(context.Background()))
}
