package eventpublisher

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
)

func newTestWebhookPublisher(url string) *WebhookPublisher {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	pub := NewWebhookPublisher(url, logger)
	pub.maxElapsed = 500 * time.Millisecond
	return pub
}

func TestWebhookPublisherDelivers(t *testing.T) {
	var received webhookEnvelope
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Delivery-Id") == "" {
			t.Error("expected delivery id header")
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode failed: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	pub := newTestWebhookPublisher(server.URL)
	event := &domain.OutboxEvent{
		ID:            "evt-1",
		EventType:     domain.EventTypeTransactionRecorded,
		AggregateType: domain.AggregateTypeTransaction,
		AggregateID:   "hash-1",
		Payload:       map[string]any{"hash": "hash-1"},
	}

	if err := pub.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if received.EventID != "evt-1" {
		t.Fatalf("expected event id evt-1, got %q", received.EventID)
	}
	if received.DeliveryID == "" {
		t.Fatal("expected delivery id in envelope")
	}
}

func TestWebhookPublisherRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	pub := newTestWebhookPublisher(server.URL)
	pub.maxElapsed = 5 * time.Second

	event := &domain.OutboxEvent{ID: "evt-1", EventType: domain.EventTypeScoreUpdated}
	if err := pub.Publish(context.Background(), event); err != nil {
		t.Fatalf("expected retries to succeed, got %v", err)
	}

	if calls.Load() < 3 {
		t.Fatalf("expected at least 3 attempts, got %d", calls.Load())
	}
}

func TestWebhookPublisherStopsOnClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	pub := newTestWebhookPublisher(server.URL)

	event := &domain.OutboxEvent{ID: "evt-1", EventType: domain.EventTypeEntryRecorded}
	if err := pub.Publish(context.Background(), event); err == nil {
		t.Fatal("expected error for 4xx response")
	}

	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt for 4xx, got %d", calls.Load())
	}
}
