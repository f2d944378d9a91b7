package eventpublisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
)

// WebhookPublisher delivers events to an HTTP endpoint as JSON.
type WebhookPublisher struct {
	url        string
	client     *http.Client
	logger     *slog.Logger
	maxElapsed time.Duration
}

// NewWebhookPublisher creates a webhook publisher for the given URL.
func NewWebhookPublisher(url string, logger *slog.Logger) *WebhookPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookPublisher{
		url:        url,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		maxElapsed: 30 * time.Second,
	}
}

type webhookEnvelope struct {
	DeliveryID    string         `json:"delivery_id"`
	EventID       string         `json:"event_id"`
	EventType     string         `json:"event_type"`
	AggregateType string         `json:"aggregate_type"`
	AggregateID   string         `json:"aggregate_id"`
	Payload       map[string]any `json:"payload"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Publish POSTs the event envelope, retrying transient failures with
// exponential backoff. Each attempt carries the same delivery id so the
// receiver can deduplicate.
func (p *WebhookPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	envelope := webhookEnvelope{
		DeliveryID:    uuid.NewString(),
		EventID:       event.ID,
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		Payload:       event.Payload,
		CreatedAt:     event.CreatedAt,
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	operation := func() error {
		return p.deliver(ctx, envelope.DeliveryID, body)
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = p.maxElapsed

	return backoff.Retry(operation, backoff.WithContext(policy, ctx))
}

func (p *WebhookPublisher) deliver(ctx context.Context, deliveryID string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-Id", deliveryID)

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// The receiver rejected the payload; retrying will not help.
		return backoff.Permanent(fmt.Errorf("webhook rejected delivery: status %d", resp.StatusCode))
	default:
		return fmt.Errorf("webhook delivery failed: status %d", resp.StatusCode)
	}
}
