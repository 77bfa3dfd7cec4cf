package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/unilancer-labs/unilancer-api/internal/models"
)

// NotificationEvent describes an outbound notification about a record. The
// dispatcher is fire-and-forget from the caller's perspective; a failed
// notification never fails the operation that produced it.
type NotificationEvent struct {
	Kind        models.RecordKind `json:"kind"`
	RecordID    uint              `json:"record_id"`
	ReferenceID string            `json:"reference_id,omitempty"`
	Status      string            `json:"status"`
	Email       string            `json:"email,omitempty"`
	Name        string            `json:"name,omitempty"`
	Locale      string            `json:"locale,omitempty"`
	SentAt      time.Time         `json:"sent_at"`
}

// Notifier dispatches notification events.
type Notifier interface {
	Notify(ctx context.Context, event NotificationEvent) error
}

// LogNotifier writes events to the log. Used in development and as the
// fallback when no broker is configured.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier constructs a logging notifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "notifier").Logger()}
}

// Notify logs the event and reports success.
func (n *LogNotifier) Notify(ctx context.Context, event NotificationEvent) error {
	n.logger.Info().
		Str("kind", string(event.Kind)).
		Uint("record_id", event.RecordID).
		Str("status", event.Status).
		Msg("notification dispatched")
	return nil
}

// BrokerNotifier publishes notification events to the staff back-office feed
// over NATS and a Redis channel. Either connection may be nil; publishing to
// whichever is configured.
type BrokerNotifier struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	logger       zerolog.Logger
}

// NewBrokerNotifier constructs a broker-backed notifier.
func NewBrokerNotifier(redisClient *redis.Client, redisChannel string, natsConn *nats.Conn, natsSubject string, logger zerolog.Logger) *BrokerNotifier {
	return &BrokerNotifier{
		redis:        redisClient,
		redisChannel: redisChannel,
		nats:         natsConn,
		natsSubject:  natsSubject,
		logger:       logger.With().Str("component", "broker_notifier").Logger(),
	}
}

// Notify marshals the event and publishes it to the configured brokers.
func (n *BrokerNotifier) Notify(ctx context.Context, event NotificationEvent) error {
	if event.SentAt.IsZero() {
		event.SentAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if n.redis != nil && n.redisChannel != "" {
		if err := n.redis.Publish(ctx, n.redisChannel, payload).Err(); err != nil {
			return err
		}
	}

	if n.nats != nil && n.natsSubject != "" {
		if err := n.nats.Publish(n.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}
