package service

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/unilancer-labs/unilancer-api/internal/models"
)

// LogContactDelivery is a basic provider that logs messages. Used in
// development and as the fallback when no broker is configured.
type LogContactDelivery struct {
	logger zerolog.Logger
}

// NewLogContactDelivery constructs a logging provider.
func NewLogContactDelivery(logger zerolog.Logger) *LogContactDelivery {
	return &LogContactDelivery{logger: logger.With().Str("component", "contact_delivery").Logger()}
}

// Deliver logs the message and returns nil to indicate success.
func (l *LogContactDelivery) Deliver(ctx context.Context, message models.ContactMessage) error {
	l.logger.Info().Str("reference_id", message.ReferenceID).Msg("contact message delivered to inbox")
	return nil
}

// NATSContactDelivery publishes contact messages to a NATS subject consumed
// by the mail relay.
type NATSContactDelivery struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSContactDelivery constructs a NATS-backed provider.
func NewNATSContactDelivery(conn *nats.Conn, subject string, logger zerolog.Logger) *NATSContactDelivery {
	return &NATSContactDelivery{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "contact_delivery").Logger(),
	}
}

// Deliver marshals the message and publishes it.
func (d *NATSContactDelivery) Deliver(ctx context.Context, message models.ContactMessage) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return d.conn.Publish(d.subject, payload)
}
