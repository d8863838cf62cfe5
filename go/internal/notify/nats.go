package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// NATSConfig holds connection settings for the NATS notifier.
type NATSConfig struct {
	URL           string
	SubjectPrefix string // e.g. "auction"
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultNATSConfig returns the default NATS notifier configuration.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		SubjectPrefix: "auction",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// NATSNotifier publishes auction events to NATS subjects. A topic
// "event:<id>" maps to the subject "<prefix>.event.<id>".
type NATSNotifier struct {
	nc     *nats.Conn
	config NATSConfig
}

// NewNATSNotifier connects to NATS and returns a notifier.
func NewNATSNotifier(config NATSConfig) (*NATSNotifier, error) {
	opts := []nats.Option{
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &NATSNotifier{nc: nc, config: config}, nil
}

// envelope is the wire format published to subscribers.
type envelope struct {
	EventType string    `json:"eventType"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

func (n *NATSNotifier) Publish(ctx context.Context, topic string, eventType string, payload any) error {
	data, err := json.Marshal(envelope{
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	subject := n.subjectFor(topic)
	if err := n.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s to %s: %w", eventType, subject, err)
	}

	log.Debug().
		Str("subject", subject).
		Str("event_type", eventType).
		Int("size", len(data)).
		Msg("published notification")
	return nil
}

func (n *NATSNotifier) subjectFor(topic string) string {
	return n.config.SubjectPrefix + "." + strings.ReplaceAll(topic, ":", ".")
}

// Close flushes and closes the NATS connection.
func (n *NATSNotifier) Close() error {
	if n.nc == nil {
		return nil
	}
	err := n.nc.Flush()
	n.nc.Close()
	return err
}
