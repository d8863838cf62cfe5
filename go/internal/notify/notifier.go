// Package notify fans auction state changes out to subscribed observers.
// Delivery is at-least-once; ordering is preserved per topic but not
// across independent events.
package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Notifier publishes an event payload to a topic.
type Notifier interface {
	Publish(ctx context.Context, topic string, eventType string, payload any) error
}

// EventTopic returns the broadcast topic for an auction event.
func EventTopic(eventID uuid.UUID) string {
	return fmt.Sprintf("event:%s", eventID)
}

// SubscriberTopic returns the targeted topic for a single subscriber,
// used for personal notices such as approval results.
func SubscriberTopic(subscriberID uuid.UUID) string {
	return fmt.Sprintf("subscriber:%s", subscriberID)
}
