package notify

import (
	"context"
	"sync"
)

// Notification is a single recorded publish.
type Notification struct {
	Topic     string
	EventType string
	Payload   any
}

// MemoryNotifier records publishes in memory. Tests use it as a spy;
// it is also the fallback when no broker is configured.
type MemoryNotifier struct {
	mu       sync.Mutex
	recorded []Notification
}

// NewMemoryNotifier creates an empty in-memory notifier.
func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{}
}

func (m *MemoryNotifier) Publish(ctx context.Context, topic string, eventType string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, Notification{Topic: topic, EventType: eventType, Payload: payload})
	return nil
}

// Notifications returns a copy of everything published so far.
func (m *MemoryNotifier) Notifications() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Notification(nil), m.recorded...)
}

// ByType returns recorded notifications of one event type.
func (m *MemoryNotifier) ByType(eventType string) []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Notification
	for _, n := range m.recorded {
		if n.EventType == eventType {
			out = append(out, n)
		}
	}
	return out
}

// Reset clears all recorded notifications.
func (m *MemoryNotifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = nil
}
