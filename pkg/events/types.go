package events

import "encoding/json"

// Event name constants
const (
	NotificationFired = "notification.fired"
	FleetChanged      = "fleet.changed"
)

// Event is a generic SSE event from daemon.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// NotificationFiredEvent is the typed payload for notification.fired.
type NotificationFiredEvent struct {
	Battery string `json:"battery"`
	Class   string `json:"class"`
	Title   string `json:"title"`
	Body    string `json:"body,omitempty"`
	Ts      int64  `json:"ts"`
}

// FleetChangedEvent is the typed payload for fleet.changed.
type FleetChangedEvent struct {
	Batteries []string `json:"batteries"`
	Ts        int64    `json:"ts"`
}

// DecodeAs decodes the event payload into the caller-specified generic type T.
// It ignores the event name and simply unmarshals Data into T. If Data is empty,
// it returns the zero value of T with a nil error.
//
// Example:
//
//	payload, err := events.DecodeAs[events.NotificationFiredEvent](ev)
//	if err != nil { /* handle */ }
//	fmt.Println(payload.Battery, payload.Class)
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
