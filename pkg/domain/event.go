package domain

import "time"

// EventType names a bus channel
type EventType string

const (
	EventTypeGameStart        EventType = "game.start"
	EventTypeGameFailed       EventType = "game.failed"
	EventTypeGameClear        EventType = "game.clear"
	EventTypeTurnStart        EventType = "turn.start"
	EventTypeTurnEnd          EventType = "turn.end"
	EventTypeTriggerAction    EventType = "action.trigger"
	EventTypeActionEnd        EventType = "action.end"
	EventTypeTriggerMapAction EventType = "map.trigger"
)

// Event is the record handed to bus observers. Kind is KindNone for
// channels that carry no payload.
type Event struct {
	Type      EventType `json:"type"`
	Kind      Kind      `json:"kind"`
	Seq       uint64    `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
}
