package realtime

// Events pushed to board subscribers after a successful mutation. Deletion
// events carry the deleted record's id, the rest carry the full record.
const (
	EventColumnCreated = "columnCreated"
	EventColumnUpdated = "columnUpdated"
	EventColumnDeleted = "columnDeleted"
	EventTaskCreated   = "taskCreated"
	EventTaskUpdated   = "taskUpdated"
	EventTaskDeleted   = "taskDeleted"
)

// Event is the JSON message sent to connected clients.
type Event struct {
	Type    string `json:"type"`
	BoardID uint64 `json:"boardId"`
	Data    any    `json:"data,omitempty"`
}

// Broadcaster publishes board-scoped events. Services hold an instance
// handed to them at construction time; tests substitute a recording fake.
type Broadcaster interface {
	Publish(boardID uint64, event string, data any)
}
