package buffer

import (
	"time"

	"github.com/google/uuid"
)

// OperationComplete is the only operation the buffer accepts today.
// Batched task materialization is deliberately excluded: its all-or-none
// insert cannot be replayed row by row later.
const OperationComplete = "complete"

// Item is a deferred single-row task write, replayed once Postgres is
// reachable again.
type Item struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	TaskID      string    `json:"task_id"`
	Operation   string    `json:"operation"`
	CompletedAt time.Time `json:"completed_at"`
	Retries     int       `json:"retries"`
	Timestamp   time.Time `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Operation == "" {
		i.Operation = OperationComplete
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}
