package usecase

import (
	"context"
	"time"
)

// OperationBuffer abstracts the offline write buffer so use cases stay
// storage-agnostic. Only single-row task writes may be buffered; the
// five-row materialization batch is atomic and must never be deferred.
type OperationBuffer interface {
	BufferCompletion(ctx context.Context, userID, taskID string, completedAt time.Time) error
}
