package services

import (
	"context"
	"time"

	"github.com/studyloop/backend/domain"
	"github.com/studyloop/backend/internal/infrastructure/buffer"
	"github.com/studyloop/backend/usecase"
)

// BufferBridge adapts the buffer processor to the use-case port.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferCompletion(ctx context.Context, userID, taskID string, completedAt time.Time) error {
	if b.processor == nil || userID == "" || taskID == "" {
		return domain.ErrInvalidPayload
	}
	return b.processor.Enqueue(buffer.Item{
		UserID:      userID,
		TaskID:      taskID,
		Operation:   buffer.OperationComplete,
		CompletedAt: completedAt,
	})
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
