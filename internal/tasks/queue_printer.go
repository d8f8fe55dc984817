package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"resumeSync/internal/engine"
	"resumeSync/internal/page"
)

// Enqueuer 是 asynq.Client 的最小子集。
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueuePrinter hands print jobs to the worker instead of rendering in-process.
// The job carries what the page currently shows.
type QueuePrinter struct {
	doc      *page.Document
	client   Enqueuer
	logger   *slog.Logger
	maxRetry int
	timeout  time.Duration
}

var _ engine.Printer = (*QueuePrinter)(nil)

// NewQueuePrinter 构造队列打印出口。
func NewQueuePrinter(doc *page.Document, client Enqueuer, logger *slog.Logger) *QueuePrinter {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueuePrinter{
		doc:      doc,
		client:   client,
		logger:   logger,
		maxRetry: 3,
		timeout:  2 * time.Minute,
	}
}

func (p *QueuePrinter) Print(ctx context.Context) error {
	view := p.doc.View()

	snapshot := make(map[string]string, len(view.Slots))
	for _, slot := range view.Slots {
		if slot.HasInput {
			snapshot[string(slot.Input)] = slot.Value
		}
	}
	theme := ""
	for t, active := range view.Active {
		if active {
			theme = string(t)
			break
		}
	}

	correlationID := uuid.NewString()
	task, err := NewPrintTask(snapshot, theme, correlationID)
	if err != nil {
		return fmt.Errorf("build print task: %w", err)
	}

	info, err := p.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(p.maxRetry),
		asynq.Timeout(p.timeout),
	)
	if err != nil {
		return fmt.Errorf("enqueue print task: %w", err)
	}

	p.logger.Info("print task enqueued",
		slog.String("task_id", info.ID),
		slog.String("queue", info.Queue),
		slog.String("correlation_id", correlationID),
	)
	return nil
}
