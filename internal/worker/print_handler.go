package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"resumeSync/internal/engine"
	"resumeSync/internal/errcode"
	"resumeSync/internal/page"
	"resumeSync/internal/pdf"
	"resumeSync/internal/resume"
	"resumeSync/internal/storage"
	"resumeSync/internal/tasks"
)

// Publisher 是 redis.Client 的发布子集。
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// PrintTaskHandler 负责消费打印任务：按负载重建页面，导出 PDF 并通知 API。
type PrintTaskHandler struct {
	sink      pdf.Sink
	publisher Publisher
	logger    *slog.Logger
	assetPath string
	printOpts []pdf.Option
}

// NewPrintTaskHandler 创建任务处理器。
func NewPrintTaskHandler(sink pdf.Sink, publisher Publisher, logger *slog.Logger, assetPath string, printOpts ...pdf.Option) *PrintTaskHandler {
	return &PrintTaskHandler{
		sink:      sink,
		publisher: publisher,
		logger:    logger,
		assetPath: assetPath,
		printOpts: printOpts,
	}
}

// ProcessTask 实现 asynq.Handler。
func (h *PrintTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	payload, err := tasks.ParsePrintPayload(t)
	if err != nil {
		h.logger.Error("unmarshal task payload failed", slog.Any("error", err))
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	log := h.logger.With(slog.String("correlation_id", payload.CorrelationID))
	log.Info("starting resume print task")

	defer func() {
		if retErr == nil || !isFinalAsynqAttempt(ctx) {
			return
		}
		notify := PrintNotifyMessage{
			Kind:          string(page.ChangePrinted),
			Status:        "error",
			CorrelationID: payload.CorrelationID,
			ErrorCode:     errcode.SystemError,
			ErrorMessage:  strings.TrimSpace(retErr.Error()),
		}
		if err := h.publish(ctx, notify); err != nil {
			log.Error("publish print error notification failed", slog.Any("error", err))
		}
	}()

	doc, err := h.rebuild(ctx, payload, log)
	if err != nil {
		log.Error("rebuild page failed", slog.Any("error", err))
		return err
	}

	opts := append([]pdf.Option{pdf.WithLogger(log)}, h.printOpts...)
	if err := pdf.NewDocumentPrinter(doc, h.sink, opts...).Print(ctx); err != nil {
		log.Error("print resume failed", slog.Any("error", err))
		return err
	}

	notify := PrintNotifyMessage{
		Kind:          string(page.ChangePrinted),
		Status:        "completed",
		CorrelationID: payload.CorrelationID,
		Location:      doc.View().LastPrint,
		ErrorCode:     errcode.OK,
	}
	if err := h.publish(ctx, notify); err != nil {
		log.Error("publish redis notification failed", slog.Any("error", err))
		return err
	}

	log.Info("resume print task completed")
	return nil
}

// rebuild 用负载中的快照与主题驱动一个新的引擎，得到与编辑页一致的预览。
func (h *PrintTaskHandler) rebuild(ctx context.Context, payload tasks.PrintResumePayload, log *slog.Logger) (*page.Document, error) {
	snapshot := make(engine.Snapshot, len(payload.Snapshot))
	for k, v := range payload.Snapshot {
		snapshot[resume.InputID(k)] = v
	}
	data, err := snapshot.Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	store := storage.NewMemoryStore()
	if err := store.Set(ctx, engine.SnapshotKey, data); err != nil {
		return nil, err
	}
	if payload.Theme != "" {
		if err := store.Set(ctx, engine.ThemeKey, payload.Theme); err != nil {
			return nil, err
		}
	}

	doc := page.NewDocument()
	eng := engine.New(doc, store, immediate{},
		engine.WithLogger(log),
		engine.WithAssetPath(h.assetPath),
	)
	eng.Initialize(ctx)
	return doc, nil
}

func (h *PrintTaskHandler) publish(ctx context.Context, notify PrintNotifyMessage) error {
	data, err := json.Marshal(notify)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	if err := h.publisher.Publish(ctx, NotifyChannel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", NotifyChannel, err)
	}
	return nil
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}

// immediate 在当前 goroutine 中立即执行回调；重建页面时没有用户事件需要延迟。
type immediate struct{}

func (immediate) After(_ time.Duration, fn func()) { fn() }
