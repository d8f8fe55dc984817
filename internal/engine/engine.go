package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"resumeSync/internal/metrics"
	"resumeSync/internal/resume"
)

const (
	DefaultPasteDelay = 10 * time.Millisecond
	DefaultPrintDelay = 100 * time.Millisecond

	clearPrompt = "Are you sure you want to clear all fields? This cannot be undone."
)

// ErrUnknownTheme 表示调用方传入了不受支持的主题名。
var ErrUnknownTheme = errors.New("engine: unknown theme")

// Option 配置 Engine 的可选依赖。
type Option func(*Engine)

// WithConfirmer 设置清空前的确认来源；未设置时清空请求一律视为拒绝。
func WithConfirmer(c Confirmer) Option {
	return func(e *Engine) { e.confirmer = c }
}

// WithPrinter 设置打印出口。
func WithPrinter(p Printer) Option {
	return func(e *Engine) { e.printer = p }
}

// WithLogger 设置日志记录器。
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithDelays 覆盖粘贴与打印的延迟时间，非正值保留默认。
func WithDelays(paste, printDelay time.Duration) Option {
	return func(e *Engine) {
		if paste > 0 {
			e.pasteDelay = paste
		}
		if printDelay > 0 {
			e.printDelay = printDelay
		}
	}
}

// WithAssetPath 设置主题样式表链接的前缀，例如 "/assets/"。
func WithAssetPath(prefix string) Option {
	return func(e *Engine) { e.assetPath = prefix }
}

// Engine 将输入框同步到预览区域，并维护持久化快照与主题。
// 所有方法都必须在同一个执行上下文（Loop）中调用。
type Engine struct {
	page      Page
	store     Store
	scheduler Scheduler
	confirmer Confirmer
	printer   Printer
	logger    *slog.Logger

	pasteDelay time.Duration
	printDelay time.Duration
	assetPath  string

	// ctx 供页面事件回调使用，来自 Initialize 且不随请求取消。
	ctx   context.Context
	state State
	wired bool
}

// New 构造 Engine。page、store 与 scheduler 为必需依赖。
func New(page Page, store Store, scheduler Scheduler, opts ...Option) *Engine {
	e := &Engine{
		page:       page,
		store:      store,
		scheduler:  scheduler,
		logger:     slog.Default(),
		pasteDelay: DefaultPasteDelay,
		printDelay: DefaultPrintDelay,
		ctx:        context.Background(),
		state: State{
			Snapshot: Snapshot{},
			Theme:    resume.DefaultTheme,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize 绑定页面事件，并恢复上次保存的快照与主题。
// 重复调用只会重新恢复状态，不会重复绑定监听器。
func (e *Engine) Initialize(ctx context.Context) {
	e.ctx = context.WithoutCancel(ctx)
	if !e.wired {
		e.wire()
		e.wired = true
	}
	e.LoadSnapshot(ctx)
	e.restoreTheme(ctx)
}

func (e *Engine) wire() {
	for _, f := range resume.Fields {
		id := f.Input
		e.page.OnInput(id, func() {
			if value, ok := e.page.InputValue(id); ok {
				e.OnFieldChange(e.ctx, id, value)
			}
		})
		// 粘贴事件触发时输入框的值尚未更新，延迟后重新读取。
		e.page.OnPaste(id, func() {
			e.scheduler.After(e.pasteDelay, func() {
				if value, ok := e.page.InputValue(id); ok {
					e.OnFieldChange(e.ctx, id, value)
				}
			})
		})
	}

	for _, t := range resume.Themes {
		name := string(t)
		e.page.OnClick(ThemeControl(t), func() {
			if err := e.SwitchTheme(e.ctx, name); err != nil {
				e.logger.Error("switch theme failed", slog.String("theme", name), slog.Any("error", err))
			}
		})
	}
	e.page.OnClick(ControlPrint, func() {
		e.PrintResume(e.ctx)
	})
	e.page.OnClick(ControlClear, func() {
		if _, err := e.ClearAll(e.ctx); err != nil {
			e.logger.Error("clear all failed", slog.Any("error", err))
		}
	})
	e.page.OnTeardown(func() {
		e.Flush(e.ctx)
	})
}

// OnFieldChange 重新计算对应预览的内容，并立即保存完整快照。
// 未知的输入框 ID 被静默忽略。
func (e *Engine) OnFieldChange(ctx context.Context, id resume.InputID, raw string) {
	f, ok := resume.Lookup(id)
	if !ok {
		return
	}

	e.page.SetPreview(f.Preview, resume.Render(f, raw))
	metrics.FieldChanges.Inc()

	if err := e.SaveSnapshot(ctx); err != nil {
		e.logger.Error("save snapshot failed", slog.String("field", string(id)), slog.Any("error", err))
	}
}

// SaveSnapshot 读取所有输入框的当前值并整体覆盖写入存储。
func (e *Engine) SaveSnapshot(ctx context.Context) error {
	snap := make(Snapshot, len(resume.Fields))
	for _, f := range resume.Fields {
		if value, ok := e.page.InputValue(f.Input); ok {
			snap[f.Input] = value
		}
	}
	e.state.Snapshot = snap

	if err := e.state.SaveSnapshot(ctx, e.store); err != nil {
		return err
	}
	metrics.SnapshotWrites.Inc()
	return nil
}

// LoadSnapshot 将已保存的快照写回输入框并重新计算预览。
// 存储中的数据损坏时只记录日志，按“没有快照”处理。
func (e *Engine) LoadSnapshot(ctx context.Context) {
	snap, ok, err := LoadSnapshot(ctx, e.store)
	if err != nil {
		metrics.SnapshotRestoreFailures.Inc()
		e.logger.Warn("restore snapshot failed, starting empty", slog.Any("error", err))
		return
	}
	if !ok {
		return
	}

	// 先整体回填，再逐个刷新预览，保证刷新过程中写出的快照始终完整。
	restored := make([]resume.Field, 0, len(snap))
	for _, f := range resume.Fields {
		value, present := snap[f.Input]
		if !present {
			continue
		}
		if e.page.SetInputValue(f.Input, value) {
			restored = append(restored, f)
		}
	}
	for _, f := range restored {
		e.OnFieldChange(ctx, f.Input, snap[f.Input])
	}

	e.logger.Info("snapshot restored", slog.Int("fields", len(restored)))
}

// SwitchTheme 切换样式表、更新选择按钮的激活状态并持久化主题。
func (e *Engine) SwitchTheme(ctx context.Context, name string) error {
	theme, ok := resume.ParseTheme(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}

	e.applyTheme(theme)
	metrics.ThemeSwitches.WithLabelValues(string(theme)).Inc()

	return e.state.SaveTheme(ctx, e.store)
}

func (e *Engine) restoreTheme(ctx context.Context) {
	theme, err := LoadTheme(ctx, e.store)
	if err != nil {
		e.logger.Warn("restore theme failed, using default", slog.Any("error", err))
	}
	e.applyTheme(theme)
}

func (e *Engine) applyTheme(theme resume.Theme) {
	e.page.SetStylesheet(e.assetPath + theme.Stylesheet())
	for _, t := range resume.Themes {
		e.page.SetThemeActive(t, t == theme)
	}
	e.state.Theme = theme
}

// ClearAll 在用户确认后清空全部输入，预览恢复为占位文本，并删除已保存的快照。
// 返回值表示是否真正执行了清空。
func (e *Engine) ClearAll(ctx context.Context) (bool, error) {
	if e.confirmer == nil {
		return false, nil
	}
	confirmed, err := e.confirmer.Confirm(ctx, clearPrompt)
	if err != nil {
		return false, fmt.Errorf("confirm clear: %w", err)
	}
	if !confirmed {
		return false, nil
	}

	for _, f := range resume.Fields {
		e.page.SetInputValue(f.Input, "")
		e.page.SetPreview(f.Preview, resume.Plain(f.Default))
	}
	e.state.Snapshot = Snapshot{}

	if err := e.store.Delete(ctx, SnapshotKey); err != nil {
		return true, fmt.Errorf("delete snapshot: %w", err)
	}
	e.logger.Info("form cleared")
	return true, nil
}

// PrintResume 在短暂延迟后调用打印出口，让刚写入的预览先生效。
func (e *Engine) PrintResume(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	e.scheduler.After(e.printDelay, func() {
		if e.printer == nil {
			e.logger.Warn("print requested but no printer configured")
			return
		}
		metrics.PrintRequests.Inc()
		if err := e.printer.Print(ctx); err != nil {
			metrics.PrintFailures.Inc()
			e.logger.Error("print resume failed", slog.Any("error", err))
		}
	})
}

// Flush 在页面销毁前保存最新快照。
func (e *Engine) Flush(ctx context.Context) {
	if err := e.SaveSnapshot(ctx); err != nil {
		e.logger.Error("flush snapshot failed", slog.Any("error", err))
	}
}

// State 返回当前应用状态的副本。
func (e *Engine) State() State {
	return State{
		Snapshot: maps.Clone(e.state.Snapshot),
		Theme:    e.state.Theme,
	}
}
