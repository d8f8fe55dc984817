package engine

import (
	"context"
	"time"

	"resumeSync/internal/resume"
)

// Control 标识页面上的按钮类控件。
type Control string

const (
	ControlPrint Control = "print"
	ControlClear Control = "clear"
)

// ThemeControl 返回主题选择按钮对应的控件 ID。
func ThemeControl(t resume.Theme) Control {
	return Control("theme-" + string(t))
}

// Page 是宿主页面：一组固定命名的槽位，引擎从中读取并写入。
// 槽位不存在时方法返回 false，调用方据此跳过。
type Page interface {
	InputValue(id resume.InputID) (string, bool)
	SetInputValue(id resume.InputID, value string) bool
	SetPreview(id resume.PreviewID, content resume.Rendered) bool
	SetStylesheet(href string)
	SetThemeActive(t resume.Theme, active bool) bool

	OnInput(id resume.InputID, fn func()) bool
	OnPaste(id resume.InputID, fn func()) bool
	OnClick(c Control, fn func()) bool
	OnTeardown(fn func())
}

// Store 是引擎独占的持久化字符串键值存储。
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Confirmer 向用户发起阻塞式的是/否确认。
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// Printer 将当前页面交给宿主的打印能力。
type Printer interface {
	Print(ctx context.Context) error
}

// Scheduler 在延迟后重新进入引擎的执行上下文。
type Scheduler interface {
	After(d time.Duration, fn func())
}

// PrinterFunc 将函数适配为 Printer。
type PrinterFunc func(ctx context.Context) error

func (f PrinterFunc) Print(ctx context.Context) error { return f(ctx) }

// ConfirmFunc 将函数适配为 Confirmer。
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}
