package engine

import (
	"context"
	"errors"
	"time"
)

// ErrLoopStopped 表示 Loop 已退出，无法再投递任务。
var ErrLoopStopped = errors.New("engine: loop stopped")

// Loop 在单个 goroutine 上执行全部引擎操作。
// HTTP 处理器与定时器只能向其投递任务，不直接访问引擎状态。
type Loop struct {
	tasks chan func()
	done  chan struct{}
}

// NewLoop 按给定队列容量创建 Loop。
func NewLoop(capacity int) *Loop {
	if capacity <= 0 {
		capacity = 64
	}
	return &Loop{
		tasks: make(chan func(), capacity),
		done:  make(chan struct{}),
	}
}

// Run 持续执行队列中的任务直到 ctx 取消，剩余任务被丢弃。
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Post 投递 fn，不等待其执行。
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrLoopStopped
	}
}

// Do 投递 fn 并等待其执行完毕。不能在 Loop 内部调用。
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	err := l.Post(func() {
		defer close(finished)
		fn()
	})
	if err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopStopped
	}
}

// After 在 d 之后重新进入 Loop 执行 fn。
func (l *Loop) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		_ = l.Post(fn)
	})
}

// Done 在 Run 返回后关闭。
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
