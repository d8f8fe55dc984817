package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"resumeSync/internal/resume"
)

// 持久化存储中的键名。
const (
	SnapshotKey = "resumeFormData"
	ThemeKey    = "resumeTheme"
)

// Snapshot 是全部输入框当前原始值的集合，作为一个整体读写。
type Snapshot map[resume.InputID]string

// Marshal 将快照序列化为 JSON 对象。
func (s Snapshot) Marshal() (string, error) {
	if s == nil {
		s = Snapshot{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	return string(data), nil
}

// ParseSnapshot 解析持久化的快照；非 JSON 对象或值不是字符串时返回错误。
func ParseSnapshot(data string) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s == nil {
		return nil, fmt.Errorf("decode snapshot: not an object")
	}
	return s, nil
}

// State 是引擎独占的应用状态。
type State struct {
	Snapshot Snapshot
	Theme    resume.Theme
}

// SaveSnapshot 以整体覆盖的方式写入快照。
func (s *State) SaveSnapshot(ctx context.Context, store Store) error {
	data, err := s.Snapshot.Marshal()
	if err != nil {
		return err
	}
	if err := store.Set(ctx, SnapshotKey, data); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot 读取快照；不存在时返回 (nil, false, nil)。
func LoadSnapshot(ctx context.Context, store Store) (Snapshot, bool, error) {
	data, ok, err := store.Get(ctx, SnapshotKey)
	if err != nil {
		return nil, false, fmt.Errorf("read snapshot: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	snap, err := ParseSnapshot(data)
	if err != nil {
		return nil, false, err
	}
	return snap, true, nil
}

// SaveTheme 持久化主题选择。
func (s *State) SaveTheme(ctx context.Context, store Store) error {
	if err := store.Set(ctx, ThemeKey, string(s.Theme)); err != nil {
		return fmt.Errorf("store theme: %w", err)
	}
	return nil
}

// LoadTheme 读取主题；缺失或无法识别时使用默认主题。
func LoadTheme(ctx context.Context, store Store) (resume.Theme, error) {
	value, ok, err := store.Get(ctx, ThemeKey)
	if err != nil {
		return resume.DefaultTheme, fmt.Errorf("read theme: %w", err)
	}
	if !ok {
		return resume.DefaultTheme, nil
	}
	theme, ok := resume.ParseTheme(value)
	if !ok {
		return resume.DefaultTheme, nil
	}
	return theme, nil
}
