package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypePrintResume = "print:resume"
)

// PrintResumePayload 携带打印所需的完整表单状态，Worker 无需回读存储。
type PrintResumePayload struct {
	Snapshot      map[string]string `json:"snapshot"`
	Theme         string            `json:"theme"`
	CorrelationID string            `json:"correlation_id"`
}

// NewPrintTask 构造一个新的简历打印任务。
func NewPrintTask(snapshot map[string]string, theme, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(PrintResumePayload{
		Snapshot:      snapshot,
		Theme:         theme,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePrintResume, payload), nil
}

// ParsePrintPayload 解析打印任务负载。
func ParsePrintPayload(t *asynq.Task) (PrintResumePayload, error) {
	var payload PrintResumePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return PrintResumePayload{}, fmt.Errorf("unmarshal %s payload: %w", t.Type(), err)
	}
	return payload, nil
}
