package worker

// NotifyChannel 是打印结果通知的 Redis Pub/Sub 频道，API 端转发给 WebSocket 客户端。
const NotifyChannel = "print_notify"

// PrintNotifyMessage 是打印任务结束后发布的消息。
// 注意：这里的字段名与前端解析保持一致。
type PrintNotifyMessage struct {
	Kind          string `json:"kind"`
	Status        string `json:"status"`
	CorrelationID string `json:"correlation_id"`
	Location      string `json:"value,omitempty"`
	ErrorCode     int    `json:"error_code"`
	ErrorMessage  string `json:"error_message,omitempty"`
}
