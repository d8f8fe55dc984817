package errcode

// 打印通知中的错误码：
// - 0：打印完成
// - 5xxx：打印失败（重试耗尽）
const (
	OK          = 0
	SystemError = 5000
)
