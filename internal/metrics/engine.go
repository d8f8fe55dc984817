package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FieldChanges 统计预览刷新次数。
	FieldChanges = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "resumesync",
		Subsystem: "engine",
		Name:      "field_changes_total",
		Help:      "输入框变更触发的预览刷新总数。",
	})

	SnapshotWrites = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "resumesync",
		Subsystem: "engine",
		Name:      "snapshot_writes_total",
		Help:      "快照整体写入存储的次数。",
	})

	SnapshotRestoreFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "resumesync",
		Subsystem: "engine",
		Name:      "snapshot_restore_failures_total",
		Help:      "启动时快照无法读取或解析的次数。",
	})

	ThemeSwitches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumesync",
			Subsystem: "engine",
			Name:      "theme_switches_total",
			Help:      "主题切换次数。",
		},
		[]string{"theme"},
	)

	PrintRequests = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "resumesync",
		Subsystem: "engine",
		Name:      "print_requests_total",
		Help:      "打印请求总数。",
	})

	PrintFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "resumesync",
		Subsystem: "engine",
		Name:      "print_failures_total",
		Help:      "打印失败次数。",
	})
)
