package api

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisRateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

func incrWithTTL(ctx context.Context, client redisRateCounter, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}

// PrintThrottle 限制固定窗口内的打印次数；打印会拉起无头浏览器，开销较大。
type PrintThrottle struct {
	client redisRateCounter
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewPrintThrottle 构造打印限流器。client 为 nil 或 limit<=0 时不限流。
func NewPrintThrottle(client redisRateCounter, limit int64, window time.Duration) *PrintThrottle {
	return &PrintThrottle{client: client, limit: limit, window: window, now: time.Now}
}

// Allow 报告本次打印是否在配额内。Redis 出错时放行。
func (t *PrintThrottle) Allow(ctx context.Context) (bool, error) {
	if t == nil || t.client == nil || t.limit <= 0 {
		return true, nil
	}
	bucket := t.now().UTC().Truncate(t.window).Unix()
	key := fmt.Sprintf("print_rate:%d", bucket)
	count, err := incrWithTTL(ctx, t.client, key, t.window)
	if err != nil {
		return true, err
	}
	return count <= t.limit, nil
}
