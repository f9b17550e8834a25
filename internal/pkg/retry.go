package pkg

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Retry 带退避的重试。每次失败后退避时间翻倍，ctx 取消时立即返回
func Retry[T any](ctx context.Context, attempts int, backoff time.Duration, log zerolog.Logger, op string, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 1; i <= attempts; i++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if i < attempts {
			log.Warn().Str("op", op).Int("attempt", i).Dur("backoff", backoff).Err(err).Msg("retrying")
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return zero, lastErr
}
