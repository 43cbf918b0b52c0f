package wallet

import (
	"context"
	"fmt"
	"time"
)

type result[T any] struct {
	val T
	err error
}

// callWithTimeout 在独立协程中执行 fn，超时或 ctx 取消后立即返回
// 被放弃的调用继续在后台完成；迟到的结果若持有连接（实现 Close）则关闭
func callWithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ch := make(chan result[T], 1)
	go func() {
		v, err := fn(ctx)
		ch <- result[T]{val: v, err: err}
	}()

	select {
	case r := <-ch:
		return r.val, r.err
	case <-ctx.Done():
		go discardLate(ch)
		if ctx.Err() == context.DeadlineExceeded {
			return zero, fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		return zero, ctx.Err()
	}
}

func discardLate[T any](ch <-chan result[T]) {
	r := <-ch
	if r.err != nil {
		return
	}
	if c, ok := any(r.val).(interface{ Close() }); ok {
		c.Close()
	}
}
