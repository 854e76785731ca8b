package booking

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Domenick1991/airtrips/internal/domain"
)

const maxBackoffShift = 10

// backoff returns a random delay in [0, base*2^attempt).
func backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	if attempt > maxBackoffShift {
		attempt = maxBackoffShift
	}
	return time.Duration(rand.Int64N(int64(base) << attempt))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// deadlineErr reports store failures caused by the call's own deadline as
// timeouts.
func deadlineErr(ctx context.Context, err error) error {
	if err == nil || errors.Is(err, errAbort) || errors.Is(err, domain.ErrTimeout) {
		return err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	return err
}
