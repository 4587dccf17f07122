package relay

import (
	"context"
	"math/rand"
	"time"
)

// SampleDelay returns a uniformly random whole number of seconds in
// [0, maxSeconds). A zero bound yields no delay.
func SampleDelay(maxSeconds uint64, rng *rand.Rand) time.Duration {
	if maxSeconds == 0 {
		return 0
	}
	n := maxSeconds
	if n > uint64(1<<62) {
		n = 1 << 62
	}
	return time.Duration(rng.Int63n(int64(n))) * time.Second
}

// sleep blocks for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
