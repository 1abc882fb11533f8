package rate

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const (
	likesSecondWindow = time.Second
	likes10SecWindow  = 10 * time.Second
)

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// Limiter is a burst guard for like submissions. A zero limit disables
// the corresponding window, so the default configuration is a no-op.
type Limiter struct {
	store    WindowStore
	perSec   int
	per10Sec int
}

func NewLimiter(store WindowStore, perSec, per10Sec int) *Limiter {
	if perSec < 0 {
		perSec = 0
	}
	if per10Sec < 0 {
		per10Sec = 0
	}

	return &Limiter{
		store:    store,
		perSec:   perSec,
		per10Sec: per10Sec,
	}
}

func (l *Limiter) Enabled() bool {
	return l != nil && (l.perSec > 0 || l.per10Sec > 0)
}

// AllowLike returns (retryAfterSec, allowed). Counters are advanced on
// every call, denied or not, so hammering extends the block.
func (l *Limiter) AllowLike(ctx context.Context, userID int64) (int64, bool, error) {
	if userID <= 0 {
		return 0, false, fmt.Errorf("invalid user id")
	}
	if l.store == nil {
		return 0, false, fmt.Errorf("rate limiter store is nil")
	}

	retryAfterSec := int64(0)

	if l.perSec > 0 {
		count, ttl, err := l.store.IncrementWindow(ctx, secondKey(userID), likesSecondWindow)
		if err != nil {
			return 0, false, err
		}
		if count > int64(l.perSec) {
			retryAfterSec = maxInt64(retryAfterSec, ceilSeconds(ttl))
		}
	}

	if l.per10Sec > 0 {
		count, ttl, err := l.store.IncrementWindow(ctx, tenSecKey(userID), likes10SecWindow)
		if err != nil {
			return 0, false, err
		}
		if count > int64(l.per10Sec) {
			retryAfterSec = maxInt64(retryAfterSec, ceilSeconds(ttl))
		}
	}

	if retryAfterSec > 0 {
		return retryAfterSec, false, nil
	}

	return 0, true, nil
}

func secondKey(userID int64) string {
	return "rate:likes:sec:" + strconv.FormatInt(userID, 10)
}

func tenSecKey(userID int64) string {
	return "rate:likes:10s:" + strconv.FormatInt(userID, 10)
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	if sec <= 0 {
		sec = 1
	}
	return sec
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
