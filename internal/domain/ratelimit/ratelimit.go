// Package ratelimit implements a sliding-window admission gate for
// submission intake. The package defines the windowing algorithm and the
// decision function; storage of the per-identity timestamp set is delegated
// to a Store, and recording is separate from checking so a hit is only
// retained after the caller confirms the guarded action succeeded.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrVersionConflict is returned by Store.Put when the window moved
	// underneath an update. Record retries on it.
	ErrVersionConflict = errors.New("rate limit window version conflict")
)

// LimitError carries the retry-after hint surfaced to the submitter.
type LimitError struct {
	Identity   string
	RetryAfter time.Duration
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s, retry after %s", e.Identity, e.RetryAfter.Round(time.Second))
}

func (e *LimitError) Unwrap() error {
	return ErrRateLimitExceeded
}

// Window is the retained timestamp set for one identity. Version supports
// the store's compare-and-swap so two concurrent submissions cannot both be
// admitted on a stale count.
type Window struct {
	Timestamps []time.Time
	Version    int64
}

// Store abstracts the key-value backing of the timestamp sets.
//
// Put must be conditional on expectedVersion (ErrVersionConflict on
// mismatch); a plain read-modify-write store would admit concurrent
// duplicates.
type Store interface {
	Get(ctx context.Context, identity string) (Window, error)
	Put(ctx context.Context, identity string, w Window, expectedVersion int64) error
}

// Decision is the outcome of a rate-limit check.
type Decision struct {
	Allowed      bool
	CurrentCount int
	RetryAfter   time.Duration
}

// Limiter applies a ceiling of Limit hits per Window per identity.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
}

func NewLimiter(store Store, limit int, window time.Duration) *Limiter {
	return &Limiter{store: store, limit: limit, window: window}
}

// Decide is the pure windowing core: it prunes timestamps older than the
// window and compares what remains to the ceiling. RetryAfter is how long
// until the oldest retained hit leaves the window.
func Decide(timestamps []time.Time, now time.Time, limit int, window time.Duration) Decision {
	var kept []time.Time
	cutoff := now.Add(-window)
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	d := Decision{CurrentCount: len(kept)}
	if len(kept) < limit {
		d.Allowed = true
		return d
	}

	// A non-positive ceiling denies everything, including an identity with
	// no retained hits to compute a retry hint from.
	if len(kept) == 0 {
		d.RetryAfter = window
		return d
	}

	oldest := kept[0]
	for _, ts := range kept[1:] {
		if ts.Before(oldest) {
			oldest = ts
		}
	}
	d.RetryAfter = oldest.Add(window).Sub(now)
	return d
}

// Check reports whether the identity may act right now. It does not record
// the hit; call Record after the action succeeded.
func (l *Limiter) Check(ctx context.Context, identity string, now time.Time) (Decision, error) {
	w, err := l.store.Get(ctx, identity)
	if err != nil {
		return Decision{}, err
	}

	d := Decide(w.Timestamps, now, l.limit, l.window)
	if !d.Allowed {
		return d, &LimitError{Identity: identity, RetryAfter: d.RetryAfter}
	}
	return d, nil
}

// recordRetries bounds the CAS loop; contention on a single submitter
// identity is rare.
const recordRetries = 3

// Record appends now to the identity's retained set with a compare-and-swap
// against the stored version, pruning expired hits while it is there.
func (l *Limiter) Record(ctx context.Context, identity string, now time.Time) error {
	for attempt := 0; attempt < recordRetries; attempt++ {
		w, err := l.store.Get(ctx, identity)
		if err != nil {
			return err
		}

		var kept []time.Time
		cutoff := now.Add(-l.window)
		for _, ts := range w.Timestamps {
			if ts.After(cutoff) {
				kept = append(kept, ts)
			}
		}
		kept = append(kept, now)

		err = l.store.Put(ctx, identity, Window{Timestamps: kept, Version: w.Version + 1}, w.Version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return err
		}
	}
	return ErrVersionConflict
}
