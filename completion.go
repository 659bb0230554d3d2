package webvfx

import (
	"context"
	"errors"
)

// ErrOwnerGone is returned from a blocking call when the owner thread's
// loop shuts down before the call completes.
var ErrOwnerGone = errors.New("webvfx: owner thread loop has shut down")

// unit is the payload of completions that carry no result, such as
// reload: the waiter is woken but nothing is written to a result slot.
type unit struct{}

// completion is the per-call rendezvous between one blocking caller and
// the owner thread. Each blocking call creates a fresh completion, hands
// it to the posted invokable, waits on it, and discards it; no state is
// shared between calls, so a completion signaled late (or twice) cannot
// disturb any other call.
type completion[T any] struct {
	ch chan T
}

func newCompletion[T any]() *completion[T] {
	// Buffer of one: complete never blocks the owner thread, even if
	// the caller has already given up waiting.
	return &completion[T]{ch: make(chan T, 1)}
}

// complete delivers the result and wakes the waiter. Safe to call on
// the owner thread at any point; a duplicate completion is dropped.
func (c *completion[T]) complete(v T) {
	select {
	case c.ch <- v:
	default:
		// Already completed. Only one waiter can exist, so there is
		// nothing left to wake.
	}
}

// wait blocks the caller until the owner thread completes the call, the
// context expires, or the owner loop shuts down.
func (c *completion[T]) wait(ctx context.Context, ownerGone <-chan struct{}) (T, error) {
	select {
	case v := <-c.ch:
		return v, nil
	case <-ownerGone:
		// The loop drains queued tasks at shutdown, so the call may
		// have completed concurrently. Prefer the result.
		select {
		case v := <-c.ch:
			return v, nil
		default:
		}
		var zero T
		return zero, ErrOwnerGone
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
