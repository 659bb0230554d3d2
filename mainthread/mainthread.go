// Copyright 2026 The webvfx Authors
// SPDX-License-Identifier: MIT

// Package mainthread runs a FIFO task loop on a single locked OS thread
// and lets any goroutine post work onto that thread or call into it
// synchronously.
//
// A Loop has exactly two roles: an arbitrary number of caller goroutines
// issuing Post/Call, and the one owner goroutine inside Run that executes
// every task to completion, strictly in the order posted. The owner never
// blocks on callers; callers block only while waiting for their own call
// to finish.
//
// Example:
//
//	loop := mainthread.New()
//	loop.Run(func() {
//	    // Application code. Runs on its own goroutine while the
//	    // calling goroutine (locked to its OS thread) services tasks.
//	    loop.Call(func() {
//	        // Executes on the owner thread.
//	    })
//	})
package mainthread

import (
	"context"
	"runtime"
	"sync/atomic"
)

// Loop is an owner-thread task queue.
//
// The zero value is not usable; create a Loop with New. A Loop services
// tasks only while Run is executing; tasks posted before Run starts are
// buffered and executed once it does.
type Loop struct {
	tasks chan func()
	quit  chan struct{}

	// ownerGID is the goroutine id of the goroutine executing Run.
	// That goroutine is locked to its OS thread for the duration of Run,
	// so goroutine identity and thread identity coincide for tasks.
	ownerGID atomic.Uint64
}

// New creates a Loop ready to be driven by Run.
func New() *Loop {
	return &Loop{
		tasks: make(chan func(), runtime.GOMAXPROCS(0)),
		quit:  make(chan struct{}),
	}
}

// Run locks the calling goroutine to its OS thread, starts main on a new
// goroutine, and services the task queue until main returns. Pending
// tasks already in the queue when main returns are drained before Run
// returns, so deferred teardown posted from main still executes.
//
// Run must be called exactly once, normally from the main goroutine so
// that tasks execute on the process's main thread.
func (l *Loop) Run(main func()) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	l.ownerGID.Store(curGoroutineID())

	done := make(chan struct{})
	go func() {
		defer close(done)
		main()
	}()

	for {
		select {
		case f := <-l.tasks:
			f()
		case <-done:
			l.drain()
			close(l.quit)
			return
		}
	}
}

// drain executes tasks already queued at shutdown without waiting for
// new ones.
func (l *Loop) drain() {
	for {
		select {
		case f := <-l.tasks:
			f()
		default:
			return
		}
	}
}

// IsOwner reports whether the current goroutine is the owner thread.
// It is a pure query with no side effects, callable from any goroutine,
// and correct before the first task has run. Before Run starts there is
// no owner and IsOwner returns false everywhere.
func (l *Loop) IsOwner() bool {
	gid := l.ownerGID.Load()
	return gid != 0 && gid == curGoroutineID()
}

// Done returns a channel closed once Run has returned. Waiters use it to
// avoid blocking on an owner thread that no longer exists.
func (l *Loop) Done() <-chan struct{} {
	return l.quit
}

// Post enqueues f for deferred execution on the owner thread. It never
// waits for f to run. Tasks execute in FIFO order relative to all other
// posted work. If the loop has already shut down the task is dropped
// with a logged warning.
func (l *Loop) Post(f func()) {
	select {
	case l.tasks <- f:
	case <-l.quit:
		logger().Warn("mainthread: task dropped, loop has shut down")
	}
}

// Call executes f on the owner thread and waits for it to finish. When
// called from the owner thread itself, f runs inline with no queueing
// and no blocking primitive engaged. If the loop shuts down before f
// runs, Call returns without executing it.
func (l *Loop) Call(f func()) {
	if l.IsOwner() {
		f()
		return
	}
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		f()
	})
	select {
	case <-done:
	case <-l.quit:
	}
}

// PostContext enqueues f like Post but gives up once ctx expires, so a
// caller is never stuck behind a saturated queue longer than its
// deadline. Returns nil once the task is queued; the task itself may
// still run arbitrarily later.
func (l *Loop) PostContext(ctx context.Context, f func()) error {
	select {
	case l.tasks <- f:
		return nil
	case <-l.quit:
		logger().Warn("mainthread: task dropped, loop has shut down")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CallContext is Call with a deadline at the interface boundary. The
// wait, not the work, is bounded: when ctx expires the caller stops
// waiting and CallContext returns ctx.Err(). A task that was already
// queued still runs later on the owner thread. A nil result means f
// completed before the deadline.
func (l *Loop) CallContext(ctx context.Context, f func()) error {
	if l.IsOwner() {
		f()
		return nil
	}
	done := make(chan struct{})
	if err := l.PostContext(ctx, func() {
		defer close(done)
		f()
	}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-l.quit:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
