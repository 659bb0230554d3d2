package webvfx

import (
	"context"
	"net/url"
	"time"

	"github.com/mcanthony/webvfx/mainthread"
)

// Effects renders effect content loaded from a locator into
// caller-supplied images, executing all content work on the owner
// thread driven by a mainthread.Loop.
//
// Lifecycle: Initialize, then any number of Render/Reload calls, then
// Destroy. At most one blocking call may be in flight per instance; the
// embedding application serializes calls against the same instance.
// Each blocking call carries its own completion channel, so a stray
// completion from an abandoned call can never wake a later caller.
type Effects struct {
	loop        *mainthread.Loop
	callTimeout time.Duration

	// content is created and mutated only on the owner thread. Callers
	// observe it after a blocking call completed, which orders the
	// access after the owner-thread write.
	content Content
}

// Option configures an Effects instance during creation.
type Option func(*Effects)

// WithCallTimeout bounds every blocking cross-thread wait. Zero (the
// default) waits unconditionally; with a timeout, a call whose owner
// thread never responds in time returns false instead of blocking
// forever. The posted work itself is not cancelled.
func WithCallTimeout(d time.Duration) Option {
	return func(e *Effects) {
		e.callTimeout = d
	}
}

// NewEffects creates an Effects bridge driven by the given loop. The
// loop must be running (inside Run) before any blocking operation is
// issued.
func NewEffects(loop *mainthread.Loop, opts ...Option) *Effects {
	e := &Effects{loop: loop}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// callContext returns the context bounding one blocking call.
func (e *Effects) callContext() (context.Context, context.CancelFunc) {
	if e.callTimeout > 0 {
		return context.WithTimeout(context.Background(), e.callTimeout)
	}
	return context.Background(), func() {}
}

// Initialize resolves the locator, creates the matching content backend
// on the owner thread, starts loading, and blocks until the selected
// load milestone reports success or failure.
//
// Locator conventions: a "plain:" prefix is stripped and selects
// pre-load completion semantics; a locator with no scheme (or a
// single-letter drive scheme) is resolved to an absolute local file
// URL; any other scheme is loaded as remote web content.
//
// Initialize must not be called from the owner thread: it would block
// the very thread the work is posted to. Such a call fails fast with a
// logged diagnostic and performs no content creation. All other
// failures (unresolvable locator, unsupported extension, backend load
// failure) also return false after logging.
func (e *Effects) Initialize(locator string, width, height int, parameters Parameters, transparent bool) bool {
	if e.loop.IsOwner() {
		Logger().Error("webvfx: Effects cannot be initialized on the owner thread")
		return false
	}

	u, isPlain, err := resolveLocator(locator)
	if err != nil {
		Logger().Error("webvfx: invalid URL", "locator", locator, "err", err)
		return false
	}

	ctx, cancel := e.callContext()
	defer cancel()

	done := newCompletion[bool]()
	if err := e.loop.PostContext(ctx, func() {
		e.initializeInvokable(u, width, height, parameters, isPlain, transparent, done)
	}); err != nil {
		Logger().Error("webvfx: initialize not accepted by owner thread", "locator", locator, "err", err)
		return false
	}

	ok, err := done.wait(ctx, e.loop.Done())
	if err != nil {
		Logger().Error("webvfx: initialize timed out", "locator", locator, "err", err)
		return false
	}
	return ok
}

// initializeInvokable runs on the owner thread: it selects a backend by
// extension, subscribes the requested load milestone to the call's
// completion, and starts the asynchronous load. Every failure path
// signals the completion so the caller always wakes.
func (e *Effects) initializeInvokable(u *url.URL, width, height int, parameters Parameters, isPlain, transparent bool, done *completion[bool]) {
	factory, name, err := contentFor(u)
	if err != nil {
		Logger().Error("webvfx: filename must end with '.html', '.htm', or '.qml'", "url", u.String(), "err", err)
		done.complete(false)
		return
	}

	content := factory(ContentOptions{
		Width:       width,
		Height:      height,
		Parameters:  parameters,
		Transparent: transparent,
		Dispatcher:  e.loop,
	})
	if content == nil {
		Logger().Error("webvfx: content backend returned no content", "backend", name)
		done.complete(false)
		return
	}

	milestone := LoadFinished
	if isPlain {
		milestone = PreLoadFinished
	}
	content.Subscribe(milestone, done.complete)

	e.content = content
	Logger().Info("webvfx: loading content", "backend", name, "url", u.String())
	content.Load(u)
}

// Render paints the content at the given time into target and returns
// the backend's success result. Off the owner thread the call is
// marshaled and blocks until the owner thread has rendered; on the
// owner thread it executes inline with no blocking primitive engaged.
func (e *Effects) Render(time float64, target *Image) bool {
	if e.loop.IsOwner() {
		return e.renderInvokable(time, target, nil)
	}

	ctx, cancel := e.callContext()
	defer cancel()

	done := newCompletion[bool]()
	if err := e.loop.PostContext(ctx, func() {
		e.renderInvokable(time, target, done)
	}); err != nil {
		Logger().Error("webvfx: render not accepted by owner thread", "err", err)
		return false
	}

	ok, err := done.wait(ctx, e.loop.Done())
	if err != nil {
		Logger().Error("webvfx: render timed out", "err", err)
		return false
	}
	return ok
}

// renderInvokable runs on the owner thread. The completion is nil for
// the inline path.
func (e *Effects) renderInvokable(time float64, target *Image, done *completion[bool]) bool {
	ok := false
	if e.content != nil {
		e.content.SetSize(target.Width(), target.Height())
		ok = e.content.Render(time, target)
	} else {
		Logger().Error("webvfx: render called before successful initialize")
	}
	if done != nil {
		done.complete(ok)
	}
	return ok
}

// Reload discards and reloads the content on the owner thread, blocking
// until the reload has run. Unlike Initialize and Render there is no
// result payload; completion merely unblocks the caller. Reload reports
// false only when the wait itself gave up (timeout or loop shutdown).
func (e *Effects) Reload() bool {
	if e.loop.IsOwner() {
		e.reloadInvokable(nil)
		return true
	}

	ctx, cancel := e.callContext()
	defer cancel()

	done := newCompletion[unit]()
	if err := e.loop.PostContext(ctx, func() {
		e.reloadInvokable(done)
	}); err != nil {
		Logger().Error("webvfx: reload not accepted by owner thread", "err", err)
		return false
	}
	if _, err := done.wait(ctx, e.loop.Done()); err != nil {
		Logger().Error("webvfx: reload timed out", "err", err)
		return false
	}
	return true
}

func (e *Effects) reloadInvokable(done *completion[unit]) {
	if e.content != nil {
		e.content.Reload()
	}
	if done != nil {
		done.complete(unit{})
	}
}

// SetImage registers a named input image. It is safe to call directly
// from any thread without marshaling: it only touches the content's
// reentrant-safe per-key image storage. Calls against the same Effects
// instance must be externally serialized by the caller.
func (e *Effects) SetImage(name string, image *Image) {
	if e.content == nil {
		return
	}
	e.content.SetImage(name, image)
}

// ImageTypeMap returns the role of each named image the content
// declares. Safe to call from any thread under the same external
// serialization as SetImage.
func (e *Effects) ImageTypeMap() map[string]ImageType {
	if e.content == nil {
		return nil
	}
	return e.content.ImageTypeMap()
}

// Destroy requests deferred teardown on the owner thread rather than
// destroying immediately, so invokables already queued against this
// instance never observe a dead bridge. The owned content is torn down
// first. Destroy returns without waiting.
func (e *Effects) Destroy() {
	e.loop.Post(func() {
		if e.content != nil {
			e.content.Close()
			e.content = nil
		}
	})
}
