// Copyright 2026 The webvfx Authors
// SPDX-License-Identifier: MIT

package webvfx

import (
	"image/color"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/mcanthony/webvfx/mainthread"
)

// fakeContent is a scriptable content backend for bridge tests. All
// fields are written on the owner thread; tests read them only after a
// blocking call has returned, which orders the accesses.
type fakeContent struct {
	opts ContentOptions
	subs map[LoadMilestone][]func(bool)

	loadOK   bool // milestone payloads fired by Load
	silent   bool // Load never fires any milestone
	preOnly  bool // Load fires only the pre-load milestone
	renderOK bool

	loadedURL     *url.URL
	width, height int
	renderTime    float64
	reloads       int
	closed        bool
	images        map[string]*Image
}

func (f *fakeContent) Subscribe(milestone LoadMilestone, fn func(ok bool)) {
	f.subs[milestone] = append(f.subs[milestone], fn)
}

func (f *fakeContent) Load(u *url.URL) {
	f.loadedURL = u
	if f.silent {
		return
	}
	// Fire asynchronously through the dispatcher like a real backend.
	f.opts.Dispatcher.Post(func() {
		for _, fn := range f.subs[PreLoadFinished] {
			fn(f.loadOK)
		}
		if f.preOnly {
			return
		}
		for _, fn := range f.subs[LoadFinished] {
			fn(f.loadOK)
		}
	})
}

func (f *fakeContent) SetSize(width, height int) {
	f.width, f.height = width, height
}

func (f *fakeContent) Render(time float64, target *Image) bool {
	f.renderTime = time
	target.Fill(color.RGBA{R: 200, A: 255})
	return f.renderOK
}

func (f *fakeContent) Reload() { f.reloads++ }

func (f *fakeContent) SetImage(name string, image *Image) {
	f.images[name] = image
}

func (f *fakeContent) ImageTypeMap() map[string]ImageType {
	return map[string]ImageType{"fake": SourceImageType}
}

func (f *fakeContent) Close() { f.closed = true }

// fakeBackend registers a scriptable backend under a test-only
// extension and hands the created content back to the test.
type fakeBackend struct {
	mu       sync.Mutex
	loadOK   bool
	silent   bool
	preOnly  bool
	renderOK bool
	last     *fakeContent
}

func (b *fakeBackend) factory(opts ContentOptions) Content {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = &fakeContent{
		opts:     opts,
		subs:     make(map[LoadMilestone][]func(bool)),
		loadOK:   b.loadOK,
		silent:   b.silent,
		preOnly:  b.preOnly,
		renderOK: b.renderOK,
		images:   make(map[string]*Image),
	}
	return b.last
}

func (b *fakeBackend) content() *fakeContent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

func registerFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{loadOK: true, renderOK: true}
	RegisterContent("fake", b.factory)
	RegisterExtension(".fx", "fake")
	return b
}

// startLoop runs a loop on a background goroutine and shuts it down
// with the test.
func startLoop(t *testing.T) *mainthread.Loop {
	t.Helper()
	loop := mainthread.New()
	stop := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		loop.Run(func() { <-stop })
	}()
	t.Cleanup(func() {
		close(stop)
		<-finished
	})
	// Wait for the owner to come up so IsOwner is meaningful.
	loop.Call(func() {})
	return loop
}

// TestInitialize tests the full blocking initialize path: backend
// selection by extension, content creation on the owner thread, and
// waking the caller on the load milestone.
func TestInitialize(t *testing.T) {
	b := registerFakeBackend(t)
	loop := startLoop(t)
	e := NewEffects(loop)
	defer e.Destroy()

	if !e.Initialize("/effects/title.fx", 320, 180, nil, true) {
		t.Fatal("Initialize failed")
	}

	fc := b.content()
	if fc == nil {
		t.Fatal("no content created")
	}
	if fc.opts.Width != 320 || fc.opts.Height != 180 || !fc.opts.Transparent {
		t.Errorf("content options = %+v", fc.opts)
	}
	if fc.opts.Dispatcher == nil {
		t.Error("content created without a dispatcher")
	}
	if fc.loadedURL == nil || fc.loadedURL.Scheme != "file" {
		t.Errorf("loaded URL = %v, want file URL", fc.loadedURL)
	}
}

// TestInitializeLoadFailure tests that a failed load wakes the caller
// with false rather than hanging it.
func TestInitializeLoadFailure(t *testing.T) {
	b := registerFakeBackend(t)
	b.loadOK = false
	loop := startLoop(t)
	e := NewEffects(loop)
	defer e.Destroy()

	if e.Initialize("/effects/broken.fx", 64, 64, nil, false) {
		t.Fatal("Initialize succeeded for a failing load")
	}
}

// TestInitializeUnsupportedExtension tests that an unroutable local
// filename fails without creating content and without hanging.
func TestInitializeUnsupportedExtension(t *testing.T) {
	registerFakeBackend(t)
	loop := startLoop(t)
	e := NewEffects(loop)

	done := make(chan bool, 1)
	go func() {
		done <- e.Initialize("/effects/movie.avi", 64, 64, nil, false)
	}()
	select {
	case ok := <-done:
		if ok {
			t.Fatal("Initialize succeeded for unsupported extension")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Initialize hung on unsupported extension")
	}
}

// TestInitializeOnOwnerThread tests that initializing from the owner
// thread fails fast instead of deadlocking on itself.
func TestInitializeOnOwnerThread(t *testing.T) {
	registerFakeBackend(t)
	loop := startLoop(t)
	e := NewEffects(loop)

	var ok bool
	loop.Call(func() {
		ok = e.Initialize("/effects/title.fx", 64, 64, nil, false)
	})
	if ok {
		t.Fatal("Initialize succeeded on the owner thread")
	}
}

// TestInitializeTimeout tests that a backend that never completes its
// load releases the caller once the configured timeout expires.
func TestInitializeTimeout(t *testing.T) {
	b := registerFakeBackend(t)
	b.silent = true
	loop := startLoop(t)
	e := NewEffects(loop, WithCallTimeout(50*time.Millisecond))

	start := time.Now()
	if e.Initialize("/effects/stuck.fx", 64, 64, nil, false) {
		t.Fatal("Initialize succeeded without a load milestone")
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("Initialize took %v, want prompt timeout", elapsed)
	}
}

// TestInitializePlainPrefix tests that a "plain:" locator completes on
// the pre-load milestone while a plain-less locator waits for the full
// load.
func TestInitializePlainPrefix(t *testing.T) {
	b := registerFakeBackend(t)
	b.preOnly = true
	loop := startLoop(t)
	e := NewEffects(loop, WithCallTimeout(200*time.Millisecond))
	defer e.Destroy()

	if !e.Initialize("plain:/effects/title.fx", 64, 64, nil, false) {
		t.Fatal("plain: Initialize did not complete on the pre-load milestone")
	}
	if e.Initialize("/effects/title.fx", 64, 64, nil, false) {
		t.Fatal("Initialize completed without the full-load milestone")
	}
}

// TestRender tests the marshaled render path: resize to the target,
// render on the owner thread, and return the backend result.
func TestRender(t *testing.T) {
	b := registerFakeBackend(t)
	loop := startLoop(t)
	e := NewEffects(loop)
	defer e.Destroy()

	if !e.Initialize("/effects/title.fx", 64, 64, nil, false) {
		t.Fatal("Initialize failed")
	}

	target := NewImage(320, 180)
	if !e.Render(0.25, target) {
		t.Fatal("Render failed")
	}

	fc := b.content()
	if fc.width != 320 || fc.height != 180 {
		t.Errorf("content resized to %dx%d, want 320x180", fc.width, fc.height)
	}
	if fc.renderTime != 0.25 {
		t.Errorf("render time = %v, want 0.25", fc.renderTime)
	}
	if got := target.At(0, 0); got != (color.RGBA{R: 200, A: 255}) {
		t.Errorf("target pixel = %v, want backend fill", got)
	}
}

// TestRenderInlineOnOwnerThread tests that a render issued from the
// owner thread runs inline instead of deadlocking on the queue.
func TestRenderInlineOnOwnerThread(t *testing.T) {
	registerFakeBackend(t)
	loop := startLoop(t)
	e := NewEffects(loop)
	defer e.Destroy()

	if !e.Initialize("/effects/title.fx", 64, 64, nil, false) {
		t.Fatal("Initialize failed")
	}

	target := NewImage(64, 64)
	var ok bool
	completed := make(chan struct{})
	loop.Post(func() {
		ok = e.Render(0.5, target)
		close(completed)
	})
	select {
	case <-completed:
	case <-time.After(5 * time.Second):
		t.Fatal("owner-thread render deadlocked")
	}
	if !ok {
		t.Fatal("inline render failed")
	}
}

// TestRenderReportsBackendFailure tests that a failing backend render
// propagates false to the caller.
func TestRenderReportsBackendFailure(t *testing.T) {
	b := registerFakeBackend(t)
	b.renderOK = false
	loop := startLoop(t)
	e := NewEffects(loop)
	defer e.Destroy()

	if !e.Initialize("/effects/title.fx", 64, 64, nil, false) {
		t.Fatal("Initialize failed")
	}
	if e.Render(0, NewImage(64, 64)) {
		t.Fatal("Render succeeded for a failing backend")
	}
}

// TestRenderBeforeInitialize tests that rendering without content
// returns false instead of panicking or hanging.
func TestRenderBeforeInitialize(t *testing.T) {
	loop := startLoop(t)
	e := NewEffects(loop)
	if e.Render(0, NewImage(16, 16)) {
		t.Fatal("Render succeeded before Initialize")
	}
}

// TestReload tests that Reload blocks until the owner thread has
// performed the reload.
func TestReload(t *testing.T) {
	b := registerFakeBackend(t)
	loop := startLoop(t)
	e := NewEffects(loop)
	defer e.Destroy()

	if !e.Initialize("/effects/title.fx", 64, 64, nil, false) {
		t.Fatal("Initialize failed")
	}
	if !e.Reload() {
		t.Fatal("Reload reported failure")
	}
	if got := b.content().reloads; got != 1 {
		t.Errorf("reloads = %d, want 1", got)
	}
}

// TestSetImageAndImageTypeMap tests the non-marshaled accessors.
func TestSetImageAndImageTypeMap(t *testing.T) {
	b := registerFakeBackend(t)
	loop := startLoop(t)
	e := NewEffects(loop)
	defer e.Destroy()

	// Before initialize both are inert.
	e.SetImage("video", NewImage(4, 4))
	if m := e.ImageTypeMap(); m != nil {
		t.Errorf("ImageTypeMap before initialize = %v, want nil", m)
	}

	if !e.Initialize("/effects/title.fx", 64, 64, nil, false) {
		t.Fatal("Initialize failed")
	}
	im := NewImage(4, 4)
	e.SetImage("video", im)
	if b.content().images["video"] != im {
		t.Error("SetImage did not reach the content")
	}
	if m := e.ImageTypeMap(); m["fake"] != SourceImageType {
		t.Errorf("ImageTypeMap = %v", m)
	}
}

// TestDestroy tests that Destroy tears the content down on the owner
// thread.
func TestDestroy(t *testing.T) {
	b := registerFakeBackend(t)
	loop := startLoop(t)
	e := NewEffects(loop)

	if !e.Initialize("/effects/title.fx", 64, 64, nil, false) {
		t.Fatal("Initialize failed")
	}
	e.Destroy()
	loop.Call(func() {}) // barrier: teardown is queued ahead of us
	if !b.content().closed {
		t.Error("content not closed after Destroy")
	}
}

// TestSequentialCallsFromMultipleGoroutines tests that externally
// serialized callers on different goroutines each get their own
// completion.
func TestSequentialCallsFromMultipleGoroutines(t *testing.T) {
	registerFakeBackend(t)
	loop := startLoop(t)
	e := NewEffects(loop)
	defer e.Destroy()

	if !e.Initialize("/effects/title.fx", 64, 64, nil, false) {
		t.Fatal("Initialize failed")
	}

	var mu sync.Mutex
	for i := 0; i < 8; i++ {
		result := make(chan bool)
		go func() {
			mu.Lock()
			defer mu.Unlock()
			result <- e.Render(0.5, NewImage(32, 32))
		}()
		if !<-result {
			t.Fatalf("render %d failed", i)
		}
	}
}
