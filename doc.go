// Package webvfx renders visual effects authored as web or declarative
// scene documents into caller-supplied images.
//
// # Overview
//
// Effect content (loading, rendering, reloading) must execute on a single
// designated owner thread, typically the thread that owns a windowing or
// graphics context. The [Effects] bridge lets any goroutine drive those
// operations synchronously: off the owner thread a call is marshaled onto
// the owner thread's task queue and the caller blocks until the owner
// thread completes it; on the owner thread the call executes inline.
//
// # Quick Start
//
//	import (
//	    "github.com/mcanthony/webvfx"
//	    "github.com/mcanthony/webvfx/mainthread"
//
//	    _ "github.com/mcanthony/webvfx/content/qml" // .qml effects
//	    _ "github.com/mcanthony/webvfx/content/web" // .html/.htm and remote effects
//	)
//
//	func main() {
//	    loop := mainthread.New()
//	    loop.Run(func() {
//	        effects := webvfx.NewEffects(loop)
//	        if !effects.Initialize("effect.qml", 640, 360, nil, false) {
//	            return
//	        }
//	        defer effects.Destroy()
//
//	        frame := webvfx.NewImage(640, 360)
//	        effects.Render(0.5, frame)
//	    })
//	}
//
// # Content Backends
//
// Backends register themselves by file extension; the locator's extension
// selects the backend during Initialize. Non-local URLs always select the
// web backend. Import the backend packages you need for their side
// effects, the same way optional render backends are enabled elsewhere in
// the ecosystem.
//
// # Threading Contract
//
// At most one blocking call may be in flight per Effects instance; the
// embedding application serializes calls against the same instance.
// SetImage and ImageTypeMap are safe to call directly from any thread
// without marshaling under that same external serialization, since they
// only touch per-key storage.
package webvfx
