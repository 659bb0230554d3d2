// Copyright 2026 The webvfx Authors
// SPDX-License-Identifier: MIT

// Package qml is the content backend for declarative scene documents
// (.qml). Importing the package registers it.
//
// A scene is a tree of Rectangle, Text and Image items with numeric
// properties that can animate linearly over the normalized render time.
// Image items composite named images supplied through SetImage and
// declare their role for ImageTypeMap.
package qml

import (
	"image"
	"image/color"
	"image/draw"
	"net/url"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/mcanthony/webvfx"
	"github.com/mcanthony/webvfx/gpu"
	"github.com/mcanthony/webvfx/internal/typeset"
)

// Name is the backend identifier in the content registry.
const Name = "qml"

func init() {
	webvfx.RegisterContent(Name, New)
	webvfx.RegisterExtension(".qml", Name)
}

// deviceProvider optionally carries a host GPU device into new scene
// compositors. See SetDeviceProvider.
var deviceProvider gpu.DeviceHandle

// SetDeviceProvider configures scenes to composite on a GPU device
// shared by the host application instead of acquiring their own. The
// provider must implement gpu.DeviceHandle (gpucontext.DeviceProvider);
// anything else is ignored with a logged warning.
//
// Call this before Initialize, typically right after importing this
// package.
func SetDeviceProvider(provider any) {
	handle, ok := provider.(gpu.DeviceHandle)
	if !ok {
		webvfx.Logger().Warn("qml: device provider does not implement gpu.DeviceHandle")
		return
	}
	deviceProvider = handle
}

// Content is a loaded declarative scene.
type Content struct {
	dispatcher  webvfx.Dispatcher
	transparent bool
	images      *webvfx.ImageStore
	compositor  *gpu.Compositor

	// Owner-thread state.
	width, height int
	url           *url.URL
	subs          map[webvfx.LoadMilestone][]func(bool)
	scene         *Scene
}

// New creates a qml Content. Registered as the factory for this backend.
func New(opts webvfx.ContentOptions) webvfx.Content {
	c := &Content{
		dispatcher:  opts.Dispatcher,
		transparent: opts.Transparent,
		images:      webvfx.NewImageStore(),
		width:       opts.Width,
		height:      opts.Height,
		subs:        make(map[webvfx.LoadMilestone][]func(bool)),
	}
	c.compositor = newCompositor()
	return c
}

// newCompositor tries the host device, then a dedicated one. A nil
// result selects CPU compositing.
func newCompositor() *gpu.Compositor {
	if deviceProvider != nil {
		comp, err := gpu.NewCompositorFrom(deviceProvider)
		if err == nil {
			webvfx.Logger().Info("qml: compositing on host GPU device")
			return comp
		}
		webvfx.Logger().Warn("qml: host GPU device unusable", "err", err)
	}
	comp, err := gpu.NewCompositor()
	if err != nil {
		webvfx.Logger().Debug("qml: GPU unavailable, CPU compositing", "err", err)
		return nil
	}
	return comp
}

// Subscribe implements webvfx.Content.
func (c *Content) Subscribe(milestone webvfx.LoadMilestone, fn func(ok bool)) {
	c.subs[milestone] = append(c.subs[milestone], fn)
}

// Load implements webvfx.Content. The read runs off the owner thread;
// milestones are posted back through the dispatcher. The pre-load
// milestone fires once the document bytes are available, the full-load
// milestone after the scene has parsed.
func (c *Content) Load(u *url.URL) {
	c.url = u
	c.scene = nil
	go func() {
		data, err := os.ReadFile(u.Path)
		c.dispatcher.Post(func() {
			c.finishLoad(data, err)
		})
	}()
}

func (c *Content) finishLoad(data []byte, err error) {
	if err != nil {
		webvfx.Logger().Error("qml: load failed", "url", c.url.String(), "err", err)
		c.fire(webvfx.PreLoadFinished, false)
		c.fire(webvfx.LoadFinished, false)
		return
	}
	c.fire(webvfx.PreLoadFinished, true)

	scene, perr := ParseScene(data)
	if perr != nil {
		webvfx.Logger().Error("qml: parse failed", "url", c.url.String(), "err", perr)
		c.fire(webvfx.LoadFinished, false)
		return
	}
	c.scene = scene
	webvfx.Logger().Debug("qml: scene loaded", "url", c.url.String(), "items", len(scene.Items))
	c.fire(webvfx.LoadFinished, true)
}

func (c *Content) fire(milestone webvfx.LoadMilestone, ok bool) {
	for _, fn := range c.subs[milestone] {
		fn(ok)
	}
}

// SetSize implements webvfx.Content.
func (c *Content) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// Render implements webvfx.Content: background, then the item tree in
// document order, with animated properties evaluated at the given time.
func (c *Content) Render(time float64, target *webvfx.Image) bool {
	if c.scene == nil {
		webvfx.Logger().Error("qml: render before load finished")
		return false
	}
	if time < 0 {
		time = 0
	} else if time > 1 {
		time = 1
	}

	if c.transparent {
		target.Fill(color.RGBA{})
	} else {
		target.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}

	dst := target.RGBA()
	for _, item := range c.scene.Items {
		c.renderItem(dst, item, time, 0, 0, 1)
	}
	return true
}

// renderItem paints one item and its children. offX/offY accumulate
// parent offsets; opacity multiplies down the tree.
func (c *Content) renderItem(dst *image.RGBA, item *Item, time, offX, offY, opacity float64) {
	x := offX + item.animated("x", item.X, time)
	y := offY + item.animated("y", item.Y, time)
	w := item.animated("width", item.Width, time)
	h := item.animated("height", item.Height, time)
	op := opacity * clamp01(item.animated("opacity", item.Opacity, time))

	switch item.Kind {
	case RectangleItem:
		fillRect(dst, x, y, w, h, withOpacity(item.Color, op))
	case TextItem:
		baseline := y + item.PixelSize
		if err := typeset.Draw(dst, item.Text, item.PixelSize, withOpacity(item.Color, op), x, baseline); err != nil {
			webvfx.Logger().Error("qml: text render failed", "err", err)
		}
	case ImageItem:
		c.drawImage(dst, item, x, y, w, h)
	}

	for _, child := range item.Children {
		c.renderItem(dst, child, time, x, y, op)
	}
}

// animated returns the item's property value at time, applying the
// item's animation for that property if one exists.
func (it *Item) animated(prop string, base, time float64) float64 {
	for _, a := range it.Anims {
		if a.Prop == prop {
			return a.From + (a.To-a.From)*time
		}
	}
	return base
}

// drawImage scales a named image from the store into the item bounds.
func (c *Content) drawImage(dst *image.RGBA, item *Item, x, y, w, h float64) {
	src := c.images.Get(item.Source)
	if src == nil {
		webvfx.Logger().Debug("qml: no image registered", "name", item.Source)
		return
	}
	rect := image.Rect(int(x), int(y), int(x+w), int(y+h))
	xdraw.CatmullRom.Scale(dst, rect, src.RGBA(), src.RGBA().Bounds(), xdraw.Over, nil)
}

// fillRect fills an axis-aligned rectangle with source-over blending.
func fillRect(dst *image.RGBA, x, y, w, h float64, c color.NRGBA) {
	rect := image.Rect(int(x), int(y), int(x+w), int(y+h)).Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(dst, rect, image.NewUniform(c), image.Point{}, draw.Over)
}

// withOpacity scales a color's alpha.
func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(float64(c.A) * clamp01(opacity))
	return c
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Reload implements webvfx.Content: it rereads and reparses the scene,
// re-firing load milestones.
func (c *Content) Reload() {
	if c.url == nil {
		return
	}
	c.Load(c.url)
}

// SetImage implements webvfx.Content. Safe from any thread; the store
// is reentrant per key.
func (c *Content) SetImage(name string, image *webvfx.Image) {
	c.images.Set(name, image)
}

// ImageTypeMap implements webvfx.Content: the roles declared by the
// scene's Image items.
func (c *Content) ImageTypeMap() map[string]webvfx.ImageType {
	types := make(map[string]webvfx.ImageType)
	if c.scene == nil {
		return types
	}
	var walk func(items []*Item)
	walk = func(items []*Item) {
		for _, item := range items {
			if item.Kind == ImageItem && item.Source != "" {
				switch item.Role {
				case "source":
					types[item.Source] = webvfx.SourceImageType
				case "target":
					types[item.Source] = webvfx.TargetImageType
				default:
					types[item.Source] = webvfx.ExtraImageType
				}
			}
			walk(item.Children)
		}
	}
	walk(c.scene.Items)
	return types
}

// Close implements webvfx.Content.
func (c *Content) Close() {
	if c.compositor != nil {
		c.compositor.Close()
		c.compositor = nil
	}
	c.scene = nil
}
