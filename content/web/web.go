// Copyright 2026 The webvfx Authors
// SPDX-License-Identifier: MIT

// Package web is the content backend for web documents: local .html and
// .htm files and every non-local URL. Importing the package registers it.
//
// The backend fetches the document off the owner thread, delivers load
// milestones back on the owner thread, and renders a page snapshot into
// the target frame: background, composited named images, and the
// document title.
package web

import (
	"fmt"
	"html"
	"image"
	"image/color"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/mcanthony/webvfx"
	"github.com/mcanthony/webvfx/internal/typeset"
)

// Name is the backend identifier in the content registry.
const Name = "web"

func init() {
	webvfx.RegisterContent(Name, New)
	webvfx.RegisterExtension(".html", Name)
	webvfx.RegisterExtension(".htm", Name)
	webvfx.RegisterRemote(Name)
}

// fetchTimeout bounds one document fetch.
const fetchTimeout = 30 * time.Second

// maxDocumentBytes caps a fetched document (16 MiB).
const maxDocumentBytes = 16 << 20

// imageMetaRe matches <meta name="webvfx.image.NAME" content="ROLE">
// declarations, which is how a document declares its named images.
var imageMetaRe = regexp.MustCompile(
	`<meta\s+name="webvfx\.image\.([^"]+)"\s+content="(source|target|extra)"`)

// Content is a loaded web document.
type Content struct {
	dispatcher  webvfx.Dispatcher
	transparent bool
	images      *webvfx.ImageStore
	client      *http.Client

	// Owner-thread state.
	width, height int
	url           *url.URL
	subs          map[webvfx.LoadMilestone][]func(bool)
	title         string
	imageTypes    map[string]webvfx.ImageType
	loaded        bool
}

// New creates a web Content. Registered as the factory for this backend.
func New(opts webvfx.ContentOptions) webvfx.Content {
	return &Content{
		dispatcher:  opts.Dispatcher,
		transparent: opts.Transparent,
		images:      webvfx.NewImageStore(),
		client:      &http.Client{Timeout: fetchTimeout},
		width:       opts.Width,
		height:      opts.Height,
		subs:        make(map[webvfx.LoadMilestone][]func(bool)),
		imageTypes:  make(map[string]webvfx.ImageType),
	}
}

// Subscribe implements webvfx.Content.
func (c *Content) Subscribe(milestone webvfx.LoadMilestone, fn func(ok bool)) {
	c.subs[milestone] = append(c.subs[milestone], fn)
}

// Load implements webvfx.Content. The fetch runs off the owner thread;
// milestones are posted back through the dispatcher.
func (c *Content) Load(u *url.URL) {
	c.url = u
	c.loaded = false
	go func() {
		data, err := c.fetch(u)
		c.dispatcher.Post(func() {
			c.finishLoad(data, err)
		})
	}()
}

// fetch retrieves the document bytes for a file or remote URL.
func (c *Content) fetch(u *url.URL) ([]byte, error) {
	if u.Scheme == "file" {
		return os.ReadFile(u.Path)
	}

	resp, err := c.client.Get(u.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web: fetch %s: %s", u, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
}

// finishLoad runs on the owner thread: it fires the pre-load milestone
// once the document bytes are available and the full-load milestone
// after the document has been processed.
func (c *Content) finishLoad(data []byte, err error) {
	if err != nil {
		webvfx.Logger().Error("web: load failed", "url", c.url.String(), "err", err)
		c.fire(webvfx.PreLoadFinished, false)
		c.fire(webvfx.LoadFinished, false)
		return
	}
	c.fire(webvfx.PreLoadFinished, true)

	c.title = extractTitle(data)
	c.imageTypes = extractImageTypes(data)
	c.loaded = true
	webvfx.Logger().Debug("web: document loaded",
		"url", c.url.String(), "title", c.title, "images", len(c.imageTypes))
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

// Render implements webvfx.Content. It paints a snapshot of the page at
// the given normalized time: background, named images scaled to the
// frame, the document title, and a progress bar spanning time.
func (c *Content) Render(time float64, target *webvfx.Image) bool {
	if !c.loaded {
		webvfx.Logger().Error("web: render before load finished")
		return false
	}

	dst := target.RGBA()
	if c.transparent {
		target.Fill(color.RGBA{})
	} else {
		target.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}

	// Named images composite under the title, scaled to the frame.
	for _, name := range c.images.Names() {
		src := c.images.Get(name)
		if src == nil {
			continue
		}
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src.RGBA(), src.RGBA().Bounds(), xdraw.Over, nil)
	}

	if c.title != "" {
		titleColor := color.RGBA{R: 32, G: 32, B: 32, A: 255}
		if c.transparent {
			titleColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		size := float64(c.height) / 8
		if err := typeset.DrawCentered(dst, c.title, size, titleColor); err != nil {
			webvfx.Logger().Error("web: title render failed", "err", err)
			return false
		}
	}

	drawProgress(dst, time)
	return true
}

// drawProgress paints a thin bar along the bottom edge from 0 to
// width*time, making the rendered time directly observable.
func drawProgress(dst *image.RGBA, time float64) {
	if time < 0 {
		time = 0
	} else if time > 1 {
		time = 1
	}
	bounds := dst.Bounds()
	barWidth := int(float64(bounds.Dx()) * time)
	bar := color.RGBA{R: 64, G: 128, B: 255, A: 255}
	for y := bounds.Max.Y - 3; y < bounds.Max.Y; y++ {
		if y < bounds.Min.Y {
			continue
		}
		for x := bounds.Min.X; x < bounds.Min.X+barWidth; x++ {
			dst.SetRGBA(x, y, bar)
		}
	}
}

// Reload implements webvfx.Content: it refetches the current document,
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

// ImageTypeMap implements webvfx.Content.
func (c *Content) ImageTypeMap() map[string]webvfx.ImageType {
	return c.imageTypes
}

// Close implements webvfx.Content.
func (c *Content) Close() {
	c.loaded = false
	c.client.CloseIdleConnections()
}

// titleRe matches the document's first <title> element.
var titleRe = regexp.MustCompile(`(?is)<title>(.*?)</title>`)

// extractTitle returns the unescaped contents of the document's first
// <title> element, or "".
func extractTitle(data []byte) string {
	m := titleRe.FindSubmatch(data)
	if m == nil {
		return ""
	}
	return html.UnescapeString(strings.TrimSpace(string(m[1])))
}

// extractImageTypes parses webvfx image declarations from meta tags.
func extractImageTypes(data []byte) map[string]webvfx.ImageType {
	types := make(map[string]webvfx.ImageType)
	for _, m := range imageMetaRe.FindAllStringSubmatch(string(data), -1) {
		switch m[2] {
		case "source":
			types[m[1]] = webvfx.SourceImageType
		case "target":
			types[m[1]] = webvfx.TargetImageType
		case "extra":
			types[m[1]] = webvfx.ExtraImageType
		}
	}
	return types
}
