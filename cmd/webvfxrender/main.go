// Copyright 2026 The webvfx Authors
// SPDX-License-Identifier: MIT

// Command webvfxrender renders an effect to a sequence of PNG frames.
//
// Usage:
//
//	webvfxrender [flags] <locator>
//
// The locator selects the content backend by extension (.html, .htm,
// .qml); remote http(s) URLs load as web content. A "plain:" prefix
// renders as soon as the document is available instead of waiting for
// the full load.
package main

import (
	"flag"
	"fmt"
	"image/draw"
	"image/png"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mcanthony/webvfx"
	_ "github.com/mcanthony/webvfx/content/qml"
	_ "github.com/mcanthony/webvfx/content/web"
	"github.com/mcanthony/webvfx/mainthread"
)

// params implements webvfx.Parameters over -param flags.
type params map[string]string

func (p params) StringParameter(name string) string { return p[name] }

func (p params) NumberParameter(name string) float64 {
	f, err := strconv.ParseFloat(p[name], 64)
	if err != nil {
		return 0
	}
	return f
}

// keyValueFlag collects repeated "name=value" flags.
type keyValueFlag map[string]string

func (f keyValueFlag) String() string { return "" }

func (f keyValueFlag) Set(s string) error {
	name, value, found := strings.Cut(s, "=")
	if !found || name == "" {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	f[name] = value
	return nil
}

func main() {
	parameters := make(keyValueFlag)
	images := make(keyValueFlag)
	var (
		width       = flag.Int("width", 640, "frame width")
		height      = flag.Int("height", 360, "frame height")
		frames      = flag.Int("frames", 1, "number of frames to render across time 0..1")
		output      = flag.String("output", "frame-%04d.png", "output file pattern")
		transparent = flag.Bool("transparent", false, "render with a transparent background")
		timeout     = flag.Duration("timeout", 30*time.Second, "per-call timeout, 0 to wait forever")
		verbose     = flag.Bool("v", false, "log progress to stderr")
	)
	flag.Var(parameters, "param", "effect parameter as name=value (repeatable)")
	flag.Var(images, "image", "named input image as name=file.png (repeatable)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <locator>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	locator := flag.Arg(0)

	if *verbose {
		webvfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	loop := mainthread.New()
	exitCode := 0
	loop.Run(func() {
		if err := render(loop, locator, *width, *height, *frames, *output, *transparent, *timeout, params(parameters), images); err != nil {
			log.Printf("webvfxrender: %v", err)
			exitCode = 1
		}
	})
	os.Exit(exitCode)
}

func render(loop *mainthread.Loop, locator string, width, height, frames int, output string, transparent bool, timeout time.Duration, parameters params, images keyValueFlag) error {
	var opts []webvfx.Option
	if timeout > 0 {
		opts = append(opts, webvfx.WithCallTimeout(timeout))
	}
	effects := webvfx.NewEffects(loop, opts...)
	defer effects.Destroy()

	if !effects.Initialize(locator, width, height, parameters, transparent) {
		return fmt.Errorf("failed to load %q (backends: %s)", locator, strings.Join(webvfx.AvailableContent(), ", "))
	}

	for name, path := range images {
		im, err := loadPNG(path)
		if err != nil {
			return fmt.Errorf("image %s: %w", name, err)
		}
		effects.SetImage(name, im)
	}

	target := webvfx.NewImage(width, height)
	for i := 0; i < frames; i++ {
		t := 0.0
		if frames > 1 {
			t = float64(i) / float64(frames-1)
		}
		if !effects.Render(t, target) {
			return fmt.Errorf("render failed at time %.3f", t)
		}
		path := output
		if strings.Contains(output, "%") {
			path = fmt.Sprintf(output, i)
		}
		if err := target.SavePNG(path); err != nil {
			return err
		}
	}
	return nil
}

// loadPNG reads a PNG file into the frame format.
func loadPNG(path string) (*webvfx.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoded, err := png.Decode(f)
	if err != nil {
		return nil, err
	}
	bounds := decoded.Bounds()
	im := webvfx.NewImage(bounds.Dx(), bounds.Dy())
	rgba := im.RGBA()
	draw.Draw(rgba, rgba.Bounds(), decoded, bounds.Min, draw.Src)
	return im, nil
}
