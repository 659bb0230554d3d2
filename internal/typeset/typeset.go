// Copyright 2026 The webvfx Authors
// SPDX-License-Identifier: MIT

// Package typeset draws effect text. It segments text into bidirectional
// runs, shapes each run for accurate measurement, and rasterizes with
// the embedded Go Regular face. Content backends share it for titles and
// scene text items.
package typeset

import (
	"bytes"
	"fmt"
	"sync"

	gtfont "github.com/go-text/typesetting/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	parseOnce  sync.Once
	parsedFont *opentype.Font
	parseErr   error

	shapeOnce sync.Once
	shapeFont *gtfont.Font
	shapeErr  error

	faceMu sync.Mutex
	// faces caches one rasterization face per integer pixel size.
	// font.Face is not safe for concurrent use; callers hold faceMu
	// while drawing (all drawing happens on the owner thread anyway).
	faces = make(map[int]xfont.Face)
)

// regular returns the parsed Go Regular font for rasterization.
func regular() (*opentype.Font, error) {
	parseOnce.Do(func() {
		parsedFont, parseErr = opentype.Parse(goregular.TTF)
	})
	if parseErr != nil {
		return nil, fmt.Errorf("typeset: failed to parse embedded font: %w", parseErr)
	}
	return parsedFont, nil
}

// face returns a cached rasterization face for the given pixel size.
func face(size float64) (xfont.Face, error) {
	px := int(size)
	if px < 1 {
		px = 1
	}

	faceMu.Lock()
	defer faceMu.Unlock()
	if f, ok := faces[px]; ok {
		return f, nil
	}

	parsed, err := regular()
	if err != nil {
		return nil, err
	}
	f, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(px),
		DPI:     72,
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("typeset: failed to create face: %w", err)
	}
	faces[px] = f
	return f, nil
}

// shapingFont returns the parsed Go Regular font for shaping.
// gtfont.Font is read-only and safe for concurrent use.
func shapingFont() (*gtfont.Font, error) {
	shapeOnce.Do(func() {
		f, err := gtfont.ParseTTF(bytes.NewReader(goregular.TTF))
		if err != nil {
			shapeErr = err
			return
		}
		shapeFont = f.Font
	})
	if shapeErr != nil {
		return nil, fmt.Errorf("typeset: failed to parse embedded font for shaping: %w", shapeErr)
	}
	return shapeFont, nil
}
