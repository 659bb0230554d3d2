// Copyright 2026 The webvfx Authors
// SPDX-License-Identifier: MIT

package typeset

import (
	"image"
	"image/color"
	"image/draw"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Draw renders text into dst with the baseline origin at (x, y). Runs
// are drawn in visual order as produced by the bidi segmenter.
func Draw(dst draw.Image, text string, size float64, col color.Color, x, y float64) error {
	if text == "" {
		return nil
	}
	f, err := face(size)
	if err != nil {
		return err
	}

	faceMu.Lock()
	defer faceMu.Unlock()

	drawer := &xfont.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: f,
		Dot:  fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(y)},
	}
	for _, run := range Segments(text) {
		drawer.DrawString(run.Text)
	}
	return nil
}

// DrawCentered renders text horizontally and vertically centered in dst.
func DrawCentered(dst draw.Image, text string, size float64, col color.Color) error {
	bounds := dst.Bounds()
	width := Measure(text, size)
	x := float64(bounds.Min.X) + (float64(bounds.Dx())-width)/2
	y := float64(bounds.Min.Y) + float64(bounds.Dy())/2 + size/3
	return Draw(dst, text, size, col, x, y)
}
