// Copyright 2026 The webvfx Authors
// SPDX-License-Identifier: MIT

package typeset

import (
	"sync"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// shaperPool pools HarfbuzzShaper instances. HarfbuzzShaper has internal
// mutable state and is not safe for concurrent use, but reusing across
// sequential calls avoids reallocating its buffers.
var shaperPool = sync.Pool{
	New: func() any {
		return &shaping.HarfbuzzShaper{}
	},
}

// Measure returns the advance width in pixels of text at the given
// pixel size, including kerning and ligature substitutions applied by
// shaping. Falls back to unshaped face metrics if shaping is
// unavailable.
func Measure(text string, size float64) float64 {
	if text == "" {
		return 0
	}

	font, err := shapingFont()
	if err != nil {
		return measureUnshaped(text, size)
	}

	width := 0.0
	for _, run := range Segments(text) {
		width += shapeAdvance(run, font, size)
	}
	return width
}

// shapeAdvance shapes one run and sums its horizontal advances.
func shapeAdvance(run Run, font *gtfont.Font, size float64) float64 {
	runes := []rune(run.Text)
	if len(runes) == 0 {
		return 0
	}

	dir := di.DirectionLTR
	if run.RTL {
		dir = di.DirectionRTL
	}

	// gtfont.Face is not safe for concurrent use; each call gets a
	// lightweight wrapper around the shared thread-safe Font.
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      gtfont.NewFace(font),
		Size:      floatToFixed(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	shaper := shaperPool.Get().(*shaping.HarfbuzzShaper)
	output := shaper.Shape(input)
	shaperPool.Put(shaper)

	advance := 0.0
	for _, g := range output.Glyphs {
		advance += fixedToFloat(g.Advance)
	}
	return advance
}

// measureUnshaped measures with the rasterization face alone.
func measureUnshaped(text string, size float64) float64 {
	f, err := face(size)
	if err != nil {
		return 0
	}
	return fixedToFloat(xfont.MeasureString(f, text))
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// floatToFixed converts a pixel size to fixed.Int26_6 (6 fractional bits).
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
