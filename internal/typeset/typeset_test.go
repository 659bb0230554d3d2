// Copyright 2026 The webvfx Authors
// SPDX-License-Identifier: MIT

package typeset

import (
	"image"
	"image/color"
	"testing"
)

// TestMeasureEmpty tests that empty text has zero width.
func TestMeasureEmpty(t *testing.T) {
	if w := Measure("", 24); w != 0 {
		t.Errorf("Measure(\"\") = %v, want 0", w)
	}
}

// TestMeasureGrowsWithText tests that longer text measures wider.
func TestMeasureGrowsWithText(t *testing.T) {
	short := Measure("a", 24)
	long := Measure("abc", 24)
	if short <= 0 {
		t.Fatalf("Measure(\"a\") = %v, want > 0", short)
	}
	if long <= short {
		t.Errorf("Measure(\"abc\") = %v, not wider than Measure(\"a\") = %v", long, short)
	}
}

// TestMeasureGrowsWithSize tests that larger sizes measure wider.
func TestMeasureGrowsWithSize(t *testing.T) {
	small := Measure("webvfx", 12)
	big := Measure("webvfx", 48)
	if big <= small {
		t.Errorf("Measure at 48px = %v, not wider than at 12px = %v", big, small)
	}
}

// TestSegmentsPlainText tests that LTR text yields a single run.
func TestSegmentsPlainText(t *testing.T) {
	runs := Segments("hello world")
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].Text != "hello world" || runs[0].RTL {
		t.Errorf("run = %+v, want LTR \"hello world\"", runs[0])
	}
}

// TestSegmentsMixedDirection tests that embedded RTL text splits runs.
func TestSegmentsMixedDirection(t *testing.T) {
	runs := Segments("abc אבג def")
	if len(runs) < 3 {
		t.Fatalf("got %d runs, want at least 3", len(runs))
	}
	sawRTL := false
	for _, r := range runs {
		if r.RTL {
			sawRTL = true
		}
	}
	if !sawRTL {
		t.Error("no RTL run detected in mixed-direction text")
	}
}

// TestDrawWritesPixels tests that drawing text touches the destination.
func TestDrawWritesPixels(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 200, 60))
	if err := Draw(dst, "Hello", 32, color.White, 10, 45); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	touched := 0
	for i := 3; i < len(dst.Pix); i += 4 {
		if dst.Pix[i] != 0 {
			touched++
		}
	}
	if touched == 0 {
		t.Error("Draw left the destination untouched")
	}
}

// TestDrawCentered tests that centered text lands inside the bounds.
func TestDrawCentered(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 300, 100))
	if err := DrawCentered(dst, "center", 24, color.White); err != nil {
		t.Fatalf("DrawCentered: %v", err)
	}

	// Nothing should be drawn in the far left column.
	for y := 0; y < 100; y++ {
		if _, _, _, a := dst.At(0, y).RGBA(); a != 0 {
			t.Fatal("centered text reached the left edge")
		}
	}
}
