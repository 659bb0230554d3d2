// Copyright 2026 The webvfx Authors
// SPDX-License-Identifier: MIT

package typeset

import (
	"golang.org/x/text/unicode/bidi"
)

// Run is a contiguous span of text with a single direction, in visual
// order.
type Run struct {
	Text string
	RTL  bool
}

// Segments splits text into visual-order bidirectional runs using the
// Unicode bidi algorithm. Plain left-to-right text yields a single run.
func Segments(text string) []Run {
	if text == "" {
		return nil
	}

	p := bidi.Paragraph{}
	if _, err := p.SetString(text, bidi.DefaultDirection(bidi.Neutral)); err != nil {
		return []Run{{Text: text}}
	}
	ordering, err := p.Order()
	if err != nil {
		return []Run{{Text: text}}
	}

	runes := []rune(text)
	runs := make([]Run, 0, ordering.NumRuns())
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		// run.Pos() returns rune indices (start, end inclusive).
		start, end := run.Pos()
		if start < 0 || end >= len(runes) {
			continue
		}
		runs = append(runs, Run{
			Text: string(runes[start : end+1]),
			RTL:  run.Direction() == bidi.RightToLeft,
		})
	}
	if len(runs) == 0 {
		return []Run{{Text: text}}
	}
	return runs
}
