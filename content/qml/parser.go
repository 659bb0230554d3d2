// Copyright 2026 The webvfx Authors
// SPDX-License-Identifier: MIT

package qml

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ItemKind identifies a scene item type.
type ItemKind int

const (
	// RectangleItem is a filled rectangle.
	RectangleItem ItemKind = iota
	// TextItem is a text label.
	TextItem
	// ImageItem composites a named image supplied via SetImage.
	ImageItem
)

// Anim linearly interpolates a numeric property over normalized render
// time: value(t) = From + (To-From)*t.
type Anim struct {
	Prop string
	From float64
	To   float64
}

// Item is one node of a parsed scene. Child coordinates are relative to
// the parent.
type Item struct {
	Kind      ItemKind
	X, Y      float64
	Width     float64
	Height    float64
	Color     color.NRGBA
	Opacity   float64
	Text      string
	PixelSize float64
	Source    string
	Role      string
	Anims     []Anim
	Children  []*Item
}

// Scene is a parsed scene document.
type Scene struct {
	Items []*Item
}

// parseError records a syntax error with its line number.
type parseError struct {
	line int
	msg  string
}

func (e *parseError) Error() string {
	return fmt.Sprintf("qml: line %d: %s", e.line, e.msg)
}

// parser consumes a restricted declarative scene syntax:
//
//	Rectangle {
//	    color: "#336699"
//	    x: 0; y: 0; width: 320; height: 180
//	    animate: opacity 0 1
//	    Text { text: "Title"; color: "#ffffff"; pixelSize: 24; x: 10; y: 20 }
//	    Image { source: "video"; role: "source"; width: 160; height: 90 }
//	}
//
// Statements are separated by newlines or semicolons. Comments start
// with "//" and run to end of line.
type parser struct {
	lines []string
	line  int // current index into lines
}

// ParseScene parses a scene document.
func ParseScene(data []byte) (*Scene, error) {
	p := &parser{lines: splitStatements(string(data))}
	scene := &Scene{}
	for p.line < len(p.lines) {
		stmt := p.lines[p.line]
		if stmt == "" {
			p.line++
			continue
		}
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, &parseError{p.line + 1, fmt.Sprintf("expected item declaration, got %q", stmt)}
		}
		scene.Items = append(scene.Items, item)
	}
	if len(scene.Items) == 0 {
		return nil, &parseError{1, "empty scene"}
	}
	return scene, nil
}

// splitStatements flattens the source into one statement per entry.
// Statements end at newlines, semicolons, and braces outside quoted
// strings; an opening brace stays attached to its item declaration
// ("Text {") while a closing brace becomes its own "}" statement.
// Comments start with "//" and run to end of line.
func splitStatements(src string) []string {
	var stmts []string
	var cur strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			stmts = append(stmts, s)
		}
		cur.Reset()
	}

	inQuote := false
	inComment := false
	for i := 0; i < len(src); i++ {
		ch := src[i]
		if inComment {
			if ch == '\n' {
				inComment = false
				flush()
			}
			continue
		}
		if inQuote {
			cur.WriteByte(ch)
			if ch == '\\' && i+1 < len(src) {
				i++
				cur.WriteByte(src[i])
			} else if ch == '"' {
				inQuote = false
			}
			continue
		}
		switch ch {
		case '"':
			inQuote = true
			cur.WriteByte(ch)
		case '/':
			if i+1 < len(src) && src[i+1] == '/' {
				inComment = true
				i++
			} else {
				cur.WriteByte(ch)
			}
		case '\n', ';':
			flush()
		case '{':
			cur.WriteString(" {")
			flush()
		case '}':
			flush()
			stmts = append(stmts, "}")
		default:
			cur.WriteByte(ch)
		}
	}
	flush()
	return stmts
}

// parseItem parses "<Kind> {" followed by properties and children up to
// the matching "}". Returns nil if the current statement does not open
// an item.
func (p *parser) parseItem() (*Item, error) {
	stmt := p.lines[p.line]
	name, ok := strings.CutSuffix(stmt, "{")
	if !ok {
		return nil, nil
	}
	name = strings.TrimSpace(name)

	item := &Item{Opacity: 1, PixelSize: 16, Color: color.NRGBA{A: 255}}
	switch name {
	case "Rectangle":
		item.Kind = RectangleItem
	case "Text":
		item.Kind = TextItem
		item.Color = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	case "Image":
		item.Kind = ImageItem
	default:
		return nil, &parseError{p.line + 1, fmt.Sprintf("unknown item type %q", name)}
	}
	p.line++

	for p.line < len(p.lines) {
		stmt := p.lines[p.line]
		switch {
		case stmt == "}":
			p.line++
			return item, nil
		case strings.HasSuffix(stmt, "{"):
			child, err := p.parseItem()
			if err != nil {
				return nil, err
			}
			item.Children = append(item.Children, child)
		default:
			if err := p.parseProperty(item, stmt); err != nil {
				return nil, err
			}
			p.line++
		}
	}
	return nil, &parseError{len(p.lines), fmt.Sprintf("unterminated %s item", name)}
}

// parseProperty applies one "name: value" statement to item.
func (p *parser) parseProperty(item *Item, stmt string) error {
	key, value, found := strings.Cut(stmt, ":")
	if !found {
		return &parseError{p.line + 1, fmt.Sprintf("expected property, got %q", stmt)}
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	switch key {
	case "x", "y", "width", "height", "opacity", "pixelSize":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return &parseError{p.line + 1, fmt.Sprintf("property %s: %q is not a number", key, value)}
		}
		switch key {
		case "x":
			item.X = f
		case "y":
			item.Y = f
		case "width":
			item.Width = f
		case "height":
			item.Height = f
		case "opacity":
			item.Opacity = f
		case "pixelSize":
			item.PixelSize = f
		}
	case "color":
		c, err := parseColor(unquote(value))
		if err != nil {
			return &parseError{p.line + 1, err.Error()}
		}
		item.Color = c
	case "text":
		item.Text = unquote(value)
	case "source":
		item.Source = unquote(value)
	case "role":
		item.Role = unquote(value)
	case "animate":
		anim, err := parseAnim(value)
		if err != nil {
			return &parseError{p.line + 1, err.Error()}
		}
		item.Anims = append(item.Anims, anim)
	default:
		return &parseError{p.line + 1, fmt.Sprintf("unknown property %q", key)}
	}
	return nil
}

// parseAnim parses "animate: <prop> <from> <to>".
func parseAnim(value string) (Anim, error) {
	fields := strings.Fields(value)
	if len(fields) != 3 {
		return Anim{}, fmt.Errorf("animate needs \"<prop> <from> <to>\", got %q", value)
	}
	switch fields[0] {
	case "x", "y", "width", "height", "opacity":
	default:
		return Anim{}, fmt.Errorf("cannot animate property %q", fields[0])
	}
	from, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Anim{}, fmt.Errorf("animate from-value %q is not a number", fields[1])
	}
	to, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return Anim{}, fmt.Errorf("animate to-value %q is not a number", fields[2])
	}
	return Anim{Prop: fields[0], From: from, To: to}, nil
}

// unquote strips surrounding double quotes if present.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
		return s[1 : len(s)-1]
	}
	return s
}

// parseColor parses "#rrggbb" or "#aarrggbb".
func parseColor(s string) (color.NRGBA, error) {
	if !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, fmt.Errorf("color %q must start with '#'", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 64)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q is not hexadecimal", s)
	}
	switch len(s) - 1 {
	case 6:
		return color.NRGBA{
			R: uint8(v >> 16),
			G: uint8(v >> 8),
			B: uint8(v),
			A: 255,
		}, nil
	case 8:
		return color.NRGBA{
			A: uint8(v >> 24),
			R: uint8(v >> 16),
			G: uint8(v >> 8),
			B: uint8(v),
		}, nil
	default:
		return color.NRGBA{}, fmt.Errorf("color %q must be #rrggbb or #aarrggbb", s)
	}
}
