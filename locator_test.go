// Copyright 2026 The webvfx Authors
// SPDX-License-Identifier: MIT

package webvfx

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

// TestResolveLocator tests the locator conventions: plain: prefix,
// remote schemes, bare paths and Windows drive designators.
func TestResolveLocator(t *testing.T) {
	abs, err := filepath.Abs("effects/title.html")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		locator     string
		wantScheme  string
		wantPath    string
		wantIsPlain bool
	}{
		{"/effects/title.html", "file", "/effects/title.html", false},
		{"effects/title.html", "file", filepath.ToSlash(abs), false},
		{"plain:/effects/title.html", "file", "/effects/title.html", true},
		{"http://example.com/fx.html", "http", "/fx.html", false},
		{"plain:http://example.com/fx.html", "http", "/fx.html", true},
		{`C:\effects\title.html`, "file", "", false},
	}
	for _, tt := range tests {
		u, isPlain, err := resolveLocator(tt.locator)
		if err != nil {
			t.Errorf("resolveLocator(%q): %v", tt.locator, err)
			continue
		}
		if u.Scheme != tt.wantScheme {
			t.Errorf("resolveLocator(%q) scheme = %q, want %q", tt.locator, u.Scheme, tt.wantScheme)
		}
		if tt.wantPath != "" && u.Path != tt.wantPath {
			t.Errorf("resolveLocator(%q) path = %q, want %q", tt.locator, u.Path, tt.wantPath)
		}
		if isPlain != tt.wantIsPlain {
			t.Errorf("resolveLocator(%q) isPlain = %v, want %v", tt.locator, isPlain, tt.wantIsPlain)
		}
	}
}

// TestResolveLocatorDriveLetter tests that a drive designator is not
// mistaken for a URL scheme.
func TestResolveLocatorDriveLetter(t *testing.T) {
	u, _, err := resolveLocator(`C:\effects\title.html`)
	if err != nil {
		t.Fatalf("resolveLocator: %v", err)
	}
	if u.Scheme != "file" {
		t.Errorf("scheme = %q, want file", u.Scheme)
	}
	if !strings.Contains(u.Path, "title.html") {
		t.Errorf("path = %q, want absolute path containing the filename", u.Path)
	}
}

// TestResolveLocatorEmpty tests rejection of empty locators, with and
// without the plain: prefix.
func TestResolveLocatorEmpty(t *testing.T) {
	for _, locator := range []string{"", "plain:"} {
		if _, _, err := resolveLocator(locator); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("resolveLocator(%q) err = %v, want ErrInvalidURL", locator, err)
		}
	}
}
