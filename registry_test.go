// Copyright 2026 The webvfx Authors
// SPDX-License-Identifier: MIT

package webvfx

import (
	"errors"
	"net/url"
	"testing"
)

func registerTestBackends(t *testing.T) {
	t.Helper()
	noop := func(opts ContentOptions) Content { return nil }
	RegisterContent("page", noop)
	RegisterContent("scene", noop)
	RegisterExtension(".page", "page")
	RegisterExtension(".scene", "scene")
	RegisterRemote("page")
}

// TestContentForExtensionRouting tests that local file URLs route by
// extension, case-insensitively.
func TestContentForExtensionRouting(t *testing.T) {
	registerTestBackends(t)

	tests := []struct {
		path string
		want string
	}{
		{"/fx/title.page", "page"},
		{"/fx/title.scene", "scene"},
		{"/fx/TITLE.PAGE", "page"},
	}
	for _, tt := range tests {
		_, name, err := contentFor(&url.URL{Scheme: "file", Path: tt.path})
		if err != nil {
			t.Errorf("contentFor(%q): %v", tt.path, err)
			continue
		}
		if name != tt.want {
			t.Errorf("contentFor(%q) = %q, want %q", tt.path, name, tt.want)
		}
	}
}

// TestContentForUnsupportedExtension tests that local files with an
// unregistered extension fail instead of falling through to the remote
// backend.
func TestContentForUnsupportedExtension(t *testing.T) {
	registerTestBackends(t)

	for _, path := range []string{"/fx/movie.avi", "/fx/noextension"} {
		_, _, err := contentFor(&url.URL{Scheme: "file", Path: path})
		if !errors.Is(err, ErrUnsupportedFilename) {
			t.Errorf("contentFor(%q) err = %v, want ErrUnsupportedFilename", path, err)
		}
	}
}

// TestContentForRemote tests that non-file URLs route to the remote
// backend regardless of extension.
func TestContentForRemote(t *testing.T) {
	registerTestBackends(t)

	u, _ := url.Parse("http://example.com/fx.whatever")
	_, name, err := contentFor(u)
	if err != nil {
		t.Fatalf("contentFor: %v", err)
	}
	if name != "page" {
		t.Errorf("remote backend = %q, want page", name)
	}
}

// TestContentForMissingFactory tests the diagnostic when an extension
// routes to a backend that was never imported.
func TestContentForMissingFactory(t *testing.T) {
	RegisterExtension(".ghost", "ghost")

	_, _, err := contentFor(&url.URL{Scheme: "file", Path: "/fx/a.ghost"})
	if err == nil {
		t.Fatal("contentFor succeeded with no registered factory")
	}
}

// TestAvailableContent tests that registered names come back sorted.
func TestAvailableContent(t *testing.T) {
	registerTestBackends(t)

	names := AvailableContent()
	if len(names) < 2 {
		t.Fatalf("AvailableContent = %v, want at least the test backends", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("AvailableContent not sorted: %v", names)
		}
	}
}
