package webvfx

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"
)

// ErrUnsupportedFilename is returned when no content backend is
// registered for a locator's file extension.
var ErrUnsupportedFilename = errors.New("webvfx: unsupported filename")

// registry holds registered content backends.
var (
	registryMu sync.RWMutex
	factories  = make(map[string]ContentFactory)
	extensions = make(map[string]string)
	remoteName string
)

// RegisterContent registers a content backend factory under a name.
// This is typically called from init() functions in backend packages.
// Registering a name that already exists replaces the previous factory.
func RegisterContent(name string, factory ContentFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// RegisterExtension routes a file extension (including the leading dot,
// matched case-insensitively) to a registered backend name.
func RegisterExtension(ext, name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	extensions[strings.ToLower(ext)] = name
}

// RegisterRemote selects the backend used for every non-local URL,
// regardless of extension.
func RegisterRemote(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	remoteName = name
}

// AvailableContent returns the registered backend names, sorted.
func AvailableContent() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// contentFor selects the factory for a resolved locator. Local file URLs
// route by extension; anything else routes to the remote backend.
func contentFor(u *url.URL) (ContentFactory, string, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	name := remoteName
	if u.Scheme == "file" {
		ext := strings.ToLower(path.Ext(u.Path))
		n, ok := extensions[ext]
		if !ok {
			return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFilename, u.Path)
		}
		name = n
	}
	if name == "" {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFilename, u.String())
	}
	factory, ok := factories[name]
	if !ok {
		return nil, "", fmt.Errorf("webvfx: content backend %q not registered (missing import?)", name)
	}
	return factory, name, nil
}
