package webvfx

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// ErrInvalidURL is returned when a locator cannot be resolved to a
// usable URL.
var ErrInvalidURL = errors.New("webvfx: invalid URL")

// plainPrefix marks a locator that only requires the pre-load milestone.
const plainPrefix = "plain:"

// resolveLocator normalizes a user-supplied locator into an absolute URL.
//
// Recognized conventions:
//   - "plain:<locator>": the prefix is stripped and reported via isPlain,
//     selecting pre-load completion semantics.
//   - no scheme, or a single-letter scheme (a Windows drive designator):
//     treated as a local filesystem path and resolved to an absolute
//     file URL.
//   - any other scheme: kept as-is (remote content).
func resolveLocator(locator string) (u *url.URL, isPlain bool, err error) {
	if strings.HasPrefix(locator, plainPrefix) {
		isPlain = true
		locator = locator[len(plainPrefix):]
	}
	if locator == "" {
		return nil, isPlain, fmt.Errorf("%w: empty locator", ErrInvalidURL)
	}

	u, err = url.Parse(locator)
	if err != nil || len(u.Scheme) < 2 {
		// A bare path, or a drive letter parsed as a scheme. Resolve it
		// against the working directory to an absolute file URL.
		abs, aerr := filepath.Abs(locator)
		if aerr != nil {
			return nil, isPlain, fmt.Errorf("%w: %s", ErrInvalidURL, locator)
		}
		return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}, isPlain, nil
	}
	return u, isPlain, nil
}
