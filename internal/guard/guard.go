// Package guard classifies URLs before any navigation is acted on. Everything
// here is pure string/URL inspection; nothing touches the network.
package guard

import (
	"net/url"
	"strings"
)

const (
	// BlankURL is the neutral placeholder the focus surface parks on.
	BlankURL = "about:blank"
	// ExtensionScheme marks internal resources which are always allowed.
	ExtensionScheme = "extension"
)

// Guard holds the allow list configuration. The zero value blocks everything
// except the blank placeholder and extension URLs.
type Guard struct {
	apexDomains  []string
	focusMarkers []string
}

func New(apexDomains []string, focusMarkers []string) Guard {
	lowered := make([]string, 0, len(apexDomains))
	for _, domain := range apexDomains {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(domain)))
	}

	return Guard{apexDomains: lowered, focusMarkers: focusMarkers}
}

// Classify reports whether rawURL may be acted on. With allowFocusLinks set
// it answers "is this a single-item detail link", otherwise it answers "is
// this suitable as a column resting URL". Malformed URLs are rejected, never
// an error.
func (g Guard) Classify(rawURL string, allowFocusLinks bool) bool {
	if rawURL == BlankURL {
		return true
	}

	parsed, errParse := url.Parse(rawURL)
	if errParse != nil {
		return false
	}

	if parsed.Scheme == ExtensionScheme {
		return true
	}

	// Everything else must be plain web navigation. This also blocks
	// javascript: and data: style schemes outright.
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}

	if !g.hostAllowed(parsed.Hostname()) {
		return false
	}

	if allowFocusLinks {
		return g.hasFocusMarker(parsed.Path)
	}

	return !g.hasFocusMarker(parsed.Path)
}

// FocusWorthy reports whether rawURL should switch the app into focus mode.
// Unlike Classify it never treats the blank placeholder or extension URLs as
// focus targets.
func (g Guard) FocusWorthy(rawURL string) bool {
	if rawURL == BlankURL {
		return false
	}

	parsed, errParse := url.Parse(rawURL)
	if errParse != nil || parsed.Scheme == ExtensionScheme {
		return false
	}

	return g.Classify(rawURL, true)
}

// hostAllowed matches hostnames against the apex domains. The suffix match is
// anchored at a label boundary so "evilx.com" never matches "x.com".
func (g Guard) hostAllowed(hostname string) bool {
	host := strings.ToLower(hostname)
	if host == "" {
		return false
	}

	for _, apex := range g.apexDomains {
		if apex == "" {
			continue
		}
		if host == apex || strings.HasSuffix(host, "."+apex) {
			return true
		}
	}

	return false
}

func (g Guard) hasFocusMarker(urlPath string) bool {
	// Trailing slash so a marker like "/status/" also matches a URL ending in
	// "/status".
	padded := urlPath
	if !strings.HasSuffix(padded, "/") {
		padded += "/"
	}

	for _, marker := range g.focusMarkers {
		if strings.Contains(padded, marker) {
			return true
		}
	}

	return false
}
