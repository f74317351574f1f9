// Package surface implements the browsing surface behind each column and the
// shared focus view. A surface fetches a page over plain HTTP using the
// profile's cookie jar and reduces it to a text snapshot the UI can render.
package surface

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/decktui/deck-tui/internal/guard"
)

var (
	ErrNavigate = errors.New("navigation failed")
	ErrBadState = errors.New("surface response error")
)

// Cap on response bodies so a hostile page cannot balloon memory.
const maxBodySize = 2 << 20

// Browser is an HTTP backed surface. All methods are safe for concurrent use;
// source changed listeners run without the surface lock held.
type Browser struct {
	mu        sync.Mutex
	client    *http.Client
	userAgent string
	targetURL string
	current   Snapshot
	listeners []func(url string)
}

func New(jar http.CookieJar, timeout time.Duration, userAgent string) *Browser {
	return &Browser{
		client:    &http.Client{Jar: jar, Timeout: timeout},
		userAgent: userAgent,
	}
}

// OnSourceChanged registers a listener invoked with the final URL after every
// completed navigation, including redirects.
func (b *Browser) OnSourceChanged(fn func(url string)) {
	b.mu.Lock()
	b.listeners = append(b.listeners, fn)
	b.mu.Unlock()
}

func (b *Browser) URL() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.targetURL
}

// Current returns the last successful snapshot.
func (b *Browser) Current() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.current
}

// Navigate fetches rawURL and replaces the current snapshot. The blank
// placeholder and extension URLs short circuit without touching the network.
func (b *Browser) Navigate(ctx context.Context, rawURL string) error {
	if rawURL == "" {
		return nil
	}

	if rawURL == guard.BlankURL || strings.HasPrefix(rawURL, guard.ExtensionScheme+":") {
		b.mu.Lock()
		b.targetURL = rawURL
		b.current = Snapshot{URL: rawURL, FetchedAt: time.Now()}
		b.mu.Unlock()

		b.emit(rawURL)

		return nil
	}

	req, errReq := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if errReq != nil {
		return errors.Join(errReq, ErrNavigate)
	}
	req.Header.Set("User-Agent", b.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, errResp := b.client.Do(req)
	if errResp != nil {
		return errors.Join(errResp, ErrNavigate)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return errors.Join(fmt.Errorf("status %d", resp.StatusCode), ErrBadState)
	}

	finalURL := rawURL
	var base *url.URL
	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL
		finalURL = base.String()
	}

	snapshot := parseSnapshot(base, io.LimitReader(resp.Body, maxBodySize))
	snapshot.URL = finalURL
	snapshot.StatusCode = resp.StatusCode
	snapshot.FetchedAt = time.Now()

	b.mu.Lock()
	b.targetURL = finalURL
	b.current = snapshot
	b.mu.Unlock()

	b.emit(finalURL)

	return nil
}

// Reload re-fetches the current target URL. A surface that has never
// navigated is a no-op.
func (b *Browser) Reload(ctx context.Context) error {
	b.mu.Lock()
	target := b.targetURL
	b.mu.Unlock()

	if target == "" {
		return nil
	}

	return b.Navigate(ctx, target)
}

func (b *Browser) emit(url string) {
	b.mu.Lock()
	listeners := make([]func(string), len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(url)
	}
}

func resolveRef(base *url.URL, href string) string {
	if base == nil {
		return href
	}

	ref, errParse := url.Parse(href)
	if errParse != nil {
		return ""
	}

	return base.ResolveReference(ref).String()
}
