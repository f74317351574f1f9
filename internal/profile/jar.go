// Package profile gives each profile an isolated, persistable cookie jar.
// Profiles never share cookies; switching profiles means a different jar and
// a different stored session.
package profile

import (
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/decktui/deck-tui/internal/store"
)

var ErrJar = errors.New("cookie jar error")

// Jar wraps the stdlib cookie jar and additionally records every cookie it is
// handed, since the stdlib jar offers no way to enumerate its contents for
// persistence. It implements http.CookieJar.
type Jar struct {
	mu    sync.Mutex
	inner http.CookieJar
	seen  map[string]store.CookieRow
}

func NewJar() (*Jar, error) {
	inner, errJar := cookiejar.New(nil)
	if errJar != nil {
		return nil, errors.Join(errJar, ErrJar)
	}

	return &Jar{inner: inner, seen: map[string]store.CookieRow{}}, nil
}

// SetCookies records and forwards cookies set by a response.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	for _, cookie := range cookies {
		host := strings.TrimPrefix(cookie.Domain, ".")
		if host == "" {
			host = u.Hostname()
		}

		path := cookie.Path
		if path == "" {
			path = "/"
		}

		key := host + "|" + path + "|" + cookie.Name

		// MaxAge<0 and expiry in the past both mean deletion.
		if cookie.MaxAge < 0 || (!cookie.Expires.IsZero() && cookie.Expires.Before(time.Now())) {
			delete(j.seen, key)

			continue
		}

		expires := cookie.Expires
		if cookie.MaxAge > 0 {
			expires = time.Now().Add(time.Duration(cookie.MaxAge) * time.Second)
		}

		j.seen[key] = store.CookieRow{
			Host:     host,
			Name:     cookie.Name,
			Value:    cookie.Value,
			Path:     path,
			Expires:  expires,
			Secure:   cookie.Secure,
			HTTPOnly: cookie.HttpOnly,
		}
	}
	j.mu.Unlock()

	j.inner.SetCookies(u, cookies)
}

// Cookies returns the cookies to send with a request.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}

// Export returns every live cookie in a stable order, ready for persistence.
func (j *Jar) Export() []store.CookieRow {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()
	rows := make([]store.CookieRow, 0, len(j.seen))
	for _, row := range j.seen {
		if !row.Expires.IsZero() && row.Expires.Before(now) {
			continue
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Host != rows[j].Host {
			return rows[i].Host < rows[j].Host
		}

		return rows[i].Name < rows[j].Name
	})

	return rows
}

// Restore loads previously persisted cookies back into the jar.
func (j *Jar) Restore(rows []store.CookieRow) {
	for _, row := range rows {
		target := &url.URL{Scheme: "https", Host: row.Host, Path: row.Path}
		j.SetCookies(target, []*http.Cookie{{
			Name:     row.Name,
			Value:    row.Value,
			Path:     row.Path,
			Domain:   row.Host,
			Expires:  row.Expires,
			Secure:   row.Secure,
			HttpOnly: row.HTTPOnly,
		}})
	}
}
