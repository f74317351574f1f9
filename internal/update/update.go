// Package update checks the release feed for a newer published version.
package update

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/decktui/deck-tui/internal/encoding"
)

var ErrCheck = errors.New("update check failed")

// Release is the subset of the github release payload we care about.
type Release struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

// Check fetches the latest release and reports whether it differs from the
// running version. Development builds never report an update.
func Check(ctx context.Context, client *http.Client, feedURL string, version string) (Release, bool, error) {
	if version == "" || version == "dev" || version == "master" {
		return Release{}, false, nil
	}

	req, errReq := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if errReq != nil {
		return Release{}, false, errors.Join(errReq, ErrCheck)
	}
	req.Header.Set("Accept", "application/json")

	resp, errResp := client.Do(req)
	if errResp != nil {
		return Release{}, false, errors.Join(errResp, ErrCheck)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close response body", slog.String("error", err.Error()))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return Release{}, false, errors.Join(fmt.Errorf("status %d", resp.StatusCode), ErrCheck)
	}

	release, errRelease := encoding.UnmarshalJSON[Release](resp.Body)
	if errRelease != nil {
		return Release{}, false, errors.Join(errRelease, ErrCheck)
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	current := strings.TrimPrefix(version, "v")

	return release, latest != "" && latest != current, nil
}
