// Package version compares the running build against the latest published
// release.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Current is the version of this build, overridden with -ldflags
var Current = "0.1.0"

const (
	// ReleasesURL is the endpoint queried by `hac version --check`
	ReleasesURL  = "https://api.github.com/repos/studiowebux/hac/releases/latest"
	checkTimeout = 5 * time.Second
)

// Release is the subset of the release payload hac reads
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Update describes the outcome of a check
type Update struct {
	Available bool
	Latest    string
	URL       string
}

// Checker fetches the latest release from URL
type Checker struct {
	URL    string
	Client *http.Client
}

// NewChecker returns a checker for the public release feed
func NewChecker() *Checker {
	return &Checker{
		URL:    ReleasesURL,
		Client: &http.Client{Timeout: checkTimeout},
	}
}

// Check reports whether a release newer than current exists
func (c *Checker) Check(ctx context.Context, current string) (Update, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return Update{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "hac/"+current)
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return Update{}, fmt.Errorf("failed to fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Update{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return Update{}, fmt.Errorf("failed to decode response: %w", err)
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	return Update{
		Available: latest != "" && isNewer(latest, strings.TrimPrefix(current, "v")),
		Latest:    latest,
		URL:       release.HTMLURL,
	}, nil
}

// isNewer compares dotted numeric versions. Pre-release and build suffixes
// are ignored, so 0.2.0-dev equals 0.2.0.
func isNewer(latest, current string) bool {
	a, b := parseVersion(latest), parseVersion(current)
	for len(a) < len(b) {
		a = append(a, 0)
	}
	for len(b) < len(a) {
		b = append(b, 0)
	}

	for i := range a {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}

func parseVersion(version string) []int {
	if idx := strings.IndexAny(version, "-+"); idx != -1 {
		version = version[:idx]
	}

	parts := strings.Split(version, ".")
	result := make([]int, 0, len(parts))
	for _, part := range parts {
		num, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		result = append(result, num)
	}
	return result
}
