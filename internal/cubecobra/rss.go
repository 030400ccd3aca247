package cubecobra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// fallbackAge is how old a cube is assumed to be when its feed carries
// no usable mainboard update, matching the two-year default of the
// update history on CubeCobra.
const fallbackAge = 2 * 365 * 24 * time.Hour

// LastMainboardChange returns the publication time of the most recent
// mainboard update in the cube's RSS feed. Feeds with no mainboard
// items yield a timestamp fallbackAge in the past, so stale-looking
// cubes decay instead of disappearing.
func (c *Client) LastMainboardChange(ctx context.Context, cubeID string) (time.Time, error) {
	url := fmt.Sprintf("%s/cube/rss/%s", c.baseURL, cubeID)

	body, err := c.get(ctx, url, cubeID)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to fetch feed for %s: %w", cubeID, err)
	}
	defer func() { _ = body.Close() }()

	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse feed for %s: %w", cubeID, err)
	}

	for _, item := range feed.Items {
		if !strings.Contains(item.Title, "Mainboard") {
			continue
		}
		if item.PublishedParsed != nil {
			return *item.PublishedParsed, nil
		}
	}

	return time.Now().Add(-fallbackAge), nil
}
