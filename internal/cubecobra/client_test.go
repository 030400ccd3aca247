package cubecobra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testCubeJSON = `{
	"name": "Test Vintage Cube",
	"categoryOverride": "Vintage",
	"cards": {
		"mainboard": [
			{"cardID": "a1", "details": {"name": "Lightning Bolt"}},
			{"cardID": "b2", "details": {"name": "Counterspell"}},
			{"cardID": "c3", "details": {"name": ""}}
		]
	}
}`

const testFeedTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Vintage Cube</title>
    <item>
      <title>Description updated</title>
      <pubDate>Mon, 20 May 2024 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Mainboard changed</title>
      <pubDate>%s</pubDate>
    </item>
  </channel>
</rss>`

func testFeed(pubDate time.Time) string {
	return fmt.Sprintf(testFeedTemplate, pubDate.Format(time.RFC1123))
}

func cubeServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("cubeforge-test/0.0", WithBaseURL(server.URL))
}

func TestGetCube(t *testing.T) {
	client := cubeServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cube/api/cubejson/abc123" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, testCubeJSON)
	})

	src, err := client.GetCube(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("GetCube() error = %v", err)
	}

	if src.ID != "abc123" {
		t.Errorf("ID = %q", src.ID)
	}
	if src.Category != "Vintage" {
		t.Errorf("Category = %q", src.Category)
	}
	want := []string{"Lightning Bolt", "Counterspell"}
	if len(src.Cards) != len(want) {
		t.Fatalf("Cards = %v, want %v (nameless entries skipped)", src.Cards, want)
	}
	for i := range want {
		if src.Cards[i] != want[i] {
			t.Errorf("Cards[%d] = %q, want %q", i, src.Cards[i], want[i])
		}
	}
}

func TestGetCubeNotFound(t *testing.T) {
	client := cubeServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.GetCube(context.Background(), "missing")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("GetCube() error = %v, want NotFoundError", err)
	}
	if notFound.CubeID != "missing" {
		t.Errorf("NotFoundError.CubeID = %q", notFound.CubeID)
	}
}

func TestLastMainboardChange(t *testing.T) {
	changed := time.Date(2024, 5, 25, 14, 30, 0, 0, time.UTC)
	client := cubeServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cube/rss/abc123" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, testFeed(changed))
	})

	got, err := client.LastMainboardChange(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("LastMainboardChange() error = %v", err)
	}
	if !got.Equal(changed) {
		t.Errorf("LastMainboardChange() = %v, want %v", got, changed)
	}
}

func TestLastMainboardChangeFallback(t *testing.T) {
	client := cubeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, `<?xml version="1.0"?><rss version="2.0"><channel><title>Empty</title></channel></rss>`)
	})

	got, err := client.LastMainboardChange(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("LastMainboardChange() error = %v", err)
	}

	wantAge := fallbackAge
	age := time.Since(got)
	if age < wantAge-time.Minute || age > wantAge+time.Minute {
		t.Errorf("fallback timestamp is %v old, want roughly %v", age, wantAge)
	}
}

func TestFetchAllSkipsFailures(t *testing.T) {
	changed := time.Now().Add(-30 * 24 * time.Hour)
	client := cubeServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cube/api/cubejson/good":
			fmt.Fprint(w, testCubeJSON)
		case "/cube/rss/good":
			fmt.Fprint(w, testFeed(changed))
		default:
			http.NotFound(w, r)
		}
	})

	fetcher := NewFetcher(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	sources, err := fetcher.FetchAll(context.Background(), []string{"dead", "good"})
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	if len(sources) != 1 || sources[0].ID != "good" {
		t.Fatalf("FetchAll() = %v, want only the reachable cube", sources)
	}
	if !sources[0].LastModified.Equal(changed.Truncate(time.Second)) {
		t.Errorf("LastModified = %v, want %v", sources[0].LastModified, changed.Truncate(time.Second))
	}
}

func TestFetchAllDropsStaleSources(t *testing.T) {
	stale := time.Now().Add(-400 * 24 * time.Hour)
	client := cubeServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cube/api/cubejson/stale":
			fmt.Fprint(w, testCubeJSON)
		case "/cube/rss/stale":
			fmt.Fprint(w, testFeed(stale))
		default:
			http.NotFound(w, r)
		}
	})

	fetcher := NewFetcher(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	fetcher.UpdateWindow = 365 * 24 * time.Hour

	sources, err := fetcher.FetchAll(context.Background(), []string{"stale"})
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if len(sources) != 0 {
		t.Errorf("FetchAll() = %v, want stale source dropped", sources)
	}
}
