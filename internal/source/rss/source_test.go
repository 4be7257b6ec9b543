package rss

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niche-finder/internal/config"
	"github.com/niche-finder/pkg/logger"
)

func feedXML() string {
	recent := time.Now().Add(-time.Hour).Format(time.RFC1123Z)
	stale := time.Now().Add(-30 * 24 * time.Hour).Format(time.RFC1123Z)
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Pulse</title>
  <link>https://example.com</link>
  <description>news</description>
  <item>
    <title>Detty December &lt;b&gt;crowds&lt;/b&gt; hit Lagos</title>
    <link>https://example.com/1</link>
    <pubDate>%s</pubDate>
  </item>
  <item>
    <title>Old election recap</title>
    <link>https://example.com/2</link>
    <pubDate>%s</pubDate>
  </item>
  <item>
    <title>Undated explainer</title>
    <link>https://example.com/3</link>
  </item>
</channel>
</rss>`, recent, stale)
}

func TestSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feedXML()))
	}))
	defer srv.Close()

	s := New(config.RSSFeed{Name: "pulse", URL: srv.URL}, 72*time.Hour, nil, logger.Nop())
	assert.Equal(t, "pulse", s.Name())
	assert.Equal(t, "rss", s.Type())

	headlines, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, headlines, 2)
	assert.Equal(t, "Detty December crowds hit Lagos", headlines[0].Title)
	assert.Equal(t, "https://example.com/1", headlines[0].URL)
	assert.Equal(t, "Undated explainer", headlines[1].Title)
}

func TestSource_FetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	s := New(config.RSSFeed{Name: "broken", URL: srv.URL}, 0, nil, logger.Nop())
	_, err := s.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestNewMultiple(t *testing.T) {
	sources := NewMultiple(config.RSSConfig{Feeds: []config.RSSFeed{
		{Name: "a", URL: "https://a.example/feed"},
		{Name: "b", URL: "https://b.example/feed"},
	}}, nil, logger.Nop())

	require.Len(t, sources, 2)
	assert.Equal(t, DefaultMaxAge, sources[0].maxAge)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", cleanText("<p>a</p><br/>b   <i>c</i>"))
	assert.Equal(t, "", cleanText("<br>"))
}
