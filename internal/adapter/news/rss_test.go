package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const googleNewsFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>"solar" - Google News</title>
<item>
  <title>Solar farm opens</title>
  <link>https://example.com/solar</link>
  <pubDate>Fri, 01 Mar 2024 10:00:00 GMT</pubDate>
  <description>&lt;a href="https://example.com/solar"&gt;Solar farm opens&lt;/a&gt;&amp;nbsp;&lt;font&gt;Example&lt;/font&gt;</description>
</item>
<item>
  <title>Undated item</title>
  <link>https://example.com/undated</link>
</item>
</channel>
</rss>`

func TestRSS_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "solar", r.URL.Query().Get("q"))
		assert.Equal(t, "en-US", r.URL.Query().Get("hl"), "existing query parameters are kept")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(googleNewsFeed))
	}))
	defer srv.Close()

	rss := NewRSS(srv.URL+"/rss/search?hl=en-US", time.Second, nil)
	articles, err := rss.Search(context.Background(), "solar")
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, "Solar farm opens", articles[0].Title)
	assert.Equal(t, "https://example.com/solar", articles[0].URL)
	assert.NotContains(t, articles[0].Description, "<a")
	assert.Contains(t, articles[0].Description, "Solar farm opens")
	assert.Equal(t, 2024, articles[0].PublishedAt.Year())
	assert.True(t, articles[1].PublishedAt.IsZero())
}

func TestRSS_InvalidFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not a feed"))
	}))
	defer srv.Close()

	_, err := NewRSS(srv.URL, time.Second, nil).Search(context.Background(), "solar")
	require.Error(t, err)
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "Hello world", stripTags(`<b>Hello</b>   <i>world</i>`))
	assert.Equal(t, "", stripTags(""))
}
