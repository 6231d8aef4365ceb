package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>AAPL stock - Google News</title>
<item><title>Apple shares climb ahead of earnings - Reuters</title><link>https://news.example/a</link><pubDate>Fri, 19 Sep 2025 14:00:00 GMT</pubDate></item>
<item><title>Old story - CNBC</title><link>https://news.example/old</link><pubDate>Mon, 02 Jun 2025 10:00:00 GMT</pubDate></item>
<item><title>Untitled analysis</title><link>https://www.marketwatch.com/story/x</link><pubDate>Wed, 10 Sep 2025 09:00:00 GMT</pubDate></item>
</channel></rss>`

func TestFeedCompanyNews(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	got, err := NewFeed(srv.URL, 0).CompanyNews(context.Background(), "AAPL", rangeFrom, rangeTo)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "AAPL stock after:2025-08-21 before:2025-09-21"), query)
	require.Len(t, got, 2)
	assert.Equal(t, "Apple shares climb ahead of earnings", got[0].Headline)
	assert.Equal(t, "Reuters", got[0].Source)
	assert.Equal(t, "https://news.example/a", got[0].URL)
	assert.NotZero(t, got[0].Datetime)
	assert.Equal(t, "Untitled analysis", got[1].Headline)
	assert.Equal(t, "marketwatch.com", got[1].Source)
}

func TestFeedParseFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewFeed(srv.URL, 0).CompanyNews(context.Background(), "AAPL", rangeFrom, rangeTo)
	assert.Error(t, err)
}

func TestSplitPublisher(t *testing.T) {
	h, s := splitPublisher("Q3 preview - beats - Yahoo Finance")
	assert.Equal(t, "Q3 preview - beats", h)
	assert.Equal(t, "Yahoo Finance", s)

	h, s = splitPublisher("No publisher here")
	assert.Equal(t, "No publisher here", h)
	assert.Empty(t, s)
}
