package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"earnings-sentiment/internal/api"
	"earnings-sentiment/internal/types"
)

const DefaultFeedURL = "https://news.google.com/rss/search"

// Feed searches the Google News RSS endpoint for "<ticker> stock" within the
// requested date range.
type Feed struct {
	searchURL string
	parser    *gofeed.Parser
}

func NewFeed(searchURL string, timeout time.Duration) *Feed {
	if searchURL == "" {
		searchURL = DefaultFeedURL
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	p := gofeed.NewParser()
	p.UserAgent = api.BrowserHeaders()["User-Agent"]
	p.Client = &http.Client{Timeout: timeout}
	return &Feed{searchURL: searchURL, parser: p}
}

func (f *Feed) Name() string { return "feed" }

func (f *Feed) searchQuery(ticker string, from, to time.Time) string {
	q := url.Values{
		"q": {fmt.Sprintf("%s stock after:%s before:%s",
			ticker, from.Format(types.DateLayout), to.AddDate(0, 0, 1).Format(types.DateLayout))},
		"hl":   {"en-US"},
		"gl":   {"US"},
		"ceid": {"US:en"},
	}
	sep := "?"
	if strings.Contains(f.searchURL, "?") {
		sep = "&"
	}
	return f.searchURL + sep + q.Encode()
}

func (f *Feed) CompanyNews(ctx context.Context, ticker string, from, to time.Time) ([]types.NewsItem, error) {
	feed, err := f.parser.ParseURLWithContext(f.searchQuery(ticker, from, to), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse news feed for %s: %w", ticker, err)
	}

	lo, hi := from.Truncate(24*time.Hour), to.Truncate(24*time.Hour).Add(24*time.Hour)
	out := make([]types.NewsItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		var ts int64
		if item.PublishedParsed != nil {
			p := *item.PublishedParsed
			if p.Before(lo) || !p.Before(hi) {
				continue
			}
			ts = p.Unix()
		}
		headline, source := splitPublisher(cleanHTML(item.Title))
		if source == "" {
			source = hostOf(item.Link)
		}
		out = append(out, types.NewsItem{
			URL:      item.Link,
			Headline: headline,
			Source:   source,
			Datetime: ts,
		})
	}
	return out, nil
}

// splitPublisher separates "Headline - Publisher" titles.
func splitPublisher(title string) (headline, source string) {
	i := strings.LastIndex(title, " - ")
	if i <= 0 {
		return title, ""
	}
	return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+3:])
}

// cleanHTML strips markup some feeds leave in titles.
func cleanHTML(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}

func hostOf(link string) string {
	return strings.TrimPrefix(getDomain(link), "www.")
}

// getDomain extracts the host name from a URL
func getDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
