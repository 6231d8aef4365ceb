package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"earnings-sentiment/internal/api"
	"earnings-sentiment/internal/logger"
	"earnings-sentiment/internal/types"
)

const DefaultFinvizURL = "https://finviz.com/quote.ashx"

// Finviz scrapes the news table of a quote page.
type Finviz struct {
	quoteURL string
	timeout  time.Duration
	loc      *time.Location
	now      func() time.Time
}

func NewFinviz(quoteURL string, timeout time.Duration) *Finviz {
	if quoteURL == "" {
		quoteURL = DefaultFinvizURL
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.FixedZone("ET", -5*3600)
	}
	return &Finviz{quoteURL: quoteURL, timeout: timeout, loc: loc, now: time.Now}
}

func (f *Finviz) Name() string { return "finviz" }

func (f *Finviz) CompanyNews(ctx context.Context, ticker string, from, to time.Time) ([]types.NewsItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := colly.NewCollector(
		colly.AllowedDomains(getDomain(f.quoteURL)),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(f.timeout)
	c.OnRequest(func(r *colly.Request) {
		for k, v := range api.BrowserHeaders() {
			r.Headers.Set(k, v)
		}
	})

	var (
		items    []types.NewsItem
		lastDay  time.Time
		visitErr error
	)
	lo, hi := from.Truncate(24*time.Hour), to.Truncate(24*time.Hour).Add(24*time.Hour)

	c.OnHTML("table#news-table tr", func(e *colly.HTMLElement) {
		link := e.DOM.Find("a.tab-link-news, a.tab-link").First()
		href, ok := link.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		href = e.Request.AbsoluteURL(href)

		published, ok := f.parseStamp(strings.TrimSpace(e.DOM.Find("td").First().Text()), lastDay)
		if ok {
			lastDay = published
		}
		if !published.IsZero() && (published.Before(lo) || !published.Before(hi)) {
			return
		}

		var ts int64
		if !published.IsZero() {
			ts = published.Unix()
		}
		items = append(items, types.NewsItem{
			URL:      href,
			Headline: strings.TrimSpace(link.Text()),
			Source:   sourceLabel(e.DOM),
			Datetime: ts,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		visitErr = fmt.Errorf("finviz %s: status %d: %w", ticker, r.StatusCode, err)
	})

	target := f.quoteURL + "?" + url.Values{"t": {ticker}, "p": {"d"}}.Encode()
	if err := c.Visit(target); err != nil && visitErr == nil {
		visitErr = fmt.Errorf("failed to visit %s: %w", target, err)
	}
	c.Wait()

	if visitErr != nil {
		return nil, visitErr
	}
	logger.Debug(ctx, "Finviz news scraped", "ticker", ticker, "items", len(items))
	return items, nil
}

// parseStamp reads "Sep-19-25 04:15PM", "Today 09:30AM" or a bare "04:15PM",
// which continues the date of the previous row. ok is false for bare times.
func (f *Finviz) parseStamp(s string, prev time.Time) (time.Time, bool) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 2:
		clock, err := time.ParseInLocation("03:04PM", fields[1], f.loc)
		if err != nil {
			return time.Time{}, false
		}
		var day time.Time
		if strings.EqualFold(fields[0], "Today") {
			day = f.now().In(f.loc)
		} else {
			day, err = time.ParseInLocation("Jan-02-06", fields[0], f.loc)
			if err != nil {
				return time.Time{}, false
			}
		}
		return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, f.loc), true
	case 1:
		if prev.IsZero() {
			return time.Time{}, false
		}
		clock, err := time.ParseInLocation("03:04PM", fields[0], f.loc)
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(prev.Year(), prev.Month(), prev.Day(), clock.Hour(), clock.Minute(), 0, 0, f.loc), false
	}
	return time.Time{}, false
}

func sourceLabel(row *goquery.Selection) string {
	s := strings.TrimSpace(row.Find("div.news-link-right span").First().Text())
	s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	return strings.TrimSpace(s)
}
