package earnings

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"earnings-sentiment/internal/types"
)

type fakeProvider struct {
	mu     sync.Mutex
	items  map[string][]types.NewsItem
	errs   map[string]error
	calls  []string
	from   time.Time
	to     time.Time
	onCall func(ticker string)
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) CompanyNews(ctx context.Context, ticker string, from, to time.Time) ([]types.NewsItem, error) {
	f.mu.Lock()
	f.calls = append(f.calls, ticker)
	f.from, f.to = from, to
	f.mu.Unlock()
	if f.onCall != nil {
		f.onCall(ticker)
	}
	if err := f.errs[ticker]; err != nil {
		return nil, err
	}
	return f.items[ticker], nil
}

type fakeCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	prompts []string
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, user)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeCalendar struct {
	days []types.EarningsDay
	err  error
}

func (f *fakeCalendar) Fetch(ctx context.Context, window types.WeekWindow) ([]types.EarningsDay, error) {
	return f.days, f.err
}

func articles(n int, prefix string) []types.Article {
	out := make([]types.Article, n)
	for i := range out {
		out[i] = types.Article{
			URL:      fmt.Sprintf("https://news.example/%s/%d", prefix, i+1),
			Headline: fmt.Sprintf("%s headline %d", strings.ToUpper(prefix), i+1),
			Source:   "Reuters",
		}
	}
	return out
}

func items(n int, prefix string) []types.NewsItem {
	out := make([]types.NewsItem, n)
	for i, a := range articles(n, prefix) {
		out[i] = types.NewsItem{URL: a.URL, Headline: a.Headline, Source: a.Source, Datetime: int64(1758000000 + i)}
	}
	return out
}
