package earnings

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"earnings-sentiment/internal/types"
)

func newTestCollector(p *fakeProvider, cfg CollectorConfig) (*Collector, *[]time.Duration) {
	c := NewCollector(p, cfg)
	c.now = func() time.Time { return time.Date(2025, 9, 20, 12, 0, 0, 0, time.UTC) }
	var slept []time.Duration
	c.pacer.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return c, &slept
}

func TestNormalize(t *testing.T) {
	got := Normalize([]types.NewsItem{
		{URL: "", Headline: "dropped"},
		{URL: "  https://a  ", Headline: "", Source: "", Datetime: -5},
		{URL: "https://b", Headline: "B", Source: "CNBC", Datetime: 1700000000},
		{URL: "https://b", Headline: "B again", Source: "CNBC"},
	})

	require.Len(t, got, 3)
	assert.Equal(t, types.Article{URL: "https://a", Headline: types.NoHeadline, Source: types.UnknownSource}, got[0])
	assert.Equal(t, int64(1700000000), got[1].PublishedAt)
	assert.Equal(t, "https://b", got[2].URL)
}

func TestCollectorLookbackAndSources(t *testing.T) {
	p := &fakeProvider{items: map[string][]types.NewsItem{
		"AAA": {
			{URL: "u1", Headline: "h1", Source: "Reuters"},
			{URL: "u2", Headline: "h2", Source: "Bloomberg"},
			{URL: "u3", Headline: "h3", Source: "Reuters"},
		},
	}}
	c, _ := newTestCollector(p, CollectorConfig{LookbackDays: 30})

	sets, err := c.Collect(context.Background(), []string{"AAA", "BBB", "AAA"})
	require.NoError(t, err)

	assert.Equal(t, []string{"AAA", "BBB"}, p.calls)
	assert.Equal(t, "2025-08-21", p.from.Format(types.DateLayout))
	assert.Equal(t, "2025-09-20", p.to.Format(types.DateLayout))

	require.Contains(t, sets, "AAA")
	require.Contains(t, sets, "BBB")
	assert.Len(t, sets["AAA"].Articles, 3)
	assert.Equal(t, []string{"Bloomberg", "Reuters"}, sets["AAA"].UniqueSources)
	assert.Empty(t, sets["BBB"].Articles)
	assert.Empty(t, sets["BBB"].UniqueSources)
}

func TestCollectorIsolatesProviderErrors(t *testing.T) {
	p := &fakeProvider{
		items: map[string][]types.NewsItem{"AAA": items(2, "a"), "CCC": items(1, "c")},
		errs:  map[string]error{"BBB": errors.New("HTTP 500")},
	}
	c, _ := newTestCollector(p, CollectorConfig{})

	sets, err := c.Collect(context.Background(), []string{"AAA", "BBB", "CCC"})
	require.NoError(t, err)
	assert.Len(t, sets, 3)
	assert.Len(t, sets["AAA"].Articles, 2)
	assert.Empty(t, sets["BBB"].Articles)
	assert.Len(t, sets["CCC"].Articles, 1)
}

func TestCollectorCooldownEveryBlock(t *testing.T) {
	tickers := make([]string, 120)
	for i := range tickers {
		tickers[i] = fmt.Sprintf("T%03d", i)
	}
	p := &fakeProvider{}
	c, slept := newTestCollector(p, CollectorConfig{CooldownEvery: 50, Cooldown: 65 * time.Second})

	sets, err := c.Collect(context.Background(), tickers)
	require.NoError(t, err)
	assert.Len(t, sets, 120)
	assert.Equal(t, []time.Duration{65 * time.Second, 65 * time.Second}, *slept)
	assert.Len(t, p.calls, 120)
}

func TestCollectorNoCooldownAtExactBlock(t *testing.T) {
	tickers := make([]string, 50)
	for i := range tickers {
		tickers[i] = fmt.Sprintf("T%02d", i)
	}
	c, slept := newTestCollector(&fakeProvider{}, CollectorConfig{CooldownEvery: 50, Cooldown: time.Minute})

	_, err := c.Collect(context.Background(), tickers)
	require.NoError(t, err)
	assert.Empty(t, *slept)
}

func TestCollectorStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &fakeProvider{items: map[string][]types.NewsItem{"AAA": items(1, "a")}}
	p.onCall = func(ticker string) {
		if ticker == "BBB" {
			cancel()
		}
	}
	p.errs = map[string]error{"BBB": context.Canceled}
	c, _ := newTestCollector(p, CollectorConfig{})

	sets, err := c.Collect(ctx, []string{"AAA", "BBB", "CCC"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, sets, "AAA")
	assert.NotContains(t, sets, "CCC")
}

func TestCollectorPacesRequests(t *testing.T) {
	c, _ := newTestCollector(&fakeProvider{}, CollectorConfig{RequestDelay: 40 * time.Millisecond})

	start := time.Now()
	_, err := c.Collect(context.Background(), []string{"A", "B", "C"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 70*time.Millisecond)
}

type fakeCachedProvider struct {
	*fakeProvider
	hits map[string][]types.NewsItem
}

func (f *fakeCachedProvider) Cached(ctx context.Context, ticker string, from, to time.Time) ([]types.NewsItem, bool) {
	items, ok := f.hits[ticker]
	return items, ok
}

func TestCollectorCacheHitsSkipPacing(t *testing.T) {
	inner := &fakeProvider{items: map[string][]types.NewsItem{"BBB": items(1, "b")}}
	p := &fakeCachedProvider{fakeProvider: inner, hits: map[string][]types.NewsItem{
		"AAA": items(2, "a"),
		"CCC": items(3, "c"),
	}}
	c := NewCollector(p, CollectorConfig{RequestDelay: time.Hour, CooldownEvery: 1, Cooldown: time.Hour})
	var slept []time.Duration
	c.pacer.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	sets, err := c.Collect(context.Background(), []string{"AAA", "BBB", "CCC"})
	require.NoError(t, err)

	assert.Equal(t, []string{"BBB"}, inner.calls)
	assert.Equal(t, 1, c.pacer.Calls())
	assert.Empty(t, slept)
	assert.Len(t, sets["AAA"].Articles, 2)
	assert.Len(t, sets["BBB"].Articles, 1)
	assert.Len(t, sets["CCC"].Articles, 3)
}
