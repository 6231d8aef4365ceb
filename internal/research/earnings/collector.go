package earnings

import (
	"context"
	"strings"
	"time"

	"earnings-sentiment/internal/interfaces"
	"earnings-sentiment/internal/logger"
	"earnings-sentiment/internal/types"
)

// CollectorConfig controls the news lookback and request pacing.
type CollectorConfig struct {
	LookbackDays  int
	RequestDelay  time.Duration
	CooldownEvery int
	Cooldown      time.Duration
}

// Collector fetches and normalizes news for a list of tickers, one provider
// request per ticker, sequentially.
type Collector struct {
	provider interfaces.NewsProvider
	cfg      CollectorConfig
	pacer    *Pacer
	now      func() time.Time
}

func NewCollector(provider interfaces.NewsProvider, cfg CollectorConfig) *Collector {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 30
	}
	return &Collector{
		provider: provider,
		cfg:      cfg,
		pacer:    NewPacer(cfg.RequestDelay, cfg.CooldownEvery, cfg.Cooldown),
		now:      time.Now,
	}
}

// Collect returns a news set for every distinct ticker. A failed ticker gets an
// empty set. On cancellation the sets gathered so far are returned with ctx.Err().
func (c *Collector) Collect(ctx context.Context, tickers []string) (map[string]types.TickerNewsSet, error) {
	to := c.now()
	from := to.AddDate(0, 0, -c.cfg.LookbackDays)

	out := make(map[string]types.TickerNewsSet, len(tickers))
	for _, ticker := range tickers {
		if _, done := out[ticker]; done {
			continue
		}
		items, cached := c.cached(ctx, ticker, from, to)
		if !cached {
			if err := c.pacer.Wait(ctx); err != nil {
				return out, err
			}
			var err error
			items, err = c.provider.CompanyNews(ctx, ticker, from, to)
			if err != nil {
				if ctx.Err() != nil {
					return out, ctx.Err()
				}
				err = classify(ErrProviderError, err)
				logger.TickerFailure(ctx, ticker, failureKind(KindProviderError, err), err, "provider", c.provider.Name())
				out[ticker] = types.NewTickerNewsSet(ticker, nil)
				continue
			}
		}

		set := types.NewTickerNewsSet(ticker, Normalize(items))
		out[ticker] = set
		logger.Debug(ctx, "News collected",
			"ticker", ticker,
			"provider", c.provider.Name(),
			"cached", cached,
			"raw_items", len(items),
			"articles", len(set.Articles),
			"sources", len(set.UniqueSources),
			"paced_requests", c.pacer.Calls())
	}
	return out, nil
}

func (c *Collector) cached(ctx context.Context, ticker string, from, to time.Time) ([]types.NewsItem, bool) {
	cp, ok := c.provider.(interfaces.CachedNewsProvider)
	if !ok {
		return nil, false
	}
	return cp.Cached(ctx, ticker, from, to)
}

// Normalize drops items without a URL and fills in default headline, source
// and timestamp. Order is preserved; duplicate URLs are kept.
func Normalize(items []types.NewsItem) []types.Article {
	articles := make([]types.Article, 0, len(items))
	for _, it := range items {
		u := strings.TrimSpace(it.URL)
		if u == "" {
			continue
		}
		a := types.Article{
			URL:         u,
			Headline:    strings.TrimSpace(it.Headline),
			Source:      strings.TrimSpace(it.Source),
			PublishedAt: it.Datetime,
		}
		if a.Headline == "" {
			a.Headline = types.NoHeadline
		}
		if a.Source == "" {
			a.Source = types.UnknownSource
		}
		if a.PublishedAt < 0 {
			a.PublishedAt = 0
		}
		articles = append(articles, a)
	}
	return articles
}
