package interfaces

import (
	"context"
	"time"

	"earnings-sentiment/internal/types"
)

// CalendarClient fetches the earnings announcements of one week.
type CalendarClient interface {
	Fetch(ctx context.Context, window types.WeekWindow) ([]types.EarningsDay, error)
}

// NewsProvider returns raw news items for ticker published between from and to.
type NewsProvider interface {
	Name() string
	CompanyNews(ctx context.Context, ticker string, from, to time.Time) ([]types.NewsItem, error)
}

// CachedNewsProvider can answer a request locally. Cached hits skip request pacing.
type CachedNewsProvider interface {
	NewsProvider
	Cached(ctx context.Context, ticker string, from, to time.Time) ([]types.NewsItem, bool)
}

// NewsCollector builds the normalized news set of every ticker.
type NewsCollector interface {
	Collect(ctx context.Context, tickers []string) (map[string]types.TickerNewsSet, error)
}

// SentimentScorer scores one ticker. Failures are absorbed into a zero result.
type SentimentScorer interface {
	Score(ctx context.Context, ticker string, when types.Announcement, set types.TickerNewsSet) types.SentimentResult
}
