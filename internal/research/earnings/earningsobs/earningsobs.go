package earningsobs

import (
	"context"
	"errors"

	"earnings-sentiment/internal/interfaces"
	"earnings-sentiment/internal/logger"
	"earnings-sentiment/internal/research/earnings"
	"earnings-sentiment/internal/types"
)

type observableCalendar struct {
	inner interfaces.CalendarClient
}

var _ interfaces.CalendarClient = (*observableCalendar)(nil)

// WrapCalendar adds a span and start/finish logs around calendar fetches.
func WrapCalendar(c interfaces.CalendarClient) interfaces.CalendarClient {
	return &observableCalendar{inner: c}
}

func (o *observableCalendar) Fetch(ctx context.Context, window types.WeekWindow) ([]types.EarningsDay, error) {
	op := logger.StartOperation(ctx, "calendar.Fetch", "week", window.String())
	ctx = op.GetContext()

	days, err := o.inner.Fetch(ctx, window)
	if errors.Is(err, earnings.ErrEmptyResult) {
		op.End("days", 0)
		logger.InfoSkip(ctx, 1, "Earnings calendar empty", "week", window.String())
		return nil, err
	}
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}

	tickers := 0
	for _, d := range days {
		tickers += len(d.Tickers)
	}
	op.End("days", len(days), "tickers", tickers)
	logger.InfoSkip(ctx, 1, "Earnings calendar fetched",
		"week", window.String(),
		"days", len(days),
		"tickers", tickers,
	)
	return days, nil
}

type observableCollector struct {
	inner interfaces.NewsCollector
}

var _ interfaces.NewsCollector = (*observableCollector)(nil)

func WrapCollector(c interfaces.NewsCollector) interfaces.NewsCollector {
	return &observableCollector{inner: c}
}

func (o *observableCollector) Collect(ctx context.Context, tickers []string) (map[string]types.TickerNewsSet, error) {
	op := logger.StartOperation(ctx, "news.Collect", "ticker_count", len(tickers))
	ctx = op.GetContext()
	logger.InfoSkip(ctx, 1, "Collecting news", "ticker_count", len(tickers))

	sets, err := o.inner.Collect(ctx, tickers)
	if err != nil {
		op.EndWithError(err, "collected", len(sets))
		return sets, err
	}

	articles, empty := 0, 0
	for _, s := range sets {
		articles += len(s.Articles)
		if len(s.Articles) == 0 {
			empty++
		}
	}
	op.End("articles", articles)
	logger.InfoSkip(ctx, 1, "News collected",
		"tickers", len(sets),
		"articles", articles,
		"tickers_without_news", empty,
	)
	return sets, nil
}

type observableScorer struct {
	inner interfaces.SentimentScorer
}

var _ interfaces.SentimentScorer = (*observableScorer)(nil)

func WrapScorer(s interfaces.SentimentScorer) interfaces.SentimentScorer {
	return &observableScorer{inner: s}
}

// Score never fails, so the operation always ends cleanly.
func (o *observableScorer) Score(ctx context.Context, ticker string, when types.Announcement, set types.TickerNewsSet) types.SentimentResult {
	op := logger.StartOperation(ctx, "sentiment.Score", "ticker", ticker, "articles", len(set.Articles))

	r := o.inner.Score(op.GetContext(), ticker, when, set)

	op.End("score", r.SentimentScore, "articles_analyzed", r.ArticlesAnalyzed)
	return r
}
