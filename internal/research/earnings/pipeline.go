package earnings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"earnings-sentiment/internal/interfaces"
	"earnings-sentiment/internal/logger"
	"earnings-sentiment/internal/types"
)

// ResultSink receives each score as soon as it is produced.
type ResultSink func(ctx context.Context, result types.SentimentResult)

// Pipeline runs the two stages: Gather builds the news document for a week,
// Analyze turns a news document into a report.
type Pipeline struct {
	calendar  interfaces.CalendarClient
	collector interfaces.NewsCollector
	scorer    interfaces.SentimentScorer
	sink      ResultSink
	now       func() time.Time
}

type Option func(*Pipeline)

func WithResultSink(sink ResultSink) Option {
	return func(p *Pipeline) { p.sink = sink }
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// NewPipeline wires the stages. Components a stage does not use may be nil.
func NewPipeline(calendar interfaces.CalendarClient, collector interfaces.NewsCollector, scorer interfaces.SentimentScorer, opts ...Option) *Pipeline {
	p := &Pipeline{
		calendar:  calendar,
		collector: collector,
		scorer:    scorer,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Gather fetches the week's calendar and the news of every announcing ticker.
// A week without announcements yields an empty document.
func (p *Pipeline) Gather(ctx context.Context, window types.WeekWindow) (*types.NewsDocument, error) {
	doc := types.NewNewsDocument(window, p.now())

	days, err := p.calendar.Fetch(ctx, window)
	if errors.Is(err, ErrEmptyResult) {
		logger.Info(ctx, "No earnings announcements for week", "week", window.String())
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch earnings calendar: %w", err)
	}

	var tickers []string
	for _, day := range days {
		tickers = append(tickers, day.Tickers...)
	}
	logger.Info(ctx, "Earnings calendar loaded", "week", window.String(), "days", len(days), "tickers", len(tickers))

	sets, err := p.collector.Collect(ctx, tickers)
	if err != nil {
		return nil, fmt.Errorf("news collection interrupted: %w", err)
	}

	for _, day := range days {
		for _, ticker := range day.Tickers {
			set, ok := sets[ticker]
			if !ok {
				set = types.NewTickerNewsSet(ticker, nil)
			}
			doc.Add(ticker, day, set)
		}
	}
	return doc, nil
}

// Analyze scores every company of doc in document order and aggregates the
// results. Per-ticker failures are absorbed by the scorer.
func (p *Pipeline) Analyze(ctx context.Context, doc *types.NewsDocument) (*types.Report, error) {
	window, err := doc.Window()
	if err != nil && doc.EarningsWeek != "" {
		return nil, fmt.Errorf("invalid news document: %w", err)
	}

	tickers := doc.Tickers()
	results := make([]types.SentimentResult, 0, len(tickers))
	for i, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Debug(ctx, "Scoring ticker", "ticker", ticker, "position", i+1, "of", len(tickers))

		r := p.scorer.Score(ctx, ticker, doc.Announcement(ticker), doc.NewsSet(ticker))
		results = append(results, r)
		logger.TickerScored(ctx, r.Ticker, r.SentimentScore, r.ArticlesAnalyzed, r.TotalArticlesAvailable)
		if p.sink != nil {
			p.sink(ctx, r)
		}
	}

	report := Aggregate(window, doc.EarningsDays(), results)
	report.EarningsWeek = doc.EarningsWeek
	report.AnalysisDate = doc.GeneratedAt
	if report.AnalysisDate == "" {
		report.AnalysisDate = p.now().Format(time.RFC3339)
	}
	return report, nil
}
