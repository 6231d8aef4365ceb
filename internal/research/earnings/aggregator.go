package earnings

import (
	"sort"

	"earnings-sentiment/internal/types"
)

// TopN is the size of the most-positive and most-negative views.
const TopN = 10

// Aggregate combines scores with the calendar into a report. Tickers are listed
// in calendar order; tickers without a result get a zero entry and results for
// tickers absent from the calendar are appended.
func Aggregate(window types.WeekWindow, days []types.EarningsDay, results []types.SentimentResult) *types.Report {
	byTicker := make(map[string]types.SentimentResult, len(results))
	var order []string
	for _, r := range results {
		if _, dup := byTicker[r.Ticker]; dup {
			continue
		}
		byTicker[r.Ticker] = r
		order = append(order, r.Ticker)
	}

	listed := make(map[string]struct{})
	ordered := make([]types.SentimentResult, 0, len(byTicker))
	for _, day := range days {
		for _, ticker := range day.Tickers {
			if _, ok := listed[ticker]; ok {
				continue
			}
			listed[ticker] = struct{}{}
			r, ok := byTicker[ticker]
			if !ok {
				r = types.SentimentResult{Ticker: ticker}
			}
			ordered = append(ordered, r)
		}
	}
	for _, ticker := range order {
		if _, ok := listed[ticker]; ok {
			continue
		}
		listed[ticker] = struct{}{}
		ordered = append(ordered, byTicker[ticker])
	}

	report := &types.Report{
		EarningsWeek:           window.String(),
		TotalCompaniesAnalyzed: len(ordered),
		SentimentResults:       ordered,
		Window:                 window,
		Summary:                Summarize(ordered),
		MostPositive:           MostPositive(ordered, TopN),
		MostNegative:           MostNegative(ordered, TopN),
	}
	return report
}

func Summarize(results []types.SentimentResult) types.ReportSummary {
	s := types.ReportSummary{TotalCompanies: len(results)}
	for _, r := range results {
		if r.ArticlesAnalyzed > 0 {
			s.CompaniesWithArticles++
		}
		s.TotalArticlesAnalyzed += r.ArticlesAnalyzed
		s.TotalArticlesAvailable += r.TotalArticlesAvailable
		if r.SentimentScore == 0 {
			s.NeutralCount++
		}
	}
	return s
}

// MostPositive returns up to n results with a score above zero, highest first.
// Ties keep their input order.
func MostPositive(results []types.SentimentResult, n int) []types.SentimentResult {
	return rank(results, n, func(r types.SentimentResult) bool { return r.SentimentScore > 0 },
		func(a, b types.SentimentResult) bool { return a.SentimentScore > b.SentimentScore })
}

// MostNegative returns up to n results with a score below zero, lowest first.
func MostNegative(results []types.SentimentResult, n int) []types.SentimentResult {
	return rank(results, n, func(r types.SentimentResult) bool { return r.SentimentScore < 0 },
		func(a, b types.SentimentResult) bool { return a.SentimentScore < b.SentimentScore })
}

func rank(results []types.SentimentResult, n int, keep func(types.SentimentResult) bool, less func(a, b types.SentimentResult) bool) []types.SentimentResult {
	out := make([]types.SentimentResult, 0, len(results))
	for _, r := range results {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
