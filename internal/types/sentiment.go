package types

const (
	MinScore = -10
	MaxScore = 10
)

// SentimentResult is the outcome of scoring one ticker.
type SentimentResult struct {
	Ticker                 string `json:"ticker"`
	SentimentScore         int    `json:"sentiment_score"`
	ArticlesAnalyzed       int    `json:"articles_analyzed"`
	TotalArticlesAvailable int    `json:"total_articles_available"`
}

// ReportSummary holds the aggregate counters of a run.
type ReportSummary struct {
	TotalCompanies         int `json:"total_companies"`
	CompaniesWithArticles  int `json:"companies_with_articles"`
	TotalArticlesAnalyzed  int `json:"total_articles_analyzed"`
	TotalArticlesAvailable int `json:"total_articles_available"`
	NeutralCount           int `json:"neutral_count"`
}

// Report is the final artifact. Only the fields with JSON names are persisted;
// the rest are derived views for console output.
type Report struct {
	AnalysisDate           string            `json:"analysis_date"`
	EarningsWeek           string            `json:"earnings_week"`
	TotalCompaniesAnalyzed int               `json:"total_companies_analyzed"`
	SentimentResults       []SentimentResult `json:"sentiment_results"`

	Window       WeekWindow        `json:"-"`
	Summary      ReportSummary     `json:"-"`
	MostPositive []SentimentResult `json:"-"`
	MostNegative []SentimentResult `json:"-"`
}

// Result looks up a ticker's entry.
func (r *Report) Result(ticker string) (SentimentResult, bool) {
	for _, res := range r.SentimentResults {
		if res.Ticker == ticker {
			return res, true
		}
	}
	return SentimentResult{}, false
}
