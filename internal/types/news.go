package types

import (
	"sort"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	NoHeadline    = "No headline"
	UnknownSource = "Unknown"
)

// NewsItem is a raw provider record before normalization. Any field may be empty.
type NewsItem struct {
	URL      string `json:"url"`
	Headline string `json:"headline"`
	Source   string `json:"source"`
	Datetime int64  `json:"datetime"`
}

type Article struct {
	URL         string `json:"url"`
	Headline    string `json:"headline"`
	Source      string `json:"source"`
	PublishedAt int64  `json:"published_at"`
}

// Qualifies reports whether the article may be placed in a scoring prompt.
func (a Article) Qualifies() bool {
	return a.URL != "" && a.Headline != NoHeadline
}

// TickerNewsSet holds the normalized articles for one ticker in fetch order.
type TickerNewsSet struct {
	Ticker        string
	Articles      []Article
	UniqueSources []string
}

// NewTickerNewsSet builds a set and derives its sorted unique sources.
func NewTickerNewsSet(ticker string, articles []Article) TickerNewsSet {
	seen := make(map[string]struct{}, len(articles))
	sources := make([]string, 0, len(articles))
	for _, a := range articles {
		if _, ok := seen[a.Source]; ok {
			continue
		}
		seen[a.Source] = struct{}{}
		sources = append(sources, a.Source)
	}
	sort.Strings(sources)
	if articles == nil {
		articles = []Article{}
	}
	return TickerNewsSet{Ticker: ticker, Articles: articles, UniqueSources: sources}
}

// Qualifying returns the articles eligible for scoring, in fetch order.
func (s TickerNewsSet) Qualifying() []Article {
	out := make([]Article, 0, len(s.Articles))
	for _, a := range s.Articles {
		if a.Qualifies() {
			out = append(out, a)
		}
	}
	return out
}

// CompanyNews is one company entry of the intermediate news document.
type CompanyNews struct {
	EarningsDate   string    `json:"earnings_date"`
	EarningsDay    string    `json:"earnings_day"`
	ArticleCount   int       `json:"article_count"`
	URLs           []string  `json:"urls"`
	ArticleDetails []Article `json:"article_details"`
	Sources        []string  `json:"sources,omitempty"`
}

// NewsDocument is the artifact handed from the calendar stage to the sentiment stage.
// Companies keeps insertion order so the JSON file lists tickers the way they were
// encountered in the calendar.
type NewsDocument struct {
	EarningsWeek   string                                     `json:"earnings_week"`
	GeneratedAt    string                                     `json:"generated_at"`
	TotalCompanies int                                        `json:"total_companies"`
	Companies      *orderedmap.OrderedMap[string, CompanyNews] `json:"companies"`
}

func NewNewsDocument(window WeekWindow, generatedAt time.Time) *NewsDocument {
	return &NewsDocument{
		EarningsWeek: window.String(),
		GeneratedAt:  generatedAt.Format(time.RFC3339),
		Companies:    orderedmap.New[string, CompanyNews](),
	}
}

// Add records a company. The first entry for a ticker wins.
func (d *NewsDocument) Add(ticker string, day EarningsDay, set TickerNewsSet) bool {
	if d.Companies == nil {
		d.Companies = orderedmap.New[string, CompanyNews]()
	}
	if _, exists := d.Companies.Get(ticker); exists {
		return false
	}
	urls := make([]string, 0, len(set.Articles))
	for _, a := range set.Articles {
		urls = append(urls, a.URL)
	}
	articles := set.Articles
	if articles == nil {
		articles = []Article{}
	}
	d.Companies.Set(ticker, CompanyNews{
		EarningsDate:   day.Date.Format(DateLayout),
		EarningsDay:    day.DayName,
		ArticleCount:   len(articles),
		URLs:           urls,
		ArticleDetails: articles,
		Sources:        set.UniqueSources,
	})
	d.TotalCompanies = d.Companies.Len()
	return true
}

// Tickers lists the companies in document order.
func (d *NewsDocument) Tickers() []string {
	if d == nil || d.Companies == nil {
		return nil
	}
	out := make([]string, 0, d.Companies.Len())
	for pair := d.Companies.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Window parses EarningsWeek back into a WeekWindow.
func (d *NewsDocument) Window() (WeekWindow, error) {
	return ParseWeekWindow(d.EarningsWeek)
}

// Announcement returns the earnings date recorded for ticker.
func (d *NewsDocument) Announcement(ticker string) Announcement {
	if d == nil || d.Companies == nil {
		return Announcement{}
	}
	c, ok := d.Companies.Get(ticker)
	if !ok {
		return Announcement{}
	}
	date, err := time.Parse(DateLayout, c.EarningsDate)
	if err != nil {
		return Announcement{Day: c.EarningsDay}
	}
	return Announcement{Date: date, Day: c.EarningsDay}
}

// NewsSet rebuilds the TickerNewsSet of ticker. Article defaults are reapplied
// since the file may have been edited by hand.
func (d *NewsDocument) NewsSet(ticker string) TickerNewsSet {
	if d == nil || d.Companies == nil {
		return NewTickerNewsSet(ticker, nil)
	}
	c, _ := d.Companies.Get(ticker)
	articles := make([]Article, 0, len(c.ArticleDetails))
	for _, a := range c.ArticleDetails {
		if a.URL == "" {
			continue
		}
		if a.Headline == "" {
			a.Headline = NoHeadline
		}
		if a.Source == "" {
			a.Source = UnknownSource
		}
		articles = append(articles, a)
	}
	return NewTickerNewsSet(ticker, articles)
}

// EarningsDays regroups the document's companies by announcement date, ascending.
// Tickers keep document order within a day.
func (d *NewsDocument) EarningsDays() []EarningsDay {
	if d == nil || d.Companies == nil {
		return nil
	}
	index := make(map[string]int)
	var days []EarningsDay
	for pair := d.Companies.Oldest(); pair != nil; pair = pair.Next() {
		key := pair.Value.EarningsDate
		i, ok := index[key]
		if !ok {
			date, _ := time.Parse(DateLayout, key)
			days = append(days, EarningsDay{Date: date, DayName: pair.Value.EarningsDay})
			i = len(days) - 1
			index[key] = i
		}
		days[i].Tickers = append(days[i].Tickers, pair.Key)
	}
	sort.SliceStable(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days
}
