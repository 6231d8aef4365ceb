package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekWindowStringRoundTrip(t *testing.T) {
	w := NewWeekWindow(time.Date(2025, 9, 22, 15, 4, 0, 0, time.UTC))
	assert.Equal(t, "2025-09-22 to 2025-09-28", w.String())

	parsed, err := ParseWeekWindow(w.String())
	require.NoError(t, err)
	assert.True(t, parsed.Start.Equal(w.Start))
	assert.True(t, parsed.End.Equal(w.End))

	_, err = ParseWeekWindow("2025-09-22 to 2025-09-30")
	assert.Error(t, err)
	_, err = ParseWeekWindow("2025-09-22")
	assert.Error(t, err)
}

func TestWeekWindowContainsIsInclusive(t *testing.T) {
	w := NewWeekWindow(time.Date(2025, 9, 22, 0, 0, 0, 0, time.UTC))
	assert.True(t, w.Contains(time.Date(2025, 9, 22, 0, 0, 0, 0, time.UTC)))
	assert.True(t, w.Contains(time.Date(2025, 9, 28, 23, 59, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2025, 9, 21, 23, 59, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC)))
}

func TestTickerNewsSetSourcesAndQualifying(t *testing.T) {
	set := NewTickerNewsSet("AAA", []Article{
		{URL: "u1", Headline: "h1", Source: "Reuters"},
		{URL: "u2", Headline: NoHeadline, Source: "Bloomberg"},
		{URL: "u3", Headline: "h3", Source: "Reuters"},
	})

	assert.Equal(t, []string{"Bloomberg", "Reuters"}, set.UniqueSources)
	q := set.Qualifying()
	require.Len(t, q, 2)
	assert.Equal(t, "u1", q[0].URL)
	assert.Equal(t, "u3", q[1].URL)
}

func TestNewsDocumentPreservesOrderThroughJSON(t *testing.T) {
	w := NewWeekWindow(time.Date(2025, 9, 22, 0, 0, 0, 0, time.UTC))
	doc := NewNewsDocument(w, time.Date(2025, 9, 20, 10, 0, 0, 0, time.UTC))
	mon := EarningsDay{Date: w.Start, DayName: "Monday"}
	tue := EarningsDay{Date: w.Start.AddDate(0, 0, 1), DayName: "Tuesday"}

	assert.True(t, doc.Add("ZZZ", mon, NewTickerNewsSet("ZZZ", []Article{{URL: "u", Headline: "h", Source: "s"}})))
	assert.True(t, doc.Add("AAA", tue, NewTickerNewsSet("AAA", nil)))
	assert.True(t, doc.Add("MMM", mon, NewTickerNewsSet("MMM", nil)))
	assert.False(t, doc.Add("ZZZ", tue, NewTickerNewsSet("ZZZ", nil)))
	assert.Equal(t, 3, doc.TotalCompanies)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var back NewsDocument
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, []string{"ZZZ", "AAA", "MMM"}, back.Tickers())

	days := back.EarningsDays()
	require.Len(t, days, 2)
	assert.Equal(t, []string{"ZZZ", "MMM"}, days[0].Tickers)
	assert.Equal(t, []string{"AAA"}, days[1].Tickers)

	a := back.Announcement("AAA")
	assert.Equal(t, "2025-09-23", a.DateString())
	assert.Equal(t, "Tuesday", a.DayString())
	assert.Equal(t, "Unknown", back.Announcement("NOPE").DateString())

	set := back.NewsSet("ZZZ")
	require.Len(t, set.Articles, 1)
	assert.Equal(t, []string{"s"}, set.UniqueSources)

	win, err := back.Window()
	require.NoError(t, err)
	assert.True(t, win.Start.Equal(w.Start))
}

func TestNewsSetReappliesDefaults(t *testing.T) {
	raw := `{"earnings_week":"2025-09-22 to 2025-09-28","generated_at":"","total_companies":1,
	"companies":{"AAA":{"earnings_date":"2025-09-22","earnings_day":"Monday","article_count":3,
	"urls":[],"article_details":[{"url":"u1"},{"url":"","headline":"dropped"},{"url":"u2","headline":"h","source":"S"}]}}}`

	var doc NewsDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	set := doc.NewsSet("AAA")
	require.Len(t, set.Articles, 2)
	assert.Equal(t, NoHeadline, set.Articles[0].Headline)
	assert.Equal(t, UnknownSource, set.Articles[0].Source)
	assert.Len(t, set.Qualifying(), 1)
}
