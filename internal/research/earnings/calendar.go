package earnings

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"earnings-sentiment/internal/api"
	"earnings-sentiment/internal/logger"
	"earnings-sentiment/internal/types"
)

// CalendarConfig describes the DoltHub SQL endpoint holding the earnings calendar.
type CalendarConfig struct {
	Endpoint         string
	Table            string
	DateField        string
	TickerField      string
	RowLimit         int
	ServerSideFilter bool
	Retry            api.RetryConfig
}

// CalendarClient reads the earnings calendar through the DoltHub SQL API.
type CalendarClient struct {
	cfg    CalendarConfig
	client *api.Client
}

func NewCalendarClient(cfg CalendarConfig, client *api.Client) *CalendarClient {
	if cfg.Table == "" {
		cfg.Table = "earnings_calendar"
	}
	if cfg.DateField == "" {
		cfg.DateField = "date"
	}
	if cfg.TickerField == "" {
		cfg.TickerField = "act_symbol"
	}
	if cfg.RowLimit <= 0 {
		cfg.RowLimit = 1000
	}
	if client == nil {
		client = api.NewClient(api.WithHeaders(api.DoltHubHeaders()))
	}
	return &CalendarClient{cfg: cfg, client: client}
}

type doltColumn struct {
	ColumnName string `json:"columnName"`
	ColumnType string `json:"columnType"`
}

type doltResponse struct {
	Status  string            `json:"query_execution_status"`
	Message string            `json:"query_execution_message"`
	Schema  []doltColumn      `json:"schema"`
	Rows    *[]map[string]any `json:"rows"`
}

// Query builds the SQL sent for window.
func (c *CalendarClient) Query(window types.WeekWindow) string {
	table := quoteIdent(c.cfg.Table)
	date := quoteIdent(c.cfg.DateField)
	if c.cfg.ServerSideFilter {
		return fmt.Sprintf("SELECT * FROM %s WHERE %s >= '%s' AND %s <= '%s' ORDER BY %s ASC LIMIT %d",
			table, date, window.Start.Format(types.DateLayout), date, window.End.Format(types.DateLayout), date, c.cfg.RowLimit)
	}
	return fmt.Sprintf("SELECT * FROM %s ORDER BY %s DESC LIMIT %d", table, date, c.cfg.RowLimit)
}

// Fetch returns the window's announcements grouped by day in ascending date
// order. It fails with ErrSourceUnavailable or ErrEmptyResult.
func (c *CalendarClient) Fetch(ctx context.Context, window types.WeekWindow) ([]types.EarningsDay, error) {
	req := api.NewRequest(http.MethodGet, c.cfg.Endpoint).
		WithContext(ctx).
		WithQuery(url.Values{"q": {c.Query(window)}})

	resp, err := c.client.DoWithRetry(req, c.cfg.Retry)
	if err != nil {
		return nil, classify(ErrSourceUnavailable, err)
	}

	var body doltResponse
	if err := resp.ParseJSON(&body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	if strings.EqualFold(body.Status, "error") {
		return nil, fmt.Errorf("%w: query failed: %s", ErrSourceUnavailable, body.Message)
	}
	if body.Rows == nil {
		return nil, fmt.Errorf("%w: response has no rows", ErrSourceUnavailable)
	}
	rows := *body.Rows
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: calendar returned no rows", ErrEmptyResult)
	}

	dateField, err := c.resolveDateField(rows, body.Schema)
	if err != nil {
		return nil, err
	}

	days := groupByDay(rows, dateField, c.cfg.TickerField, window)
	logger.Debug(ctx, "Calendar rows parsed", "rows", len(rows), "days", len(days), "week", window.String())
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyResult, window)
	}
	return days, nil
}

func (c *CalendarClient) resolveDateField(rows []map[string]any, schema []doltColumn) (string, error) {
	if _, ok := rows[0][c.cfg.DateField]; ok {
		return c.cfg.DateField, nil
	}
	if len(schema) > 0 && schema[0].ColumnName != "" {
		if _, ok := rows[0][schema[0].ColumnName]; ok {
			return schema[0].ColumnName, nil
		}
	}
	return "", fmt.Errorf("%w: date column %q not found", ErrSourceUnavailable, c.cfg.DateField)
}

func groupByDay(rows []map[string]any, dateField, tickerField string, window types.WeekWindow) []types.EarningsDay {
	index := make(map[string]int)
	seen := make(map[string]map[string]struct{})
	var days []types.EarningsDay

	for _, row := range rows {
		date, ok := parseRowDate(row[dateField])
		if !ok || !window.Contains(date) {
			continue
		}
		ticker := strings.TrimSpace(stringValue(row[tickerField]))
		if ticker == "" {
			continue
		}

		key := date.Format(types.DateLayout)
		i, ok := index[key]
		if !ok {
			days = append(days, types.EarningsDay{Date: date, DayName: date.Weekday().String()})
			i = len(days) - 1
			index[key] = i
			seen[key] = make(map[string]struct{})
		}
		if _, dup := seen[key][ticker]; dup {
			continue
		}
		seen[key][ticker] = struct{}{}
		days[i].Tickers = append(days[i].Tickers, ticker)
	}

	sort.SliceStable(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days
}

// parseRowDate accepts "2006-01-02" optionally followed by a time part.
func parseRowDate(v any) (time.Time, bool) {
	s := strings.TrimSpace(stringValue(v))
	if len(s) < len(types.DateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(types.DateLayout, s[:len(types.DateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func stringValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "") + "`"
}
