package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"earnings-sentiment/internal/api"
	"earnings-sentiment/internal/logger"
	"earnings-sentiment/internal/types"
)

const DefaultFinnhubURL = "https://finnhub.io/api/v1"

// Finnhub reads the /company-news endpoint.
type Finnhub struct {
	client *api.Client
	token  string
	retry  api.RetryConfig
}

func NewFinnhub(baseURL, token string, retry api.RetryConfig, opts ...api.ClientOption) (*Finnhub, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("finnhub api token is empty")
	}
	if baseURL == "" {
		baseURL = DefaultFinnhubURL
	}
	opts = append([]api.ClientOption{
		api.WithBaseURL(strings.TrimRight(baseURL, "/")),
		api.WithHeader("Accept", "application/json"),
		api.WithLogging(logger.IsDebugEnabled()),
	}, opts...)
	return &Finnhub{client: api.NewClient(opts...), token: token, retry: retry}, nil
}

func (f *Finnhub) Name() string { return "finnhub" }

type finnhubArticle struct {
	URL      string `json:"url"`
	Headline string `json:"headline"`
	Source   string `json:"source"`
	Datetime int64  `json:"datetime"`
}

func (f *Finnhub) CompanyNews(ctx context.Context, ticker string, from, to time.Time) ([]types.NewsItem, error) {
	req := api.NewRequest(http.MethodGet, "/company-news").
		WithContext(ctx).
		WithQuery(url.Values{
			"symbol": {ticker},
			"from":   {from.Format(types.DateLayout)},
			"to":     {to.Format(types.DateLayout)},
			"token":  {f.token},
		})

	resp, err := f.client.DoWithRetry(req, f.retry)
	if err != nil {
		return nil, err
	}

	var raw []finnhubArticle
	if err := resp.ParseJSON(&raw); err != nil {
		return nil, fmt.Errorf("finnhub news for %s: %w", ticker, err)
	}

	out := make([]types.NewsItem, 0, len(raw))
	for _, a := range raw {
		out = append(out, types.NewsItem(a))
	}
	return out, nil
}
