package news

import (
	"fmt"
	"os"

	"earnings-sentiment/internal/api"
	"earnings-sentiment/internal/interfaces"
	"earnings-sentiment/internal/store"
)

// NewProvider builds the news provider selected in cfg, wrapped in the file
// cache when enabled.
func NewProvider(cfg *store.Config) (interfaces.NewsProvider, error) {
	var provider interfaces.NewsProvider
	switch cfg.News.Provider {
	case "FINNHUB":
		token := os.Getenv(cfg.News.APIKeyEnv)
		if token == "" {
			return nil, fmt.Errorf("%s environment variable not set", cfg.News.APIKeyEnv)
		}
		f, err := NewFinnhub(cfg.News.BaseURL, token, cfg.Retry, api.WithTimeout(cfg.News.Timeout))
		if err != nil {
			return nil, err
		}
		provider = f
	case "FEED":
		provider = NewFeed(cfg.News.FeedURL, cfg.News.Timeout)
	case "FINVIZ":
		provider = NewFinviz(cfg.News.FinvizURL, cfg.News.Timeout)
	default:
		return nil, fmt.Errorf("unknown news provider %q", cfg.News.Provider)
	}

	if !cfg.News.Cache.Enabled {
		return provider, nil
	}
	cache, err := NewCache(cfg.News.Cache.Dir, cfg.News.Cache.TTL)
	if err != nil {
		return nil, err
	}
	_, _ = cache.CleanupExpired()
	return NewCachedProvider(provider, cache), nil
}
