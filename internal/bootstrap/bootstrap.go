// Package bootstrap wires configuration, observability and the pipeline
// components shared by the calendar and sentiment commands.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"earnings-sentiment/internal/api"
	"earnings-sentiment/internal/interfaces"
	"earnings-sentiment/internal/llm"
	"earnings-sentiment/internal/logger"
	"earnings-sentiment/internal/news"
	"earnings-sentiment/internal/research/earnings"
	"earnings-sentiment/internal/research/earnings/earningsobs"
	"earnings-sentiment/internal/runlog"
	"earnings-sentiment/internal/store"
	"earnings-sentiment/internal/trace"
)

// Init loads .env, then starts the logger and tracer. The returned func
// flushes the tracer.
func Init() (func(), error) {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = trace.Shutdown(ctx)
	}, nil
}

// WithRun tags ctx with a fresh run id.
func WithRun(ctx context.Context) context.Context {
	return logger.WithRunID(ctx, uuid.NewString())
}

func LoadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

func NewCalendar(cfg *store.Config) interfaces.CalendarClient {
	client := api.NewClient(
		api.WithHeaders(api.DoltHubHeaders()),
		api.WithTimeout(cfg.Calendar.Timeout),
		api.WithLogging(logger.IsDebugEnabled()),
	)
	c := earnings.NewCalendarClient(earnings.CalendarConfig{
		Endpoint:         cfg.Calendar.Endpoint,
		Table:            cfg.Calendar.Table,
		DateField:        cfg.Calendar.DateField,
		TickerField:      cfg.Calendar.TickerField,
		RowLimit:         cfg.Calendar.RowLimit,
		ServerSideFilter: cfg.Calendar.ServerSideFilter,
		Retry:            cfg.Retry,
	}, client)
	return earningsobs.WrapCalendar(c)
}

func NewCollector(cfg *store.Config) (interfaces.NewsCollector, error) {
	provider, err := news.NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create news provider: %w", err)
	}
	c := earnings.NewCollector(provider, earnings.CollectorConfig{
		LookbackDays:  cfg.News.LookbackDays,
		RequestDelay:  cfg.News.RequestDelay,
		CooldownEvery: cfg.News.CooldownEvery,
		Cooldown:      cfg.News.Cooldown,
	})
	return earningsobs.WrapCollector(c), nil
}

// NewScorer builds the scoring-service client and checks it once.
func NewScorer(ctx context.Context, cfg *store.Config) (interfaces.SentimentScorer, error) {
	completer, err := llm.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	timeout := cfg.LLM.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := llm.HealthCheck(checkCtx, completer); err != nil {
		return nil, err
	}
	logger.Info(ctx, "Scoring service reachable", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)

	s := earnings.NewScorer(completer, earnings.ScorerConfig{
		MaxArticles: cfg.Scoring.MaxArticles,
		MinInterval: cfg.Scoring.MinInterval,
		Retry:       cfg.Retry,
	})
	return earningsobs.WrapScorer(s), nil
}

// NewRunLog opens the run log and compresses files past retention.
func NewRunLog(ctx context.Context, cfg *store.Config) *runlog.Log {
	l := runlog.New(cfg.Output.LogDir)
	n, err := l.CompressOlder(cfg.Output.CompressAfterDays)
	if err != nil {
		logger.Warn(ctx, "Failed to compress old run logs", "error", err)
	} else if n > 0 {
		logger.Info(ctx, "Compressed old run logs", "files", n, "dir", l.Dir())
	}
	return l
}
