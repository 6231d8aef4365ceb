package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"earnings-sentiment/internal/api"
)

const DefaultConfigPath = "config.yaml"

type Config struct {
	Calendar struct {
		Endpoint         string        `yaml:"endpoint"`
		Table            string        `yaml:"table"`
		DateField        string        `yaml:"date_field"`
		TickerField      string        `yaml:"ticker_field"`
		RowLimit         int           `yaml:"row_limit"`
		ServerSideFilter bool          `yaml:"server_side_filter"`
		Timeout          time.Duration `yaml:"timeout"`
	} `yaml:"calendar"`
	News struct {
		Provider      string        `yaml:"provider"` // FINNHUB, FEED or FINVIZ
		BaseURL       string        `yaml:"base_url"`
		APIKeyEnv     string        `yaml:"api_key_env"`
		FeedURL       string        `yaml:"feed_url"`
		FinvizURL     string        `yaml:"finviz_url"`
		LookbackDays  int           `yaml:"lookback_days"`
		RequestDelay  time.Duration `yaml:"request_delay"`
		CooldownEvery int           `yaml:"cooldown_every"`
		Cooldown      time.Duration `yaml:"cooldown"`
		Timeout       time.Duration `yaml:"timeout"`
		Cache         struct {
			Enabled bool          `yaml:"enabled"`
			Dir     string        `yaml:"dir"`
			TTL     time.Duration `yaml:"ttl"`
		} `yaml:"cache"`
	} `yaml:"news"`
	LLM struct {
		Provider    string        `yaml:"provider"` // GROQ, OPENAI, CLAUDE, GEMINI or NOOP
		Model       string        `yaml:"model"`
		BaseURL     string        `yaml:"base_url"`
		APIKeyEnv   string        `yaml:"api_key_env"`
		Temperature float64       `yaml:"temperature"`
		MaxTokens   int           `yaml:"max_tokens"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"llm"`
	Scoring struct {
		MaxArticles int           `yaml:"max_articles"`
		MinInterval time.Duration `yaml:"min_interval"`
	} `yaml:"scoring"`
	Retry  api.RetryConfig `yaml:"retry"`
	Output struct {
		NewsFile          string `yaml:"news_file"`
		ReportFile        string `yaml:"report_file"`
		LogDir            string `yaml:"log_dir"`
		CompressAfterDays int    `yaml:"compress_after_days"`
	} `yaml:"output"`
}

type providerDefaults struct {
	baseURL   string
	model     string
	apiKeyEnv string
}

var llmDefaults = map[string]providerDefaults{
	"GROQ":   {baseURL: "https://api.groq.com/openai/v1", model: "llama-3.3-70b-versatile", apiKeyEnv: "GROQ_API_KEY"},
	"OPENAI": {baseURL: "https://api.openai.com/v1", model: "gpt-4o-mini", apiKeyEnv: "OPENAI_API_KEY"},
	"CLAUDE": {model: "claude-3-5-haiku-latest", apiKeyEnv: "ANTHROPIC_API_KEY"},
	"GEMINI": {model: "gemini-2.0-flash", apiKeyEnv: "GEMINI_API_KEY"},
	"NOOP":   {model: "noop"},
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var c Config

	c.Calendar.Endpoint = "https://www.dolthub.com/api/v1alpha1/post-no-preference/earnings/master"
	c.Calendar.Table = "earnings_calendar"
	c.Calendar.DateField = "date"
	c.Calendar.TickerField = "act_symbol"
	c.Calendar.RowLimit = 1000
	c.Calendar.ServerSideFilter = true
	c.Calendar.Timeout = 30 * time.Second

	c.News.Provider = "FINNHUB"
	c.News.BaseURL = "https://finnhub.io/api/v1"
	c.News.APIKeyEnv = "FINNHUB_API_KEY"
	c.News.FeedURL = "https://news.google.com/rss/search"
	c.News.FinvizURL = "https://finviz.com/quote.ashx"
	c.News.LookbackDays = 30
	c.News.RequestDelay = 1100 * time.Millisecond
	c.News.CooldownEvery = 50
	c.News.Cooldown = 65 * time.Second
	c.News.Timeout = 20 * time.Second
	c.News.Cache.Dir = ".cache/news"
	c.News.Cache.TTL = 6 * time.Hour

	c.LLM.Provider = "GROQ"
	c.LLM.Temperature = 0.1
	c.LLM.MaxTokens = 10
	c.LLM.Timeout = 60 * time.Second

	c.Scoring.MaxArticles = 15
	c.Scoring.MinInterval = 2 * time.Second

	c.Retry = api.DefaultRetryConfig()

	c.Output.NewsFile = "earnings_news_urls.json"
	c.Output.ReportFile = "earnings_sentiment_analysis.json"
	c.Output.LogDir = "logs"
	c.Output.CompressAfterDays = 7
	return c
}

func (c *Config) Validate() error {
	switch c.News.Provider {
	case "FINNHUB", "FEED", "FINVIZ":
	default:
		return fmt.Errorf("invalid news.provider '%s': must be 'FINNHUB', 'FEED' or 'FINVIZ'", c.News.Provider)
	}
	if _, ok := llmDefaults[c.LLM.Provider]; !ok {
		return fmt.Errorf("invalid llm.provider '%s': must be 'GROQ', 'OPENAI', 'CLAUDE', 'GEMINI' or 'NOOP'", c.LLM.Provider)
	}
	if c.Calendar.Endpoint == "" {
		return errors.New("calendar.endpoint cannot be empty")
	}
	if c.Calendar.RowLimit <= 0 {
		return fmt.Errorf("calendar.row_limit must be positive, got %d", c.Calendar.RowLimit)
	}
	if c.News.LookbackDays <= 0 {
		return fmt.Errorf("news.lookback_days must be positive, got %d", c.News.LookbackDays)
	}
	if c.News.RequestDelay < 0 || c.News.Cooldown < 0 || c.News.CooldownEvery < 0 {
		return errors.New("news pacing values cannot be negative")
	}
	if c.Scoring.MaxArticles <= 0 {
		return fmt.Errorf("scoring.max_articles must be positive, got %d", c.Scoring.MaxArticles)
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry.max_attempts must be positive, got %d", c.Retry.MaxAttempts)
	}
	if c.Output.NewsFile == "" || c.Output.ReportFile == "" {
		return errors.New("output.news_file and output.report_file cannot be empty")
	}
	return nil
}

// LoadConfig reads path over the defaults. An empty path resolves to
// $EARNINGS_CONFIG, then config.yaml; a missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("EARNINGS_CONFIG")
	}
	if path == "" {
		path = DefaultConfigPath
	}

	c := Default()
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	c.applyEnv()
	c.News.Provider = strings.ToUpper(c.News.Provider)
	c.LLM.Provider = strings.ToUpper(c.LLM.Provider)
	c.applyLLMDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("NEWS_PROVIDER"); v != "" {
		c.News.Provider = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("RUNLOG_DIR"); v != "" {
		c.Output.LogDir = v
	}
}

func (c *Config) applyLLMDefaults() {
	d, ok := llmDefaults[c.LLM.Provider]
	if !ok {
		return
	}
	if c.LLM.Model == "" {
		c.LLM.Model = d.model
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = d.baseURL
	}
	if c.LLM.APIKeyEnv == "" {
		c.LLM.APIKeyEnv = d.apiKeyEnv
	}
}
