package earnings

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"earnings-sentiment/internal/api"
	"earnings-sentiment/internal/interfaces"
	"earnings-sentiment/internal/logger"
	"earnings-sentiment/internal/types"
)

// ScorerConfig bounds prompt size and call rate.
type ScorerConfig struct {
	MaxArticles int
	MinInterval time.Duration
	Retry       api.RetryConfig
}

// Scorer asks a language model for one sentiment score per ticker.
type Scorer struct {
	completer interfaces.Completer
	cfg       ScorerConfig
	pacer     *Pacer
}

func NewScorer(completer interfaces.Completer, cfg ScorerConfig) *Scorer {
	if cfg.MaxArticles <= 0 {
		cfg.MaxArticles = 15
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = 1
	}
	return &Scorer{
		completer: completer,
		cfg:       cfg,
		pacer:     NewPacer(cfg.MinInterval, 0, 0),
	}
}

// Score never fails: service errors and unparseable replies yield a score of 0.
func (s *Scorer) Score(ctx context.Context, ticker string, when types.Announcement, set types.TickerNewsSet) types.SentimentResult {
	result := types.SentimentResult{
		Ticker:                 ticker,
		TotalArticlesAvailable: len(set.Articles),
	}

	selected := set.Qualifying()
	if len(selected) == 0 {
		logger.Debug(ctx, "No qualifying articles, skipping scoring call", "ticker", ticker)
		return result
	}
	if len(selected) > s.cfg.MaxArticles {
		selected = selected[:s.cfg.MaxArticles]
	}
	prompt := BuildPrompt(ticker, when, selected)

	if err := s.pacer.Wait(ctx); err != nil {
		logger.TickerFailure(ctx, ticker, KindScoringService, classify(ErrScoringService, err))
		return result
	}

	var reply string
	err := api.Retry(ctx, s.cfg.Retry, func(ctx context.Context) error {
		var err error
		reply, err = s.completer.Complete(ctx, SystemPrompt, prompt)
		return err
	})
	if err != nil {
		err = classify(ErrScoringService, err)
		logger.TickerFailure(ctx, ticker, failureKind(KindScoringService, err), err)
		return result
	}

	score, ok := ParseScore(reply)
	if !ok {
		logger.Info(ctx, "No score in model reply, using 0",
			"ticker", ticker,
			"kind", KindMalformedScore,
			"reply", truncateReply(reply))
	}
	result.SentimentScore = score
	result.ArticlesAnalyzed = len(selected)
	return result
}

var (
	scorePattern = regexp.MustCompile(`[+-]?\d+`)
	// models sometimes answer with typographic signs
	signReplacer = strings.NewReplacer("\u2212", "-", "\uFE63", "-", "\uFF0D", "-", "\uFF0B", "+")
)

// ExtractScore returns the first signed integer in text, unclamped.
// Values beyond the int range saturate.
func ExtractScore(text string) (int, bool) {
	m := scorePattern.FindString(signReplacer.Replace(text))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		// only a range error is possible for a matched literal
		if strings.HasPrefix(m, "-") {
			return types.MinScore, true
		}
		return types.MaxScore, true
	}
	return n, true
}

// ParseScore extracts the score from a model reply and clamps it into
// [-10, 10]. Without an integer the score is 0 and ok is false.
func ParseScore(text string) (score int, ok bool) {
	n, ok := ExtractScore(text)
	if !ok {
		return 0, false
	}
	return Clamp(n), true
}

func Clamp(n int) int {
	if n < types.MinScore {
		return types.MinScore
	}
	if n > types.MaxScore {
		return types.MaxScore
	}
	return n
}

const maxReplyLog = 120

// truncateReply shortens a reply for logging without splitting a rune.
func truncateReply(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) > maxReplyLog {
		return string(r[:maxReplyLog]) + "..."
	}
	return s
}
