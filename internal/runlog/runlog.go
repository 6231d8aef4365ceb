package runlog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"earnings-sentiment/internal/logger"
	"earnings-sentiment/internal/types"
)

// Entry is one scored ticker as written to the daily JSONL file.
type Entry struct {
	Time     string `json:"time"`
	RunID    string `json:"run_id,omitempty"`
	Ticker   string `json:"ticker"`
	Score    int    `json:"sentiment_score"`
	Analyzed int    `json:"articles_analyzed"`
	Total    int    `json:"total_articles_available"`
}

// Log appends results to <dir>/<YYYY-MM-DD>.jsonl.
type Log struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

func New(dir string) *Log {
	if dir == "" {
		dir = "logs"
	}
	return &Log{dir: dir, now: time.Now}
}

func (l *Log) Dir() string { return l.dir }

func (l *Log) dailyFilepath(t time.Time) string {
	return filepath.Join(l.dir, t.Format(types.DateLayout)+".jsonl")
}

func (l *Log) Append(ctx context.Context, r types.SentimentResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e := Entry{
		Time:     now.Format(time.RFC3339),
		RunID:    logger.RunID(ctx),
		Ticker:   r.Ticker,
		Score:    r.SentimentScore,
		Analyzed: r.ArticlesAnalyzed,
		Total:    r.TotalArticlesAvailable,
	}

	p := l.dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// Sink adapts Append to a result callback; write failures are logged, not fatal.
func (l *Log) Sink() func(ctx context.Context, r types.SentimentResult) {
	return func(ctx context.Context, r types.SentimentResult) {
		if err := l.Append(ctx, r); err != nil {
			logger.Warn(ctx, "Failed to append run log entry", "ticker", r.Ticker, "error", err)
		}
	}
}

// CompressOlder gzips daily files last modified more than retentionDays ago
// and returns how many were compressed.
func (l *Log) CompressOlder(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := l.now().AddDate(0, 0, -retentionDays)

	compressed := 0
	err := filepath.WalkDir(l.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".jsonl") {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := gzipFile(p); err != nil {
			return fmt.Errorf("compress %s: %w", p, err)
		}
		compressed++
		return nil
	})
	return compressed, err
}

func gzipFile(p string) error {
	gz := p + ".gz"
	// already compressed by an earlier run
	if _, err := os.Stat(gz); err == nil {
		return os.Remove(p)
	}

	in, err := os.Open(p)
	if err != nil {
		return err
	}
	err = writeGzip(gz, in)
	// in must be closed before p is removed
	if cerr := in.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(gz)
		return err
	}
	return os.Remove(p)
}

func writeGzip(dst string, src io.Reader) error {
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, src); err != nil {
		_ = gw.Close()
		_ = out.Close()
		return err
	}
	if err := gw.Close(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
