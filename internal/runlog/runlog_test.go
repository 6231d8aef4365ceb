package runlog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"earnings-sentiment/internal/logger"
	"earnings-sentiment/internal/types"
)

func fixedLog(t *testing.T, now time.Time) *Log {
	l := New(t.TempDir())
	l.now = func() time.Time { return now }
	return l
}

func TestAppendWritesDailyJSONL(t *testing.T) {
	now := time.Date(2025, 9, 29, 14, 0, 0, 0, time.UTC)
	l := fixedLog(t, now)
	ctx := logger.WithRunID(context.Background(), "run-1")

	sink := l.Sink()
	sink(ctx, types.SentimentResult{Ticker: "AAA", SentimentScore: 4, ArticlesAnalyzed: 3, TotalArticlesAvailable: 3})
	sink(ctx, types.SentimentResult{Ticker: "BBB"})

	f, err := os.Open(filepath.Join(l.Dir(), "2025-09-29.jsonl"))
	require.NoError(t, err)
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		entries = append(entries, e)
	}
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Time: "2025-09-29T14:00:00Z", RunID: "run-1", Ticker: "AAA", Score: 4, Analyzed: 3, Total: 3}, entries[0])
	assert.Equal(t, "BBB", entries[1].Ticker)
}

func TestCompressOlder(t *testing.T) {
	now := time.Date(2025, 9, 29, 14, 0, 0, 0, time.UTC)
	l := fixedLog(t, now)

	oldPath := filepath.Join(l.Dir(), "2025-09-01.jsonl")
	newPath := filepath.Join(l.Dir(), "2025-09-28.jsonl")
	require.NoError(t, os.WriteFile(oldPath, []byte(`{"ticker":"OLD"}`+"\n"), 0o644))
	require.NoError(t, os.WriteFile(newPath, []byte(`{"ticker":"NEW"}`+"\n"), 0o644))
	require.NoError(t, os.Chtimes(oldPath, now.AddDate(0, 0, -20), now.AddDate(0, 0, -20)))
	require.NoError(t, os.Chtimes(newPath, now.AddDate(0, 0, -1), now.AddDate(0, 0, -1)))

	n, err := l.CompressOlder(7)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.NoFileExists(t, oldPath)
	assert.FileExists(t, newPath)

	f, err := os.Open(oldPath + ".gz")
	require.NoError(t, err)
	defer f.Close()
	gr, err := gzip.NewReader(f)
	require.NoError(t, err)
	b, err := io.ReadAll(gr)
	require.NoError(t, err)
	assert.Contains(t, string(b), "OLD")
}

func TestCompressOlderMissingDirOrDisabled(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "absent"))
	n, err := l.CompressOlder(7)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = l.CompressOlder(0)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGzipFileReplacesSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "2025-09-01.jsonl")
	require.NoError(t, os.WriteFile(src, []byte(`{"ticker":"AAA"}`+"\n"), 0o644))

	err := writeGzip(filepath.Join(dir, "missing", "out.gz"), strings.NewReader("x"))
	assert.Error(t, err)

	require.NoError(t, gzipFile(src))
	assert.NoFileExists(t, src)
	assert.FileExists(t, src+".gz")

	// a second pass over a restored source only drops the duplicate
	require.NoError(t, os.WriteFile(src, []byte("again\n"), 0o644))
	require.NoError(t, gzipFile(src))
	assert.NoFileExists(t, src)
}
