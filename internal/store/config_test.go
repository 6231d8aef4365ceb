package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("NEWS_PROVIDER", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("RUNLOG_DIR", "")

	c, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 30, c.News.LookbackDays)
	assert.Equal(t, 1100*time.Millisecond, c.News.RequestDelay)
	assert.Equal(t, 50, c.News.CooldownEvery)
	assert.Equal(t, 65*time.Second, c.News.Cooldown)
	assert.Equal(t, 15, c.Scoring.MaxArticles)
	assert.Equal(t, "GROQ", c.LLM.Provider)
	assert.Equal(t, "llama-3.3-70b-versatile", c.LLM.Model)
	assert.Equal(t, "GROQ_API_KEY", c.LLM.APIKeyEnv)
	assert.True(t, c.Calendar.ServerSideFilter)
	assert.Equal(t, "earnings_sentiment_analysis.json", c.Output.ReportFile)
}

func TestLoadConfigOverlaysFile(t *testing.T) {
	t.Setenv("NEWS_PROVIDER", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("RUNLOG_DIR", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
calendar:
  server_side_filter: false
news:
  provider: feed
  request_delay: 250ms
llm:
  provider: claude
retry:
  max_attempts: 5
  initial_wait: 2s
`), 0o644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, c.Calendar.ServerSideFilter)
	assert.Equal(t, "FEED", c.News.Provider)
	assert.Equal(t, 250*time.Millisecond, c.News.RequestDelay)
	assert.Equal(t, 30, c.News.LookbackDays)
	assert.Equal(t, "CLAUDE", c.LLM.Provider)
	assert.Equal(t, "ANTHROPIC_API_KEY", c.LLM.APIKeyEnv)
	assert.Equal(t, 5, c.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Second, c.Retry.InitialWait)
	assert.Equal(t, 10*time.Second, c.Retry.MaxWait)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("NEWS_PROVIDER", "finviz")
	t.Setenv("LLM_PROVIDER", "noop")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("RUNLOG_DIR", "/tmp/runs")

	c, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "FINVIZ", c.News.Provider)
	assert.Equal(t, "NOOP", c.LLM.Provider)
	assert.Equal(t, "/tmp/runs", c.Output.LogDir)
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	t.Setenv("NEWS_PROVIDER", "")
	t.Setenv("LLM_PROVIDER", "mystery")
	t.Setenv("LLM_MODEL", "")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.provider")
}

func TestWriteJSONReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	require.NoError(t, WriteJSON(path, map[string]int{"a": 1}))
	require.NoError(t, WriteJSON(path, map[string]int{"b": 2}))

	var got map[string]int
	require.NoError(t, ReadJSON(path, &got))
	assert.Equal(t, map[string]int{"b": 2}, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
