package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/abhisek/p5math/internal/config"
	"github.com/abhisek/p5math/internal/llm"
	"github.com/abhisek/p5math/internal/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	cfg.LLM.Provider = llm.ProviderMock
	cfg.Database.Driver = store.DriverSQLite
	cfg.Database.DSN = filepath.Join(t.TempDir(), "p5math.db")
	cfg.Server.Port = "0"
	cfg.Server.Mode = "test"
	return cfg
}

func strPtr(s string) *string { return &s }

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "p5math "+version+"\n", out.String())
}

func TestHistoryCommandEmpty(t *testing.T) {
	var out bytes.Buffer
	db := filepath.Join(t.TempDir(), "data", "p5math.db")
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"history", "--db", db, "--env-dir", t.TempDir()})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "No problems generated yet.")
	assert.FileExists(t, db)
}

func TestServeOptionsValidate(t *testing.T) {
	require.NoError(t, fx.ValidateApp(serveOptions(testConfig(t))...))
}

func TestServeAppStartStop(t *testing.T) {
	app := newServeApp(testConfig(t))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx))
	require.NoError(t, app.Stop(ctx))
}

func TestServeAppMissingCredential(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLM.Provider = llm.ProviderOpenAI
	cfg.LLM.OpenAI.APIKey = ""

	app := newServeApp(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := app.Start(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestRenderSession(t *testing.T) {
	s := &store.Session{
		ID:            "abc-123",
		ProblemText:   "Ali has 3 apples.",
		CorrectAnswer: 2.5,
		SubStrand:     strPtr("Fractions"),
		Difficulty:    strPtr("easy"),
	}

	hidden := ansi.Strip(renderSession(s, false))
	assert.Contains(t, hidden, "Ali has 3 apples.")
	assert.Contains(t, hidden, "Fractions")
	assert.Contains(t, hidden, "easy")
	assert.NotContains(t, hidden, "2.5")

	shown := ansi.Strip(renderSession(s, true))
	assert.Contains(t, shown, "2.5")
}

func TestRenderHistory(t *testing.T) {
	sessions := []store.Session{
		{
			ID:            "s1",
			ProblemText:   "What is 1/2 of 10?",
			CorrectAnswer: 5,
			Submissions: []store.Submission{
				{UserAnswer: 5, IsCorrect: true, FeedbackText: "Well done."},
				{UserAnswer: 4, IsCorrect: false, FeedbackText: "Check your halving."},
			},
		},
		{ID: "s2", ProblemText: "What is 3 x 4?", CorrectAnswer: 12},
	}

	out := ansi.Strip(renderHistory(sessions))
	assert.Contains(t, out, "What is 1/2 of 10?")
	assert.Contains(t, out, "Well done.")
	assert.Contains(t, out, "Check your halving.")
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "✗")
	assert.Contains(t, out, "No submissions yet.")
}

func TestWriteUsage(t *testing.T) {
	byPurpose := []store.LLMUsage{
		{Key: "problem-gen", Calls: 2, InputTokens: 1000, OutputTokens: 200, AvgLatencyMs: 900},
		{Key: "feedback", Calls: 1, InputTokens: 300, OutputTokens: 50, AvgLatencyMs: 400},
	}
	byModel := []store.LLMUsage{
		{Key: "gpt-4o-mini", Calls: 2, InputTokens: 1000, OutputTokens: 200},
		{Key: "some-local-model", Calls: 1, InputTokens: 300, OutputTokens: 50},
	}

	var buf bytes.Buffer
	require.NoError(t, writeUsage(&buf, byPurpose, byModel))
	out := ansi.Strip(buf.String())

	assert.Contains(t, out, "problem-gen")
	assert.Contains(t, out, "1550")
	assert.Contains(t, out, "TOTAL (partial)")
	assert.Contains(t, out, "Pricing unavailable for: some-local-model")
	assert.Contains(t, out, "$0.0003")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "ünïc…", truncate("ünïcode", 5))
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0050", formatCost(0.005))
	assert.Equal(t, "$1.25", formatCost(1.25))
}
