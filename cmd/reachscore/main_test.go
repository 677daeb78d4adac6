package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elonfeng/reachscore/internal/store"
	"github.com/elonfeng/reachscore/pkg/score"
)

// writeConfig writes a config file whose database lives in a temp dir.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "database:\n  path: " + filepath.Join(dir, "history.db") + "\n" + extra
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := rootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &got))
	return got
}

func TestScoreJSON(t *testing.T) {
	cfg := writeConfig(t, "")
	out, err := execute(t, "", "score", "--config", cfg, "--json", "--post-position", "2", "--oon")
	require.NoError(t, err)

	got := decode(t, out)
	assert.ElementsMatch(t, []string{"score", "positive", "negative", "multipliers", "interpretation", "recommendations"}, keys(got))
	assert.Equal(t, map[string]any{"diversity": 0.45, "oon": 0.7, "age": 1.0}, got["multipliers"])
}

func TestScoreUsesConfigDefaults(t *testing.T) {
	cfg := writeConfig(t, `score:
  defaults:
    likes: 1.0
    replies: 0
    reposts: 0
    quotes: 0
    follow: 0
    profile_clicks: 0
    shares: 0
    dm_shares: 0
    dwell: 0
    not_interested: 0
    block: 0
    mute: 0
`)

	out, err := execute(t, "", "score", "--config", cfg, "--json")
	require.NoError(t, err)
	assert.Equal(t, 1.0, decode(t, out)["score"])

	out, err = execute(t, "", "score", "--config", cfg, "--json", "--likes", "0.5")
	require.NoError(t, err)
	assert.Equal(t, 0.5, decode(t, out)["score"])
}

func TestScoreText(t *testing.T) {
	cfg := writeConfig(t, "")
	out, err := execute(t, "", "score", "--config", cfg, "--has-video", "--video-views", "0.4")
	require.NoError(t, err)

	assert.Contains(t, out, "FINAL SCORE:")
	assert.Contains(t, out, "Video Bonus:                      Yes")
	assert.NotContains(t, out, "Recommendations:")

	out, err = execute(t, "", "score", "--config", cfg, "--likes", "0.1")
	require.NoError(t, err)
	assert.Contains(t, out, "Recommendations:")
	assert.Contains(t, out, "   • "+score.RecLowLikes)
}

func TestAnalyze(t *testing.T) {
	cfg := writeConfig(t, "")
	text := "hot take: this is terrible, fight me"

	out, err := execute(t, "", "analyze", "--config", cfg, "--json", "--oon", text)
	require.NoError(t, err)

	got := decode(t, out)
	probs := got["probabilities"].(map[string]any)
	assert.InDelta(t, 0.15, probs["not_interested"], 1e-9)
	mods := got["modifiers"].(map[string]any)
	assert.Equal(t, true, mods["is_out_of_network"])
	assert.Equal(t, 1.0, mods["post_position"])

	out, err = execute(t, "", "analyze", "--config", cfg, text)
	require.NoError(t, err)
	assert.Contains(t, out, "Negative Signals Detected:")
	assert.Contains(t, out, "FINAL SCORE:")
}

func TestAnalyzeRequiresText(t *testing.T) {
	cfg := writeConfig(t, "")
	_, err := execute(t, "", "analyze", "--config", cfg)
	assert.Error(t, err)
}

func TestDiversity(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := execute(t, "", "diversity", "--config", cfg, "--posts", "3", "--json")
	require.NoError(t, err)
	got := decode(t, out)
	assert.Len(t, got["data"], 3)
	assert.Equal(t, 3.0, got["diminishing_returns_after"])

	out, err = execute(t, "", "diversity", "--config", cfg, "--posts", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Post  1     |    100.00%    |  ████████████████████ 100.0%")
	assert.Contains(t, out, "Post  2     |    45.00%    |  "+strings.Repeat("█", 9)+strings.Repeat("░", 11)+" 45.0%")
	assert.Contains(t, out, "Posts after #3 receive diminishing returns.")
}

func TestDiversityConfigPosts(t *testing.T) {
	cfg := writeConfig(t, "diversity:\n  posts: 4\n")
	out, err := execute(t, "", "diversity", "--config", cfg, "--json")
	require.NoError(t, err)
	assert.Len(t, decode(t, out)["data"], 4)
}

func TestBatchFromFile(t *testing.T) {
	cfg := writeConfig(t, "")
	posts := filepath.Join(t.TempDir(), "posts.txt")
	require.NoError(t, os.WriteFile(posts, []byte("first post\n\nsecond post\nthird post\nfourth post\n"), 0o644))

	out, err := execute(t, "", "batch", "--config", cfg, "--file", posts, "--json")
	require.NoError(t, err)

	got := decode(t, out)
	assert.Equal(t, 4.0, got["post_count"])
	assert.Contains(t, got["recommendation"], "Warning: 4 posts from same author")

	out, err = execute(t, "", "batch", "--config", cfg, "--file", posts)
	require.NoError(t, err)
	assert.Contains(t, out, "Batch Analysis (4 posts)")
	assert.Contains(t, out, "(×0.10) - fourth post")
}

func TestBatchFromStdinAndArgs(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := execute(t, "one\ntwo\n", "batch", "--config", cfg, "--file", "-", "--json")
	require.NoError(t, err)
	assert.Equal(t, 2.0, decode(t, out)["post_count"])

	out, err = execute(t, "", "batch", "--config", cfg, "--json", "--same-author=false", "a", "b", "c", "d")
	require.NoError(t, err)
	results := decode(t, out)["results"].([]any)
	require.Len(t, results, 4)
	assert.Equal(t, 1.0, results[3].(map[string]any)["diversity_penalty"])
}

func TestBatchFromFeed(t *testing.T) {
	cfg := writeConfig(t, "")
	feed := filepath.Join(t.TempDir(), "feed.xml")
	require.NoError(t, os.WriteFile(feed, []byte(`<?xml version="1.0"?>
<rss version="2.0"><channel><title>someone</title>
<item><title>First post from the feed</title></item>
<item><description>Second post</description></item>
</channel></rss>`), 0o644))

	out, err := execute(t, "", "batch", "--config", cfg, "--feed", feed, "--json")
	require.NoError(t, err)
	assert.Equal(t, 2.0, decode(t, out)["post_count"])
}

func TestBatchNoPosts(t *testing.T) {
	cfg := writeConfig(t, "")
	_, err := execute(t, "", "batch", "--config", cfg)
	assert.ErrorIs(t, err, errNoPosts)
}

func TestSaveAndHistory(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := execute(t, "", "history", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "no saved runs")

	_, err = execute(t, "", "score", "--config", cfg, "--save")
	require.NoError(t, err)
	_, err = execute(t, "", "analyze", "--config", cfg, "--save", "What do you think?")
	require.NoError(t, err)

	out, err = execute(t, "", "history", "--config", cfg, "--json")
	require.NoError(t, err)
	var runs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 2)
	assert.Equal(t, "analyze", runs[0]["kind"])
	assert.Equal(t, "score", runs[1]["kind"])

	out, err = execute(t, "", "history", "--config", cfg, "--kind", "analyze")
	require.NoError(t, err)
	assert.Contains(t, out, "What do you think?")
	assert.Contains(t, out, "saved runs: analyze 1, score 1")

	id := fmt.Sprint(int64(runs[0]["id"].(float64)))
	out, err = execute(t, "", "history", "--config", cfg, "--id", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Run #"+id+" (analyze)")
	assert.Contains(t, out, "Input:\nWhat do you think?")

	out, err = execute(t, "", "history", "--config", cfg, "--id", id, "--json")
	require.NoError(t, err)
	assert.Equal(t, "What do you think?", decode(t, out)["input"])

	_, err = execute(t, "", "history", "--config", cfg, "--id", "999")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  format: xml\n"), 0o644))

	_, err := execute(t, "", "score", "--config", path)
	assert.ErrorContains(t, err, "load config")
}

func TestBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("█", 20), bar(100))
	assert.Equal(t, strings.Repeat("█", 2)+strings.Repeat("░", 18), bar(10))
	assert.Equal(t, strings.Repeat("░", 20), bar(-5))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
