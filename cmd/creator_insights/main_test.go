package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/creator-analytics/internal/trends"
	"github.com/jonathan/creator-analytics/internal/types"
)

// execute runs the CLI in-process and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// isolateEnv keeps developer keys and .env files out of command runs.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range []string{"APIFY_API_TOKEN", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "LLM_PROVIDER", "POSTING_TIMEZONE", "REDDIT_SUBREDDITS"} {
		t.Setenv(key, "")
	}
}

const rawTikTok = `[{
	"id": "7301",
	"text": "POV: brisket at 6am #bbq",
	"createTimeISO": "2026-09-01T18:30:00.000Z",
	"playCount": 120000,
	"diggCount": 9800,
	"commentCount": 410,
	"shareCount": 220
}]`

func TestNormalizeCommand(t *testing.T) {
	path := writeFile(t, "raw.json", rawTikTok)

	out, err := execute(t, "", "normalize", "--platform", "tiktok", "--input", path, "--followers", "50000")
	require.NoError(t, err)

	var posts []types.Post
	require.NoError(t, json.Unmarshal([]byte(out), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "7301", posts[0].ID)
	assert.Equal(t, int64(9800), posts[0].Metrics.Likes)
	assert.Equal(t, 20.9, posts[0].EngagementRate)
}

func TestNormalizeCommand_Stdin(t *testing.T) {
	out, err := execute(t, "[]", "normalize", "-p", "instagram", "-i", "-")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestNormalizeCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		stdin   string
		wantErr string
	}{
		{"missing platform", []string{"normalize", "--input", "-"}, "[]", "required flag"},
		{"unknown platform", []string{"normalize", "-p", "myspace", "-i", "-"}, "[]", "unknown platform"},
		{"not an array", []string{"normalize", "-p", "tiktok", "-i", "-"}, `{"id": 1}`, "not a JSON array"},
		{"missing file", []string{"normalize", "-p", "tiktok", "-i", "/nonexistent/raw.json"}, "", "failed to read input file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.stdin, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAnalyzeCommand_Demo(t *testing.T) {
	out, err := execute(t, "", "analyze", "--demo")
	require.NoError(t, err)
	assert.Contains(t, out, "PERFORMANCE SUMMARY")
	assert.Contains(t, out, "75,200")
	assert.Contains(t, out, "TOP HASHTAGS")
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	out, err := execute(t, "", "analyze", "--demo", "--json")
	require.NoError(t, err)

	var result struct {
		Summary struct {
			TotalLikes        int64   `json:"totalLikes"`
			AvgEngagementRate float64 `json:"avgEngagementRate"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, int64(75200), result.Summary.TotalLikes)
	assert.Equal(t, 5.4, result.Summary.AvgEngagementRate)
}

func TestAnalyzeCommand_FollowersAndConfigFile(t *testing.T) {
	posts := `[{"id":"a","metrics":{"likes":90,"comments":10},"engagementRate":1},
	           {"id":"b","metrics":{"likes":180,"comments":20},"engagementRate":1}]`
	cfgPath := writeFile(t, "defaults.json", `{"followers": 1000, "timezone": "America/Chicago"}`)

	out, err := execute(t, posts, "analyze", "-i", "-", "--json", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"avgEngagementRate": 15`)
}

func TestAnalyzeCommand_Errors(t *testing.T) {
	_, err := execute(t, "", "analyze")
	assert.ErrorContains(t, err, "--input is required")

	_, err = execute(t, "", "analyze", "--demo", "--timezone", "Mars/Base")
	assert.ErrorContains(t, err, "timezone")

	cfgPath := writeFile(t, "bad.json", `{"platform": "myspace"}`)
	_, err = execute(t, "", "analyze", "--demo", "--config", cfgPath)
	assert.ErrorContains(t, err, "unknown platform")
}

func TestReportCommand_PromptOnly(t *testing.T) {
	isolateEnv(t)
	out, err := execute(t, "", "report", "--demo", "--prompt-only", "--username", "atxeats", "--niche", "Austin food")
	require.NoError(t, err)
	assert.Contains(t, out, "Only cite numbers")
	assert.Contains(t, out, "Username: atxeats")
	assert.Contains(t, out, "184,000")
}

func TestReportCommand_FallsBackWithoutKey(t *testing.T) {
	isolateEnv(t)
	out, err := execute(t, "", "report", "--demo", "--json")
	require.NoError(t, err)

	var rep types.AIReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.True(t, rep.Fallback)
	assert.Len(t, rep.Sections, 6)
}

func TestReportCommand_UsesAnthropic(t *testing.T) {
	isolateEnv(t)
	reportJSON := `{"sections":[` +
		`{"icon":"📊","title":"Performance Summary","body":"Strong month."},` +
		`{"icon":"📈","title":"Trend Alignment","body":"On trend."},` +
		`{"icon":"⏰","title":"Posting Optimization","body":"Post at 18:00."},` +
		`{"icon":"💡","title":"Content Insights","body":"Reels win."},` +
		`{"icon":"🔥","title":"Trending Opportunities","bullets":["Smash burgers"]},` +
		`{"icon":"✅","title":"Recommendations","bullets":["Tag collaborators"]}]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": "```json\n" + reportJSON + "\n```"}},
		})
	}))
	defer srv.Close()

	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	t.Setenv("LLM_BASE_URL", srv.URL)

	out, err := execute(t, "", "report", "--demo")
	require.NoError(t, err)
	assert.Contains(t, out, "📊 PERFORMANCE SUMMARY")
	assert.Contains(t, out, "Strong month.")
	assert.NotContains(t, out, "static report")
}

func TestTrendsCommand_RedditLive(t *testing.T) {
	isolateEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/austinfood/top.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"children":[{"data":{"id":"abc","title":"Best breakfast tacos?","subreddit":"austinfood","ups":412,"num_comments":88,"permalink":"/r/austinfood/comments/abc/","created_utc":1759300000}}]}}`))
	}))
	defer srv.Close()
	t.Setenv("REDDIT_BASE_URL", srv.URL)

	out, err := execute(t, "", "trends", "--source", "reddit", "--subreddit", "austinfood", "--json")
	require.NoError(t, err)

	var result trends.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.NotNil(t, result.Reddit)
	assert.False(t, result.Reddit.Fallback)
	require.Len(t, result.Reddit.Posts, 1)
	assert.Equal(t, int64(412), result.Reddit.Posts[0].Upvotes)
	assert.Nil(t, result.Instagram)
}

func TestTrendsCommand_FallbackWithoutToken(t *testing.T) {
	isolateEnv(t)
	out, err := execute(t, "", "trends", "--source", "tiktok")
	require.NoError(t, err)
	assert.Contains(t, out, "TIKTOK PRODUCTS (demo data)")
}

func TestTrendsCommand_BadSource(t *testing.T) {
	_, err := execute(t, "", "trends", "--source", "myspace")
	assert.ErrorContains(t, err, "unknown trend source")
}
