package report

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/creator-analytics/internal/fixtures"
	"github.com/jonathan/creator-analytics/internal/llm"
	"github.com/jonathan/creator-analytics/internal/trends"
	"github.com/jonathan/creator-analytics/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validReport = `{
  "sections": [
    {"icon": "📊", "title": "Performance Summary", "body": "Strong month."},
    {"icon": "📈", "title": "Trend Alignment", "body": "On trend."},
    {"icon": "⏰", "title": "Posting Optimization", "body": "Post at 18:00."},
    {"icon": "💡", "title": "Content Insights", "body": "Reels win."},
    {"icon": "🔥", "title": "Trending Opportunities", "bullets": ["Smash burgers"]},
    {"icon": "✅", "title": "Recommendations", "bullets": ["Tag collaborators", "Post more reels"]}
  ]
}`

type fakeClient struct {
	response string
	err      error
	got      llm.Request
	calls    int
}

func (f *fakeClient) Complete(_ context.Context, req llm.Request) (string, error) {
	f.calls++
	f.got = req
	return f.response, f.err
}

func (f *fakeClient) GetModel(tier llm.ModelTier) string { return "test-" + string(tier) }

func (f *fakeClient) Close() error { return nil }

func demoInput(t *testing.T) Input {
	t.Helper()
	account, err := fixtures.Account()
	require.NoError(t, err)
	return Input{
		Platform:  account.Platform,
		Username:  "atxeats",
		Niche:     "Austin food",
		Followers: account.Followers,
		Posts:     account.Posts,
	}
}

func TestParse_FencedJSON(t *testing.T) {
	report, err := Parse("```json\n" + validReport + "\n```")
	require.NoError(t, err)
	require.Len(t, report.Sections, 6)
	assert.Equal(t, types.SectionPerformanceSummary, report.Sections[0].Title)
	assert.Equal(t, "Strong month.", report.Sections[0].Body)
	assert.Equal(t, types.SectionRecommendations, report.Sections[5].Title)
	assert.Equal(t, []string{"Tag collaborators", "Post more reels"}, report.Sections[5].Bullets)
}

func TestParse_Plain(t *testing.T) {
	report, err := Parse(validReport)
	require.NoError(t, err)
	assert.Len(t, report.Sections, 6)
}

func TestParse_Failures(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", "   "},
		{"not json", "I could not analyze this account."},
		{"truncated", `{"sections": [{"title": "Performance Summary"`},
		{"wrong shape", `{"sections": []}`},
		{"missing section", strings.Replace(validReport, `{"icon": "💡", "title": "Content Insights", "body": "Reels win."},`, "", 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	in := demoInput(t)

	first, err := BuildPrompt(in)
	require.NoError(t, err)
	second, err := BuildPrompt(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Contains(t, first.System, "Only cite numbers")
	assert.Contains(t, first.User, "instagram")
	assert.Contains(t, first.User, "Username: atxeats")
	assert.Contains(t, first.User, "184,000")
	assert.Contains(t, first.User, "Austin food")
	assert.Contains(t, first.User, "likes: 12,100 | comments: 780")
	assert.Contains(t, first.User, "Average engagement rate: 5.4%")
	assert.Contains(t, first.User, "(no trend data)")
	assert.NotContains(t, first.User, "{{.")
}

func TestBuildPrompt_TrendContext(t *testing.T) {
	in := demoInput(t)
	demo, err := fixtures.Trends()
	require.NoError(t, err)

	in.Trends = &trends.Result{
		Instagram: &trends.InstagramResult{Stats: demo.HashtagStats, Posts: demo.HashtagPosts},
		Reddit:    &trends.RedditResult{Status: trends.Status{Fallback: true, Error: "429"}, Posts: demo.Reddit},
	}

	prompt, err := BuildPrompt(in)
	require.NoError(t, err)
	assert.Contains(t, prompt.User, "Instagram: #austinfood")
	assert.Contains(t, prompt.User, "Reddit (demo data):")
	assert.NotContains(t, prompt.User, "TikTok products")
}

func TestBuildPrompt_NoPosts(t *testing.T) {
	prompt, err := BuildPrompt(Input{Platform: types.PlatformTikTok})
	require.NoError(t, err)
	assert.Contains(t, prompt.User, "(no posts)")
	assert.Contains(t, prompt.User, "Username: unknown")
}

func TestRankPosts(t *testing.T) {
	var posts []types.Post
	for i := 0; i < 20; i++ {
		posts = append(posts, types.Post{ID: string(rune('a' + i)), Metrics: types.Metrics{Likes: int64(i % 3)}})
	}

	ranked := RankPosts(posts)
	require.Len(t, ranked, MaxPromptPosts)
	// likes cycle 0,1,2; the 2s come first in input order
	assert.Equal(t, "c", ranked[0].ID)
	assert.Equal(t, "f", ranked[1].ID)
	assert.Equal(t, int64(2), ranked[5].Metrics.Likes)
	assert.Equal(t, int64(1), ranked[6].Metrics.Likes)
	// input is untouched
	assert.Equal(t, "a", posts[0].ID)
}

func TestGenerator_Generate(t *testing.T) {
	client := &fakeClient{response: "```json\n" + validReport + "\n```"}
	gen := NewGenerator(client)
	gen.now = func() time.Time { return time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC) }

	report, err := gen.Generate(context.Background(), demoInput(t))
	require.NoError(t, err)
	assert.Len(t, report.Sections, 6)
	assert.Equal(t, "test-standard", report.Model)
	assert.False(t, report.Fallback)
	assert.Equal(t, 2026, report.GeneratedAt.Year())

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, llm.TierStandard, client.got.Tier)
	assert.True(t, client.got.JSON)
	assert.Contains(t, client.got.System, "Only cite numbers")
	assert.Contains(t, client.got.Prompt, "TOP POSTS")
}

func TestGenerator_WithTier(t *testing.T) {
	client := &fakeClient{response: validReport}
	base := NewGenerator(client)
	lite := base.WithTier(llm.TierLite)

	report, err := lite.Generate(context.Background(), demoInput(t))
	require.NoError(t, err)
	assert.Equal(t, llm.TierLite, client.got.Tier)
	assert.Equal(t, "test-lite", report.Model)
	assert.Equal(t, llm.TierStandard, base.tier)
}

func TestGenerator_Errors(t *testing.T) {
	t.Run("provider failure", func(t *testing.T) {
		upstream := &llm.ProviderError{Provider: llm.ProviderAnthropic, StatusCode: 500, Body: "overloaded"}
		gen := NewGenerator(&fakeClient{err: upstream})
		_, err := gen.Generate(context.Background(), demoInput(t))
		var perr *llm.ProviderError
		assert.True(t, errors.As(err, &perr))
	})

	t.Run("unparseable answer", func(t *testing.T) {
		gen := NewGenerator(&fakeClient{response: "Sure! Here are some thoughts."})
		_, err := gen.Generate(context.Background(), demoInput(t))
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("no client", func(t *testing.T) {
		_, err := NewGenerator(nil).Generate(context.Background(), demoInput(t))
		var cfgErr *llm.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})
}

func TestFallback(t *testing.T) {
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	report, err := Fallback(now)
	require.NoError(t, err)

	assert.True(t, report.Fallback)
	assert.Equal(t, FallbackModel, report.Model)
	assert.Equal(t, now, report.GeneratedAt)
	require.Len(t, report.Sections, 6)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"fallback":true`)
}
