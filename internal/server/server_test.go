package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/creator-analytics/internal/fixtures"
	"github.com/jonathan/creator-analytics/internal/llm"
	"github.com/jonathan/creator-analytics/internal/logger"
	"github.com/jonathan/creator-analytics/internal/normalize"
	"github.com/jonathan/creator-analytics/internal/report"
	"github.com/jonathan/creator-analytics/internal/scraper"
	"github.com/jonathan/creator-analytics/internal/server/ratelimit"
	"github.com/jonathan/creator-analytics/internal/trends"
	"github.com/jonathan/creator-analytics/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePosts struct {
	items    []normalize.Item
	err      error
	platform types.Platform
	target   string
	limit    int
}

func (f *fakePosts) FetchPosts(_ context.Context, platform types.Platform, target string, limit int) ([]normalize.Item, error) {
	f.platform, f.target, f.limit = platform, target, limit
	return f.items, f.err
}

type fakeTrends struct {
	got trends.Request
}

func (f *fakeTrends) Fetch(_ context.Context, req trends.Request) *trends.Result {
	f.got = req
	return &trends.Result{Reddit: &trends.RedditResult{
		Status: trends.Status{Fallback: true, Error: "reddit returned 429"},
		Posts:  []types.RedditTrend{{ID: "r1", Title: "Best tacos?"}},
	}}
}

type fakeReports struct {
	report *types.AIReport
	err    error
	got    report.Input
}

func (f *fakeReports) Generate(_ context.Context, in report.Input) (*types.AIReport, error) {
	f.got = in
	return f.report, f.err
}

func newTestServer(deps Deps) *Server {
	deps.Logger = logger.Nop()
	s := New(Config{Port: 0, ResultLimit: 25}, deps)
	s.now = func() time.Time { return time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func do(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	msg, _ := resp["error"].(string)
	return msg
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(Deps{})
	w := do(t, s, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(Deps{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(Deps{})
	w := do(t, s, http.MethodOptions, "/api/insights/generate", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(Deps{})
	do(t, s, http.MethodGet, "/health", nil)

	w := do(t, s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "creator_analytics_http_requests_total")
}

func TestLivePosts(t *testing.T) {
	posts := &fakePosts{items: []normalize.Item{{
		"id":           "7301",
		"text":         "brisket #bbq",
		"diggCount":    float64(100),
		"commentCount": float64(5),
		"shareCount":   float64(2),
		"playCount":    float64(1000),
	}}}
	s := newTestServer(Deps{Posts: posts})

	w := do(t, s, http.MethodPost, "/api/posts/live", LivePostsRequest{Platform: "TikTok", Username: "@chef"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp LivePostsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, types.PlatformTikTok, resp.Platform)
	assert.Equal(t, "chef", resp.Username)
	require.Len(t, resp.Items, 1)
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, int64(100), resp.Posts[0].Metrics.Likes)

	assert.Equal(t, types.PlatformTikTok, posts.platform)
	assert.Equal(t, 25, posts.limit)
}

func TestLivePosts_EmptyDatasetIsArray(t *testing.T) {
	s := newTestServer(Deps{Posts: &fakePosts{}})
	w := do(t, s, http.MethodPost, "/api/posts/live", LivePostsRequest{Platform: "instagram", Username: "atxeats", Limit: 5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":[]`)
	assert.Contains(t, w.Body.String(), `"posts":[]`)
}

func TestLivePosts_Errors(t *testing.T) {
	tests := []struct {
		name    string
		deps    Deps
		body    any
		status  int
		message string
	}{
		{"no body", Deps{Posts: &fakePosts{}}, "", http.StatusBadRequest, "request body is required"},
		{"bad json", Deps{Posts: &fakePosts{}}, "{", http.StatusBadRequest, "invalid JSON"},
		{"missing platform", Deps{Posts: &fakePosts{}}, LivePostsRequest{Username: "a"}, http.StatusBadRequest, "platform - is required"},
		{"unknown platform", Deps{Posts: &fakePosts{}}, LivePostsRequest{Platform: "myspace", Username: "a"}, http.StatusBadRequest, "unknown platform"},
		{"limit too high", Deps{Posts: &fakePosts{}}, LivePostsRequest{Platform: "tiktok", Username: "a", Limit: 1000}, http.StatusBadRequest, "limit - must be at most 100"},
		{"bad username", Deps{Posts: &fakePosts{}}, LivePostsRequest{Platform: "tiktok", Username: "two words"}, http.StatusBadRequest, "invalid username"},
		{"no scraper", Deps{}, LivePostsRequest{Platform: "tiktok", Username: "a"}, http.StatusInternalServerError, "scraper is not configured"},
		{"missing token", Deps{Posts: &fakePosts{err: &scraper.ConfigError{Message: "APIFY_API_TOKEN is not set"}}},
			LivePostsRequest{Platform: "tiktok", Username: "a"}, http.StatusInternalServerError, "APIFY_API_TOKEN"},
		{"provider failure", Deps{Posts: &fakePosts{err: &scraper.ProviderError{ActorID: "x", StatusCode: 402, Body: "quota"}}},
			LivePostsRequest{Platform: "tiktok", Username: "a"}, http.StatusBadGateway, "402"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, newTestServer(tt.deps), http.MethodPost, "/api/posts/live", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, decodeError(t, w), tt.message)
		})
	}
}

func TestTrends(t *testing.T) {
	ft := &fakeTrends{}
	s := newTestServer(Deps{Trends: ft})

	w := do(t, s, http.MethodGet, "/api/trends?source=reddit&subreddit=r/austinfood,bbq&niche=Austin+food", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []trends.Source{trends.SourceReddit}, ft.got.Sources)
	assert.Equal(t, []string{"austinfood", "bbq"}, ft.got.Subreddits)
	assert.Equal(t, "Austin food", ft.got.Niche)

	var result trends.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotNil(t, result.Reddit)
	assert.True(t, result.Reddit.Fallback)
	assert.Nil(t, result.Instagram)
}

func TestTrends_BadSource(t *testing.T) {
	s := newTestServer(Deps{Trends: &fakeTrends{}})
	w := do(t, s, http.MethodGet, "/api/trends?source=myspace", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w), "unknown trend source")
}

func TestGenerateInsights(t *testing.T) {
	sections, err := fixtures.ReportSections()
	require.NoError(t, err)
	reports := &fakeReports{report: &types.AIReport{Sections: sections, Model: "test-model"}}
	s := newTestServer(Deps{Reports: reports})

	account, err := fixtures.Account()
	require.NoError(t, err)

	w := do(t, s, http.MethodPost, "/api/insights/generate", GenerateRequest{
		Posts:     account.Posts,
		Platform:  "instagram",
		Username:  "atxeats",
		Followers: account.Followers,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rep types.AIReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	assert.Len(t, rep.Sections, 6)
	assert.False(t, rep.Fallback)

	assert.Equal(t, types.PlatformInstagram, reports.got.Platform)
	assert.Len(t, reports.got.Posts, len(account.Posts))
	assert.Equal(t, time.UTC, reports.got.Location)
}

func TestGenerateInsights_FailureCarriesFallback(t *testing.T) {
	tests := []struct {
		name   string
		deps   Deps
		status int
	}{
		{"no generator", Deps{}, http.StatusInternalServerError},
		{"missing key", Deps{Reports: &fakeReports{err: &llm.ConfigError{Message: "ANTHROPIC_API_KEY is not set"}}}, http.StatusInternalServerError},
		{"provider error", Deps{Reports: &fakeReports{err: &llm.ProviderError{Provider: llm.ProviderAnthropic, StatusCode: 529}}}, http.StatusBadGateway},
		{"parse error", Deps{Reports: &fakeReports{err: &report.ParseError{Message: "response is not valid JSON"}}}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(tt.deps)
			w := do(t, s, http.MethodPost, "/api/insights/generate", GenerateRequest{Platform: "tiktok"})
			require.Equal(t, tt.status, w.Code)

			var resp GenerateErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			require.NotNil(t, resp.Fallback)
			assert.True(t, resp.Fallback.Fallback)
			assert.Len(t, resp.Fallback.Sections, 6)
			assert.Equal(t, report.FallbackModel, resp.Fallback.Model)
		})
	}
}

func TestGenerateInsights_ValidationHasNoFallback(t *testing.T) {
	s := newTestServer(Deps{Reports: &fakeReports{}})
	w := do(t, s, http.MethodPost, "/api/insights/generate", GenerateRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "fallback")
}

func TestAggregate(t *testing.T) {
	account, err := fixtures.Account()
	require.NoError(t, err)
	s := newTestServer(Deps{})

	w := do(t, s, http.MethodPost, "/api/insights/aggregate", AggregateRequest{Posts: account.Posts, Timezone: "America/Chicago"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, key := range []string{"summary", "bestTimes", "formats", "captions", "signals", "hashtags", "mentions", "collaborations", "audio"} {
		assert.Contains(t, resp, key)
	}

	var summary struct {
		TotalLikes        int64   `json:"totalLikes"`
		AvgEngagementRate float64 `json:"avgEngagementRate"`
	}
	require.NoError(t, json.Unmarshal(resp["summary"], &summary))
	assert.Equal(t, int64(75200), summary.TotalLikes)
	assert.Equal(t, 5.4, summary.AvgEngagementRate)
}

func TestAggregate_FollowersRecomputeRates(t *testing.T) {
	s := newTestServer(Deps{})
	posts := []types.Post{
		{ID: "a", Metrics: types.Metrics{Likes: 90, Comments: 10}, EngagementRate: 99},
		{ID: "b", Metrics: types.Metrics{Likes: 180, Comments: 20}, EngagementRate: 99},
	}
	w := do(t, s, http.MethodPost, "/api/insights/aggregate", AggregateRequest{Posts: posts, Followers: 1000})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Summary struct {
			AvgEngagementRate float64 `json:"avgEngagementRate"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// (10% + 20%) / 2
	assert.Equal(t, 15.0, resp.Summary.AvgEngagementRate)
	assert.Equal(t, 99.0, posts[0].EngagementRate)
}

func TestAggregate_BadTimezone(t *testing.T) {
	s := newTestServer(Deps{})
	w := do(t, s, http.MethodPost, "/api/insights/aggregate", AggregateRequest{Timezone: "Mars/Base"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.Contains(decodeError(t, w), "timezone"))
}

func TestAggregate_RejectsNegativeMetrics(t *testing.T) {
	s := newTestServer(Deps{})
	tests := []struct {
		name  string
		post  types.Post
		field string
	}{
		{"likes", types.Post{ID: "b", Metrics: types.Metrics{Likes: -5}}, "posts[1].metrics.likes"},
		{"comments", types.Post{ID: "b", Metrics: types.Metrics{Comments: -1}}, "posts[1].metrics.comments"},
		{"shares", types.Post{ID: "b", Metrics: types.Metrics{Shares: types.Int64(-3)}}, "posts[1].metrics.shares"},
		{"engagement rate", types.Post{ID: "b", EngagementRate: -2}, "posts[1].engagementRate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := []types.Post{{ID: "a", Metrics: types.Metrics{Likes: 10}}, tt.post}
			w := do(t, s, http.MethodPost, "/api/insights/aggregate", AggregateRequest{Posts: posts})
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeError(t, w), tt.field)
		})
	}
}

func TestGenerate_RejectsNegativeMetrics(t *testing.T) {
	reports := &fakeReports{}
	s := newTestServer(Deps{Reports: reports})
	posts := []types.Post{{ID: "a", Metrics: types.Metrics{Likes: -1}}}
	w := do(t, s, http.MethodPost, "/api/insights/generate", GenerateRequest{Platform: "tiktok", Posts: posts})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w), "posts[0].metrics.likes")
}

func TestRateLimit(t *testing.T) {
	s := New(Config{RateLimit: ratelimit.NewConfig(true, 1000, time.Minute, nil)}, Deps{Logger: logger.Nop(), Reports: &fakeReports{err: &report.ParseError{Message: "x"}}})
	defer s.rateLimiter.Stop()

	for i := 0; i < 3; i++ {
		w := do(t, s, http.MethodPost, "/api/insights/generate", GenerateRequest{Platform: "tiktok"})
		require.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "20", w.Header().Get("X-RateLimit-Limit"))
	}

	w := do(t, s, http.MethodPost, "/api/insights/generate", GenerateRequest{Platform: "tiktok"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, decodeError(t, w), "rate limit")

	// health checks stay available
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", nil).Code)
}
