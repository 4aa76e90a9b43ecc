package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/creator-analytics/internal/insights"
	"github.com/jonathan/creator-analytics/internal/llm"
	"github.com/jonathan/creator-analytics/internal/metrics"
	"github.com/jonathan/creator-analytics/internal/normalize"
	"github.com/jonathan/creator-analytics/internal/report"
	"github.com/jonathan/creator-analytics/internal/scraper"
	"github.com/jonathan/creator-analytics/internal/trends"
	"github.com/jonathan/creator-analytics/internal/types"
)

// LivePostsRequest represents the request body for /api/posts/live
type LivePostsRequest struct {
	Platform  string `json:"platform" validate:"required"`
	Username  string `json:"username" validate:"required,max=300"`
	Followers int64  `json:"followers,omitempty" validate:"gte=0"`
	Limit     int    `json:"limit,omitempty" validate:"gte=0,lte=100"`
}

// LivePostsResponse carries the raw scraper items and their normalized posts.
type LivePostsResponse struct {
	Platform types.Platform   `json:"platform"`
	Username string           `json:"username"`
	Items    []normalize.Item `json:"items"`
	Posts    []types.Post     `json:"posts"`
}

// GenerateRequest represents the request body for /api/insights/generate
type GenerateRequest struct {
	Posts     []types.Post   `json:"posts" validate:"max=500,dive"`
	Platform  string         `json:"platform" validate:"required"`
	Username  string         `json:"username" validate:"max=300"`
	Niche     string         `json:"niche,omitempty" validate:"max=200"`
	Followers int64          `json:"followers,omitempty" validate:"gte=0"`
	Trends    *trends.Result `json:"trends,omitempty"`
}

// GenerateErrorResponse is returned when the report could not be generated.
// Fallback is the static report the caller may show instead.
type GenerateErrorResponse struct {
	Error    string          `json:"error"`
	Fallback *types.AIReport `json:"fallback,omitempty"`
}

// AggregateRequest represents the request body for /api/insights/aggregate
type AggregateRequest struct {
	Posts            []types.Post `json:"posts" validate:"max=500,dive"`
	Followers        int64        `json:"followers,omitempty" validate:"gte=0"`
	Timezone         string       `json:"timezone,omitempty" validate:"max=64"`
	CaptionThreshold int          `json:"captionThreshold,omitempty" validate:"gte=0,lte=2200"`
}

func parsePlatform(s string) (types.Platform, error) {
	p, err := types.ParsePlatform(s)
	if err != nil {
		return "", &ErrValidation{Field: "platform", Message: err.Error()}
	}
	return p, nil
}

// handleLivePosts scrapes an account's recent posts.
func (s *Server) handleLivePosts(w http.ResponseWriter, r *http.Request) {
	var req LivePostsRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		s.failure(w, err)
		return
	}

	platform, err := parsePlatform(req.Platform)
	if err != nil {
		s.failure(w, err)
		return
	}
	handle, err := scraper.Handle(platform, req.Username)
	if err != nil {
		s.failure(w, &ErrValidation{Field: "username", Message: err.Error()})
		return
	}
	if s.posts == nil {
		s.failure(w, &scraper.ConfigError{Message: "scraper is not configured"})
		return
	}

	limit := req.Limit
	if limit == 0 {
		limit = s.cfg.ResultLimit
	}

	items, err := s.posts.FetchPosts(r.Context(), platform, req.Username, limit)
	if err != nil {
		s.log.Warnw("Live post fetch failed", "platform", platform, "username", handle, "error", err)
		s.failure(w, err)
		return
	}
	if items == nil {
		items = []normalize.Item{}
	}

	posts := normalize.New(req.Followers).NormalizeBatch(platform, items)
	if posts == nil {
		posts = []types.Post{}
	}

	s.jsonResponse(w, http.StatusOK, LivePostsResponse{
		Platform: platform,
		Username: handle,
		Items:    items,
		Posts:    posts,
	})
}

// handleTrends fetches trend sources. Failed sources come back as flagged demo data.
func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sources, err := trends.ParseSources(q.Get("source"))
	if err != nil {
		s.failure(w, &ErrValidation{Field: "source", Message: err.Error()})
		return
	}
	if s.trends == nil {
		s.failure(w, &scraper.ConfigError{Message: "trend service is not configured"})
		return
	}

	var subreddits []string
	for _, v := range q["subreddit"] {
		for _, sub := range strings.Split(v, ",") {
			if sub = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(sub), "r/")); sub != "" {
				subreddits = append(subreddits, sub)
			}
		}
	}

	result := s.trends.Fetch(r.Context(), trends.Request{
		Sources:    sources,
		Hashtag:    q.Get("hashtag"),
		Subreddits: subreddits,
		Niche:      q.Get("niche"),
	})
	s.jsonResponse(w, http.StatusOK, result)
}

// handleGenerateInsights writes the six-section AI report.
func (s *Server) handleGenerateInsights(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		s.failure(w, err)
		return
	}
	platform, err := parsePlatform(req.Platform)
	if err != nil {
		s.failure(w, err)
		return
	}

	var rep *types.AIReport
	if s.reports == nil {
		err = &llm.ConfigError{Message: "report generator is not configured"}
	} else {
		rep, err = s.reports.Generate(r.Context(), report.Input{
			Platform:  platform,
			Username:  req.Username,
			Niche:     req.Niche,
			Followers: req.Followers,
			Posts:     req.Posts,
			Trends:    req.Trends,
			Location:  s.cfg.Location,
		})
	}
	if err != nil {
		s.reportFailure(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, rep)
}

func (s *Server) reportFailure(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	s.log.Errorw("Report generation failed", "status", status, "error", err)
	metrics.RecordReportFallback()

	resp := GenerateErrorResponse{Error: err.Error()}
	fallback, fbErr := report.Fallback(s.now())
	if fbErr != nil {
		s.log.Errorw("Static report unavailable", "error", fbErr)
	} else {
		resp.Fallback = fallback
	}
	s.jsonResponse(w, status, resp)
}

// handleAggregate computes heuristic insights for already-normalized posts.
func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	var req AggregateRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		s.failure(w, err)
		return
	}

	loc := s.cfg.Location
	if req.Timezone != "" {
		l, err := time.LoadLocation(req.Timezone)
		if err != nil {
			s.failure(w, &ErrValidation{Field: "timezone", Message: "unknown time zone " + req.Timezone})
			return
		}
		loc = l
	}

	posts := req.Posts
	if req.Followers > 0 {
		posts = make([]types.Post, len(req.Posts))
		for i, p := range req.Posts {
			p.EngagementRate = normalize.EngagementRate(p.Metrics.Likes, p.Metrics.Comments, p.Metrics.SharesOrZero(), req.Followers)
			posts[i] = p
		}
	}

	s.jsonResponse(w, http.StatusOK, insights.Aggregate(posts, insights.Options{
		Location:         loc,
		CaptionThreshold: req.CaptionThreshold,
	}))
}
