// Package report builds the AI report prompt, calls the model and parses its six-section answer.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/jonathan/creator-analytics/internal/insights"
	"github.com/jonathan/creator-analytics/internal/prompts"
	"github.com/jonathan/creator-analytics/internal/trends"
	"github.com/jonathan/creator-analytics/internal/types"
)

const (
	promptFile = "report.json"
	// MaxPromptPosts caps the posts listed in the prompt.
	MaxPromptPosts  = 15
	maxCaptionRunes = 140
	maxTrendItems   = 5
)

// Input is everything the report is written from.
type Input struct {
	Platform  types.Platform
	Username  string
	Niche     string
	Followers int64
	Posts     []types.Post
	// Trends is optional context; nil omits the trend section.
	Trends *trends.Result
	// Location buckets posting times; nil means UTC.
	Location *time.Location
}

// Prompt is the rendered system and user text.
type Prompt struct {
	System string
	User   string
}

// BuildPrompt renders the report prompt. The output depends only on in.
func BuildPrompt(in Input) (Prompt, error) {
	system, err := prompts.Get(promptFile, "report-system")
	if err != nil {
		return Prompt{}, err
	}
	user, err := prompts.Get(promptFile, "report-user")
	if err != nil {
		return Prompt{}, err
	}

	agg := insights.Aggregate(in.Posts, insights.Options{
		Location:         in.Location,
		CaptionThreshold: insights.ReportCaptionThreshold,
	})

	return Prompt{
		System: system,
		User: prompts.Format(user, map[string]string{
			"Platform":  orDefault(string(in.Platform), "unknown"),
			"Username":  orDefault(in.Username, "unknown"),
			"Niche":     orDefault(in.Niche, "not specified"),
			"Followers": humanize.Comma(in.Followers),
			"PostCount": fmt.Sprint(len(in.Posts)),
			"Posts":     postLines(in.Posts, in.Location),
			"Insights":  insightLines(agg),
			"Trends":    trendLines(in.Trends),
		}),
	}, nil
}

// RankPosts orders posts by likes+comments+shares, keeping input order on ties, capped at MaxPromptPosts.
func RankPosts(posts []types.Post) []types.Post {
	ranked := append([]types.Post(nil), posts...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Metrics.Interactions() > ranked[j].Metrics.Interactions()
	})
	if len(ranked) > MaxPromptPosts {
		ranked = ranked[:MaxPromptPosts]
	}
	return ranked
}

func postLines(posts []types.Post, loc *time.Location) string {
	if len(posts) == 0 {
		return "(no posts)"
	}
	if loc == nil {
		loc = time.UTC
	}

	var sb strings.Builder
	for i, p := range RankPosts(posts) {
		m := p.Metrics
		fields := []string{
			fmt.Sprintf("likes: %s", humanize.Comma(m.Likes)),
			fmt.Sprintf("comments: %s", humanize.Comma(m.Comments)),
		}
		if m.Shares != nil {
			fields = append(fields, fmt.Sprintf("shares: %s", humanize.Comma(*m.Shares)))
		}
		if m.Views != nil {
			fields = append(fields, fmt.Sprintf("views: %s", humanize.Comma(*m.Views)))
		}
		if m.Saves != nil {
			fields = append(fields, fmt.Sprintf("saves: %s", humanize.Comma(*m.Saves)))
		}
		fields = append(fields,
			fmt.Sprintf("engagement: %.1f%%", p.EngagementRate),
			fmt.Sprintf("format: %s", insights.Format(p)),
		)
		posted := p.PublishedAt.In(loc).Format("Mon 2006-01-02 15:04")
		if p.PublishedAtEstimated {
			posted += " (estimated)"
		}
		fields = append(fields, "posted: "+posted)

		fmt.Fprintf(&sb, "%d. %q | %s\n", i+1, truncate(p.Caption, maxCaptionRunes), strings.Join(fields, " | "))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func insightLines(agg insights.Insights) string {
	var lines []string
	add := func(format string, args ...any) { lines = append(lines, "- "+fmt.Sprintf(format, args...)) }

	s := agg.Summary
	add("Totals: %s likes, %s comments, %s shares, %s views across %d posts",
		humanize.Comma(s.TotalLikes), humanize.Comma(s.TotalComments),
		humanize.Comma(s.TotalShares), humanize.Comma(s.TotalViews), s.Posts)
	add("Average engagement rate: %.1f%%", s.AvgEngagementRate)

	if bt := agg.BestTimes; len(bt.Slots) > 0 {
		slots := make([]string, len(bt.Slots))
		for i, slot := range bt.Slots {
			slots[i] = fmt.Sprintf("%s %02d:00 (avg %s likes+comments, %d posts)",
				slot.Day, slot.Hour, humanize.CommafWithDigits(slot.AvgEngagement, 1), slot.Posts)
		}
		add("Best posting slots: %s", strings.Join(slots, "; "))
		add("Best day: %s, best hour: %02d:00, posting frequency: %.1f posts/week", bt.BestDay, bt.BestHour, bt.PostsPerWeek)
	}
	if n := agg.BestTimes.UndatedPosts; n > 0 {
		add("Posting times unknown for %d posts; they are excluded from timing analysis", n)
	}

	if len(agg.Formats) > 0 {
		formats := make([]string, len(agg.Formats))
		for i, f := range agg.Formats {
			formats[i] = fmt.Sprintf("%s %s avg (%d posts)", f.Format, humanize.CommafWithDigits(f.AvgEngagement, 1), f.Posts)
		}
		add("Format performance: %s", strings.Join(formats, ", "))
	}

	if c := agg.Captions; c.Verdict != "" {
		add("Captions: %s", c.Verdict)
	}
	for _, sig := range agg.Signals {
		add("Signal: %s", sig.Message)
	}

	if !agg.Hashtags.Empty {
		tags := make([]string, len(agg.Hashtags.Items))
		for i, t := range agg.Hashtags.Items {
			tags[i] = fmt.Sprintf("#%s (%d)", t.Tag, t.Count)
		}
		add("Top hashtags: %s", strings.Join(tags, ", "))
	}
	if c := agg.Collaborations; len(c.Collaborators) > 0 {
		names := make([]string, len(c.Collaborators))
		for i, collab := range c.Collaborators {
			names[i] = "@" + collab.Username
		}
		line := fmt.Sprintf("Collaborators: %s", strings.Join(names, ", "))
		if c.LiftPercent != nil {
			line += fmt.Sprintf("; collab posts vs solo: %+.1f%%", *c.LiftPercent)
		}
		add("%s", line)
	}
	return strings.Join(lines, "\n")
}

func trendLines(r *trends.Result) string {
	if r == nil || (r.Instagram == nil && r.Reddit == nil && r.TikTok == nil) {
		return "(no trend data)"
	}

	var lines []string
	label := func(name string, st trends.Status) string {
		if st.Fallback {
			return name + " (demo data)"
		}
		return name
	}

	if ig := r.Instagram; ig != nil {
		line := fmt.Sprintf("%s: #%s has %s posts, trend %s", label("Instagram", ig.Status),
			ig.Stats.Hashtag, humanize.Comma(ig.Stats.PostCount), ig.Stats.Trend)
		if len(ig.Stats.RelatedHashtags) > 0 {
			line += "; related: #" + strings.Join(ig.Stats.RelatedHashtags, ", #")
		}
		lines = append(lines, "- "+line)
		for i, p := range ig.Posts {
			if i == maxTrendItems {
				break
			}
			lines = append(lines, fmt.Sprintf("  - %q (%s likes, %s comments)",
				truncate(p.Caption, maxCaptionRunes), humanize.Comma(p.Likes), humanize.Comma(p.Comments)))
		}
	}
	if rd := r.Reddit; rd != nil {
		lines = append(lines, "- "+label("Reddit", rd.Status)+":")
		for i, p := range rd.Posts {
			if i == maxTrendItems {
				break
			}
			lines = append(lines, fmt.Sprintf("  - r/%s: %q (%s upvotes, %s comments)",
				p.Subreddit, p.Title, humanize.Comma(p.Upvotes), humanize.Comma(p.Comments)))
		}
	}
	if tt := r.TikTok; tt != nil {
		lines = append(lines, "- "+label("TikTok products", tt.Status)+":")
		for i, p := range tt.Products {
			if i == maxTrendItems {
				break
			}
			lines = append(lines, fmt.Sprintf("  - %s [%s] trend score %s, %s posts",
				p.ProductName, orDefault(p.Category, "uncategorized"),
				humanize.CommafWithDigits(p.TrendScore, 1), humanize.Comma(p.PostCount)))
		}
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
