// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/jonathan/creator-analytics/internal/insights"
	"github.com/jonathan/creator-analytics/internal/trends"
	"github.com/jonathan/creator-analytics/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line, inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads s to width runes.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		r := []rune(s)
		return string(r[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-n)
}

func hour(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

// PrintSummary outputs account totals.
func (p *Printer) PrintSummary(s insights.Summary) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Posts:           %d\n", s.Posts))
	sb.WriteString(fmt.Sprintf("Views:           %s\n", humanize.Comma(s.TotalViews)))
	sb.WriteString(fmt.Sprintf("Likes:           %s\n", humanize.Comma(s.TotalLikes)))
	sb.WriteString(fmt.Sprintf("Comments:        %s\n", humanize.Comma(s.TotalComments)))
	sb.WriteString(fmt.Sprintf("Shares:          %s\n", humanize.Comma(s.TotalShares)))
	sb.WriteString(fmt.Sprintf("Avg engagement:  %.1f%%", s.AvgEngagementRate))
	if s.TopPostID != "" {
		sb.WriteString(fmt.Sprintf("\nTop post:        %s", s.TopPostID))
	}
	p.printBox("PERFORMANCE SUMMARY", sb.String())
}

// PrintBestTimes outputs the top posting slots.
func (p *Printer) PrintBestTimes(bt insights.BestTimesResult) {
	if len(bt.Slots) == 0 {
		msg := "Not enough posts to rank posting times"
		if bt.UndatedPosts > 0 {
			msg = fmt.Sprintf("No publish times available (%d posts undated)", bt.UndatedPosts)
		}
		p.printBox("BEST TIMES TO POST", msg)
		return
	}

	var sb strings.Builder
	for i, slot := range bt.Slots {
		sb.WriteString(fmt.Sprintf("#%d  %s %s  (%d posts, avg %s)\n",
			i+1, slot.Day, hour(slot.Hour), slot.Posts, humanize.CommafWithDigits(slot.AvgEngagement, 1)))
	}
	sb.WriteString(fmt.Sprintf("\nBest day: %s   Best hour: %s\n", bt.BestDay, hour(bt.BestHour)))
	sb.WriteString(fmt.Sprintf("Posting frequency: %.1f posts/week", bt.PostsPerWeek))
	if bt.UndatedPosts > 0 {
		sb.WriteString(fmt.Sprintf("\n%d posts without a publish time were left out", bt.UndatedPosts))
	}
	p.printBox("BEST TIMES TO POST", sb.String())
}

// PrintContent outputs format performance, caption cohorts and content signals.
func (p *Printer) PrintContent(in insights.Insights) {
	var sb strings.Builder
	for _, f := range in.Formats {
		sb.WriteString(fmt.Sprintf("%-9s %3d posts  avg %s\n", f.Format, f.Posts, humanize.CommafWithDigits(f.AvgEngagement, 1)))
	}
	if in.Captions.Verdict != "" {
		sb.WriteString("\n" + in.Captions.Verdict + "\n")
	}

	if len(in.Signals) > 0 {
		sb.WriteString("\n")
		count := min(len(in.Signals), maxItemsToShow)
		for i := 0; i < count; i++ {
			mark := "-"
			if in.Signals[i].Positive {
				mark = "+"
			}
			sb.WriteString(fmt.Sprintf("%s %s\n", mark, in.Signals[i].Message))
		}
		if len(in.Signals) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more signals\n", len(in.Signals)-maxItemsToShow))
		}
	}

	p.printBox("CONTENT INSIGHTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTags outputs a hashtag or mention frequency table.
func (p *Printer) PrintTags(title, prefix string, tf insights.TagFrequency) {
	if tf.Empty {
		p.printBox(title, tf.Message)
		return
	}

	var sb strings.Builder
	for _, item := range tf.Items {
		sb.WriteString(fmt.Sprintf("%s%-24s %3d", prefix, item.Tag, item.Count))
		if item.AvgEngagement != nil {
			sb.WriteString(fmt.Sprintf("  avg %s", humanize.CommafWithDigits(*item.AvgEngagement, 1)))
		}
		sb.WriteString("\n")
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCollaborations outputs collaborator and audio performance.
func (p *Printer) PrintCollaborations(c insights.CollabResult, a insights.AudioResult) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Collab posts: %d (avg %s)   Solo posts: %d (avg %s)\n",
		c.CollabPosts, humanize.CommafWithDigits(c.CollabAvg, 1), c.SoloPosts, humanize.CommafWithDigits(c.SoloAvg, 1)))
	if c.LiftPercent != nil {
		sb.WriteString(fmt.Sprintf("Collaboration lift: %+.0f%%\n", *c.LiftPercent))
	}
	count := min(len(c.Collaborators), maxItemsToShow)
	for i := 0; i < count; i++ {
		collab := c.Collaborators[i]
		verified := ""
		if collab.IsVerified {
			verified = " ✓"
		}
		sb.WriteString(fmt.Sprintf("  @%s%s  %d posts\n", collab.Username, verified, collab.Posts))
	}

	if len(a.Groups) > 0 {
		sb.WriteString("\n")
		for _, g := range a.Groups {
			sb.WriteString(fmt.Sprintf("%-16s %3d posts  avg %s\n", g.Label, g.Posts, humanize.CommafWithDigits(g.AvgEngagement, 1)))
		}
	}
	for _, t := range a.TopTracks {
		label := t.Song
		if t.Artist != "" {
			label += " - " + t.Artist
		}
		sb.WriteString(fmt.Sprintf("  ♪ %s (%d)\n", label, t.Posts))
	}

	p.printBox("COLLABORATIONS & AUDIO", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintInsights outputs every insight box in dashboard order.
func (p *Printer) PrintInsights(in *insights.Insights) {
	if in == nil {
		return
	}
	p.PrintSummary(in.Summary)
	p.PrintBestTimes(in.BestTimes)
	p.PrintContent(*in)
	p.PrintTags("TOP HASHTAGS", "#", in.Hashtags)
	p.PrintTags("TOP MENTIONS", "@", in.Mentions)
	p.PrintCollaborations(in.Collaborations, in.Audio)
}

// PrintReport outputs the six report sections.
func (p *Printer) PrintReport(report *types.AIReport) {
	if report == nil || len(report.Sections) == 0 {
		return
	}

	for _, section := range report.Sections {
		var sb strings.Builder
		if section.Body != "" {
			sb.WriteString(wrap(section.Body, boxWidth-4))
		}
		for _, b := range section.Bullets {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(wrap("• "+b, boxWidth-4))
		}
		p.printBox(strings.TrimSpace(section.Icon+" "+strings.ToUpper(section.Title)), sb.String())
	}

	source := report.Model
	if report.Fallback {
		source = "static report (generation failed)"
	}
	//nolint:errcheck // writing to stdout
	fmt.Fprintf(p.out, "Generated %s by %s\n", report.GeneratedAt.Format("2006-01-02 15:04 MST"), source)
}

// PrintTrends outputs one box per trend source that was requested.
func (p *Printer) PrintTrends(result *trends.Result) {
	if result == nil {
		return
	}

	if ig := result.Instagram; ig != nil {
		var sb strings.Builder
		if ig.Stats.Hashtag != "" {
			sb.WriteString(fmt.Sprintf("#%s  %s posts  trend %s\n", ig.Stats.Hashtag, humanize.Comma(ig.Stats.PostCount), ig.Stats.Trend))
			if len(ig.Stats.RelatedHashtags) > 0 {
				sb.WriteString("Related: #" + strings.Join(ig.Stats.RelatedHashtags, " #") + "\n")
			}
		}
		sb.WriteString(fmt.Sprintf("%d recent posts", len(ig.Posts)))
		p.printBox(sourceTitle("INSTAGRAM", ig.Status), sb.String())
	}

	if rd := result.Reddit; rd != nil {
		var sb strings.Builder
		count := min(len(rd.Posts), maxItemsToShow)
		for i := 0; i < count; i++ {
			post := rd.Posts[i]
			sb.WriteString(fmt.Sprintf("▲%s  r/%s  %s\n", humanize.Comma(post.Upvotes), post.Subreddit, post.Title))
		}
		p.printBox(sourceTitle("REDDIT", rd.Status), strings.TrimSuffix(sb.String(), "\n"))
	}

	if tt := result.TikTok; tt != nil {
		var sb strings.Builder
		count := min(len(tt.Products), maxItemsToShow)
		for i := 0; i < count; i++ {
			prod := tt.Products[i]
			sb.WriteString(fmt.Sprintf("%.0f  %s (%s)\n", prod.TrendScore, prod.ProductName, prod.Category))
		}
		p.printBox(sourceTitle("TIKTOK PRODUCTS", tt.Status), strings.TrimSuffix(sb.String(), "\n"))
	}
}

func sourceTitle(name string, st trends.Status) string {
	if st.Fallback {
		return name + " (demo data)"
	}
	return name
}

// wrap breaks text into lines of at most width runes at word boundaries.
func wrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if utf8.RuneCountInString(line)+1+utf8.RuneCountInString(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
