package insights

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/creator-analytics/internal/types"
)

// Content formats reported by FormatPerformance.
const (
	FormatVideo    = "Video"
	FormatCarousel = "Carousel"
	FormatImage    = "Image"
)

var (
	videoKeywords    = regexp.MustCompile(`(?i)\b(reels?|videos?|pov)\b`)
	carouselKeywords = regexp.MustCompile(`(?i)\b(threads?|ranked|rankings?|guides?|ratings?)\b`)
	callToAction     = regexp.MustCompile(`(?i)\b(link in bio|comment below|save this|share this|tag a friend|follow for|dm me|let me know)\b`)
)

// FormatStat is the mean engagement of one content format.
type FormatStat struct {
	Format        string  `json:"format"`
	Posts         int     `json:"posts"`
	AvgEngagement float64 `json:"avgEngagement"`
}

// Format classifies a post as Video, Carousel or Image.
func Format(p types.Post) string {
	switch p.ContentType {
	case types.ContentVideo:
		return FormatVideo
	case types.ContentSidecar:
		return FormatCarousel
	case types.ContentImage:
		return FormatImage
	}
	switch {
	case videoKeywords.MatchString(p.Caption):
		return FormatVideo
	case carouselKeywords.MatchString(p.Caption):
		return FormatCarousel
	case p.Metrics.ViewsOrZero() > 0:
		return FormatVideo
	}
	return FormatImage
}

// FormatPerformance averages engagement per format, best first.
// Formats with no posts are omitted.
func FormatPerformance(posts []types.Post) []FormatStat {
	groups := map[string][]types.Post{}
	for _, p := range posts {
		f := Format(p)
		groups[f] = append(groups[f], p)
	}

	out := []FormatStat{}
	for _, f := range []string{FormatVideo, FormatCarousel, FormatImage} {
		if len(groups[f]) == 0 {
			continue
		}
		out = append(out, FormatStat{
			Format:        f,
			Posts:         len(groups[f]),
			AvgEngagement: round1(meanScore(groups[f])),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgEngagement > out[j].AvgEngagement })
	return out
}

// CaptionCohortResult compares short and long captions.
type CaptionCohortResult struct {
	Threshold  int     `json:"threshold"`
	ShortPosts int     `json:"shortPosts"`
	LongPosts  int     `json:"longPosts"`
	ShortAvg   float64 `json:"shortAvg"`
	LongAvg    float64 `json:"longAvg"`
	Verdict    string  `json:"verdict,omitempty"`
}

// CaptionCohort splits posts at threshold runes and compares mean engagement.
// A verdict is produced only when both cohorts exist and differ by at least 5%.
func CaptionCohort(posts []types.Post, threshold int) CaptionCohortResult {
	var short, long []types.Post
	for _, p := range posts {
		if utf8.RuneCountInString(p.Caption) < threshold {
			short = append(short, p)
		} else {
			long = append(long, p)
		}
	}

	r := CaptionCohortResult{
		Threshold:  threshold,
		ShortPosts: len(short),
		LongPosts:  len(long),
		ShortAvg:   round1(meanScore(short)),
		LongAvg:    round1(meanScore(long)),
	}
	if len(short) == 0 || len(long) == 0 {
		return r
	}

	shortAvg, longAvg := meanScore(short), meanScore(long)
	if relativeDifference(shortAvg, longAvg) < minRelativeDifference {
		return r
	}
	if longAvg > shortAvg {
		r.Verdict = fmt.Sprintf("Longer captions (%d+ chars) outperform shorter ones", threshold)
		if pct, ok := lift(longAvg, shortAvg); ok {
			r.Verdict += fmt.Sprintf(" by %.0f%%", pct)
		}
	} else {
		r.Verdict = fmt.Sprintf("Shorter captions (under %d chars) outperform longer ones", threshold)
		if pct, ok := lift(shortAvg, longAvg); ok {
			r.Verdict += fmt.Sprintf(" by %.0f%%", pct)
		}
	}
	return r
}

// GroupStat is the size and mean engagement of one side of a split.
type GroupStat struct {
	Posts         int     `json:"posts"`
	AvgEngagement float64 `json:"avgEngagement"`
}

// Signal reports how posts with a feature compare to posts without it.
type Signal struct {
	Name    string    `json:"name"`
	With    GroupStat `json:"with"`
	Without GroupStat `json:"without"`
	// LiftPercent is relative to the without group; nil when that group averages zero.
	LiftPercent *float64 `json:"liftPercent,omitempty"`
	Positive    bool     `json:"positive"`
	Message     string   `json:"message"`
}

type signalCandidate struct {
	name string
	has  func(types.Post) bool
}

var signalCandidates = []signalCandidate{
	{"Tagged collaborators", func(p types.Post) bool { return len(p.TaggedUsers) > 0 }},
	{"Location tag", func(p types.Post) bool { return strings.TrimSpace(p.LocationName) != "" }},
	{"Original audio", func(p types.Post) bool { return p.MusicInfo != nil && p.MusicInfo.UsesOriginalAudio }},
	{"Hashtags", func(p types.Post) bool { return len(p.Hashtags) > 0 }},
	{"Mentions", func(p types.Post) bool { return len(p.Mentions) > 0 }},
	{"Question in caption", func(p types.Post) bool { return strings.Contains(p.Caption, "?") }},
	{"Call to action", func(p types.Post) bool { return callToAction.MatchString(p.Caption) }},
}

// Signals evaluates each binary feature split in a fixed order. A split is
// skipped when either side has fewer than 2 posts, when the sides differ by
// less than 5%, or when its with-group is the same post set as an earlier signal.
func Signals(posts []types.Post) []Signal {
	out := []Signal{}
	accepted := map[string]bool{}

	for _, c := range signalCandidates {
		var with, without []types.Post
		var ids []string
		for _, p := range posts {
			if c.has(p) {
				with = append(with, p)
				ids = append(ids, p.ID)
			} else {
				without = append(without, p)
			}
		}
		if len(with) < 2 || len(without) < 2 {
			continue
		}

		withAvg, withoutAvg := meanScore(with), meanScore(without)
		if relativeDifference(withAvg, withoutAvg) < minRelativeDifference {
			continue
		}

		sort.Strings(ids)
		key := strings.Join(ids, "\x00")
		if accepted[key] {
			continue
		}
		accepted[key] = true

		s := Signal{
			Name:     c.name,
			With:     GroupStat{Posts: len(with), AvgEngagement: round1(withAvg)},
			Without:  GroupStat{Posts: len(without), AvgEngagement: round1(withoutAvg)},
			Positive: withAvg > withoutAvg,
		}
		if pct, ok := lift(withAvg, withoutAvg); ok {
			s.LiftPercent = &pct
		}
		s.Message = signalMessage(s)
		out = append(out, s)
	}
	return out
}

func signalMessage(s Signal) string {
	name := strings.ToLower(s.Name)
	if s.LiftPercent == nil {
		return fmt.Sprintf("Posts with %s get engagement where posts without get none", name)
	}
	pct := *s.LiftPercent
	if s.Positive {
		return fmt.Sprintf("Posts with %s get %.0f%% more engagement", name, pct)
	}
	return fmt.Sprintf("Posts with %s get %.0f%% less engagement", name, -pct)
}
