// Package insights computes descriptive statistics over a batch of normalized posts.
//
// Every function here is pure: it reads its arguments, never mutates them, and
// returns the same output for the same input. Rankings use stable sorts so ties
// keep the order in which entries first appeared in the input.
package insights

import (
	"time"

	"github.com/jonathan/creator-analytics/internal/normalize"
	"github.com/jonathan/creator-analytics/internal/types"
)

// Caption length thresholds, in runes.
const (
	InsightsCaptionThreshold = 60
	ReportCaptionThreshold   = 150
)

// minRelativeDifference is the smallest relative gap, in percent, worth reporting.
const minRelativeDifference = 5.0

// Options tunes Aggregate.
type Options struct {
	// Location is the zone used for day and hour buckets. Nil means UTC.
	Location *time.Location
	// CaptionThreshold overrides InsightsCaptionThreshold when positive.
	CaptionThreshold int
}

// Insights bundles every aggregate for one batch of posts.
type Insights struct {
	Summary        Summary             `json:"summary"`
	BestTimes      BestTimesResult     `json:"bestTimes"`
	Formats        []FormatStat        `json:"formats"`
	Captions       CaptionCohortResult `json:"captions"`
	Signals        []Signal            `json:"signals"`
	Hashtags       TagFrequency        `json:"hashtags"`
	Mentions       TagFrequency        `json:"mentions"`
	Collaborations CollabResult        `json:"collaborations"`
	Audio          AudioResult         `json:"audio"`
}

// Aggregate runs every aggregator over posts.
func Aggregate(posts []types.Post, opts Options) Insights {
	threshold := opts.CaptionThreshold
	if threshold <= 0 {
		threshold = InsightsCaptionThreshold
	}
	return Insights{
		Summary:        Summarize(posts),
		BestTimes:      BestTimes(posts, opts.Location),
		Formats:        FormatPerformance(posts),
		Captions:       CaptionCohort(posts, threshold),
		Signals:        Signals(posts),
		Hashtags:       TopHashtags(posts),
		Mentions:       TopMentions(posts),
		Collaborations: Collaborations(posts),
		Audio:          AudioPerformance(posts),
	}
}

// score is the engagement score used by every aggregator except best times.
func score(p types.Post) float64 {
	return float64(p.Metrics.Interactions())
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func meanScore(posts []types.Post) float64 {
	values := make([]float64, len(posts))
	for i, p := range posts {
		values[i] = score(p)
	}
	return mean(values)
}

// relativeDifference is |a-b| as a percent of the larger value.
func relativeDifference(a, b float64) float64 {
	hi := max(a, b)
	if hi <= 0 {
		return 0
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff / hi * 100
}

// lift is how much better winner does than loser, in percent.
// ok is false when loser is zero and the ratio is undefined.
func lift(winner, loser float64) (pct float64, ok bool) {
	if loser <= 0 {
		return 0, false
	}
	return normalize.Round1Float((winner - loser) / loser * 100), true
}

func round1(v float64) float64 {
	return normalize.Round1Float(v)
}
