package insights

import (
	"sort"
	"time"

	"github.com/jonathan/creator-analytics/internal/types"
)

const maxTimeSlots = 3

// TimeSlot is one (weekday, hour) bucket.
type TimeSlot struct {
	Day           string  `json:"day"`
	Hour          int     `json:"hour"`
	Posts         int     `json:"posts"`
	AvgEngagement float64 `json:"avgEngagement"`
}

// BestTimesResult ranks posting slots by mean likes plus comments.
type BestTimesResult struct {
	Slots        []TimeSlot `json:"slots"`
	BestDay      string     `json:"bestDay,omitempty"`
	BestHour     int        `json:"bestHour"`
	PostsPerWeek float64    `json:"postsPerWeek"`
	// UndatedPosts counts posts left out because their publish time was estimated.
	UndatedPosts int `json:"undatedPosts,omitempty"`
}

type bucket struct {
	key    int
	values []float64
}

// bucketer groups values by key, remembering first-appearance order.
type bucketer struct {
	index   map[int]int
	buckets []*bucket
}

func (b *bucketer) add(key int, v float64) {
	if b.index == nil {
		b.index = make(map[int]int)
	}
	i, ok := b.index[key]
	if !ok {
		i = len(b.buckets)
		b.index[key] = i
		b.buckets = append(b.buckets, &bucket{key: key})
	}
	b.buckets[i].values = append(b.buckets[i].values, v)
}

// ranked returns buckets by mean descending; equal means keep insertion order.
func (b *bucketer) ranked() []*bucket {
	out := append([]*bucket(nil), b.buckets...)
	sort.SliceStable(out, func(i, j int) bool { return mean(out[i].values) > mean(out[j].values) })
	return out
}

// BestTimes buckets posts by weekday and hour in loc and ranks the buckets.
// Posts with an estimated publish time are not bucketed. When no dated post
// remains the result is zero apart from UndatedPosts.
func BestTimes(posts []types.Post, loc *time.Location) BestTimesResult {
	dated := make([]types.Post, 0, len(posts))
	for _, p := range posts {
		if !p.PublishedAtEstimated {
			dated = append(dated, p)
		}
	}
	undated := len(posts) - len(dated)
	if len(dated) == 0 {
		return BestTimesResult{UndatedPosts: undated}
	}
	if loc == nil {
		loc = time.UTC
	}

	var slots, days, hours bucketer
	first, last := dated[0].PublishedAt, dated[0].PublishedAt
	for _, p := range dated {
		t := p.PublishedAt.In(loc)
		v := float64(p.Metrics.Likes + p.Metrics.Comments)
		slots.add(int(t.Weekday())*24+t.Hour(), v)
		days.add(int(t.Weekday()), v)
		hours.add(t.Hour(), v)

		if p.PublishedAt.Before(first) {
			first = p.PublishedAt
		}
		if p.PublishedAt.After(last) {
			last = p.PublishedAt
		}
	}

	result := BestTimesResult{Slots: []TimeSlot{}, UndatedPosts: undated}
	for _, b := range slots.ranked() {
		if len(result.Slots) == maxTimeSlots {
			break
		}
		result.Slots = append(result.Slots, TimeSlot{
			Day:           time.Weekday(b.key / 24).String(),
			Hour:          b.key % 24,
			Posts:         len(b.values),
			AvgEngagement: round1(mean(b.values)),
		})
	}
	result.BestDay = time.Weekday(days.ranked()[0].key).String()
	result.BestHour = hours.ranked()[0].key

	rangeDays := max(last.Sub(first).Hours()/24, 1)
	result.PostsPerWeek = round1(float64(len(dated)) / rangeDays * 7)
	return result
}
