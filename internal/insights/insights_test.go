package insights

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/jonathan/creator-analytics/internal/fixtures"
	"github.com/jonathan/creator-analytics/internal/normalize"
	"github.com/jonathan/creator-analytics/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func post(id string, likes, comments int64) types.Post {
	return types.Post{
		ID:          id,
		Platform:    types.PlatformInstagram,
		PublishedAt: monday,
		Metrics:     types.Metrics{Likes: likes, Comments: comments},
	}
}

func at(p types.Post, day, hour int) types.Post {
	p.PublishedAt = monday.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
	return p
}

func demoPosts(t *testing.T) []types.Post {
	t.Helper()
	account, err := fixtures.Account()
	require.NoError(t, err)
	return account.Posts
}

func TestSummarize_DemoAccount(t *testing.T) {
	posts := demoPosts(t)

	var likes int64
	for _, p := range posts {
		likes += p.Metrics.Likes
	}

	s := Summarize(posts)
	assert.Equal(t, 8, s.Posts)
	assert.Equal(t, int64(75200), s.TotalLikes)
	assert.Equal(t, likes, s.TotalLikes)
	assert.Equal(t, 5.4, s.AvgEngagementRate)
	assert.NotEmpty(t, s.TopPostID)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestTopHashtags_NoHashtags(t *testing.T) {
	posts := []types.Post{post("a", 10, 1), post("b", 20, 2)}

	got := TopHashtags(posts)
	assert.True(t, got.Empty)
	assert.Equal(t, "No hashtags found", got.Message)
	assert.Empty(t, got.Items)

	mentions := TopMentions(nil)
	assert.True(t, mentions.Empty)
	assert.Equal(t, "No mentions found", mentions.Message)
}

func TestTopHashtags_CountsOncePerPostCaseInsensitive(t *testing.T) {
	a := post("a", 100, 0)
	a.Hashtags = []string{"#BBQ", "bbq", "austin"}
	b := post("b", 300, 0)
	b.Hashtags = []string{"austin", "tacos"}
	c := post("c", 50, 0)
	c.Hashtags = []string{"Austin"}

	got := TopHashtags([]types.Post{a, b, c})
	require.False(t, got.Empty)
	require.Len(t, got.Items, 3)
	assert.Equal(t, "austin", got.Items[0].Tag)
	assert.Equal(t, 3, got.Items[0].Count)
	// bbq and tacos tie on count; bbq appeared first
	assert.Equal(t, "bbq", got.Items[1].Tag)
	assert.Equal(t, 1, got.Items[1].Count)
	assert.Equal(t, "tacos", got.Items[2].Tag)

	require.NotNil(t, got.Items[0].AvgEngagement)
	assert.Equal(t, 150.0, *got.Items[0].AvgEngagement)
}

func TestTopHashtags_HidesAverageWhenAllEqual(t *testing.T) {
	a := post("a", 100, 0)
	a.Hashtags = []string{"one", "two"}

	got := TopHashtags([]types.Post{a})
	require.Len(t, got.Items, 2)
	for _, item := range got.Items {
		assert.Nil(t, item.AvgEngagement)
	}
}

func TestTopHashtags_CapsAtTen(t *testing.T) {
	p := post("a", 1, 0)
	for i := 0; i < 15; i++ {
		p.Hashtags = append(p.Hashtags, fmt.Sprintf("tag%d", i))
	}
	got := TopHashtags([]types.Post{p})
	assert.Len(t, got.Items, maxTags)
	assert.Equal(t, "tag0", got.Items[0].Tag)
}

func TestBestTimes(t *testing.T) {
	posts := []types.Post{
		at(post("a", 100, 0), 0, 9),  // Mon 09
		at(post("b", 300, 0), 1, 18), // Tue 18
		at(post("c", 100, 0), 2, 12), // Wed 12
		at(post("d", 500, 0), 7, 9),  // Mon 09 again
		at(post("e", 100, 0), 3, 7),  // Thu 07
	}

	got := BestTimes(posts, time.UTC)
	require.Len(t, got.Slots, 3)
	assert.Equal(t, TimeSlot{Day: "Monday", Hour: 9, Posts: 2, AvgEngagement: 300}, got.Slots[0])
	assert.Equal(t, TimeSlot{Day: "Tuesday", Hour: 18, Posts: 1, AvgEngagement: 300}, got.Slots[1])
	// Wednesday and Thursday tie; Wednesday appeared first
	assert.Equal(t, "Wednesday", got.Slots[2].Day)
	assert.Equal(t, "Monday", got.BestDay)
	assert.Equal(t, 9, got.BestHour)
	assert.Equal(t, 5.0, got.PostsPerWeek)
}

func TestBestTimes_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-6", -6*3600)
	got := BestTimes([]types.Post{at(post("a", 1, 0), 1, 3)}, loc)
	require.Len(t, got.Slots, 1)
	assert.Equal(t, "Monday", got.Slots[0].Day)
	assert.Equal(t, 21, got.Slots[0].Hour)
	assert.Equal(t, 7.0, got.PostsPerWeek)
}

func TestBestTimes_Empty(t *testing.T) {
	assert.Equal(t, BestTimesResult{}, BestTimes(nil, nil))
}

func TestBestTimes_SkipsEstimatedPublishTimes(t *testing.T) {
	items := make([]normalize.Item, 6)
	for i := range items {
		items[i] = normalize.Item{"shortCode": fmt.Sprintf("p%d", i), "likesCount": 100 * (i + 1)}
	}
	n := &normalize.Normalizer{Now: time.Date(2026, 10, 15, 14, 37, 0, 0, time.UTC)}
	posts := n.NormalizeBatch(types.PlatformInstagram, items)
	require.Len(t, posts, 6)
	require.True(t, posts[0].PublishedAtEstimated)

	got := BestTimes(posts, time.UTC)
	assert.Equal(t, BestTimesResult{UndatedPosts: 6}, got)

	dated := at(post("d", 40, 2), 1, 18)
	got = BestTimes(append(posts, dated), time.UTC)
	require.Len(t, got.Slots, 1)
	assert.Equal(t, TimeSlot{Day: "Tuesday", Hour: 18, Posts: 1, AvgEngagement: 42}, got.Slots[0])
	assert.Equal(t, "Tuesday", got.BestDay)
	assert.Equal(t, 18, got.BestHour)
	assert.Equal(t, 7.0, got.PostsPerWeek)
	assert.Equal(t, 6, got.UndatedPosts)
}

func TestFormat(t *testing.T) {
	views := types.Int64(10)
	tests := []struct {
		name string
		post types.Post
		want string
	}{
		{"content type wins", types.Post{ContentType: types.ContentSidecar, Caption: "new reel"}, FormatCarousel},
		{"video keyword", types.Post{Caption: "POV: first bite"}, FormatVideo},
		{"carousel keyword", types.Post{Caption: "Ranked: every taco"}, FormatCarousel},
		{"plural video keyword", types.Post{Caption: "New videos every week"}, FormatVideo},
		{"plural carousel keyword", types.Post{Caption: "Taco rankings, part 2"}, FormatCarousel},
		{"threads keyword", types.Post{Caption: "more threads soon"}, FormatCarousel},
		{"keyword needs word boundary", types.Post{Caption: "celebrating friday"}, FormatImage},
		{"views imply video", types.Post{Metrics: types.Metrics{Views: views}}, FormatVideo},
		{"default image", types.Post{Caption: "lunch"}, FormatImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.post))
		})
	}
}

func TestFormatPerformance(t *testing.T) {
	img := post("a", 50, 0)
	vid := post("b", 100, 0)
	vid.ContentType = types.ContentVideo
	car := post("c", 100, 0)
	car.ContentType = types.ContentSidecar

	got := FormatPerformance([]types.Post{img, car, vid})
	require.Len(t, got, 3)
	// Video and Carousel tie; Video is listed first
	assert.Equal(t, FormatVideo, got[0].Format)
	assert.Equal(t, FormatCarousel, got[1].Format)
	assert.Equal(t, FormatImage, got[2].Format)

	assert.Empty(t, FormatPerformance(nil))
}

func TestCaptionCohort(t *testing.T) {
	long := "This caption is definitely long enough to clear the sixty character threshold."
	short := "short one"

	a := post("a", 123, 0)
	a.Caption = long
	b := post("b", 100, 0)
	b.Caption = short

	got := CaptionCohort([]types.Post{a, b}, InsightsCaptionThreshold)
	assert.Equal(t, 1, got.LongPosts)
	assert.Equal(t, 1, got.ShortPosts)
	assert.Equal(t, "Longer captions (60+ chars) outperform shorter ones by 23%", got.Verdict)

	t.Run("shorter wins", func(t *testing.T) {
		b.Metrics.Likes = 200
		got := CaptionCohort([]types.Post{a, b}, InsightsCaptionThreshold)
		assert.Contains(t, got.Verdict, "Shorter captions (under 60 chars)")
	})

	t.Run("small difference has no verdict", func(t *testing.T) {
		b.Metrics.Likes = 120
		got := CaptionCohort([]types.Post{a, b}, InsightsCaptionThreshold)
		assert.Empty(t, got.Verdict)
	})

	t.Run("one cohort has no verdict", func(t *testing.T) {
		got := CaptionCohort([]types.Post{a}, InsightsCaptionThreshold)
		assert.Empty(t, got.Verdict)
		assert.Equal(t, 0, got.ShortPosts)
	})

	t.Run("counts runes", func(t *testing.T) {
		p := post("x", 1, 0)
		p.Caption = "ñññññ"
		got := CaptionCohort([]types.Post{p}, 5)
		assert.Equal(t, 1, got.LongPosts)
	})
}

func TestSignals(t *testing.T) {
	tagged := []types.TaggedUser{{Username: "friend"}}

	p1 := post("p1", 500, 0)
	p1.TaggedUsers = tagged
	p1.LocationName = "Austin"
	p2 := post("p2", 400, 0)
	p2.TaggedUsers = tagged
	p2.LocationName = "Austin"
	p3 := post("p3", 100, 0)
	p3.Caption = "Which spot wins?"
	p4 := post("p4", 120, 0)
	p4.Caption = "Best brisket?"

	got := Signals([]types.Post{p1, p2, p3, p4})

	names := make([]string, len(got))
	for i, s := range got {
		names[i] = s.Name
	}
	// Location tag splits exactly like tagged collaborators and is dropped
	assert.Equal(t, []string{"Tagged collaborators", "Question in caption"}, names)

	first := got[0]
	assert.True(t, first.Positive)
	assert.Equal(t, GroupStat{Posts: 2, AvgEngagement: 450}, first.With)
	assert.Equal(t, GroupStat{Posts: 2, AvgEngagement: 110}, first.Without)
	require.NotNil(t, first.LiftPercent)
	assert.Equal(t, 309.1, *first.LiftPercent)
	assert.Equal(t, "Posts with tagged collaborators get 309% more engagement", first.Message)

	assert.False(t, got[1].Positive)
}

func TestSignals_Guards(t *testing.T) {
	t.Run("fewer than two on a side", func(t *testing.T) {
		a := post("a", 900, 0)
		a.LocationName = "Austin"
		got := Signals([]types.Post{a, post("b", 10, 0), post("c", 10, 0)})
		assert.Empty(t, got)
	})

	t.Run("under five percent", func(t *testing.T) {
		a := post("a", 100, 0)
		a.LocationName = "Austin"
		b := post("b", 100, 0)
		b.LocationName = "Austin"
		got := Signals([]types.Post{a, b, post("c", 97, 0), post("d", 97, 0)})
		assert.Empty(t, got)
	})

	t.Run("never duplicates a with-group", func(t *testing.T) {
		var posts []types.Post
		for i := 0; i < 6; i++ {
			p := post(fmt.Sprintf("p%d", i), int64(100*(i+1)), 0)
			if i%2 == 0 {
				p.Hashtags = []string{"x"}
				p.Mentions = []string{"y"}
				p.LocationName = "z"
			}
			posts = append(posts, p)
		}
		got := Signals(posts)
		seen := map[string]bool{}
		for _, s := range got {
			key := fmt.Sprintf("%d/%v", s.With.Posts, s.With.AvgEngagement)
			assert.False(t, seen[key], "duplicate split %s", s.Name)
			seen[key] = true
		}
		assert.Len(t, got, 1)
	})
}

func TestCollaborations(t *testing.T) {
	a := post("a", 300, 0)
	a.TaggedUsers = []types.TaggedUser{{Username: "Chef"}, {Username: "chef"}, {Username: "pitmaster", IsVerified: true}}
	b := post("b", 100, 0)
	b.TaggedUsers = []types.TaggedUser{{Username: "@CHEF"}}
	c := post("c", 100, 0)

	got := Collaborations([]types.Post{a, b, c})
	require.Len(t, got.Collaborators, 2)
	assert.Equal(t, Collaborator{Username: "chef", Posts: 2, TotalEngagement: 400, AvgEngagement: 200}, got.Collaborators[0])
	assert.Equal(t, "pitmaster", got.Collaborators[1].Username)
	assert.True(t, got.Collaborators[1].IsVerified)
	assert.Equal(t, 2, got.CollabPosts)
	assert.Equal(t, 1, got.SoloPosts)
	require.NotNil(t, got.LiftPercent)
	assert.Equal(t, 100.0, *got.LiftPercent)

	t.Run("no solo posts", func(t *testing.T) {
		got := Collaborations([]types.Post{a})
		assert.Nil(t, got.LiftPercent)
	})

	t.Run("empty", func(t *testing.T) {
		got := Collaborations(nil)
		assert.Empty(t, got.Collaborators)
		assert.Nil(t, got.LiftPercent)
	})
}

func TestAudioPerformance(t *testing.T) {
	orig := post("a", 100, 0)
	orig.MusicInfo = &types.MusicInfo{UsesOriginalAudio: true}
	song1 := post("b", 400, 0)
	song1.MusicInfo = &types.MusicInfo{SongName: "Texas Sun", ArtistName: "Khruangbin"}
	song2 := post("c", 200, 0)
	song2.MusicInfo = &types.MusicInfo{SongName: "texas sun", ArtistName: "khruangbin"}
	song3 := post("d", 500, 0)
	song3.MusicInfo = &types.MusicInfo{SongName: "Other"}

	got := AudioPerformance([]types.Post{orig, song1, song2, song3, post("e", 1, 0)})
	require.Len(t, got.Groups, 2)
	assert.Equal(t, "Licensed audio", got.Groups[0].Label)
	assert.Equal(t, 3, got.Groups[0].Posts)
	assert.Equal(t, "Original audio", got.Groups[1].Label)

	require.Len(t, got.TopTracks, 2)
	assert.Equal(t, "Other", got.TopTracks[0].Song)
	assert.Equal(t, Track{Song: "Texas Sun", Artist: "Khruangbin", Posts: 2, AvgEngagement: 300}, got.TopTracks[1])

	t.Run("single group shown alone", func(t *testing.T) {
		got := AudioPerformance([]types.Post{orig})
		require.Len(t, got.Groups, 1)
		assert.True(t, got.Groups[0].Original)
		assert.Empty(t, got.TopTracks)
	})
}

func TestAggregate_IdempotentAndPure(t *testing.T) {
	posts := demoPosts(t)
	before, err := json.Marshal(posts)
	require.NoError(t, err)

	first, err := json.Marshal(Aggregate(posts, Options{}))
	require.NoError(t, err)
	second, err := json.Marshal(Aggregate(posts, Options{}))
	require.NoError(t, err)
	after, err := json.Marshal(posts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, after)
}

func TestAggregate_DemoAccount(t *testing.T) {
	got := Aggregate(demoPosts(t), Options{})

	assert.Equal(t, int64(75200), got.Summary.TotalLikes)
	assert.Equal(t, 5.4, got.Summary.AvgEngagementRate)
	assert.NotEmpty(t, got.BestTimes.Slots)
	assert.NotEmpty(t, got.Formats)
	assert.Equal(t, InsightsCaptionThreshold, got.Captions.Threshold)
	assert.False(t, got.Hashtags.Empty)
}

func TestAggregate_CaptionThresholdOverride(t *testing.T) {
	got := Aggregate(nil, Options{CaptionThreshold: ReportCaptionThreshold})
	assert.Equal(t, ReportCaptionThreshold, got.Captions.Threshold)
}
