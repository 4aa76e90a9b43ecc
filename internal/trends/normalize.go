// Package trends fetches and normalizes trend data from Instagram hashtags, Reddit and TikTok.
package trends

import (
	"sort"
	"strings"

	"github.com/jonathan/creator-analytics/internal/normalize"
	"github.com/jonathan/creator-analytics/internal/scraper"
	"github.com/jonathan/creator-analytics/internal/types"
)

const (
	// maxRelatedHashtags caps the related hashtags kept per stats record.
	maxRelatedHashtags = 10
	// trendBand is the relative change in daily volume needed to call a direction.
	trendBand = 0.10

	redditBaseURL = "https://www.reddit.com"
)

// NormalizeHashtagStats maps one raw hashtag statistics item.
func NormalizeHashtagStats(item normalize.Item) types.HashtagStats {
	related, _ := normalize.Lookup(item, "related", "relatedHashtags", "related_hashtags", "topRelated")
	tags := normalize.StringList(related, "#", "hash", "name", "hashtag", "tag")
	if len(tags) > maxRelatedHashtags {
		tags = tags[:maxRelatedHashtags]
	}
	if tags == nil {
		tags = []string{}
	}

	return types.HashtagStats{
		Hashtag:         scraper.CleanHashtag(normalize.LookupString(item, "name", "hashtag", "tag")),
		PostCount:       normalize.LookupInt64(item, "postsCount", "mediaCount", "postCount", "count"),
		Trend:           direction(item),
		RelatedHashtags: tags,
	}
}

func direction(item normalize.Item) types.TrendDirection {
	switch strings.ToLower(normalize.LookupString(item, "trend", "direction", "trendDirection")) {
	case "up", "rising", "growing", "increasing":
		return types.TrendUp
	case "down", "falling", "declining", "decreasing":
		return types.TrendDown
	case "stable", "flat":
		return types.TrendStable
	}

	current, okCurrent := normalize.Lookup(item, "postsPerDay", "posts_per_day")
	average, okAverage := normalize.Lookup(item, "avgPostsPerDay", "averagePostsPerDay", "avg_posts_per_day")
	if !okCurrent || !okAverage {
		return types.TrendStable
	}
	cur, avg := normalize.ToFloat(current), normalize.ToFloat(average)
	switch {
	case avg <= 0:
		return types.TrendStable
	case cur >= avg*(1+trendBand):
		return types.TrendUp
	case cur <= avg*(1-trendBand):
		return types.TrendDown
	}
	return types.TrendStable
}

// NormalizeHashtagPosts maps raw hashtag post items, tagging each with hashtag.
func NormalizeHashtagPosts(hashtag string, items []normalize.Item) []types.HashtagPost {
	key := func(f normalize.Field) []string { return normalize.Keys(types.PlatformInstagram, f) }
	tag := scraper.CleanHashtag(hashtag)

	posts := make([]types.HashtagPost, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		post := types.HashtagPost{
			ID:            normalize.LookupString(item, key(normalize.FieldID)...),
			Hashtag:       tag,
			URL:           normalize.LookupString(item, key(normalize.FieldURL)...),
			Caption:       normalize.LookupString(item, key(normalize.FieldCaption)...),
			OwnerUsername: normalize.LookupString(item, "ownerUsername", "owner.username", "username"),
			Likes:         normalize.LookupInt64(item, key(normalize.FieldLikes)...),
			Comments:      normalize.LookupInt64(item, key(normalize.FieldComments)...),
		}
		if v, ok := normalize.Lookup(item, key(normalize.FieldPublished)...); ok {
			post.PublishedAt, _ = normalize.ParseTime(v)
		}
		if post.ID == "" {
			post.ID = post.URL
		}
		posts = append(posts, post)
	}
	return posts
}

// NormalizeRedditListing maps a Reddit listing document (data.children[].data).
func NormalizeRedditListing(listing normalize.Item) []types.RedditTrend {
	children, _ := normalize.Lookup(listing, "data.children")
	arr, _ := children.([]any)

	out := make([]types.RedditTrend, 0, len(arr))
	for _, child := range arr {
		wrapper, ok := child.(map[string]any)
		if !ok {
			continue
		}
		data, ok := wrapper["data"].(map[string]any)
		if !ok {
			continue
		}

		trend := types.RedditTrend{
			ID:        normalize.LookupString(data, "id", "name"),
			Title:     normalize.LookupString(data, "title"),
			Subreddit: normalize.LookupString(data, "subreddit"),
			Upvotes:   normalize.LookupInt64(data, "ups", "score"),
			Comments:  normalize.LookupInt64(data, "num_comments"),
			URL:       normalize.LookupString(data, "url"),
		}
		if permalink := normalize.LookupString(data, "permalink"); permalink != "" {
			trend.URL = redditBaseURL + permalink
		}
		if v, ok := normalize.Lookup(data, "created_utc", "created"); ok {
			trend.CreatedAt, _ = normalize.ParseTime(v)
		}
		out = append(out, trend)
	}
	return out
}

// NormalizeTikTokTrends maps raw trending product items, highest trend score first.
func NormalizeTikTokTrends(items []normalize.Item) []types.TikTokTrend {
	out := make([]types.TikTokTrend, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		score, _ := normalize.Lookup(item, "trendScore", "score", "popularity", "impression")
		out = append(out, types.TikTokTrend{
			ID:          normalize.LookupString(item, "id", "product_id", "productId"),
			ProductName: normalize.LookupString(item, "productName", "product_name", "name", "title"),
			Category:    normalize.LookupString(item, "category", "categoryName", "first_ecom_category.value", "first_ecom_category"),
			TrendScore:  normalize.ToFloat(score),
			PostCount:   normalize.LookupInt64(item, "postCount", "post_count", "posts", "post"),
			URL:         normalize.LookupString(item, "url", "detailUrl", "detail_url"),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TrendScore > out[j].TrendScore })
	return out
}
