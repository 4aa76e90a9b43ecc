package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/creator-analytics/internal/fetch"
	"github.com/jonathan/creator-analytics/internal/types"
)

// postNamespace seeds deterministic ids for items that carry none.
var postNamespace = uuid.MustParse("6f1c8f9e-3b7a-4c52-9d0e-2a4b5c6d7e8f")

// Normalizer converts raw scraper items for one account into Posts.
type Normalizer struct {
	// Followers is the account's follower count. When <= 0 it is probed from each item.
	Followers int64
	// Now anchors synthesized publish dates; zero means time.Now().
	Now time.Time
}

// New returns a Normalizer for an account with the given follower count.
func New(followers int64) *Normalizer {
	return &Normalizer{Followers: followers}
}

// Normalize maps one raw item into a canonical Post.
// index is the item's position in its batch and only matters when the item has no id or date.
func (n *Normalizer) Normalize(platform types.Platform, item Item, index int) types.Post {
	key := func(f Field) []string { return Keys(platform, f) }
	shape := shapes[platform]

	post := types.Post{
		Platform:     platform,
		URL:          LookupString(item, key(FieldURL)...),
		ThumbnailURL: LookupString(item, key(FieldThumbnail)...),
		LocationName: LookupString(item, key(FieldLocation)...),
	}

	post.Caption = caption(item, key(FieldCaption))
	post.ID = LookupString(item, key(FieldID)...)
	if post.ID == "" {
		post.ID = syntheticID(platform, post.URL, index)
	}

	if v, ok := Lookup(item, key(FieldPublished)...); ok {
		post.PublishedAt, ok = ParseTime(v)
		if !ok {
			post.PublishedAt, post.PublishedAtEstimated = n.estimate(index), true
		}
	} else {
		post.PublishedAt, post.PublishedAtEstimated = n.estimate(index), true
	}

	post.Metrics = types.Metrics{
		Likes:    LookupInt64(item, key(FieldLikes)...),
		Comments: LookupInt64(item, key(FieldComments)...),
	}
	if shape.views {
		post.Metrics.Views = types.Int64(LookupInt64(item, key(FieldViews)...))
	}
	if shape.saves {
		post.Metrics.Saves = types.Int64(LookupInt64(item, key(FieldSaves)...))
	}
	switch {
	case shape.retweets:
		retweets := LookupInt64(item, key(FieldRetweets)...)
		quotes := LookupInt64(item, key(FieldQuotes)...)
		post.Metrics.Retweets = types.Int64(retweets)
		post.Metrics.Quotes = types.Int64(quotes)
		post.Metrics.Shares = types.Int64(retweets + quotes)
	case shape.shares:
		post.Metrics.Shares = types.Int64(LookupInt64(item, key(FieldShares)...))
	}

	followers := n.Followers
	if followers <= 0 {
		followers = LookupInt64(item, key(FieldFollowers)...)
	}
	post.EngagementRate = EngagementRate(post.Metrics.Likes, post.Metrics.Comments, post.Metrics.SharesOrZero(), followers)

	n.enrich(platform, item, &post)
	return post
}

// NormalizeBatch normalizes items in order and makes ids unique within the batch.
func (n *Normalizer) NormalizeBatch(platform types.Platform, items []Item) []types.Post {
	posts := make([]types.Post, 0, len(items))
	seen := make(map[string]int, len(items))
	for i, item := range items {
		post := n.Normalize(platform, item, i)
		seen[post.ID]++
		if c := seen[post.ID]; c > 1 {
			post.ID = fmt.Sprintf("%s-%d", post.ID, c)
		}
		posts = append(posts, post)
	}
	return posts
}

func (n *Normalizer) enrich(platform types.Platform, item Item, post *types.Post) {
	hashtags, _ := Lookup(item, Keys(platform, FieldHashtags)...)
	post.Hashtags = StringList(hashtags, "#", "name", "text", "tag", "title")
	if len(post.Hashtags) == 0 {
		post.Hashtags = ExtractHashtags(post.Caption)
	}

	mentions, _ := Lookup(item, Keys(platform, FieldMentions)...)
	post.Mentions = StringList(mentions, "@", "username", "screen_name", "userName", "name")
	if len(post.Mentions) == 0 {
		post.Mentions = ExtractMentions(post.Caption)
	}

	tagged, _ := Lookup(item, Keys(platform, FieldTagged)...)
	post.TaggedUsers = taggedUsers(tagged)
	post.MusicInfo = musicInfo(item)
	post.ContentType = contentType(platform, item)
}

func (n *Normalizer) estimate(index int) time.Time {
	now := n.Now
	if now.IsZero() {
		now = time.Now()
	}
	return now.UTC().AddDate(0, 0, -index)
}

func caption(item Item, keys []string) string {
	text := LookupString(item, keys...)
	if !fetch.HasMarkup(text) {
		return text
	}
	plain, err := fetch.PlainText(text)
	if err != nil {
		return text
	}
	return plain
}

func contentType(platform types.Platform, item Item) types.ContentType {
	switch platform {
	case types.PlatformTikTok, types.PlatformYouTube:
		return types.ContentVideo
	}

	raw := strings.ToLower(LookupString(item, Keys(platform, FieldType)...))
	switch raw {
	case "video", "reel", "reels", "clips", "igtv":
		return types.ContentVideo
	case "sidecar", "carousel", "carousel_container", "album", "document":
		return types.ContentSidecar
	case "image", "photo", "graphimage":
		return types.ContentImage
	}
	return ""
}

func syntheticID(platform types.Platform, url string, index int) string {
	return uuid.NewSHA1(postNamespace, []byte(fmt.Sprintf("%s|%s|%d", platform, url, index))).String()
}
