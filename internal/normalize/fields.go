package normalize

import "github.com/jonathan/creator-analytics/internal/types"

// Field names a canonical attribute resolved through candidate keys.
type Field string

// Canonical fields
const (
	FieldID        Field = "id"
	FieldURL       Field = "url"
	FieldCaption   Field = "caption"
	FieldThumbnail Field = "thumbnail"
	FieldPublished Field = "published"
	FieldViews     Field = "views"
	FieldLikes     Field = "likes"
	FieldComments  Field = "comments"
	FieldShares    Field = "shares"
	FieldSaves     Field = "saves"
	FieldRetweets  Field = "retweets"
	FieldQuotes    Field = "quotes"
	FieldFollowers Field = "followers"
	FieldHashtags  Field = "hashtags"
	FieldMentions  Field = "mentions"
	FieldTagged    Field = "tagged"
	FieldLocation  Field = "location"
	FieldType      Field = "type"
)

// defaultFields is the candidate order used when a platform has no override.
var defaultFields = map[Field][]string{
	FieldID:        {"id", "shortCode", "shortcode", "postId", "videoId", "urn", "id_str"},
	FieldURL:       {"url", "webVideoUrl", "postUrl", "link", "permalink"},
	FieldCaption:   {"caption", "text", "description", "title", "full_text", "commentary"},
	FieldThumbnail: {"displayUrl", "thumbnailUrl", "thumbnail", "covers.default", "videoMeta.coverUrl", "image"},
	FieldPublished: {"timestamp", "createTimeISO", "publishedAt", "postedAt", "createdAt", "created_at", "date", "uploadDate", "createTime"},
	FieldViews:     {"videoViewCount", "viewCount", "playCount", "views", "videoPlayCount"},
	FieldLikes:     {"likesCount", "likes", "diggCount", "heartCount", "likeCount", "favoriteCount", "numLikes"},
	FieldComments:  {"commentsCount", "comments", "commentCount", "replyCount", "numComments"},
	FieldShares:    {"sharesCount", "shares", "shareCount", "numShares", "reposts", "repostsCount"},
	FieldSaves:     {"collectCount", "savesCount", "saves", "bookmarkCount"},
	FieldRetweets:  {"retweetCount", "retweets", "retweet_count"},
	FieldQuotes:    {"quoteCount", "quotes", "quote_count"},
	FieldFollowers: {"authorMeta.fans", "ownerFollowersCount", "followersCount", "author.followers", "author.followersCount", "user.followers_count", "numberOfSubscribers", "channelSubscriberCount"},
	FieldHashtags:  {"hashtags", "tags", "entities.hashtags"},
	FieldMentions:  {"mentions", "entities.user_mentions"},
	FieldTagged:    {"taggedUsers", "tagged_users", "coauthorProducers"},
	FieldLocation:  {"locationName", "location.name", "location", "poi.name"},
	FieldType:      {"type", "productType", "mediaType"},
}

// platformFields overrides candidate orders where a platform's scrapers
// disagree with the defaults.
var platformFields = map[types.Platform]map[Field][]string{
	types.PlatformTikTok: {
		FieldURL:       {"webVideoUrl", "url", "shareUrl"},
		FieldCaption:   {"text", "desc", "description", "caption"},
		FieldThumbnail: {"videoMeta.coverUrl", "covers.default", "cover", "thumbnailUrl"},
		FieldPublished: {"createTimeISO", "createTime", "timestamp", "publishedAt"},
		FieldViews:     {"playCount", "videoViewCount", "viewCount", "views", "stats.playCount"},
		FieldLikes:     {"diggCount", "heartCount", "likesCount", "likes", "likeCount", "stats.diggCount"},
		FieldComments:  {"commentCount", "commentsCount", "comments", "stats.commentCount"},
		FieldShares:    {"shareCount", "sharesCount", "shares", "stats.shareCount"},
		FieldSaves:     {"collectCount", "savesCount", "saves", "stats.collectCount"},
		FieldLocation:  {"locationCreated", "poi.name", "locationName"},
	},
	types.PlatformInstagram: {
		FieldID:        {"id", "shortCode", "shortcode"},
		FieldURL:       {"url", "postUrl"},
		FieldCaption:   {"caption", "text", "alt"},
		FieldThumbnail: {"displayUrl", "thumbnailUrl", "images.0"},
		FieldPublished: {"timestamp", "takenAt", "taken_at_timestamp", "date"},
		FieldViews:     {"videoViewCount", "videoPlayCount", "viewCount", "playCount", "views"},
		FieldLikes:     {"likesCount", "likes", "likeCount", "edge_liked_by.count"},
		FieldComments:  {"commentsCount", "comments", "commentCount", "edge_media_to_comment.count"},
	},
	types.PlatformYouTube: {
		FieldURL:       {"url", "videoUrl", "link"},
		FieldCaption:   {"title", "text", "description"},
		FieldThumbnail: {"thumbnailUrl", "thumbnail", "thumbnails.0.url"},
		FieldPublished: {"date", "uploadDate", "publishedAt", "publishDate"},
		FieldViews:     {"viewCount", "views", "videoViewCount"},
		FieldLikes:     {"likes", "likeCount", "likesCount"},
		FieldComments:  {"commentsCount", "commentCount", "comments", "numberOfComments"},
	},
	types.PlatformTwitter: {
		FieldID:        {"id", "id_str", "tweetId"},
		FieldURL:       {"url", "twitterUrl", "link"},
		FieldCaption:   {"text", "full_text", "fullText", "content"},
		FieldThumbnail: {"media.0.media_url_https", "extendedEntities.media.0.media_url_https", "thumbnail"},
		FieldPublished: {"createdAt", "created_at", "date", "timestamp"},
		FieldViews:     {"viewCount", "views", "impressionCount", "view_count"},
		FieldLikes:     {"likeCount", "favoriteCount", "favorite_count", "likes"},
		FieldComments:  {"replyCount", "reply_count", "comments", "commentCount"},
		FieldRetweets:  {"retweetCount", "retweet_count", "retweets"},
		FieldQuotes:    {"quoteCount", "quote_count", "quotes"},
	},
	types.PlatformLinkedIn: {
		FieldID:        {"urn", "id", "postId", "activityUrn"},
		FieldURL:       {"url", "postUrl", "post_url", "shareUrl"},
		FieldCaption:   {"text", "commentary", "content", "description"},
		FieldThumbnail: {"image", "images.0", "media.0.url", "thumbnail"},
		FieldPublished: {"postedAt", "posted_at.date", "postedAtISO", "publishedAt", "date", "timestamp"},
		FieldLikes:     {"numLikes", "likes", "reactionCount", "totalReactionCount", "stats.total_reactions", "likesCount"},
		FieldComments:  {"numComments", "comments", "commentsCount", "stats.comments"},
		FieldShares:    {"numShares", "reposts", "repostsCount", "shares", "stats.reposts"},
	},
}

// Keys returns the candidate keys for field on platform, platform overrides first.
func Keys(platform types.Platform, field Field) []string {
	if overrides, ok := platformFields[platform]; ok {
		if keys, ok := overrides[field]; ok {
			return keys
		}
	}
	return defaultFields[field]
}

// metricShape records which optional metrics exist on each platform.
type metricShape struct {
	views, shares, saves, retweets bool
}

var shapes = map[types.Platform]metricShape{
	types.PlatformTikTok:    {views: true, shares: true, saves: true},
	types.PlatformInstagram: {views: true},
	types.PlatformYouTube:   {views: true},
	types.PlatformTwitter:   {views: true, shares: true, retweets: true},
	types.PlatformLinkedIn:  {shares: true},
}
