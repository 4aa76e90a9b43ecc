package types

import "time"

// TrendDirection describes whether a hashtag is gaining or losing traction
type TrendDirection string

// Trend directions
const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// HashtagStats summarizes a hashtag's volume and neighbours
type HashtagStats struct {
	Hashtag         string         `json:"hashtag"`
	PostCount       int64          `json:"postCount"`
	Trend           TrendDirection `json:"trend"`
	RelatedHashtags []string       `json:"relatedHashtags"`
}

// HashtagPost is a single post surfaced under a hashtag
type HashtagPost struct {
	ID            string    `json:"id"`
	Hashtag       string    `json:"hashtag"`
	URL           string    `json:"url"`
	Caption       string    `json:"caption"`
	OwnerUsername string    `json:"ownerUsername,omitempty"`
	Likes         int64     `json:"likes"`
	Comments      int64     `json:"comments"`
	PublishedAt   time.Time `json:"publishedAt,omitzero"`
}

// RedditTrend is a top post from a subreddit
type RedditTrend struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Subreddit string    `json:"subreddit"`
	Upvotes   int64     `json:"upvotes"`
	Comments  int64     `json:"comments"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// TikTokTrend is a trending product from TikTok's commerce trend feed
type TikTokTrend struct {
	ID          string  `json:"id"`
	ProductName string  `json:"productName"`
	Category    string  `json:"category"`
	TrendScore  float64 `json:"trendScore"`
	PostCount   int64   `json:"postCount"`
	URL         string  `json:"url,omitempty"`
}
