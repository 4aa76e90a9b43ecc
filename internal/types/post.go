// Package types provides type definitions for the canonical records shared across the creator-analytics system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
	"time"
)

// Platform identifies the social network a post was published on
type Platform string

// Supported platforms
const (
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
)

// AllPlatforms lists every supported platform in display order
var AllPlatforms = []Platform{
	PlatformTikTok,
	PlatformInstagram,
	PlatformYouTube,
	PlatformTwitter,
	PlatformLinkedIn,
}

// ParsePlatform parses a platform name case-insensitively
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if p.Valid() {
		return p, nil
	}
	return "", fmt.Errorf("unknown platform %q", s)
}

// Valid reports whether p is one of the supported platforms
func (p Platform) Valid() bool {
	for _, known := range AllPlatforms {
		if p == known {
			return true
		}
	}
	return false
}

// ContentType is the media kind reported by the scraper, when it reports one
type ContentType string

// Content types as reported by Instagram-style scrapers
const (
	ContentVideo   ContentType = "Video"
	ContentImage   ContentType = "Image"
	ContentSidecar ContentType = "Sidecar"
)

// Post is one piece of published content in canonical form
type Post struct {
	ID                   string    `json:"id"`
	Platform             Platform  `json:"platform"`
	URL                  string    `json:"url"`
	Caption              string    `json:"caption"`
	ThumbnailURL         string    `json:"thumbnailUrl"`
	PublishedAt          time.Time `json:"publishedAt"`
	PublishedAtEstimated bool      `json:"publishedAtEstimated,omitempty"` // synthesized from fetch order
	Metrics              Metrics   `json:"metrics"`
	EngagementRate       float64   `json:"engagementRate" validate:"gte=0"`

	// Enrichment used only by insight aggregation
	Hashtags     []string     `json:"hashtags,omitempty"`
	Mentions     []string     `json:"mentions,omitempty"`
	TaggedUsers  []TaggedUser `json:"taggedUsers,omitempty"`
	MusicInfo    *MusicInfo   `json:"musicInfo,omitempty"`
	LocationName string       `json:"locationName,omitempty"`
	ContentType  ContentType  `json:"contentType,omitempty"`
}

// Metrics holds the engagement counters of a post.
// Nil pointers mean the metric does not exist on the platform, not zero.
type Metrics struct {
	Views    *int64 `json:"views,omitempty" validate:"omitempty,gte=0"`
	Likes    int64  `json:"likes" validate:"gte=0"`
	Comments int64  `json:"comments" validate:"gte=0"`
	Shares   *int64 `json:"shares,omitempty" validate:"omitempty,gte=0"`
	Saves    *int64 `json:"saves,omitempty" validate:"omitempty,gte=0"`
	Retweets *int64 `json:"retweets,omitempty" validate:"omitempty,gte=0"`
	Quotes   *int64 `json:"quotes,omitempty" validate:"omitempty,gte=0"`
}

// ViewsOrZero returns views, or 0 when the platform has none
func (m Metrics) ViewsOrZero() int64 { return deref(m.Views) }

// SharesOrZero returns shares, or 0 when the platform has none
func (m Metrics) SharesOrZero() int64 { return deref(m.Shares) }

// SavesOrZero returns saves, or 0 when the platform has none
func (m Metrics) SavesOrZero() int64 { return deref(m.Saves) }

// Interactions is likes + comments + shares, the numerator of the engagement rate
func (m Metrics) Interactions() int64 {
	return m.Likes + m.Comments + m.SharesOrZero()
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

// Int64 returns a pointer to v
func Int64(v int64) *int64 { return &v }

// TaggedUser is an account tagged on a post
type TaggedUser struct {
	Username   string `json:"username"`
	FullName   string `json:"full_name,omitempty"`
	IsVerified bool   `json:"is_verified,omitempty"`
}

// MusicInfo describes the audio track attached to a post
type MusicInfo struct {
	SongName          string `json:"song_name"`
	ArtistName        string `json:"artist_name"`
	UsesOriginalAudio bool   `json:"uses_original_audio"`
}
