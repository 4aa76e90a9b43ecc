// Package scraper builds actor inputs for the scraping provider and runs actors synchronously.
package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jonathan/creator-analytics/internal/types"
)

// DefaultResultLimit caps how many items an actor run asks for.
const DefaultResultLimit = 25

// Actor identifiers on the scraping provider
const (
	ActorTikTok         = "clockworks~tiktok-scraper"
	ActorInstagram      = "apify~instagram-scraper"
	ActorYouTube        = "streamers~youtube-scraper"
	ActorTwitter        = "apidojo~tweet-scraper"
	ActorLinkedIn       = "apimaestro~linkedin-profile-posts"
	ActorHashtagStats   = "apify~instagram-hashtag-stats"
	ActorHashtagPosts   = "apify~instagram-hashtag-scraper"
	ActorTikTokProducts = "clockworks~tiktok-trends-scraper"
)

// Request is an actor invocation: which actor to run and with what input.
type Request struct {
	ActorID string
	Input   map[string]any
}

// hostsByPlatform lists the hostnames whose URLs are profile links for that platform.
var hostsByPlatform = map[types.Platform][]string{
	types.PlatformTikTok:    {"tiktok.com"},
	types.PlatformInstagram: {"instagram.com"},
	types.PlatformYouTube:   {"youtube.com", "youtu.be"},
	types.PlatformTwitter:   {"twitter.com", "x.com"},
	types.PlatformLinkedIn:  {"linkedin.com"},
}

// BuildRequest constructs the actor id and input for fetching an account's recent posts.
// target may be a bare handle, an @handle, or a profile URL.
func BuildRequest(platform types.Platform, target string, limit int) (Request, error) {
	if limit <= 0 {
		limit = DefaultResultLimit
	}

	handle, err := Handle(platform, target)
	if err != nil {
		return Request{}, err
	}

	switch platform {
	case types.PlatformTikTok:
		return Request{
			ActorID: ActorTikTok,
			Input: map[string]any{
				"profiles":             []string{handle},
				"resultsPerPage":       limit,
				"shouldDownloadVideos": false,
				"shouldDownloadCovers": false,
			},
		}, nil
	case types.PlatformInstagram:
		return Request{
			ActorID: ActorInstagram,
			Input: map[string]any{
				"directUrls":   []string{ProfileURL(platform, handle)},
				"resultsType":  "posts",
				"resultsLimit": limit,
			},
		}, nil
	case types.PlatformYouTube:
		return Request{
			ActorID: ActorYouTube,
			Input: map[string]any{
				"startUrls":  []map[string]string{{"url": ProfileURL(platform, handle) + "/videos"}},
				"maxResults": limit,
			},
		}, nil
	case types.PlatformTwitter:
		return Request{
			ActorID: ActorTwitter,
			Input: map[string]any{
				"twitterHandles": []string{handle},
				"maxItems":       limit,
				"sort":           "Latest",
			},
		}, nil
	case types.PlatformLinkedIn:
		return Request{
			ActorID: ActorLinkedIn,
			Input: map[string]any{
				"username": handle,
				"limit":    limit,
			},
		}, nil
	default:
		return Request{}, fmt.Errorf("unsupported platform %q", platform)
	}
}

// HashtagStatsRequest builds the input for Instagram hashtag statistics.
func HashtagStatsRequest(hashtag string) Request {
	return Request{
		ActorID: ActorHashtagStats,
		Input:   map[string]any{"hashtags": []string{CleanHashtag(hashtag)}},
	}
}

// HashtagPostsRequest builds the input for top posts under a hashtag.
func HashtagPostsRequest(hashtag string, limit int) Request {
	if limit <= 0 {
		limit = DefaultResultLimit
	}
	return Request{
		ActorID: ActorHashtagPosts,
		Input: map[string]any{
			"hashtags":     []string{CleanHashtag(hashtag)},
			"resultsType":  "posts",
			"resultsLimit": limit,
		},
	}
}

// TikTokProductsRequest builds the input for TikTok's trending products feed.
func TikTokProductsRequest(country string, limit int) Request {
	if limit <= 0 {
		limit = DefaultResultLimit
	}
	if country == "" {
		country = "US"
	}
	return Request{
		ActorID: ActorTikTokProducts,
		Input: map[string]any{
			"resultsPerPage": limit,
			"adsCountryCode": strings.ToUpper(country),
			"adsTimeRange":   7,
		},
	}
}

// Handle extracts the account handle from a handle or profile URL.
func Handle(platform types.Platform, target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", fmt.Errorf("username is required")
	}

	if looksLikeURL(target) {
		return handleFromURL(platform, target)
	}

	handle := strings.TrimPrefix(target, "@")
	if handle == "" || strings.ContainsAny(handle, " /?#") {
		return "", fmt.Errorf("invalid username %q", target)
	}
	return handle, nil
}

// ProfileURL returns the canonical profile URL for a handle.
func ProfileURL(platform types.Platform, handle string) string {
	switch platform {
	case types.PlatformTikTok:
		return "https://www.tiktok.com/@" + handle
	case types.PlatformInstagram:
		return "https://www.instagram.com/" + handle + "/"
	case types.PlatformYouTube:
		return "https://www.youtube.com/@" + handle
	case types.PlatformTwitter:
		return "https://x.com/" + handle
	case types.PlatformLinkedIn:
		return "https://www.linkedin.com/in/" + handle
	default:
		return handle
	}
}

// CleanHashtag strips a leading '#' and whitespace and lower-cases the tag.
func CleanHashtag(tag string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}

func looksLikeURL(s string) bool {
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return true
	}
	for _, hosts := range hostsByPlatform {
		for _, host := range hosts {
			if strings.HasPrefix(lower, host+"/") || strings.HasPrefix(lower, "www."+host+"/") {
				return true
			}
		}
	}
	return false
}

func handleFromURL(platform types.Platform, raw string) (string, error) {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid profile URL %q: %w", raw, err)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	if !hostMatches(platform, host) {
		return "", fmt.Errorf("URL %q is not a %s profile", raw, platform)
	}

	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	// Skip path prefixes that precede the handle
	for len(segments) > 0 {
		switch strings.ToLower(segments[0]) {
		case "in", "company", "c", "user", "channel":
			segments = segments[1:]
			if len(segments) > 0 {
				return strings.TrimPrefix(segments[0], "@"), nil
			}
		default:
			handle := strings.TrimPrefix(segments[0], "@")
			if handle == "" {
				return "", fmt.Errorf("profile URL %q has no handle", raw)
			}
			return handle, nil
		}
	}
	return "", fmt.Errorf("profile URL %q has no handle", raw)
}

func hostMatches(platform types.Platform, host string) bool {
	for _, known := range hostsByPlatform[platform] {
		if host == known {
			return true
		}
	}
	return false
}
