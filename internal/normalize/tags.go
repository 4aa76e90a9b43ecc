package normalize

import (
	"regexp"
	"strings"

	"github.com/jonathan/creator-analytics/internal/types"
)

var (
	hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	mentionPattern = regexp.MustCompile(`@([\p{L}\p{N}_.]+)`)
)

// ExtractHashtags returns the hashtags in text without the leading '#', in order of appearance.
func ExtractHashtags(text string) []string {
	return extract(hashtagPattern, text)
}

// ExtractMentions returns the @handles in text without the leading '@'.
func ExtractMentions(text string) []string {
	return extract(mentionPattern, text)
}

func extract(pattern *regexp.Regexp, text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range pattern.FindAllStringSubmatch(text, -1) {
		tag := strings.TrimRight(m[1], ".")
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	return out
}

// StringList reads an array of strings or of objects carrying a name-like key.
func StringList(v any, prefix string, objectKeys ...string) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	seen := make(map[string]bool)
	for _, entry := range arr {
		var s string
		switch e := entry.(type) {
		case string:
			s = e
		case map[string]any:
			s = LookupString(e, objectKeys...)
		}
		s = strings.TrimPrefix(strings.TrimSpace(s), prefix)
		if s == "" || seen[strings.ToLower(s)] {
			continue
		}
		seen[strings.ToLower(s)] = true
		out = append(out, s)
	}
	return out
}

// taggedUsers reads Instagram-style tagged accounts.
func taggedUsers(v any) []types.TaggedUser {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []types.TaggedUser
	for _, entry := range arr {
		switch e := entry.(type) {
		case string:
			if name := strings.TrimPrefix(strings.TrimSpace(e), "@"); name != "" {
				out = append(out, types.TaggedUser{Username: name})
			}
		case map[string]any:
			name := strings.TrimPrefix(LookupString(e, "username", "userName", "screen_name", "handle"), "@")
			if name == "" {
				continue
			}
			verified, _ := Lookup(e, "is_verified", "isVerified", "verified")
			out = append(out, types.TaggedUser{
				Username:   name,
				FullName:   LookupString(e, "full_name", "fullName", "name"),
				IsVerified: ToBool(verified),
			})
		}
	}
	return out
}

// musicInfo reads Instagram musicInfo or TikTok musicMeta blocks.
func musicInfo(item Item) *types.MusicInfo {
	if m, ok := item["musicInfo"].(map[string]any); ok {
		original, _ := Lookup(m, "uses_original_audio", "usesOriginalAudio")
		info := &types.MusicInfo{
			SongName:          LookupString(m, "song_name", "songName", "title"),
			ArtistName:        LookupString(m, "artist_name", "artistName", "artist"),
			UsesOriginalAudio: ToBool(original),
		}
		if info.SongName == "" && info.ArtistName == "" && !info.UsesOriginalAudio {
			return nil
		}
		return info
	}
	if m, ok := item["musicMeta"].(map[string]any); ok {
		original, _ := Lookup(m, "musicOriginal", "original")
		return &types.MusicInfo{
			SongName:          LookupString(m, "musicName", "title"),
			ArtistName:        LookupString(m, "musicAuthor", "authorName"),
			UsesOriginalAudio: ToBool(original),
		}
	}
	return nil
}
