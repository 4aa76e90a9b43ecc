package insights

import (
	"sort"
	"strings"

	"github.com/jonathan/creator-analytics/internal/types"
)

// Collaborator is one tagged account and the engagement of posts tagging it.
type Collaborator struct {
	Username        string  `json:"username"`
	IsVerified      bool    `json:"isVerified"`
	Posts           int     `json:"posts"`
	TotalEngagement int64   `json:"totalEngagement"`
	AvgEngagement   float64 `json:"avgEngagement"`
}

// CollabResult ranks collaborators and compares tagged posts with solo posts.
type CollabResult struct {
	Collaborators []Collaborator `json:"collaborators"`
	CollabPosts   int            `json:"collabPosts"`
	SoloPosts     int            `json:"soloPosts"`
	CollabAvg     float64        `json:"collabAvg"`
	SoloAvg       float64        `json:"soloAvg"`
	// LiftPercent is nil when either side is empty or solo posts average zero.
	LiftPercent *float64 `json:"liftPercent,omitempty"`
}

// Collaborations groups posts by tagged username, case-insensitively, ranked by total engagement.
func Collaborations(posts []types.Post) CollabResult {
	index := map[string]int{}
	var collabs []Collaborator
	var withTags, solo []types.Post

	for _, p := range posts {
		seen := map[string]bool{}
		for _, u := range p.TaggedUsers {
			key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(u.Username), "@"))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			i, ok := index[key]
			if !ok {
				i = len(collabs)
				index[key] = i
				collabs = append(collabs, Collaborator{Username: key})
			}
			c := &collabs[i]
			c.Posts++
			c.TotalEngagement += p.Metrics.Interactions()
			c.IsVerified = c.IsVerified || u.IsVerified
		}
		if len(seen) > 0 {
			withTags = append(withTags, p)
		} else {
			solo = append(solo, p)
		}
	}

	for i := range collabs {
		collabs[i].AvgEngagement = round1(float64(collabs[i].TotalEngagement) / float64(collabs[i].Posts))
	}
	sort.SliceStable(collabs, func(i, j int) bool { return collabs[i].TotalEngagement > collabs[j].TotalEngagement })
	if len(collabs) > maxCollaborators {
		collabs = collabs[:maxCollaborators]
	}
	if collabs == nil {
		collabs = []Collaborator{}
	}

	r := CollabResult{
		Collaborators: collabs,
		CollabPosts:   len(withTags),
		SoloPosts:     len(solo),
		CollabAvg:     round1(meanScore(withTags)),
		SoloAvg:       round1(meanScore(solo)),
	}
	if len(withTags) > 0 && len(solo) > 0 {
		if pct, ok := lift(meanScore(withTags), meanScore(solo)); ok {
			r.LiftPercent = &pct
		}
	}
	return r
}

// AudioGroup is the mean engagement of original or licensed audio posts.
type AudioGroup struct {
	Label         string  `json:"label"`
	Original      bool    `json:"original"`
	Posts         int     `json:"posts"`
	AvgEngagement float64 `json:"avgEngagement"`
}

// Track is one licensed song and its mean engagement.
type Track struct {
	Song          string  `json:"song"`
	Artist        string  `json:"artist,omitempty"`
	Posts         int     `json:"posts"`
	AvgEngagement float64 `json:"avgEngagement"`
}

// AudioResult compares audio sources and ranks licensed tracks.
type AudioResult struct {
	Groups    []AudioGroup `json:"groups"`
	TopTracks []Track      `json:"topTracks"`
}

// AudioPerformance splits posts carrying music info by original versus licensed audio.
// Only groups with posts are returned.
func AudioPerformance(posts []types.Post) AudioResult {
	var original, licensed []types.Post
	for _, p := range posts {
		switch {
		case p.MusicInfo == nil:
		case p.MusicInfo.UsesOriginalAudio:
			original = append(original, p)
		default:
			licensed = append(licensed, p)
		}
	}

	r := AudioResult{Groups: []AudioGroup{}, TopTracks: []Track{}}
	if len(original) > 0 {
		r.Groups = append(r.Groups, AudioGroup{Label: "Original audio", Original: true, Posts: len(original), AvgEngagement: round1(meanScore(original))})
	}
	if len(licensed) > 0 {
		r.Groups = append(r.Groups, AudioGroup{Label: "Licensed audio", Posts: len(licensed), AvgEngagement: round1(meanScore(licensed))})
	}
	sort.SliceStable(r.Groups, func(i, j int) bool { return r.Groups[i].AvgEngagement > r.Groups[j].AvgEngagement })

	index := map[string]int{}
	var tracks []Track
	var scores [][]float64
	for _, p := range licensed {
		song := strings.TrimSpace(p.MusicInfo.SongName)
		if song == "" {
			continue
		}
		key := strings.ToLower(song + "|" + strings.TrimSpace(p.MusicInfo.ArtistName))
		i, ok := index[key]
		if !ok {
			i = len(tracks)
			index[key] = i
			tracks = append(tracks, Track{Song: song, Artist: strings.TrimSpace(p.MusicInfo.ArtistName)})
			scores = append(scores, nil)
		}
		scores[i] = append(scores[i], score(p))
	}
	for i := range tracks {
		tracks[i].Posts = len(scores[i])
		tracks[i].AvgEngagement = round1(mean(scores[i]))
	}
	sort.SliceStable(tracks, func(i, j int) bool { return tracks[i].AvgEngagement > tracks[j].AvgEngagement })
	if len(tracks) > maxTracks {
		tracks = tracks[:maxTracks]
	}
	if tracks != nil {
		r.TopTracks = tracks
	}
	return r
}
