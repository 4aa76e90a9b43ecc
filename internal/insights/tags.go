package insights

import (
	"sort"
	"strings"

	"github.com/jonathan/creator-analytics/internal/types"
)

const (
	maxTags          = 10
	maxCollaborators = 8
	maxTracks        = 5
)

// TagCount is one hashtag or mention with its frequency.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
	// AvgEngagement is set only when the listed tags do not all share one average.
	AvgEngagement *float64 `json:"avgEngagement,omitempty"`
}

// TagFrequency is the ranked tag list, or an empty state.
type TagFrequency struct {
	Items   []TagCount `json:"items"`
	Empty   bool       `json:"empty"`
	Message string     `json:"message,omitempty"`
}

// TopHashtags ranks hashtags by the number of posts using them.
func TopHashtags(posts []types.Post) TagFrequency {
	return topTags(posts, func(p types.Post) []string { return p.Hashtags }, "#", "No hashtags found")
}

// TopMentions ranks @mentions by the number of posts using them.
func TopMentions(posts []types.Post) TagFrequency {
	return topTags(posts, func(p types.Post) []string { return p.Mentions }, "@", "No mentions found")
}

type tagAcc struct {
	tag    string
	scores []float64
}

func topTags(posts []types.Post, get func(types.Post) []string, prefix, emptyMessage string) TagFrequency {
	index := map[string]int{}
	var accs []*tagAcc
	for _, p := range posts {
		seen := map[string]bool{}
		for _, raw := range get(p) {
			tag := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), prefix))
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			i, ok := index[tag]
			if !ok {
				i = len(accs)
				index[tag] = i
				accs = append(accs, &tagAcc{tag: tag})
			}
			accs[i].scores = append(accs[i].scores, score(p))
		}
	}
	if len(accs) == 0 {
		return TagFrequency{Items: []TagCount{}, Empty: true, Message: emptyMessage}
	}

	sort.SliceStable(accs, func(i, j int) bool { return len(accs[i].scores) > len(accs[j].scores) })
	if len(accs) > maxTags {
		accs = accs[:maxTags]
	}

	averages := make([]float64, len(accs))
	distinct := map[float64]bool{}
	for i, a := range accs {
		averages[i] = round1(mean(a.scores))
		distinct[averages[i]] = true
	}

	items := make([]TagCount, len(accs))
	for i, a := range accs {
		items[i] = TagCount{Tag: a.tag, Count: len(a.scores)}
		if len(distinct) > 1 {
			avg := averages[i]
			items[i].AvgEngagement = &avg
		}
	}
	return TagFrequency{Items: items}
}
