package insights

import "github.com/jonathan/creator-analytics/internal/types"

// Summary holds batch totals and averages.
type Summary struct {
	Posts             int     `json:"posts"`
	TotalViews        int64   `json:"totalViews"`
	TotalLikes        int64   `json:"totalLikes"`
	TotalComments     int64   `json:"totalComments"`
	TotalShares       int64   `json:"totalShares"`
	TotalSaves        int64   `json:"totalSaves"`
	AvgLikes          float64 `json:"avgLikes"`
	AvgComments       float64 `json:"avgComments"`
	AvgEngagementRate float64 `json:"avgEngagementRate"`
	TopPostID         string  `json:"topPostId,omitempty"`
}

// Summarize totals the batch. AvgEngagementRate is the rounded mean of the
// per-post engagement rates; no separate account-level rate is derived.
func Summarize(posts []types.Post) Summary {
	s := Summary{Posts: len(posts)}
	if len(posts) == 0 {
		return s
	}

	rates := make([]float64, 0, len(posts))
	var best float64 = -1
	for _, p := range posts {
		m := p.Metrics
		s.TotalViews += m.ViewsOrZero()
		s.TotalLikes += m.Likes
		s.TotalComments += m.Comments
		s.TotalShares += m.SharesOrZero()
		s.TotalSaves += m.SavesOrZero()
		rates = append(rates, p.EngagementRate)

		if v := score(p); v > best {
			best = v
			s.TopPostID = p.ID
		}
	}

	n := float64(len(posts))
	s.AvgLikes = round1(float64(s.TotalLikes) / n)
	s.AvgComments = round1(float64(s.TotalComments) / n)
	s.AvgEngagementRate = round1(mean(rates))
	return s
}
