// Package fixtures provides the embedded demo datasets served when live data is unavailable.
// The data is static; nothing here generates or randomizes records.
package fixtures

import (
	"embed"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/creator-analytics/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var files embed.FS

// DemoAccount is the sample dashboard dataset.
type DemoAccount struct {
	Platform  types.Platform
	Followers int64
	Posts     []types.Post
}

// DemoTrends is the per-source demo trend data.
type DemoTrends struct {
	HashtagStats types.HashtagStats
	HashtagPosts []types.HashtagPost
	Reddit       []types.RedditTrend
	TikTok       []types.TikTokTrend
}

type postsFile struct {
	Platform  string     `yaml:"platform"`
	Followers int64      `yaml:"followers"`
	Posts     []postYAML `yaml:"posts"`
}

type postYAML struct {
	ID          string    `yaml:"id"`
	Caption     string    `yaml:"caption"`
	ContentType string    `yaml:"contentType"`
	PublishedAt time.Time `yaml:"publishedAt"`
	Views       int64     `yaml:"views"`
	Likes       int64     `yaml:"likes"`
	Comments    int64     `yaml:"comments"`
	Shares      int64     `yaml:"shares"`
	Engagement  float64   `yaml:"engagement"`
	Hashtags    []string  `yaml:"hashtags"`
	Mentions    []string  `yaml:"mentions"`
	TaggedUsers []string  `yaml:"taggedUsers"`
	Location    string    `yaml:"location"`
	Song        string    `yaml:"song"`
	Artist      string    `yaml:"artist"`
}

type trendsFile struct {
	Instagram struct {
		Stats struct {
			Hashtag   string   `yaml:"hashtag"`
			PostCount int64    `yaml:"postCount"`
			Trend     string   `yaml:"trend"`
			Related   []string `yaml:"related"`
		} `yaml:"stats"`
		Posts []struct {
			ID          string    `yaml:"id"`
			URL         string    `yaml:"url"`
			Caption     string    `yaml:"caption"`
			Owner       string    `yaml:"owner"`
			Likes       int64     `yaml:"likes"`
			Comments    int64     `yaml:"comments"`
			PublishedAt time.Time `yaml:"publishedAt"`
		} `yaml:"posts"`
	} `yaml:"instagram"`
	Reddit []struct {
		ID        string    `yaml:"id"`
		Title     string    `yaml:"title"`
		Subreddit string    `yaml:"subreddit"`
		Upvotes   int64     `yaml:"upvotes"`
		Comments  int64     `yaml:"comments"`
		URL       string    `yaml:"url"`
		CreatedAt time.Time `yaml:"createdAt"`
	} `yaml:"reddit"`
	TikTok []struct {
		ID        string  `yaml:"id"`
		Product   string  `yaml:"product"`
		Category  string  `yaml:"category"`
		Score     float64 `yaml:"score"`
		PostCount int64   `yaml:"postCount"`
	} `yaml:"tiktok"`
}

type reportFile struct {
	Sections []struct {
		Icon    string   `yaml:"icon"`
		Title   string   `yaml:"title"`
		Body    string   `yaml:"body"`
		Bullets []string `yaml:"bullets"`
	} `yaml:"sections"`
}

var (
	loadAccount = sync.OnceValues(func() (*DemoAccount, error) {
		var f postsFile
		if err := decode("posts.yaml", &f); err != nil {
			return nil, err
		}
		return f.toAccount()
	})
	loadTrends = sync.OnceValues(func() (*DemoTrends, error) {
		var f trendsFile
		if err := decode("trends.yaml", &f); err != nil {
			return nil, err
		}
		return f.toTrends(), nil
	})
	loadReport = sync.OnceValues(func() ([]types.AIReportSection, error) {
		var f reportFile
		if err := decode("report.yaml", &f); err != nil {
			return nil, err
		}
		if len(f.Sections) != len(types.SectionTitles) {
			return nil, fmt.Errorf("fixture report.yaml: want %d sections, got %d", len(types.SectionTitles), len(f.Sections))
		}
		for i, s := range f.Sections {
			if s.Title != types.SectionTitles[i] {
				return nil, fmt.Errorf("fixture report.yaml: section %d is %q, want %q", i+1, s.Title, types.SectionTitles[i])
			}
		}
		sections := make([]types.AIReportSection, 0, len(f.Sections))
		for _, s := range f.Sections {
			sections = append(sections, types.AIReportSection{
				Icon:    s.Icon,
				Title:   s.Title,
				Body:    s.Body,
				Bullets: s.Bullets,
			})
		}
		return sections, nil
	})
)

// Account returns the sample dashboard dataset. Callers must not mutate the result.
func Account() (*DemoAccount, error) {
	return loadAccount()
}

// Trends returns the demo trend data. Callers must not mutate the result.
func Trends() (*DemoTrends, error) {
	return loadTrends()
}

// ReportSections returns a copy of the static report sections.
func ReportSections() ([]types.AIReportSection, error) {
	sections, err := loadReport()
	if err != nil {
		return nil, err
	}
	return append([]types.AIReportSection(nil), sections...), nil
}

func decode(name string, out any) error {
	data, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read fixture %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse fixture %s: %w", name, err)
	}
	return nil
}

func (f postsFile) toAccount() (*DemoAccount, error) {
	platform, err := types.ParsePlatform(f.Platform)
	if err != nil {
		return nil, fmt.Errorf("fixture posts.yaml: %w", err)
	}

	account := &DemoAccount{Platform: platform, Followers: f.Followers}
	for _, p := range f.Posts {
		post := types.Post{
			ID:             p.ID,
			Platform:       platform,
			Caption:        p.Caption,
			PublishedAt:    p.PublishedAt.UTC(),
			ContentType:    types.ContentType(p.ContentType),
			EngagementRate: p.Engagement,
			Hashtags:       p.Hashtags,
			Mentions:       p.Mentions,
			LocationName:   p.Location,
			Metrics: types.Metrics{
				Views:    types.Int64(p.Views),
				Likes:    p.Likes,
				Comments: p.Comments,
				Shares:   types.Int64(p.Shares),
			},
		}
		for _, u := range p.TaggedUsers {
			post.TaggedUsers = append(post.TaggedUsers, types.TaggedUser{Username: u})
		}
		if p.Song != "" {
			post.MusicInfo = &types.MusicInfo{SongName: p.Song, ArtistName: p.Artist}
		}
		account.Posts = append(account.Posts, post)
	}
	return account, nil
}

func (f trendsFile) toTrends() *DemoTrends {
	t := &DemoTrends{
		HashtagStats: types.HashtagStats{
			Hashtag:         f.Instagram.Stats.Hashtag,
			PostCount:       f.Instagram.Stats.PostCount,
			Trend:           types.TrendDirection(f.Instagram.Stats.Trend),
			RelatedHashtags: f.Instagram.Stats.Related,
		},
	}
	for _, p := range f.Instagram.Posts {
		t.HashtagPosts = append(t.HashtagPosts, types.HashtagPost{
			ID:            p.ID,
			Hashtag:       f.Instagram.Stats.Hashtag,
			URL:           p.URL,
			Caption:       p.Caption,
			OwnerUsername: p.Owner,
			Likes:         p.Likes,
			Comments:      p.Comments,
			PublishedAt:   p.PublishedAt.UTC(),
		})
	}
	for _, r := range f.Reddit {
		t.Reddit = append(t.Reddit, types.RedditTrend{
			ID:        r.ID,
			Title:     r.Title,
			Subreddit: r.Subreddit,
			Upvotes:   r.Upvotes,
			Comments:  r.Comments,
			URL:       r.URL,
			CreatedAt: r.CreatedAt.UTC(),
		})
	}
	for _, p := range f.TikTok {
		t.TikTok = append(t.TikTok, types.TikTokTrend{
			ID:          p.ID,
			ProductName: p.Product,
			Category:    p.Category,
			TrendScore:  p.Score,
			PostCount:   p.PostCount,
		})
	}
	return t
}
